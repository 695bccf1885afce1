// Package transitnodes implements §4.6 Transit-Node Routing: selecting a
// small transit-node set from the top of a Contraction Hierarchy, an
// all-pairs inter-transit distance matrix, and the min-over-transit-pairs
// query that consumes both.
package transitnodes

import (
	"math"
	"sort"

	"github.com/shterrett/efficient-route-planning/pkg/ch"
	"github.com/shterrett/efficient-route-planning/pkg/graph"
	"github.com/shterrett/efficient-route-planning/pkg/pathfinder"
)

// Preprocess runs Contraction Hierarchy preprocessing on g (mutating it,
// same as ch.Contract) and returns the transit-node set: the top
// floor(sqrt(N)) nodes by contraction order, contracted last.
func Preprocess[K comparable](g *graph.Graph[K]) (transitNodes []K, order map[K]int64) {
	result := ch.Contract(g)
	n := len(result.Order)
	t := int(math.Floor(math.Sqrt(float64(n))))

	type ranked struct {
		id    K
		order int64
	}
	all := make([]ranked, 0, n)
	for id, ord := range result.Order {
		all = append(all, ranked{id, ord})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].order > all[j].order })

	if t > len(all) {
		t = len(all)
	}
	transitNodes = make([]K, 0, t)
	for i := 0; i < t; i++ {
		transitNodes = append(transitNodes, all[i].id)
	}

	return transitNodes, result.Order
}

// NeighboringTransitNodes runs an upward sweep from origin and, for every
// settled node, walks its predecessor chain to find the first transit node
// encountered (origin itself counts if it is one). The sweep's own cost to
// each first-transit ancestor is what gets recorded — §4.5's upward query
// and this sweep are the same search, so no second query is needed to
// recover the distance.
func NeighboringTransitNodes[K comparable](g *graph.Graph[K], transitNodes []K, origin K) map[K]int64 {
	isTransit := make(map[K]bool, len(transitNodes))
	for _, tn := range transitNodes {
		isTransit[tn] = true
	}

	_, results := ch.ShortestPathUpward(g, origin, nil)

	out := make(map[K]int64)
	for id := range results {
		tn, ok := firstTransitNode(id, results, isTransit)
		if !ok {
			continue
		}
		if _, exists := out[tn]; !exists {
			out[tn] = results[tn].Cost
		}
	}
	return out
}

// firstTransitNode walks id's predecessor chain (as recorded in results)
// looking for the first transit node, starting at id itself.
func firstTransitNode[K comparable](id K, results map[K]pathfinder.CurrentBest[K], isTransit map[K]bool) (K, bool) {
	current := id
	for {
		if isTransit[current] {
			return current, true
		}
		best, ok := results[current]
		if !ok || best.Predecessor == nil {
			var zero K
			return zero, false
		}
		current = *best.Predecessor
	}
}

// PairwiseTransitDistances computes the all-pairs inter-transit distance
// matrix via plain Dijkstra (unrestricted by arc flags — §4.6 step 3's
// "D[tn_i, tn_j] via plain Dijkstra between every pair").
func PairwiseTransitDistances[K comparable](g *graph.Graph[K], transitNodes []K) map[[2]K]int64 {
	out := make(map[[2]K]int64, len(transitNodes)*len(transitNodes))
	for _, from := range transitNodes {
		for _, to := range transitNodes {
			if from == to {
				out[[2]K{from, to}] = 0
				continue
			}
			cost, _ := pathfinder.Dijkstra[K](g, from, &to)
			out[[2]K{from, to}] = cost
		}
	}
	return out
}

// Query answers a point-to-point request as the minimum, over every pair
// of transit nodes reachable from origin and destination respectively, of
// source_transits[o][tn_i] + D[tn_i, tn_j] + destination_transits[d][tn_j].
// Returns the winning transit pair alongside the cost.
func Query[K comparable](sourceTransits, destinationTransits map[K]int64, interTransit map[[2]K]int64) (cost int64, from, to K, ok bool) {
	best := int64(-1)
	for src, srcDist := range sourceTransits {
		for dst, dstDist := range destinationTransits {
			inter, known := interTransit[[2]K{src, dst}]
			if !known {
				continue
			}
			total := srcDist + inter + dstDist
			if !ok || total < best {
				best = total
				from = src
				to = dst
				ok = true
			}
		}
	}
	return best, from, to, ok
}
