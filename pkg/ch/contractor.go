package ch

import (
	"container/heap"
	"fmt"
	"log"

	"github.com/shterrett/efficient-route-planning/pkg/graph"
	"gonum.org/v1/gonum/stat"
)

// Result is the outcome of Contract: every node's final contraction order
// and a count of shortcuts added, for callers that want to report
// preprocessing stats without re-walking the graph.
type Result[K comparable] struct {
	Order          map[K]int64
	ShortcutsAdded int
}

// computeEdgeDifference simulates contracting id (§4.5 "count_only" mode):
// toggle its incident live edges off, count how many shortcuts a witness
// search says are needed among its neighbours, then restore the edges,
// leaving the graph unchanged. Returns
// shortcuts_that_would_be_added - 2*|neighbours|.
func computeEdgeDifference[K comparable](g *graph.Graph[K], id K) int {
	neighbors := liveNeighbors(g, id)
	if len(neighbors) == 0 {
		return 0
	}

	incomingWeight := make(map[K]int64, len(neighbors))
	outgoingWeight := make(map[K]int64, len(neighbors))
	for _, n := range neighbors {
		incomingWeight[n] = edgeWeight(g, n, id)
		outgoingWeight[n] = edgeWeight(g, id, n)
	}

	toggled := toggleIncident(g, id, neighbors, false)

	needed := 0
	for _, u := range neighbors {
		for _, w := range neighbors {
			if u == w {
				continue
			}
			weightAcross := incomingWeight[u] + outgoingWeight[w]
			_, witness := localShortestPath(g, u, w, localSearchNodeBudget, weightAcross)
			if best, ok := witness[w]; !ok || best.Cost > weightAcross {
				needed++
			}
		}
	}

	for _, e := range toggled {
		e.ArcFlag = true
	}

	return needed - 2*len(neighbors)
}

// contractNode performs the real contraction of id: removes its incident
// live edges (marking them contracted), adds whatever shortcuts the
// witness search says are needed among its former neighbours, and assigns
// it the given contraction order. Returns the number of shortcuts added.
func contractNode[K comparable](g *graph.Graph[K], id K, order int64, nextShortcutID *int) int {
	neighbors := liveNeighbors(g, id)
	weightViaID := make(map[K]int64, len(neighbors))
	for _, n := range neighbors {
		weightViaID[n] = edgeWeight(g, id, n)
	}
	incomingWeight := make(map[K]int64, len(neighbors))
	for _, n := range neighbors {
		incomingWeight[n] = edgeWeight(g, n, id)
	}

	toggleIncident(g, id, neighbors, false)

	added := 0
	for _, u := range neighbors {
		for _, w := range neighbors {
			if u == w {
				continue
			}
			weightAcross := incomingWeight[u] + weightViaID[w]
			_, witness := localShortestPath(g, u, w, localSearchNodeBudget, weightAcross)
			if best, ok := witness[w]; !ok || best.Cost > weightAcross {
				*nextShortcutID++
				sid := fmt.Sprintf("shortcut:%d", *nextShortcutID)
				g.AddShortcut(sid, u, w, weightAcross, id)
				added++
			}
		}
	}

	if node := g.GetMutNode(id); node != nil {
		node.ContractionOrder = &order
	}

	return added
}

// orderEntry is a node's current position in the contraction-ordering
// heap, keyed by edge difference (lower contracts first).
type orderEntry[K comparable] struct {
	id       K
	priority int
	index    int
}

type orderHeap[K comparable] []*orderEntry[K]

func (h orderHeap[K]) Len() int           { return len(h) }
func (h orderHeap[K]) Less(i, j int) bool { return h[i].priority < h[j].priority }
func (h orderHeap[K]) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *orderHeap[K]) Push(x any) {
	entry := x.(*orderEntry[K])
	entry.index = len(*h)
	*h = append(*h, entry)
}

func (h *orderHeap[K]) Pop() any {
	old := *h
	n := len(old)
	entry := old[n-1]
	old[n-1] = nil
	entry.index = -1
	*h = old[:n-1]
	return entry
}

// Contract runs §4.5's Contraction Hierarchies preprocessing over g in
// place: initializes every edge as live, orders nodes by edge difference
// with lazy priority recomputation, contracts them one at a time adding
// shortcuts, and finally rewrites every edge's ArcFlag to the
// increasing-contraction-order upward mask the query layer relies on.
func Contract[K comparable](g *graph.Graph[K]) Result[K] {
	nodes := g.AllNodes()
	for _, n := range nodes {
		for _, e := range g.GetEdges(n.ID) {
			e.ArcFlag = true
		}
	}

	pq := make(orderHeap[K], 0, len(nodes))
	for _, n := range nodes {
		heap.Push(&pq, &orderEntry[K]{id: n.ID, priority: computeEdgeDifference(g, n.ID)})
	}

	order := make(map[K]int64, len(nodes))
	var nextShortcutID int
	var totalShortcuts int
	var current int64

	// tolerance lets a popped entry's stale priority stand without a forced
	// recompute-and-repush as long as the recomputed value hasn't drifted
	// past it by more than tolerance. It starts at zero (exact lazy update)
	// and is re-derived from the spread of the remaining queue below, so
	// once the remaining edge differences settle down, staleness within
	// that settled band is accepted rather than paid for with a repush.
	var tolerance float64

	log.Printf("contracting %d nodes", len(nodes))
	logEvery := len(nodes) / 10
	if logEvery == 0 {
		logEvery = 1
	}

	for pq.Len() > 0 {
		entry := heap.Pop(&pq).(*orderEntry[K])

		recomputed := computeEdgeDifference(g, entry.id)
		if float64(recomputed) > float64(entry.priority)+tolerance {
			entry.priority = recomputed
			heap.Push(&pq, entry)
			continue
		}

		current++
		added := contractNode(g, entry.id, current, &nextShortcutID)
		order[entry.id] = current
		totalShortcuts += added

		if int(current)%logEvery == 0 {
			remaining := make([]float64, 0, pq.Len())
			for _, e := range pq {
				remaining = append(remaining, float64(e.priority))
			}
			if len(remaining) > 0 {
				mean, stddev := stat.MeanStdDev(remaining, nil)
				tolerance = stddev * 0.5
				log.Printf("contracted %d/%d nodes, %d shortcuts so far, remaining edge-difference mean=%.1f stddev=%.1f, lazy-update tolerance=%.1f",
					current, len(nodes), totalShortcuts, mean, stddev, tolerance)
			}
		}
	}

	for _, n := range nodes {
		for _, e := range g.GetEdges(n.ID) {
			e.ArcFlag = order[e.To] > order[e.From]
		}
	}

	log.Printf("contraction complete: %d shortcuts added across %d nodes", totalShortcuts, len(nodes))

	return Result[K]{Order: order, ShortcutsAdded: totalShortcuts}
}
