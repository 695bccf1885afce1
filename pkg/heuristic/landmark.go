package heuristic

import (
	"math/rand"

	"github.com/shterrett/efficient-route-planning/pkg/graph"
	"github.com/shterrett/efficient-route-planning/pkg/pathfinder"
)

// DefaultLandmarkCount is the suggested baseline landmark count.
const DefaultLandmarkCount = 16

// SelectLandmarks picks k nodes uniformly at random from the graph. This is
// the baseline landmark-selection strategy; farthest-point or avoid-style
// selection is out of scope.
func SelectLandmarks[K comparable](g *graph.Graph[K], k int) []K {
	nodes := g.AllNodes()
	rand.Shuffle(len(nodes), func(i, j int) { nodes[i], nodes[j] = nodes[j], nodes[i] })

	if k > len(nodes) {
		k = len(nodes)
	}
	ids := make([]K, k)
	for i := 0; i < k; i++ {
		ids[i] = nodes[i].ID
	}
	return ids
}

// BuildLandmarkDistances runs single-source Dijkstra from every landmark and
// records the full distance map for each.
func BuildLandmarkDistances[K comparable](g *graph.Graph[K], landmarks []K) []map[K]int64 {
	out := make([]map[K]int64, len(landmarks))
	for i, landmark := range landmarks {
		_, results := pathfinder.Dijkstra[K](g, landmark, nil)
		dist := make(map[K]int64, len(results))
		for id, r := range results {
			dist[id] = r.Cost
		}
		out[i] = dist
	}
	return out
}

// Landmark builds the ALT heuristic: for each landmark L, the triangle
// inequality gives h_L(u,t) = |dist(L,u) - dist(L,t)|; the heuristic is the
// max over all landmarks that have both u and t in their distance map (a
// landmark whose search never reached one of the two contributes nothing).
func Landmark[K comparable](landmarkDistances []map[K]int64) pathfinder.Heuristic[K] {
	return func(from, target *graph.Node[K]) int64 {
		if from == nil || target == nil {
			return 0
		}
		var best int64
		found := false
		for _, dist := range landmarkDistances {
			du, ok1 := dist[from.ID]
			dt, ok2 := dist[target.ID]
			if !ok1 || !ok2 {
				continue
			}
			diff := du - dt
			if diff < 0 {
				diff = -diff
			}
			if !found || diff > best {
				best = diff
				found = true
			}
		}
		return best
	}
}

// BuildLandmarkHeuristic is the convenience entry point mirroring the
// reference's build_landmark_heuristic: select k landmarks, precompute their
// distance tables, and return the resulting heuristic.
func BuildLandmarkHeuristic[K comparable](g *graph.Graph[K], numLandmarks int) pathfinder.Heuristic[K] {
	landmarks := SelectLandmarks(g, numLandmarks)
	distances := BuildLandmarkDistances(g, landmarks)
	return Landmark[K](distances)
}
