// Package ch implements Contraction Hierarchies: edge-difference node
// ordering, iterative contraction with shortcut insertion, the
// increasing-order arc-flag rewrite, and the queries that consume the
// result — a one-sided upward search plus a bidirectional query with
// shortcut unpacking.
package ch

import (
	"github.com/shterrett/efficient-route-planning/pkg/graph"
	"github.com/shterrett/efficient-route-planning/pkg/pathfinder"
)

// localSearchNodeBudget bounds the witness search run when deciding whether
// a shortcut is needed, capped at 20 settled nodes.
const localSearchNodeBudget = 20

// localShortestPath is contraction.rs's local_shortest_path: a pathfinder
// run restricted to live (ArcFlag == true) edges, capped by a node-count
// budget and a cost ceiling, used both to rank nodes by edge difference and
// to decide whether a given (u, w) pair still needs a shortcut.
func localShortestPath[K comparable](g *graph.Graph[K], source, target K, maxNodes int, maxCost int64) (int64, map[K]pathfinder.CurrentBest[K]) {
	terminator := func(current pathfinder.CurrentBest[K], results map[K]pathfinder.CurrentBest[K]) bool {
		return len(results) >= maxNodes || current.Cost >= maxCost
	}
	pf := pathfinder.New[K](nil, pathfinder.LiveEdges[K], terminator)
	return pf.ShortestPath(g, source, &target)
}

// liveNeighbors returns the distinct nodes reachable from id via a live
// outgoing edge. The graph is assumed symmetric (an input property per
// §3), so the same set also describes id's live incoming neighbours.
func liveNeighbors[K comparable](g *graph.Graph[K], id K) []K {
	seen := make(map[K]bool)
	var out []K
	for _, e := range g.GetEdges(id) {
		if !e.ArcFlag || seen[e.To] {
			continue
		}
		seen[e.To] = true
		out = append(out, e.To)
	}
	return out
}

// edgeWeight returns the weight of the first live edge from -> to, or 0 if
// none exists (matching contraction.rs's edge_weight, which returns 0 for
// "no such edge" since weight_across_node callers only use it when an edge
// is already known to exist).
func edgeWeight[K comparable](g *graph.Graph[K], from, to K) int64 {
	for _, e := range g.GetEdges(from) {
		if e.To == to && e.ArcFlag {
			return e.Weight
		}
	}
	return 0
}

// toggleIncident flips ArcFlag to live on every edge between id and each of
// neighbors (both directions) and returns the toggled edges so the caller
// can restore them. This is contraction.rs's remove_from_graph generalised
// to also support a restore pass (count_only mode, §4.5).
func toggleIncident[K comparable](g *graph.Graph[K], id K, neighbors []K, live bool) []*graph.Edge[K] {
	var toggled []*graph.Edge[K]
	for _, n := range neighbors {
		if e := findLiveableEdge(g, id, n); e != nil {
			e.ArcFlag = live
			toggled = append(toggled, e)
		}
		if e := findLiveableEdge(g, n, id); e != nil {
			e.ArcFlag = live
			toggled = append(toggled, e)
		}
	}
	return toggled
}

// findLiveableEdge returns the first edge from -> to regardless of its
// current ArcFlag value (GetMutEdge already does this; named separately
// here to document that toggling intentionally ignores the current flag).
func findLiveableEdge[K comparable](g *graph.Graph[K], from, to K) *graph.Edge[K] {
	return g.GetMutEdge(from, to)
}
