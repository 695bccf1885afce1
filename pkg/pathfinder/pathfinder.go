// Package pathfinder implements the engine's one search algorithm: a
// best-first search parameterised by a heuristic, an edge filter, and a
// terminator. Dijkstra, A*, Arc-Flags' restricted search, and Contraction
// Hierarchies' local witness search are all this same loop with different
// policies plugged in.
package pathfinder

import (
	"container/heap"

	"github.com/shterrett/efficient-route-planning/pkg/graph"
)

// Heuristic estimates the remaining cost from a node to target. It must
// return 0 when target is nil. Admissible and consistent heuristics
// (h(u,t) <= true_shortest(u,t)) are required for A* optimality; Dijkstra
// plugs in the always-zero heuristic.
type Heuristic[K comparable] func(from, target *graph.Node[K]) int64

// EdgeIterator returns the edges the search is allowed to relax out of id.
// Dijkstra uses every outgoing edge; Arc-Flags and CH's local search filter
// down to edges with ArcFlag == true.
type EdgeIterator[K comparable] func(g *graph.Graph[K], id K) []*graph.Edge[K]

// CurrentBest is a settlement record: the best known cost to reach ID, and
// the predecessor that achieved it. Predecessor is nil for search sources.
type CurrentBest[K comparable] struct {
	ID          K
	Cost        int64
	Predecessor *K
}

// Terminator is an additional stopping predicate evaluated against the node
// the search just popped, and the results accumulated so far. It lets local
// searches (contraction witness search) cap by node count or cost ceiling
// without threading that logic through the core loop.
type Terminator[K comparable] func(current CurrentBest[K], results map[K]CurrentBest[K]) bool

// AllEdges is the identity EdgeIterator: no filtering.
func AllEdges[K comparable](g *graph.Graph[K], id K) []*graph.Edge[K] {
	return g.GetEdges(id)
}

// LiveEdges filters to edges with ArcFlag == true. Arc-Flags query and the
// CH ordering/local search both use this as their edge iterator — the field
// is overloaded between "on some shortest path into the region" (Arc-Flags)
// and "not yet contracted" (CH), per the engine's documented reuse of the
// single boolean (see DESIGN.md).
func LiveEdges[K comparable](g *graph.Graph[K], id K) []*graph.Edge[K] {
	edges := g.GetEdges(id)
	out := make([]*graph.Edge[K], 0, len(edges))
	for _, e := range edges {
		if e.ArcFlag {
			out = append(out, e)
		}
	}
	return out
}

// NeverTerminate never stops the search early.
func NeverTerminate[K comparable](current CurrentBest[K], results map[K]CurrentBest[K]) bool {
	return false
}

// Pathfinder is the generic best-first search, parameterised by its three
// policies.
type Pathfinder[K comparable] struct {
	Heuristic  Heuristic[K]
	Edges      EdgeIterator[K]
	Terminator Terminator[K]
}

// New builds a Pathfinder from its three policies. A nil Heuristic is
// treated as the always-zero heuristic (Dijkstra); a nil EdgeIterator
// defaults to AllEdges; a nil Terminator defaults to NeverTerminate.
func New[K comparable](h Heuristic[K], edges EdgeIterator[K], term Terminator[K]) *Pathfinder[K] {
	if h == nil {
		h = func(from, target *graph.Node[K]) int64 { return 0 }
	}
	if edges == nil {
		edges = AllEdges[K]
	}
	if term == nil {
		term = NeverTerminate[K]
	}
	return &Pathfinder[K]{Heuristic: h, Edges: edges, Terminator: term}
}

// pqItem is a priority-queue entry keyed by f = g + h.
type pqItem[K comparable] struct {
	id    K
	f     int64
	index int
}

type pqHeap[K comparable] []*pqItem[K]

func (h pqHeap[K]) Len() int            { return len(h) }
func (h pqHeap[K]) Less(i, j int) bool  { return h[i].f < h[j].f }
func (h pqHeap[K]) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *pqHeap[K]) Push(x any) {
	item := x.(*pqItem[K])
	item.index = len(*h)
	*h = append(*h, item)
}

func (h *pqHeap[K]) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*h = old[:n-1]
	return item
}

// ShortestPath runs the search from source toward target (nil means "no
// particular target" — run to exhaustion or until the terminator fires).
// It returns the cost to target (0 if target is nil, unreachable, or equals
// source with no path needed — callers distinguish "cost 0" by checking
// source != target) along with the full settlement map.
func (pf *Pathfinder[K]) ShortestPath(g *graph.Graph[K], source K, target *K) (int64, map[K]CurrentBest[K]) {
	return pf.ShortestPathMulti(g, []K{source}, target)
}

// ShortestPathMulti is the §4.8 multi-source Set-Dijkstra generalisation:
// every node in sources is seeded at g = 0 with no predecessor, marking it
// as a source in the result map. A single-element sources slice reduces to
// the ordinary single-source search.
func (pf *Pathfinder[K]) ShortestPathMulti(g *graph.Graph[K], sources []K, target *K) (int64, map[K]CurrentBest[K]) {
	results := make(map[K]CurrentBest[K])
	pq := make(pqHeap[K], 0, len(sources))

	targetNode := (*graph.Node[K])(nil)
	if target != nil {
		targetNode = g.GetNode(*target)
	}

	for _, s := range sources {
		if _, exists := results[s]; exists {
			continue
		}
		sourceNode := g.GetNode(s)
		h := pf.Heuristic(sourceNode, targetNode)
		results[s] = CurrentBest[K]{ID: s, Cost: 0, Predecessor: nil}
		heap.Push(&pq, &pqItem[K]{id: s, f: h})
	}

	for pq.Len() > 0 {
		item := heap.Pop(&pq).(*pqItem[K])
		current := results[item.id]

		if target != nil && current.ID == *target {
			return current.Cost, results
		}
		if pf.Terminator(current, results) {
			return current.Cost, results
		}

		for _, edge := range pf.Edges(g, current.ID) {
			tentative := current.Cost + edge.Weight
			best, ok := results[edge.To]
			if ok && tentative >= best.Cost {
				continue
			}

			to := edge.To
			results[to] = CurrentBest[K]{ID: to, Cost: tentative, Predecessor: &current.ID}
			toNode := g.GetNode(to)
			h := pf.Heuristic(toNode, targetNode)
			heap.Push(&pq, &pqItem[K]{id: to, f: tentative + h})
		}
	}

	return 0, results
}

// Dijkstra is the pathfinder with h == 0, no edge filter, no early
// terminator: §4.2's "Dijkstra = pathfinder with h ≡ 0".
func Dijkstra[K comparable](g *graph.Graph[K], source K, target *K) (int64, map[K]CurrentBest[K]) {
	pf := New[K](nil, nil, nil)
	return pf.ShortestPath(g, source, target)
}

// AStar is the pathfinder with an admissible heuristic, no edge filter, no
// early terminator.
func AStar[K comparable](g *graph.Graph[K], source K, target *K, h Heuristic[K]) (int64, map[K]CurrentBest[K]) {
	pf := New[K](h, nil, nil)
	return pf.ShortestPath(g, source, target)
}

// SetDijkstra is §4.8's multi-source sweep: Dijkstra seeded from every node
// in sources simultaneously.
func SetDijkstra[K comparable](g *graph.Graph[K], sources []K, target *K) (int64, map[K]CurrentBest[K]) {
	pf := New[K](nil, nil, nil)
	return pf.ShortestPathMulti(g, sources, target)
}
