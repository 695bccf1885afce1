// Package component reduces a graph down to its largest weakly connected
// component, treating directed edges as undirected for the purpose of
// connectivity (§6's connected-component reducer collaborator).
package component

import (
	"github.com/shterrett/efficient-route-planning/pkg/graph"
	"github.com/shterrett/efficient-route-planning/pkg/pathfinder"
)

// unionFind is a disjoint-set structure over a graph's node keys, using
// path halving and union by rank, over a generic comparable key instead
// of a dense uint32 index space.
type unionFind[K comparable] struct {
	parent map[K]K
	rank   map[K]int
	size   map[K]int
}

func newUnionFind[K comparable](ids []K) *unionFind[K] {
	uf := &unionFind[K]{
		parent: make(map[K]K, len(ids)),
		rank:   make(map[K]int, len(ids)),
		size:   make(map[K]int, len(ids)),
	}
	for _, id := range ids {
		uf.parent[id] = id
		uf.size[id] = 1
	}
	return uf
}

func (uf *unionFind[K]) find(x K) K {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]] // path halving
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind[K]) union(x, y K) {
	rx, ry := uf.find(x), uf.find(y)
	if rx == ry {
		return
	}
	if uf.rank[rx] < uf.rank[ry] {
		rx, ry = ry, rx
	}
	uf.parent[ry] = rx
	uf.size[rx] += uf.size[ry]
	if uf.rank[rx] == uf.rank[ry] {
		uf.rank[rx]++
	}
}

// Reduce returns the subgraph induced by g's largest weakly connected
// component, using union-find over every edge (treated undirected).
func Reduce[K comparable](g *graph.Graph[K]) *graph.Graph[K] {
	nodes := g.AllNodes()
	if len(nodes) == 0 {
		return graph.New[K]()
	}

	ids := make([]K, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}

	uf := newUnionFind(ids)
	for _, id := range ids {
		for _, e := range g.GetEdges(id) {
			uf.union(id, e.To)
		}
	}

	var bestRoot K
	bestSize := 0
	for _, id := range ids {
		root := uf.find(id)
		if uf.size[root] > bestSize {
			bestRoot = root
			bestSize = uf.size[root]
		}
	}

	return filterToComponent(g, ids, func(id K) bool { return uf.find(id) == bestRoot })
}

// ReduceBySweep is an alternative reducer, grounded on
// original_source/src/connected_component.rs: repeatedly pick an untested
// node, run an unrestricted Dijkstra sweep from it to find every node it
// reaches, and set that aside as one component, until every node has been
// assigned to some component. The largest component becomes the induced
// subgraph, same output contract as Reduce. Kept as a cross-check: two
// independently grounded algorithms (union-find vs. repeated sweep) should
// always agree on which nodes survive.
func ReduceBySweep[K comparable](g *graph.Graph[K]) *graph.Graph[K] {
	nodes := g.AllNodes()
	if len(nodes) == 0 {
		return graph.New[K]()
	}

	untested := make(map[K]bool, len(nodes))
	for _, n := range nodes {
		untested[n.ID] = true
	}

	var best map[K]bool
	for len(untested) > 0 {
		var root K
		for id := range untested {
			root = id
			break
		}

		_, results := pathfinder.Dijkstra[K](g, root, nil)
		connected := make(map[K]bool, len(results))
		for id := range results {
			connected[id] = true
			delete(untested, id)
		}
		if best == nil || len(connected) > len(best) {
			best = connected
		}
	}

	ids := make([]K, 0, len(best))
	for id := range best {
		ids = append(ids, id)
	}
	return filterToComponent(g, ids, func(id K) bool { return best[id] })
}

// filterToComponent builds the subgraph induced by the nodes satisfying
// keep, copying every edge whose endpoints both survive.
func filterToComponent[K comparable](g *graph.Graph[K], ids []K, keep func(K) bool) *graph.Graph[K] {
	out := graph.New[K]()
	for _, id := range ids {
		if !keep(id) {
			continue
		}
		if n := g.GetNode(id); n != nil {
			out.AddNode(n.ID, n.X, n.Y)
		}
	}
	for _, id := range ids {
		if !keep(id) {
			continue
		}
		for _, e := range g.GetEdges(id) {
			if !keep(e.To) {
				continue
			}
			out.AddEdge(e.ID, e.From, e.To, e.Weight)
		}
	}
	return out
}
