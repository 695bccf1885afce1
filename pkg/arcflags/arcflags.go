// Package arcflags implements single-region Arc-Flags preprocessing and the
// query that consumes it. A boundary-node sweep over the (assumed
// symmetric) graph marks every edge that lies on some shortest path into the
// region; queries then restrict the pathfinder's edge iterator to
// arc-flag-true edges.
package arcflags

import (
	"github.com/shterrett/efficient-route-planning/pkg/graph"
	"github.com/shterrett/efficient-route-planning/pkg/pathfinder"
	"github.com/tidwall/rtree"
)

// Region is an axis-aligned rectangle in (x, y) node-coordinate space.
// Membership is inclusive of the border.
type Region struct {
	XMin, XMax, YMin, YMax float64
}

// Contains reports whether (x, y) lies inside or on the border of r.
func (r Region) Contains(x, y float64) bool {
	return x <= r.XMax && x >= r.XMin && y <= r.YMax && y >= r.YMin
}

// index wraps a tidwall/rtree.RTree for the node-coordinate range queries
// Arc-Flags needs (internal-node membership, boundary detection). The
// reference algorithm does a linear scan over all_nodes(); for road-network
// scale graphs an R-tree turns that into a proper range query.
type index[K comparable] struct {
	tree *rtree.RTree
	ids  map[[2]float64][]K // coordinate bucket -> node ids sharing it
}

func newIndex[K comparable](g *graph.Graph[K]) *index[K] {
	idx := &index[K]{tree: &rtree.RTree{}, ids: make(map[[2]float64][]K)}
	for _, n := range g.AllNodes() {
		key := [2]float64{n.X, n.Y}
		idx.tree.Insert([2]float64{n.X, n.Y}, [2]float64{n.X, n.Y}, n.ID)
		idx.ids[key] = append(idx.ids[key], n.ID)
	}
	return idx
}

func (idx *index[K]) within(r Region) []K {
	var out []K
	idx.tree.Search([2]float64{r.XMin, r.YMin}, [2]float64{r.XMax, r.YMax},
		func(min, max [2]float64, value any) bool {
			out = append(out, value.(K))
			return true
		})
	return out
}

// Assign runs §4.4's preprocessing: identifies internal and boundary nodes
// of region, runs a full Dijkstra from each boundary node (the stored graph
// is assumed symmetric, so a forward sweep on the original graph stands in
// for a reverse-graph sweep — see DESIGN.md for the explicit symmetry
// assumption this relies on), and flags every edge it settles plus every
// all-interior edge.
func Assign[K comparable](g *graph.Graph[K], region Region) {
	idx := newIndex(g)
	internal := idx.within(region)

	for _, b := range internal {
		if !isBoundaryNode(g, region, b) {
			continue
		}
		_, results := pathfinder.Dijkstra[K](g, b, nil)
		for id, best := range results {
			if best.Predecessor == nil {
				continue
			}
			if e := g.GetMutEdge(id, *best.Predecessor); e != nil {
				e.ArcFlag = true
			}
		}
	}

	for _, from := range internal {
		for _, to := range internal {
			if e := g.GetMutEdge(from, to); e != nil {
				e.ArcFlag = true
			}
		}
	}
}

func isBoundaryNode[K comparable](g *graph.Graph[K], region Region, id K) bool {
	node := g.GetNode(id)
	if node == nil || !region.Contains(node.X, node.Y) {
		return false
	}
	for _, e := range g.GetEdges(id) {
		to := g.GetNode(e.To)
		if to != nil && !region.Contains(to.X, to.Y) {
			return true
		}
	}
	return false
}

// ShortestPath answers a query with the edge iterator restricted to
// arc-flag-true edges. Correctness requires target to lie inside the region
// used during Assign (single-region variant; multi-region is out of scope).
func ShortestPath[K comparable](g *graph.Graph[K], source K, target *K) (int64, map[K]pathfinder.CurrentBest[K]) {
	pf := pathfinder.New[K](nil, pathfinder.LiveEdges[K], nil)
	return pf.ShortestPath(g, source, target)
}
