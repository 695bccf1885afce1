// Package snap locates the nearest road edge to an arbitrary (lat, lon)
// query point, so a point-to-point route request can be mapped onto the
// graph's node space before a pathfinder ever runs. Uses the tidwall/rtree
// index pkg/arcflags already depends on for the spatial lookup, rather than
// a hand-rolled grid.
package snap

import (
	"errors"

	"github.com/tidwall/rtree"

	"github.com/shterrett/efficient-route-planning/pkg/geo"
	"github.com/shterrett/efficient-route-planning/pkg/graph"
)

// MaxDistanceKm bounds how far a query point may be from the nearest edge
// before it's rejected as off the road network entirely.
const MaxDistanceKm = 0.5

// ErrPointTooFar is returned when the query point is too far from any edge.
var ErrPointTooFar = errors.New("snap: point too far from road")

// Result is a point snapped onto an edge of the graph.
type Result struct {
	From, To K
	Ratio    float64 // 0 = at From, 1 = at To
	DistKm   float64 // distance from the query point to the snapped point
}

// K mirrors the node-key type this package is instantiated against. Road
// graphs key nodes by string (OSM node id), the only case pkg/snap needs:
// spatial snapping is meaningless over a time-expanded transit graph.
type K = string

// Index is a spatial index over a graph's directed edges, supporting
// nearest-edge queries by one bounding-box search padded by MaxDistanceKm
// around the query point.
type Index struct {
	tree  *rtree.RTree
	edges map[[2]float64][]*graph.Edge[K]
	g     *graph.Graph[K]
}

// Build indexes every edge of g by its endpoints' bounding box.
func Build(g *graph.Graph[K]) *Index {
	idx := &Index{tree: &rtree.RTree{}, edges: make(map[[2]float64][]*graph.Edge[K]), g: g}
	for _, n := range g.AllNodes() {
		for _, e := range g.GetEdges(n.ID) {
			to := g.GetNode(e.To)
			if to == nil {
				continue
			}
			minX, maxX := n.X, to.X
			if minX > maxX {
				minX, maxX = maxX, minX
			}
			minY, maxY := n.Y, to.Y
			if minY > maxY {
				minY, maxY = maxY, minY
			}
			key := [2]float64{minX, minY}
			idx.tree.Insert([2]float64{minX, minY}, [2]float64{maxX, maxY}, e)
			idx.edges[key] = append(idx.edges[key], e)
		}
	}
	return idx
}

// degreesPerKm is a rough conversion used only to size the search box;
// the exact distance is always recomputed with geo.PointToSegmentDist.
const degreesPerKm = 1.0 / 111.0

// Nearest returns the nearest edge to (lat, lon), expressed as lon/lat
// since that's the (X, Y) convention pkg/graph and pkg/osm use.
func (idx *Index) Nearest(lat, lon float64) (Result, error) {
	pad := MaxDistanceKm * degreesPerKm
	var best Result
	found := false

	idx.tree.Search(
		[2]float64{lon - pad, lat - pad},
		[2]float64{lon + pad, lat + pad},
		func(min, max [2]float64, value any) bool {
			e := value.(*graph.Edge[K])
			from := idx.g.GetNode(e.From)
			to := idx.g.GetNode(e.To)
			if from == nil || to == nil {
				return true
			}
			dist, ratio := geo.PointToSegmentDist(lat, lon, from.Y, from.X, to.Y, to.X)
			if !found || dist < best.DistKm {
				best = Result{From: e.From, To: e.To, Ratio: ratio, DistKm: dist}
				found = true
			}
			return true
		},
	)

	if !found || best.DistKm > MaxDistanceKm {
		return Result{}, ErrPointTooFar
	}
	return best, nil
}
