// Package routing wires pkg/snap and pkg/ch together into the point-to-point
// query a user-facing request actually needs: snap both endpoints onto the
// road graph, run a Contraction Hierarchies query between the nearest nodes,
// and return the path as a sequence of coordinates with its total cost.
package routing

import (
	"context"
	"errors"

	"github.com/shterrett/efficient-route-planning/pkg/ch"
	"github.com/shterrett/efficient-route-planning/pkg/graph"
	"github.com/shterrett/efficient-route-planning/pkg/snap"
)

// ErrNoRoute is returned when no route exists between the two points.
var ErrNoRoute = errors.New("no route found")

// ErrPointTooFar is returned when a query point snaps to no nearby edge.
var ErrPointTooFar = snap.ErrPointTooFar

// LatLng is a geographic coordinate.
type LatLng struct {
	Lat float64
	Lng float64
}

// RouteResult is the output of a route query.
type RouteResult struct {
	TotalSeconds int64
	Path         []LatLng
}

// Router answers point-to-point route queries.
type Router interface {
	Route(ctx context.Context, start, end LatLng) (*RouteResult, error)
}

// Engine implements Router over a contracted road graph.
type Engine struct {
	g   *graph.Graph[string]
	idx *snap.Index
}

// NewEngine builds the spatial snap index for g. g is expected to already
// have been through ch.Contract.
func NewEngine(g *graph.Graph[string]) *Engine {
	return &Engine{g: g, idx: snap.Build(g)}
}

// Route snaps start and end onto the nearest road edge, then answers with
// a Contraction Hierarchies query between the closer endpoint of each
// snapped edge. This ignores the sub-edge offset between the true snap
// point and the chosen endpoint, trading a small amount of precision right
// at the query's two ends for not having to seed the CH search with
// partial-edge states.
func (e *Engine) Route(ctx context.Context, start, end LatLng) (*RouteResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	startNode, err := e.nearestNode(start)
	if err != nil {
		return nil, err
	}
	endNode, err := e.nearestNode(end)
	if err != nil {
		return nil, err
	}

	cost, path, ok := ch.Query(e.g, startNode, endNode)
	if !ok {
		return nil, ErrNoRoute
	}

	coords := make([]LatLng, 0, len(path))
	for _, id := range path {
		n := e.g.GetNode(id)
		if n == nil {
			continue
		}
		coords = append(coords, LatLng{Lat: n.Y, Lng: n.X})
	}

	return &RouteResult{TotalSeconds: cost, Path: coords}, nil
}

// nearestNode snaps ll to the nearest edge and returns whichever endpoint
// the snap ratio is closer to.
func (e *Engine) nearestNode(ll LatLng) (string, error) {
	result, err := e.idx.Nearest(ll.Lat, ll.Lng)
	if err != nil {
		return "", err
	}
	if result.Ratio < 0.5 {
		return result.From, nil
	}
	return result.To, nil
}
