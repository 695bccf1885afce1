// Package heuristic implements two A* heuristics: the great-circle (road)
// heuristic and the landmark (ALT) heuristic.
package heuristic

import (
	"github.com/shterrett/efficient-route-planning/pkg/geo"
	"github.com/shterrett/efficient-route-planning/pkg/graph"
	"github.com/shterrett/efficient-route-planning/pkg/pathfinder"
	"github.com/shterrett/efficient-route-planning/pkg/roadweight"
)

// GreatCircle converts node coordinates (interpreted as longitude/latitude
// degrees, i.e. X = lon, Y = lat) to a haversine distance and divides by the
// fastest recognised road-class speed, guaranteeing admissibility on graphs
// where every edge's effective speed is at most motorway speed.
func GreatCircle[K comparable]() pathfinder.Heuristic[K] {
	return func(from, target *graph.Node[K]) int64 {
		if from == nil || target == nil {
			return 0
		}
		km := geo.Haversine(from.Y, from.X, target.Y, target.X)
		hours := km / roadweight.MaxSpeedKmh
		return int64(hours * 3600)
	}
}
