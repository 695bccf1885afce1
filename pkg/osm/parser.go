// Package osm builds a routing graph from an OpenStreetMap XML extract
// (§6's OSM collaborator): a single forward streaming pass over node and way
// elements, filtered to car-accessible highways and weighted in seconds by
// pkg/roadweight.
package osm

import (
	"context"
	"fmt"
	"io"
	"log"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmxml"

	"github.com/shterrett/efficient-route-planning/pkg/graph"
	"github.com/shterrett/efficient-route-planning/pkg/roadweight"
)

// carHighways lists highway tag values accessible by car.
var carHighways = map[string]bool{
	"motorway":       true,
	"motorway_link":  true,
	"trunk":          true,
	"trunk_link":     true,
	"primary":        true,
	"primary_link":   true,
	"secondary":      true,
	"secondary_link": true,
	"tertiary":       true,
	"tertiary_link":  true,
	"unclassified":   true,
	"residential":    true,
	"living_street":  true,
	"service":        true,
}

// isCarAccessible returns true if the way is drivable by car.
func isCarAccessible(tags osm.Tags) bool {
	hw := tags.Find("highway")
	if !carHighways[hw] {
		return false
	}

	// Skip area highways (pedestrian plazas).
	if tags.Find("area") == "yes" {
		return false
	}

	// Skip restricted access.
	access := tags.Find("access")
	if access == "no" || access == "private" {
		return false
	}
	if tags.Find("motor_vehicle") == "no" {
		return false
	}

	return true
}

// directionFlags returns (forward, backward) based on highway type and oneway tags.
func directionFlags(tags osm.Tags) (forward, backward bool) {
	// Default: bidirectional.
	forward = true
	backward = true

	hw := tags.Find("highway")

	// Implied oneway for motorways and roundabouts.
	if hw == "motorway" || hw == "motorway_link" || tags.Find("junction") == "roundabout" {
		backward = false
	}

	// Explicit oneway tag overrides.
	oneway := tags.Find("oneway")
	switch oneway {
	case "yes", "true", "1":
		forward = true
		backward = false
	case "-1", "reverse":
		forward = false
		backward = true
	case "no":
		forward = true
		backward = true
	case "reversible":
		// Time-dependent — skip entirely.
		forward = false
		backward = false
	}

	return forward, backward
}

// wayInfo holds parsed way data collected while scanning.
type wayInfo struct {
	NodeIDs      []osm.NodeID
	HighwayClass string
	Forward      bool
	Backward     bool
}

// BBox defines a geographic bounding box for filtering.
// If non-zero, only edges with both endpoints inside the box are kept.
type BBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// IsZero returns true if the bbox is unset.
func (b BBox) IsZero() bool {
	return b.MinLat == 0 && b.MaxLat == 0 && b.MinLng == 0 && b.MaxLng == 0
}

// Contains returns true if the point is inside the bounding box.
func (b BBox) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

// ParseOptions configures the OSM parser.
type ParseOptions struct {
	BBox BBox // if non-zero, filter edges to this bounding box
}

func nodeKey(id osm.NodeID) string {
	return strconv.FormatInt(int64(id), 10)
}

// Parse reads an OSM XML extract and returns a routing graph keyed by
// string-formatted OSM node ids, with edges weighted in seconds.
//
// A standard .osm XML document lists every <node> element before the <way>
// elements that reference it, so a single forward pass suffices: node
// coordinates are recorded as they stream by, and way geometry is resolved
// against them once the way element arrives.
func Parse(ctx context.Context, r io.Reader, opts ...ParseOptions) (*graph.Graph[string], error) {
	var opt ParseOptions
	if len(opts) > 0 {
		opt = opts[0]
	}
	useBBox := !opt.BBox.IsZero()

	nodePoints := make(map[osm.NodeID]orb.Point)
	var ways []wayInfo

	scanner := osmxml.New(ctx, r)
	defer scanner.Close()

	for scanner.Scan() {
		switch obj := scanner.Object().(type) {
		case *osm.Node:
			nodePoints[obj.ID] = orb.Point{obj.Lon, obj.Lat}
		case *osm.Way:
			if !isCarAccessible(obj.Tags) {
				continue
			}
			if len(obj.Nodes) < 2 {
				continue
			}
			fwd, bwd := directionFlags(obj.Tags)
			if !fwd && !bwd {
				continue
			}
			nodeIDs := make([]osm.NodeID, len(obj.Nodes))
			for i, wn := range obj.Nodes {
				nodeIDs[i] = wn.ID
			}
			ways = append(ways, wayInfo{
				NodeIDs:      nodeIDs,
				HighwayClass: obj.Tags.Find("highway"),
				Forward:      fwd,
				Backward:     bwd,
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("osm: scanning xml: %w", err)
	}

	log.Printf("osm: scanned %d node coordinates, %d car-accessible ways", len(nodePoints), len(ways))

	g := graph.New[string]()
	seen := make(map[osm.NodeID]bool)
	var skippedEdges, unrecognizedClass, bboxFiltered int

	for wi, w := range ways {
		for i := 0; i < len(w.NodeIDs)-1; i++ {
			fromID := w.NodeIDs[i]
			toID := w.NodeIDs[i+1]

			fromPt, fromOk := nodePoints[fromID]
			toPt, toOk := nodePoints[toID]

			if !fromOk || !toOk {
				skippedEdges++
				continue
			}
			fromLon, fromLat := fromPt[0], fromPt[1]
			toLon, toLat := toPt[0], toPt[1]

			// Bounding box filter: skip edges with any endpoint outside.
			if useBBox && (!opt.BBox.Contains(fromLat, fromLon) || !opt.BBox.Contains(toLat, toLon)) {
				bboxFiltered++
				continue
			}

			weight, ok := roadweight.Weight(fromLat, fromLon, toLat, toLon, w.HighwayClass)
			if !ok {
				unrecognizedClass++
				continue
			}

			if !seen[fromID] {
				g.AddNode(nodeKey(fromID), fromLon, fromLat)
				seen[fromID] = true
			}
			if !seen[toID] {
				g.AddNode(nodeKey(toID), toLon, toLat)
				seen[toID] = true
			}

			if w.Forward {
				g.AddEdge(fmt.Sprintf("w%d-%d-f", wi, i), nodeKey(fromID), nodeKey(toID), weight)
			}
			if w.Backward {
				g.AddEdge(fmt.Sprintf("w%d-%d-b", wi, i), nodeKey(toID), nodeKey(fromID), weight)
			}
		}
	}

	if skippedEdges > 0 {
		log.Printf("osm: skipped %d edges due to missing node coordinates", skippedEdges)
	}
	if unrecognizedClass > 0 {
		log.Printf("osm: skipped %d edges with no recognised highway speed class", unrecognizedClass)
	}
	if bboxFiltered > 0 {
		log.Printf("osm: filtered %d edges outside bounding box", bboxFiltered)
	}
	log.Printf("osm: built graph with %d nodes", g.NumNodes())

	return g, nil
}
