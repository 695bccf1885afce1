// Package roadweight holds the recognised-highway-class speed table used to
// turn an OSM way segment into an edge weight in seconds, and the
// great-circle heuristic's "fastest possible road class" constant.
package roadweight

import "github.com/shterrett/efficient-route-planning/pkg/geo"

// speedKmh is the recognised highway-class speed table, in km/h.
var speedKmh = map[string]int{
	"motorway":       110,
	"trunk":          110,
	"primary":        70,
	"secondary":      60,
	"tertiary":       50,
	"motorway_link":  50,
	"trunk_link":     50,
	"primary_link":   50,
	"secondary_link": 50,
	"road":           40,
	"unclassified":   40,
	"residential":    30,
	"unsurfaced":     30,
	"living_street":  10,
	"service":        5,
}

// MaxSpeedKmh is the fastest speed in the table (motorway). The great-circle
// heuristic divides by this to guarantee admissibility: no edge in a graph
// built from this table can have a higher effective speed.
const MaxSpeedKmh = 110

// Weight returns the travel time in seconds for an edge between (lat1,lon1)
// and (lat2,lon2) tagged with the given OSM highway class, truncated to an
// integer. ok is false when the class is not in the recognised table, in
// which case the edge should be skipped entirely (per §6's ingestion rule).
func Weight(lat1, lon1, lat2, lon2 float64, highwayClass string) (seconds int64, ok bool) {
	speed, known := speedKmh[highwayClass]
	if !known {
		return 0, false
	}
	km := geo.Haversine(lat1, lon1, lat2, lon2)
	hours := km / float64(speed)
	return int64(hours * 3600), true
}

// Speed reports the recognised speed (km/h) for a highway class, and
// whether the class is recognised at all.
func Speed(highwayClass string) (kmh int, ok bool) {
	speed, known := speedKmh[highwayClass]
	return speed, known
}
