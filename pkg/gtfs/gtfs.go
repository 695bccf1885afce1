// Package gtfs builds a time-expanded transit graph (§3, §6) from a
// directory of GTFS text feeds: calendar.txt, trips.txt, stops.txt, and
// stop_times.txt. Every stop-time produces an arrival, departure, and
// transfer node; trips are chained into edges in stop-sequence order, and
// transfer nodes at a stop are linked to each other and to the next
// reachable departure, so a generic pathfinder can plan itineraries without
// ever reasoning about trip identity directly.
package gtfs

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/shterrett/efficient-route-planning/pkg/graph"
)

// transferPadding is how long after a trip's arrival its transfer node sits,
// modeling minimum dwell time for a rider to change trips at a stop.
const transferPadding = 5 * 60

// NodeKey is the 4-tuple identity of a time-expanded transit node: a stop,
// a time (seconds after midnight), a node kind ("arrival", "departure", or
// "transfer"), and the trip it belongs to ("" for transfer nodes, which
// belong to no single trip).
type NodeKey struct {
	Stop string
	Time int64
	Kind string
	Trip string
}

const (
	KindArrival   = "arrival"
	KindDeparture = "departure"
	KindTransfer  = "transfer"
)

type location struct {
	lon, lat float64
}

// BuildGraph parses gtfsDir's calendar.txt/trips.txt/stops.txt/stop_times.txt
// and assembles the time-expanded graph for the service day named by day
// (e.g. "wednesday"). Malformed CSV rows and stops with unparsable
// coordinates are dropped with a log line, matching how pkg/osm handles
// malformed input elsewhere in this engine; stop_times rows with an
// unparsable time or an unknown stop are dropped without one.
func BuildGraph(gtfsDir, day string) (*graph.Graph[NodeKey], error) {
	services, err := servicesOnDay(filepath.Join(gtfsDir, "calendar.txt"), day)
	if err != nil {
		return nil, fmt.Errorf("gtfs: reading calendar.txt: %w", err)
	}
	trips, err := tripsForServices(filepath.Join(gtfsDir, "trips.txt"), services)
	if err != nil {
		return nil, fmt.Errorf("gtfs: reading trips.txt: %w", err)
	}
	stops, err := stopsData(filepath.Join(gtfsDir, "stops.txt"))
	if err != nil {
		return nil, fmt.Errorf("gtfs: reading stops.txt: %w", err)
	}

	g, err := assembleGraph(filepath.Join(gtfsDir, "stop_times.txt"), trips, stops)
	if err != nil {
		return nil, fmt.Errorf("gtfs: reading stop_times.txt: %w", err)
	}
	return g, nil
}

// csvRows opens path and returns every row after the header, along with a
// column-name -> index lookup built from the header row.
func csvRows(path string) ([]string, func(row []string, col string) string, *csv.Reader, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		f.Close()
		return nil, nil, nil, nil, err
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	col := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	return header, col, r, f, nil
}

func servicesOnDay(path, day string) (map[string]bool, error) {
	_, col, r, f, err := csvRows(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	services := make(map[string]bool)
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("gtfs: skipping malformed calendar.txt row: %v", err)
			continue
		}
		if col(row, day) == "1" {
			services[col(row, "service_id")] = true
		}
	}
	return services, nil
}

func tripsForServices(path string, services map[string]bool) (map[string]bool, error) {
	_, col, r, f, err := csvRows(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	trips := make(map[string]bool)
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("gtfs: skipping malformed trips.txt row: %v", err)
			continue
		}
		if services[col(row, "service_id")] {
			trips[col(row, "trip_id")] = true
		}
	}
	return trips, nil
}

func stopsData(path string) (map[string]location, error) {
	_, col, r, f, err := csvRows(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stops := make(map[string]location)
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("gtfs: skipping malformed stops.txt row: %v", err)
			continue
		}
		lat, latErr := strconv.ParseFloat(col(row, "stop_lat"), 64)
		lon, lonErr := strconv.ParseFloat(col(row, "stop_lon"), 64)
		if latErr != nil || lonErr != nil {
			log.Printf("gtfs: skipping stop %q with unparsable coordinates", col(row, "stop_id"))
			continue
		}
		stops[col(row, "stop_id")] = location{lon: lon, lat: lat}
	}
	return stops, nil
}

func assembleGraph(path string, trips map[string]bool, stops map[string]location) (*graph.Graph[NodeKey], error) {
	_, col, r, f, err := csvRows(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	g := graph.New[NodeKey]()
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("gtfs: skipping malformed stop_times.txt row: %v", err)
			continue
		}
		tripID := col(row, "trip_id")
		if !trips[tripID] {
			continue
		}
		buildStopTimeNodes(g, stops, tripID, col(row, "arrival_time"), col(row, "departure_time"), col(row, "stop_id"))
	}

	buildTripEdges(g)
	linkTransferNodes(g)
	return g, nil
}

// buildStopTimeNodes adds the arrival/departure/transfer triple for one
// (trip, stop) visit, and the fixed arrival->transfer edge every visit gets
// regardless of which trip eventually continues from the transfer node.
func buildStopTimeNodes(g *graph.Graph[NodeKey], stops map[string]location, tripID, arrivalStr, departureStr, stopID string) {
	arrival, ok := timeToSecondsAfterMidnight(arrivalStr)
	if !ok {
		return
	}
	departure, ok := timeToSecondsAfterMidnight(departureStr)
	if !ok {
		return
	}
	loc, ok := stops[stopID]
	if !ok {
		return
	}

	arr := NodeKey{Stop: stopID, Time: arrival, Kind: KindArrival, Trip: tripID}
	dep := NodeKey{Stop: stopID, Time: departure, Kind: KindDeparture, Trip: tripID}
	trf := NodeKey{Stop: stopID, Time: arrival + transferPadding, Kind: KindTransfer}

	g.AddNode(arr, loc.lon, loc.lat)
	g.AddNode(dep, loc.lon, loc.lat)
	g.AddNode(trf, loc.lon, loc.lat)
	g.AddEdge(edgeID(arr, trf), arr, trf, transferPadding)
}

func edgeID(from, to NodeKey) string {
	return fmt.Sprintf("%s:%d:%s->%s:%d:%s", from.Stop, from.Time, from.Kind, to.Stop, to.Time, to.Kind)
}

// buildTripEdges chains each trip's non-transfer nodes (arrival, departure)
// in time order, connecting consecutive stops with an edge weighted by the
// elapsed time between them.
func buildTripEdges(g *graph.Graph[NodeKey]) {
	tripNodes := make(map[string][]NodeKey)
	for _, n := range g.AllNodes() {
		if n.ID.Trip == "" {
			continue
		}
		tripNodes[n.ID.Trip] = append(tripNodes[n.ID.Trip], n.ID)
	}

	for _, nodes := range tripNodes {
		sort.Slice(nodes, func(i, j int) bool {
			if nodes[i].Time != nodes[j].Time {
				return nodes[i].Time < nodes[j].Time
			}
			return nodes[i].Kind < nodes[j].Kind
		})
		for i := 0; i+1 < len(nodes); i++ {
			from, to := nodes[i], nodes[i+1]
			g.AddEdge(edgeID(from, to), from, to, to.Time-from.Time)
		}
	}
}

// linkTransferNodes connects, per stop, consecutive transfer nodes to each
// other (so a rider waiting at a stop accrues cost for every minute that
// passes) and each departure to the latest transfer node still at or before
// it (so a rider can board the next trip they can reach).
func linkTransferNodes(g *graph.Graph[NodeKey]) {
	stopNodes := make(map[string][]NodeKey)
	for _, n := range g.AllNodes() {
		if n.ID.Kind == KindArrival {
			continue
		}
		stopNodes[n.ID.Stop] = append(stopNodes[n.ID.Stop], n.ID)
	}

	for _, nodes := range stopNodes {
		var transfers, departures []NodeKey
		for _, n := range nodes {
			if n.Kind == KindTransfer {
				transfers = append(transfers, n)
			} else {
				departures = append(departures, n)
			}
		}
		sort.Slice(transfers, func(i, j int) bool { return transfers[i].Time < transfers[j].Time })
		sort.Slice(departures, func(i, j int) bool { return departures[i].Time < departures[j].Time })

		linkAdjacentTransfers(g, transfers)
		linkTransfersToDepartures(g, transfers, departures)
	}
}

func linkAdjacentTransfers(g *graph.Graph[NodeKey], transfers []NodeKey) {
	for i := 0; i+1 < len(transfers); i++ {
		from, to := transfers[i], transfers[i+1]
		g.AddEdge(edgeID(from, to), from, to, to.Time-from.Time)
	}
}

func linkTransfersToDepartures(g *graph.Graph[NodeKey], transfers, departures []NodeKey) {
	for _, dep := range departures {
		var best *NodeKey
		for i := range transfers {
			t := transfers[i]
			if t.Time > dep.Time {
				break
			}
			best = &transfers[i]
		}
		if best == nil {
			continue
		}
		g.AddEdge(edgeID(*best, dep), *best, dep, dep.Time-best.Time)
	}
}

// timeToSecondsAfterMidnight parses an HH:MM:SS GTFS time string, where HH
// may exceed 23 for trips that run past midnight.
func timeToSecondsAfterMidnight(s string) (int64, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, false
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	sec, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, false
	}
	return int64(h*3600 + m*60 + sec), true
}
