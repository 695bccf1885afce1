// Package transferpatterns implements §4.7 Transfer Patterns: a full
// multi-source sweep from every node at a station, smoothing of the
// resulting arrival times to the ones reachable without unnecessary
// waiting, and extraction of the canonical transfer-station sequence for
// every (origin, destination) station pair.
package transferpatterns

import (
	"sort"
	"strings"

	"github.com/shterrett/efficient-route-planning/pkg/graph"
	"github.com/shterrett/efficient-route-planning/pkg/gtfs"
	"github.com/shterrett/efficient-route-planning/pkg/pathfinder"
)

// StationPartition maps a station id to every time-expanded node that
// belongs to it.
type StationPartition map[string][]gtfs.NodeKey

// PartitionStationNodes groups every node in g by its Stop field.
func PartitionStationNodes(g *graph.Graph[gtfs.NodeKey]) StationPartition {
	partition := make(StationPartition)
	for _, n := range g.AllNodes() {
		partition[n.ID.Stop] = append(partition[n.ID.Stop], n.ID)
	}
	return partition
}

// FullDijkstraFromStation runs a multi-source sweep seeded from every node
// belonging to station, in one shared search (§4.8 Set-Dijkstra).
func FullDijkstraFromStation(g *graph.Graph[gtfs.NodeKey], partition StationPartition, station string) map[gtfs.NodeKey]pathfinder.CurrentBest[gtfs.NodeKey] {
	sources := partition[station]
	_, results := pathfinder.SetDijkstra[gtfs.NodeKey](g, sources, nil)
	return results
}

// PartitionDijkstraResults filters a Set-Dijkstra result set down to
// arrival nodes only, grouped by station and sorted by arrival time.
func PartitionDijkstraResults(results map[gtfs.NodeKey]pathfinder.CurrentBest[gtfs.NodeKey]) map[string][]pathfinder.CurrentBest[gtfs.NodeKey] {
	byStation := make(map[string][]pathfinder.CurrentBest[gtfs.NodeKey])
	for id, result := range results {
		if id.Kind != gtfs.KindArrival {
			continue
		}
		byStation[id.Stop] = append(byStation[id.Stop], result)
	}
	for station, arrivals := range byStation {
		sort.Slice(arrivals, func(i, j int) bool { return arrivals[i].ID.Time < arrivals[j].ID.Time })
		byStation[station] = arrivals
	}
	return byStation
}

// SmoothResults walks one station's arrivals in time order. An arrival
// that costs more than simply waiting at the previous (earlier, cheaper)
// arrival until its own time would have gotten there is replaced by that
// wait-and-arrive cost, with its predecessor rewritten to the previous
// arrival — later trips inherit the earliest reachable trip's pattern
// whenever waiting for it beats whatever path got to them directly.
func SmoothResults(arrivals []pathfinder.CurrentBest[gtfs.NodeKey]) []pathfinder.CurrentBest[gtfs.NodeKey] {
	if len(arrivals) == 0 {
		return nil
	}
	smoothed := make([]pathfinder.CurrentBest[gtfs.NodeKey], 1, len(arrivals))
	smoothed[0] = arrivals[0]
	for i := 1; i < len(arrivals); i++ {
		prev := smoothed[i-1]
		curr := arrivals[i]
		waitCost := prev.Cost + (curr.ID.Time - prev.ID.Time)
		if curr.Cost > waitCost {
			prevID := prev.ID
			smoothed = append(smoothed, pathfinder.CurrentBest[gtfs.NodeKey]{
				ID:          curr.ID,
				Cost:        waitCost,
				Predecessor: &prevID,
			})
		} else {
			smoothed = append(smoothed, curr)
		}
	}
	return smoothed
}

// Pattern is a canonical sequence of stations a trip passes through: the
// origin station, every station where the rider transfers, and the
// destination station.
type Pattern []string

func (p Pattern) key() string { return strings.Join(p, "\x00") }

// backtrack reconstructs the full node-by-node path from a Set-Dijkstra
// source to current, following Predecessor links recorded in results.
func backtrack(results map[gtfs.NodeKey]pathfinder.CurrentBest[gtfs.NodeKey], current pathfinder.CurrentBest[gtfs.NodeKey]) []gtfs.NodeKey {
	if current.Predecessor == nil {
		return []gtfs.NodeKey{current.ID}
	}
	pred, ok := results[*current.Predecessor]
	var path []gtfs.NodeKey
	if ok {
		path = backtrack(results, pred)
	}
	return append(path, current.ID)
}

// collectTransferPoints reduces a full node-by-node path down to the
// stations that matter for itinerary planning: the origin, every transfer
// node's station, and the destination (added explicitly if the last
// transfer point isn't already there — a direct, no-transfer trip never
// passes through a transfer node).
func collectTransferPoints(results map[gtfs.NodeKey]pathfinder.CurrentBest[gtfs.NodeKey], final pathfinder.CurrentBest[gtfs.NodeKey]) Pattern {
	path := backtrack(results, final)

	var points []gtfs.NodeKey
	for _, node := range path {
		if len(points) == 0 || node.Kind == gtfs.KindTransfer {
			points = append(points, node)
		}
	}
	if len(points) == 0 || points[len(points)-1].Stop != final.ID.Stop {
		points = append(points, final.ID)
	}

	pattern := make(Pattern, len(points))
	for i, n := range points {
		pattern[i] = n.Stop
	}
	return pattern
}

// TransferPatternsForStationPair extracts the set of distinct transfer
// patterns (one per smoothed arrival) leading from a sweep's origin to the
// station the smoothed arrivals belong to. The result is deduplicated: a
// station pair typically has only one or two canonical patterns even
// though many trips arrive there over the course of a service day.
func TransferPatternsForStationPair(results map[gtfs.NodeKey]pathfinder.CurrentBest[gtfs.NodeKey], smoothed []pathfinder.CurrentBest[gtfs.NodeKey]) []Pattern {
	seen := make(map[string]bool)
	var patterns []Pattern
	for _, node := range smoothed {
		p := collectTransferPoints(results, node)
		k := p.key()
		if seen[k] {
			continue
		}
		seen[k] = true
		patterns = append(patterns, p)
	}
	return patterns
}

// StationPair identifies an (origin, destination) station pair.
type StationPair struct {
	Origin, Destination string
}

// TransferPatternsForAllStations computes transfer patterns for every
// ordered pair of stations present in g: one full sweep per origin
// station, reused across every destination reachable from it.
func TransferPatternsForAllStations(g *graph.Graph[gtfs.NodeKey]) map[StationPair][]Pattern {
	partition := PartitionStationNodes(g)
	stations := make([]string, 0, len(partition))
	for station := range partition {
		stations = append(stations, station)
	}
	sort.Strings(stations)

	out := make(map[StationPair][]Pattern)
	for _, origin := range stations {
		results := FullDijkstraFromStation(g, partition, origin)
		arrivals := PartitionDijkstraResults(results)
		for _, destination := range stations {
			destArrivals, ok := arrivals[destination]
			if !ok {
				continue
			}
			smoothed := SmoothResults(destArrivals)
			out[StationPair{Origin: origin, Destination: destination}] = TransferPatternsForStationPair(results, smoothed)
		}
	}
	return out
}
