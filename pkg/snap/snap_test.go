package snap

import (
	"testing"

	"github.com/shterrett/efficient-route-planning/pkg/graph"
)

func buildRoadGraph(t *testing.T) *graph.Graph[string] {
	t.Helper()
	g := graph.New[string]()
	// A short north-south residential road around (lon=-74, lat=40..40.002).
	g.AddNode("a", -74.0, 40.000)
	g.AddNode("b", -74.0, 40.001)
	g.AddNode("c", -74.0, 40.002)
	g.AddEdge("ab", "a", "b", 60)
	g.AddEdge("bc", "b", "c", 60)
	return g
}

func TestNearestFindsClosestEdge(t *testing.T) {
	idx := Build(buildRoadGraph(t))

	result, err := idx.Nearest(40.0005, -74.0001)
	if err != nil {
		t.Fatalf("Nearest: %v", err)
	}
	if result.From != "a" || result.To != "b" {
		t.Fatalf("expected nearest edge a->b, got %s->%s", result.From, result.To)
	}
	if result.Ratio < 0.4 || result.Ratio > 0.6 {
		t.Fatalf("expected ratio near the segment midpoint, got %v", result.Ratio)
	}
}

func TestNearestRejectsFarPoint(t *testing.T) {
	idx := Build(buildRoadGraph(t))

	_, err := idx.Nearest(50.0, -74.0)
	if err != ErrPointTooFar {
		t.Fatalf("expected ErrPointTooFar, got %v", err)
	}
}
