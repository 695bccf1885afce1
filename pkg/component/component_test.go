package component

import (
	"testing"

	"github.com/shterrett/efficient-route-planning/pkg/graph"
)

// buildGraph reproduces connected_component.rs's fixture: a 6-node
// component (1-4-2-5-6-3) and a 3-node component (7-8-9), both symmetric.
func buildGraph(t *testing.T) *graph.Graph[string] {
	t.Helper()
	g := graph.New[string]()
	coords := map[string][2]float64{
		"1": {1, 1}, "2": {1, 2}, "3": {2, 1},
		"4": {2, 2}, "5": {2, 3}, "6": {3, 1},
		"7": {4, 2}, "8": {5, 3}, "9": {5, 2},
	}
	for id, xy := range coords {
		g.AddNode(id, xy[0], xy[1])
	}
	edges := []struct {
		id, n1, n2 string
		w          int64
	}{
		{"a", "1", "4", 1}, {"b", "4", "2", 4}, {"c", "2", "5", 3},
		{"d", "5", "6", 3}, {"e", "6", "3", 1}, {"f", "6", "4", 2},
		{"g", "7", "8", 1}, {"h", "8", "9", 3}, {"i", "9", "7", 2},
	}
	for _, e := range edges {
		g.AddEdge(e.id, e.n1, e.n2, e.w)
		g.AddEdge(e.id, e.n2, e.n1, e.w)
	}
	return g
}

func assertReducedToSixNodeComponent(t *testing.T, reduced *graph.Graph[string]) {
	t.Helper()
	for _, id := range []string{"7", "8", "9"} {
		if reduced.GetNode(id) != nil {
			t.Errorf("expected node %q to be dropped", id)
		}
	}
	for _, id := range []string{"1", "2", "3", "4", "5", "6"} {
		if reduced.GetNode(id) == nil {
			t.Errorf("expected node %q to survive", id)
		}
	}
}

func TestReduceKeepsLargestComponent(t *testing.T) {
	assertReducedToSixNodeComponent(t, Reduce(buildGraph(t)))
}

func TestReduceBySweepKeepsLargestComponent(t *testing.T) {
	assertReducedToSixNodeComponent(t, ReduceBySweep(buildGraph(t)))
}

func TestReduceAndReduceBySweepAgree(t *testing.T) {
	a := Reduce(buildGraph(t))
	b := ReduceBySweep(buildGraph(t))

	if a.NumNodes() != b.NumNodes() {
		t.Fatalf("Reduce kept %d nodes, ReduceBySweep kept %d", a.NumNodes(), b.NumNodes())
	}
	for _, n := range a.AllNodes() {
		if b.GetNode(n.ID) == nil {
			t.Errorf("Reduce kept %q but ReduceBySweep dropped it", n.ID)
		}
	}
}

func TestReduceOnEmptyGraph(t *testing.T) {
	g := graph.New[string]()
	reduced := Reduce(g)
	if reduced.NumNodes() != 0 {
		t.Fatalf("expected empty reduction, got %d nodes", reduced.NumNodes())
	}
}

func TestReducePreservesEdgeWeights(t *testing.T) {
	reduced := Reduce(buildGraph(t))
	e := reduced.GetMutEdge("1", "4")
	if e == nil || e.Weight != 1 {
		t.Fatalf("expected edge 1->4 weight 1 to survive, got %+v", e)
	}
}
