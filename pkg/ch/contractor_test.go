package ch

import (
	"testing"

	"github.com/shterrett/efficient-route-planning/pkg/graph"
)

// buildCycleGraph reproduces contraction.rs's contract_node fixture: a
// symmetric 4-node cycle a-b-c-d-a.
func buildCycleGraph(t *testing.T, ab, bc, cd, da int64) *graph.Graph[string] {
	t.Helper()
	g := graph.New[string]()
	g.AddNode("a", 0, 1)
	g.AddNode("b", 1, 0)
	g.AddNode("c", 2, 1)
	g.AddNode("d", 1, 1)
	edges := []struct {
		n1, n2 string
		w      int64
	}{{"a", "b", ab}, {"b", "c", bc}, {"c", "d", cd}, {"d", "a", da}}
	for _, e := range edges {
		g.AddEdge(e.n1+e.n2, e.n1, e.n2, e.w)
		g.AddEdge(e.n2+e.n1, e.n2, e.n1, e.w)
		g.GetMutEdge(e.n1, e.n2).ArcFlag = true
		g.GetMutEdge(e.n2, e.n1).ArcFlag = true
	}
	return g
}

func TestContractNodeInShortestPathAddsShortcut(t *testing.T) {
	g := buildCycleGraph(t, 1, 1, 3, 3)

	var nextID int
	contractNode(g, "b", 0, &nextID)

	ac := g.GetMutEdge("a", "c")
	if ac == nil || !ac.ArcFlag || ac.Weight != 2 {
		t.Fatalf("expected shortcut a->c weight 2, got %+v", ac)
	}
	if ac.Via == nil || *ac.Via != "b" {
		t.Fatalf("expected shortcut via b, got %v", ac.Via)
	}
	ca := g.GetMutEdge("c", "a")
	if ca == nil || !ca.ArcFlag || ca.Weight != 2 {
		t.Fatalf("expected shortcut c->a weight 2, got %+v", ca)
	}

	for _, e := range g.GetEdges("b") {
		if e.ArcFlag {
			t.Fatalf("expected b's outgoing edges to be contracted, got %+v", e)
		}
	}
	if g.GetMutEdge("a", "b").ArcFlag {
		t.Fatalf("expected a->b contracted")
	}
	if g.GetMutEdge("c", "b").ArcFlag {
		t.Fatalf("expected c->b contracted")
	}
}

func TestContractNodeNotInShortestPathAddsNoShortcut(t *testing.T) {
	g := buildCycleGraph(t, 2, 2, 1, 1)

	var nextID int
	contractNode(g, "b", 0, &nextID)

	for _, e := range g.GetEdges("a") {
		if e.To == "c" {
			t.Fatalf("expected no shortcut a->c, found %+v", e)
		}
	}
	for _, e := range g.GetEdges("c") {
		if e.To == "a" {
			t.Fatalf("expected no shortcut c->a, found %+v", e)
		}
	}
	for _, e := range g.GetEdges("b") {
		if e.ArcFlag {
			t.Fatalf("expected b's outgoing edges to be contracted, got %+v", e)
		}
	}
}

// buildGridGraph9 reproduces transit_nodes.rs's 9-node / 12-edge fixture.
func buildGridGraph9(t *testing.T) *graph.Graph[string] {
	t.Helper()
	g := graph.New[string]()
	nodes := []struct {
		id   string
		x, y float64
	}{
		{"a", 0, 3}, {"b", 0, 1}, {"c", 0, 0},
		{"d", 1, 3}, {"e", 1, 2}, {"f", 1, 0},
		{"g", 2, 3}, {"h", 2, 1}, {"i", 2, 0},
	}
	for _, n := range nodes {
		g.AddNode(n.id, n.x, n.y)
	}
	edges := []struct {
		n1, n2 string
		w      int64
	}{
		{"a", "b", 3}, {"a", "d", 2}, {"b", "c", 1}, {"b", "e", 1},
		{"c", "f", 2}, {"d", "e", 1}, {"d", "g", 2}, {"e", "f", 3},
		{"e", "h", 1}, {"f", "i", 2}, {"g", "h", 4}, {"h", "i", 2},
	}
	for _, e := range edges {
		g.AddEdge(e.n1+e.n2, e.n1, e.n2, e.w)
		g.AddEdge(e.n2+e.n1, e.n2, e.n1, e.w)
	}
	return g
}

func TestContractAssignsIncreasingOrderArcFlags(t *testing.T) {
	g := buildGridGraph9(t)
	result := Contract(g)

	if len(result.Order) != 9 {
		t.Fatalf("expected 9 ordered nodes, got %d", len(result.Order))
	}
	seen := make(map[int64]bool)
	for _, order := range result.Order {
		if seen[order] {
			t.Fatalf("order %d assigned twice", order)
		}
		seen[order] = true
	}

	for _, n := range g.AllNodes() {
		for _, e := range g.GetEdges(n.ID) {
			want := result.Order[e.To] > result.Order[e.From]
			if e.ArcFlag != want {
				t.Errorf("edge %s->%s: expected arc_flag=%v, got %v", e.From, e.To, want, e.ArcFlag)
			}
		}
	}
}

func TestQueryMatchesPlainDijkstraCost(t *testing.T) {
	g := buildGridGraph9(t)
	Contract(g)

	cost, path, ok := Query(g, "c", "g")
	if !ok {
		t.Fatalf("expected a path from c to g")
	}
	if cost != 5 {
		t.Fatalf("expected cost 5, got %d", cost)
	}
	if len(path) < 2 || path[0] != "c" || path[len(path)-1] != "g" {
		t.Fatalf("expected unpacked path from c to g, got %v", path)
	}
}

func TestQueryAllPairsMatchPlainDijkstra(t *testing.T) {
	base := buildGridGraph9(t)
	for _, n := range base.AllNodes() {
		for _, e := range base.GetEdges(n.ID) {
			e.ArcFlag = true
		}
	}

	g := buildGridGraph9(t)
	Contract(g)

	nodes := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}
	for _, s := range nodes {
		for _, target := range nodes {
			if s == target {
				continue
			}
			want, _ := localDijkstraOverAllEdges(base, s, target)
			got, _, ok := Query(g, s, target)
			if !ok {
				t.Fatalf("%s->%s: expected a path", s, target)
			}
			if got != want {
				t.Errorf("%s->%s: CH query = %d, plain dijkstra = %d", s, target, got, want)
			}
		}
	}
}

// localDijkstraOverAllEdges runs plain Dijkstra unrestricted by arc flags,
// as a ground-truth oracle independent of the CH-specific ArcFlag overload.
func localDijkstraOverAllEdges(g *graph.Graph[string], source, target string) (int64, bool) {
	cost, results := localShortestPath(g, source, target, 1<<30, 1<<30)
	if _, ok := results[target]; !ok {
		return 0, false
	}
	return cost, true
}
