package arcflags

import (
	"testing"

	"github.com/shterrett/efficient-route-planning/pkg/graph"
)

// buildRegionGraph reproduces seed scenario S3.
func buildRegionGraph(t *testing.T) *graph.Graph[string] {
	t.Helper()
	g := graph.New[string]()
	nodes := []struct {
		id   string
		x, y float64
	}{
		{"1", 1, 2}, {"2", 2, 1}, {"3", 2, 2},
		{"4", 3, 3}, {"5", 3, 4}, {"6", 4, 3},
	}
	for _, n := range nodes {
		g.AddNode(n.id, n.x, n.y)
	}
	edges := []struct {
		id, from, to string
		w            int64
	}{
		{"af", "1", "5", 1}, {"ar", "5", "1", 1},
		{"bf", "5", "6", 1}, {"br", "6", "5", 1},
		{"cf", "2", "6", 1}, {"cr", "6", "2", 1},
		{"df", "2", "4", 1}, {"dr", "4", "2", 1},
		{"ef", "3", "4", 1}, {"er", "4", "3", 1},
	}
	for _, e := range edges {
		g.AddEdge(e.id, e.from, e.to, e.w)
	}
	return g
}

func TestRegionContains(t *testing.T) {
	r := Region{XMin: 0, XMax: 5, YMin: 0, YMax: 5}
	if !r.Contains(1, 1) {
		t.Fatalf("expected (1,1) to be contained")
	}
	if r.Contains(10, 10) {
		t.Fatalf("expected (10,10) to be outside")
	}
	if !r.Contains(0, 3) {
		t.Fatalf("expected border point to be contained")
	}
}

func TestIsBoundaryNode(t *testing.T) {
	g := buildRegionGraph(t)
	region := Region{XMin: 1.5, XMax: 3.5, YMin: 1.5, YMax: 3.5}

	if !isBoundaryNode(g, region, "4") {
		t.Fatalf("expected node 4 to be a boundary node")
	}
	if isBoundaryNode(g, region, "3") {
		t.Fatalf("expected node 3 not to be a boundary node")
	}
	if isBoundaryNode(g, region, "1") {
		t.Fatalf("expected node 1 (outside region) not to be a boundary node")
	}
}

func TestAssignArcFlags(t *testing.T) {
	g := buildRegionGraph(t)
	region := Region{XMin: 1.5, XMax: 3.5, YMin: 1.5, YMax: 3.5}

	Assign(g, region)

	flagged := map[string]bool{"af": true, "bf": true, "cr": true, "df": true, "ef": true, "er": true}

	for _, node := range g.AllNodes() {
		for _, e := range g.GetEdges(node.ID) {
			want := flagged[e.ID]
			if e.ArcFlag != want {
				t.Errorf("edge %s: expected arc_flag=%v, got %v", e.ID, want, e.ArcFlag)
			}
		}
	}
}

func TestArcFlagsQueryMatchesDijkstraWithinRegion(t *testing.T) {
	g := buildRegionGraph(t)
	region := Region{XMin: 1.5, XMax: 3.5, YMin: 1.5, YMax: 3.5}
	Assign(g, region)

	target := "4"
	cost, results := ShortestPath(g, "6", &target)
	// The five lettered edge pairs form one symmetric path graph
	// 1-5-6-2-4-3 with unit weights; 6 -> 2 -> 4 via the flagged cr/df edges costs 2.
	if cost != 2 {
		t.Fatalf("expected cost 2, got %d", cost)
	}
	if _, settled := results["5"]; settled {
		t.Fatalf("expected node 5 not to be settled, got %+v", results["5"])
	}
}
