package tree

import (
	"testing"

	"github.com/vanderheijden86/linework/pkg/model"
)

// testGraph builds the canonical fixture:
//
//	C1 ── S1 ── P1 ── D1
//	            │     D2
//	            P2 ── D3
//	C2 ── S2
func testGraph() *model.EntityGraph {
	return &model.EntityGraph{
		Roots: []*model.Node{
			{
				ID: "C1", Label: "2024-W01", Type: model.TypeCycle,
				Children: []*model.Node{
					{
						ID: "S1", Label: "baseline", Type: model.TypeScenario, Primary: true,
						Children: []*model.Node{
							{
								ID: "P1", Label: "ingest", Type: model.TypePipeline,
								Children: []*model.Node{
									{ID: "D1", Label: "raw", Type: model.TypeDataNode},
									{ID: "D2", Label: "clean", Type: model.TypeDataNode},
								},
							},
							{
								ID: "P2", Label: "train", Type: model.TypePipeline,
								Children: []*model.Node{
									{ID: "D3", Label: "model", Type: model.TypeDataNode},
								},
							},
						},
					},
				},
			},
			{
				ID: "C2", Label: "2024-W02", Type: model.TypeCycle,
				Children: []*model.Node{
					{ID: "S2", Label: "retry", Type: model.TypeScenario},
				},
			},
		},
	}
}

func TestFindAncestorsNearestFirst(t *testing.T) {
	g := testGraph()

	loc, ok := Find(g, "D1")
	if !ok {
		t.Fatal("expected D1 to be found")
	}
	if loc.Node.ID != "D1" {
		t.Errorf("expected node D1, got %s", loc.Node.ID)
	}

	want := []string{"P1", "S1", "C1"}
	if len(loc.Ancestors) != len(want) {
		t.Fatalf("expected %d ancestors, got %d", len(want), len(loc.Ancestors))
	}
	for i, id := range want {
		if loc.Ancestors[i].ID != id {
			t.Errorf("ancestor[%d]: expected %s, got %s", i, id, loc.Ancestors[i].ID)
		}
	}
}

func TestFindDescendants(t *testing.T) {
	g := testGraph()

	loc, ok := Find(g, "S1")
	if !ok {
		t.Fatal("expected S1 to be found")
	}

	want := []string{"P1", "P2", "D1", "D2", "D3"}
	if len(loc.Descendants) != len(want) {
		t.Fatalf("expected %d descendants, got %d: %v", len(want), len(loc.Descendants), loc.Descendants)
	}
	for _, id := range want {
		if !loc.Descendants[id] {
			t.Errorf("expected %s in descendants", id)
		}
	}
	if loc.Descendants["S1"] {
		t.Error("a node must not be its own descendant")
	}
}

func TestFindRoot(t *testing.T) {
	g := testGraph()

	loc, ok := Find(g, "C2")
	if !ok {
		t.Fatal("expected C2 to be found")
	}
	if len(loc.Ancestors) != 0 {
		t.Errorf("root node should have no ancestors, got %d", len(loc.Ancestors))
	}
	if len(loc.Descendants) != 1 || !loc.Descendants["S2"] {
		t.Errorf("expected descendants {S2}, got %v", loc.Descendants)
	}
}

func TestFindLeaf(t *testing.T) {
	g := testGraph()

	loc, ok := Find(g, "D3")
	if !ok {
		t.Fatal("expected D3 to be found")
	}
	if len(loc.Descendants) != 0 {
		t.Errorf("leaf should have no descendants, got %v", loc.Descendants)
	}
}

func TestFindNotFound(t *testing.T) {
	g := testGraph()

	if _, ok := Find(g, "unknown-id"); ok {
		t.Error("expected unknown id to be a miss")
	}
	if _, ok := Find(g, ""); ok {
		t.Error("expected empty id to be a miss")
	}
	if _, ok := Find(nil, "D1"); ok {
		t.Error("expected nil graph to be a miss")
	}
	if _, ok := Find(&model.EntityGraph{}, "D1"); ok {
		t.Error("expected empty graph to be a miss")
	}
}
