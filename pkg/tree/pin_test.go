package tree

import (
	"testing"

	"github.com/vanderheijden86/linework/pkg/model"
)

// chainGraph builds the single-chain fixture from the selector scenarios:
// C1 → S1 → P1 → {D1, D2}.
func chainGraph() *model.EntityGraph {
	return &model.EntityGraph{
		Roots: []*model.Node{
			{
				ID: "C1", Type: model.TypeCycle,
				Children: []*model.Node{
					{
						ID: "S1", Type: model.TypeScenario,
						Children: []*model.Node{
							{
								ID: "P1", Type: model.TypePipeline,
								Children: []*model.Node{
									{ID: "D1", Type: model.TypeDataNode},
									{ID: "D2", Type: model.TypeDataNode},
								},
							},
						},
					},
				},
			},
		},
	}
}

func TestPinLeafRevealsLineage(t *testing.T) {
	g := chainGraph()
	s := NewPinState().Pin(g, "D1")

	for _, id := range []string{"D1"} {
		if !s.Pinned(id) {
			t.Errorf("expected %s pinned", id)
		}
	}
	// D2 is unpinned, so the chain is incomplete: no ancestor is pinned.
	for _, id := range []string{"P1", "S1", "C1", "D2"} {
		if s.Pinned(id) {
			t.Errorf("expected %s not pinned", id)
		}
	}
	// All ancestors are revealed regardless.
	for _, id := range []string{"D1", "P1", "S1", "C1"} {
		if !s.Visible(id) {
			t.Errorf("expected %s visible", id)
		}
	}
	if s.Visible("D2") {
		t.Error("expected sibling D2 not visible")
	}
}

func TestPinCompletesChain(t *testing.T) {
	g := chainGraph()
	s := NewPinState().Pin(g, "D1").Pin(g, "D2")

	// Full chain now complete: ancestors pinned all the way up.
	for _, id := range []string{"D1", "D2", "P1", "S1", "C1"} {
		if !s.Pinned(id) {
			t.Errorf("expected %s pinned", id)
		}
		if !s.Visible(id) {
			t.Errorf("expected %s visible", id)
		}
	}
}

func TestUnpinBreaksAncestorsUnconditionally(t *testing.T) {
	g := chainGraph()
	s := NewPinState().Pin(g, "D1").Pin(g, "D2").Unpin(g, "D2")

	if !s.Pinned("D1") {
		t.Error("expected D1 to stay pinned")
	}
	// The whole ancestor chain loses pinned status regardless of D1.
	for _, id := range []string{"D2", "P1", "S1", "C1"} {
		if s.Pinned(id) {
			t.Errorf("expected %s not pinned after unpin", id)
		}
	}
	// D1 keeps its ancestors visible.
	for _, id := range []string{"D1", "P1", "S1", "C1"} {
		if !s.Visible(id) {
			t.Errorf("expected %s still visible", id)
		}
	}
	if s.Visible("D2") {
		t.Error("expected D2 not visible after unpin")
	}
}

func TestPinSubtreeClosure(t *testing.T) {
	g := testGraph()
	s := NewPinState().Pin(g, "S1")

	for _, id := range []string{"S1", "P1", "P2", "D1", "D2", "D3"} {
		if !s.Pinned(id) {
			t.Errorf("expected %s pinned", id)
		}
		if !s.Visible(id) {
			t.Errorf("expected %s visible", id)
		}
	}
	// S1 is C1's only child, so C1 is pin-complete too.
	if !s.Pinned("C1") {
		t.Error("expected C1 pinned (only child fully pinned)")
	}
}

func TestUnpinRemovesSubtree(t *testing.T) {
	g := testGraph()
	s := NewPinState().Pin(g, "S1").Unpin(g, "S1")

	for _, id := range []string{"C1", "S1", "P1", "P2", "D1", "D2", "D3"} {
		if s.Pinned(id) {
			t.Errorf("expected %s not pinned", id)
		}
		if s.Visible(id) {
			t.Errorf("expected %s not visible", id)
		}
	}
}

func TestPinShortCircuitStopsAtIncompleteAncestor(t *testing.T) {
	// S1 has two pipelines; pinning all of P1's subtree completes P1 but
	// not S1, so the walk must stop before C1 even though C1 has a single
	// child.
	g := testGraph()
	s := NewPinState().Pin(g, "P1")

	if !s.Pinned("P1") || !s.Pinned("D1") || !s.Pinned("D2") {
		t.Error("expected P1 subtree pinned")
	}
	if s.Pinned("S1") {
		t.Error("expected S1 not pinned (P2 unpinned)")
	}
	if s.Pinned("C1") {
		t.Error("expected C1 not pinned (walk short-circuits at S1)")
	}
	if !s.Visible("S1") || !s.Visible("C1") {
		t.Error("expected ancestors visible despite short-circuit")
	}
}

func TestUnpinVisibleWalkStopsAtSurvivingSibling(t *testing.T) {
	g := testGraph()
	s := NewPinState().Pin(g, "D1").Pin(g, "D3").Unpin(g, "D3")

	// P2 has no visible children left, so it goes dark; S1 still has P1
	// visible, so the walk stops there and C1 stays visible too.
	if s.Visible("D3") || s.Visible("P2") {
		t.Error("expected D3 and P2 not visible")
	}
	for _, id := range []string{"D1", "P1", "S1", "C1"} {
		if !s.Visible(id) {
			t.Errorf("expected %s still visible", id)
		}
	}
}

func TestPinIdempotent(t *testing.T) {
	g := testGraph()
	once := NewPinState().Pin(g, "D1")
	twice := once.Pin(g, "D1")

	if !once.Equal(twice) {
		t.Error("pinning an already-pinned node must not change state")
	}
}

func TestUnpinIdempotent(t *testing.T) {
	g := testGraph()
	empty := NewPinState()
	after := empty.Unpin(g, "D1")

	if !empty.Equal(after) {
		t.Error("unpinning an already-unpinned node must not change state")
	}
}

func TestPinUnpinRoundTrip(t *testing.T) {
	g := testGraph()
	before := NewPinState().Pin(g, "D3")
	after := before.Pin(g, "D1").Unpin(g, "D1")

	if !before.Equal(after) {
		t.Errorf("pin/unpin round trip should restore state")
	}
}

func TestPinUnknownIDIsNoOp(t *testing.T) {
	g := testGraph()
	s := NewPinState().Pin(g, "D1")

	if !s.Pin(g, "unknown-id").Equal(s) {
		t.Error("pin of unknown id must return state unchanged")
	}
	if !s.Unpin(g, "unknown-id").Equal(s) {
		t.Error("unpin of unknown id must return state unchanged")
	}
}

func TestPinDoesNotMutateReceiver(t *testing.T) {
	g := testGraph()
	empty := NewPinState()
	_ = empty.Pin(g, "S1")

	if empty.PinnedCount() != 0 {
		t.Error("Pin must not mutate the receiver")
	}
	if empty.Visible("S1") {
		t.Error("Pin must not mutate the receiver's visible set")
	}
}

func TestToggle(t *testing.T) {
	g := testGraph()
	s := NewPinState().Toggle(g, "D1")
	if !s.Pinned("D1") {
		t.Error("expected toggle to pin D1")
	}
	s = s.Toggle(g, "D1")
	if s.Pinned("D1") {
		t.Error("expected second toggle to unpin D1")
	}
}
