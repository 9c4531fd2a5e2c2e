package export

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vanderheijden86/linework/pkg/model"
	"github.com/vanderheijden86/linework/pkg/tree"
)

func exportGraph() *model.EntityGraph {
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
								},
							},
						},
					},
				},
			},
		},
	}
}

func TestSaveLineageSnapshot_ValidXML(t *testing.T) {
	out := filepath.Join(t.TempDir(), "lineage.svg")

	err := SaveLineageSnapshot(LineageSnapshotOptions{
		Path:          out,
		Graph:         exportGraph(),
		Pins:          tree.NewPinState(),
		DisplayCycles: true,
	})
	if err != nil {
		t.Fatalf("SaveLineageSnapshot error: %v", err)
	}

	content, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}

	var svgDoc interface{}
	if err := xml.Unmarshal(content, &svgDoc); err != nil {
		t.Errorf("SVG is not valid XML: %v", err)
	}

	svgStr := string(content)
	if !strings.Contains(svgStr, "<svg") || !strings.Contains(svgStr, "</svg>") {
		t.Error("expected an <svg> document")
	}
}

func TestSaveLineageSnapshot_ContainsNodes(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nodes.svg")

	g := exportGraph()
	pins := tree.NewPinState().Pin(g, "D1")

	err := SaveLineageSnapshot(LineageSnapshotOptions{
		Path:          out,
		Title:         "weekly lineage",
		Graph:         g,
		Pins:          pins,
		DisplayCycles: true,
	})
	if err != nil {
		t.Fatalf("SaveLineageSnapshot error: %v", err)
	}

	content, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	svgStr := string(content)

	for _, id := range []string{"C1", "S1", "P1", "D1"} {
		if !strings.Contains(svgStr, id) {
			t.Errorf("expected %s in output", id)
		}
	}
	if !strings.Contains(svgStr, "weekly lineage") {
		t.Error("expected custom title in output")
	}
	// The primary scenario carries a marker after its label.
	if !strings.Contains(svgStr, "baseline *") {
		t.Error("expected primary marker on baseline")
	}
	if !strings.Contains(svgStr, css(colorPinned)) {
		t.Error("expected pinned fill color in output")
	}
}

func TestSaveLineageSnapshot_SplicesCycles(t *testing.T) {
	out := filepath.Join(t.TempDir(), "spliced.svg")

	err := SaveLineageSnapshot(LineageSnapshotOptions{
		Path:          out,
		Graph:         exportGraph(),
		Pins:          tree.NewPinState(),
		DisplayCycles: false,
	})
	if err != nil {
		t.Fatalf("SaveLineageSnapshot error: %v", err)
	}

	content, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if strings.Contains(string(content), "2024-W01") {
		t.Error("cycle label should be spliced out of the rendering")
	}
	if !strings.Contains(string(content), "baseline") {
		t.Error("expected scenario label in output")
	}
}

func TestSaveLineageSnapshot_AppendsExtension(t *testing.T) {
	out := filepath.Join(t.TempDir(), "noext")

	err := SaveLineageSnapshot(LineageSnapshotOptions{
		Path:  out,
		Graph: exportGraph(),
		Pins:  tree.NewPinState(),
	})
	if err != nil {
		t.Fatalf("SaveLineageSnapshot error: %v", err)
	}
	if _, err := os.Stat(out + ".svg"); err != nil {
		t.Errorf("expected %s.svg to exist: %v", out, err)
	}
}

func TestSaveLineageSnapshot_Errors(t *testing.T) {
	err := SaveLineageSnapshot(LineageSnapshotOptions{
		Path:  filepath.Join(t.TempDir(), "empty.svg"),
		Graph: &model.EntityGraph{},
		Pins:  tree.NewPinState(),
	})
	if err == nil {
		t.Error("expected error for empty graph")
	}

	err = SaveLineageSnapshot(LineageSnapshotOptions{
		Graph: exportGraph(),
		Pins:  tree.NewPinState(),
	})
	if err == nil {
		t.Error("expected error for missing path")
	}

	err = SaveLineageSnapshot(LineageSnapshotOptions{
		Path:  filepath.Join(t.TempDir(), "out.png"),
		Graph: exportGraph(),
		Pins:  tree.NewPinState(),
	})
	if err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestTruncateLabel(t *testing.T) {
	if got := truncateLabel("short", 10); got != "short" {
		t.Errorf("expected unchanged label, got %q", got)
	}
	got := truncateLabel("a very long label indeed", 10)
	if len([]rune(got)) != 10 {
		t.Errorf("expected 10 runes, got %d (%q)", len([]rune(got)), got)
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("expected ellipsis suffix, got %q", got)
	}
}
