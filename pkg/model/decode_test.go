package model

import (
	"os"
	"path/filepath"
	"testing"
)

const jsonRootsObject = `{
  "roots": [
    {
      "id": "C1",
      "label": "2024-W01",
      "type": "cycle",
      "children": [
        {
          "id": "S1",
          "label": "baseline",
          "type": "scenario",
          "primary": true
        }
      ]
    }
  ]
}`

const jsonBareArray = `[
  {"id": "S1", "label": "baseline", "type": "scenario"},
  {"id": "S2", "label": "retry", "type": "scenario"}
]`

const yamlRootsObject = `roots:
  - id: C1
    label: 2024-W01
    type: cycle
    children:
      - id: S1
        label: baseline
        type: scenario
        primary: true
`

const yamlBareSequence = `- id: S1
  label: baseline
  type: scenario
- id: S2
  label: retry
  type: scenario
`

func TestDecodeJSONRootsObject(t *testing.T) {
	g, err := DecodeJSON([]byte(jsonRootsObject))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(g.Roots) != 1 || g.Roots[0].ID != "C1" {
		t.Fatalf("unexpected roots: %+v", g.Roots)
	}
	s1 := g.Roots[0].Children[0]
	if s1.ID != "S1" || !s1.Primary || s1.Type != TypeScenario {
		t.Errorf("unexpected child: %+v", s1)
	}
}

func TestDecodeJSONBareArray(t *testing.T) {
	g, err := DecodeJSON([]byte(jsonBareArray))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(g.Roots) != 2 || g.Roots[1].ID != "S2" {
		t.Errorf("unexpected roots: %+v", g.Roots)
	}
}

func TestDecodeJSONMalformed(t *testing.T) {
	if _, err := DecodeJSON([]byte(`{"roots": [`)); err == nil {
		t.Error("expected error for truncated JSON")
	}
	if _, err := DecodeJSON([]byte(`[{"id": 42}]`)); err == nil {
		t.Error("expected error for mistyped id")
	}
}

func TestDecodeYAMLRootsObject(t *testing.T) {
	g, err := DecodeYAML([]byte(yamlRootsObject))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(g.Roots) != 1 || g.Roots[0].Children[0].ID != "S1" {
		t.Errorf("unexpected graph: %+v", g.Roots)
	}
}

func TestDecodeYAMLBareSequence(t *testing.T) {
	g, err := DecodeYAML([]byte(yamlBareSequence))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(g.Roots) != 2 || g.Roots[0].ID != "S1" {
		t.Errorf("unexpected roots: %+v", g.Roots)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "lineage.json")
	if err := os.WriteFile(jsonPath, []byte(jsonBareArray), 0o644); err != nil {
		t.Fatal(err)
	}
	g, err := LoadFile(jsonPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Count() != 2 {
		t.Errorf("expected 2 nodes, got %d", g.Count())
	}

	yamlPath := filepath.Join(dir, "lineage.yaml")
	if err := os.WriteFile(yamlPath, []byte(yamlRootsObject), 0o644); err != nil {
		t.Fatal(err)
	}
	g, err = LoadFile(yamlPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Count() != 2 {
		t.Errorf("expected 2 nodes, got %d", g.Count())
	}
}

func TestLoadFileRejectsInvalidSnapshot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte(`[{"id": "A", "type": "widget"}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("expected validation error for unknown node type")
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestEncodeJSONRoundTrip(t *testing.T) {
	g := sampleGraph()
	data, err := EncodeJSON(g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decoded, err := DecodeJSON(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded.Count() != g.Count() {
		t.Errorf("expected %d nodes after round trip, got %d", g.Count(), decoded.Count())
	}
	if decoded.Roots[0].Children[0].Primary != true {
		t.Error("expected primary flag preserved")
	}
}
