//go:build ignore

// generate_testdata.go creates a sample lineage directory for manual testing.
// Usage: go run scripts/generate_testdata.go
//
// Creates:
//
//	tests/testdata/sample/.linework/lineage.json
//	tests/testdata/sample/.linework/lineage.yaml
//	tests/testdata/sample/.linework/lineage.db
package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/linework/pkg/model"
)

func main() {
	outputDir := filepath.Join("tests", "testdata", "sample", ".linework")
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	g := sampleGraph()

	jsonData, err := model.EncodeJSON(g)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
		os.Exit(1)
	}
	jsonPath := filepath.Join(outputDir, "lineage.json")
	if err := os.WriteFile(jsonPath, jsonData, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", jsonPath, err)
		os.Exit(1)
	}
	fmt.Printf("Written %s (%d entities)\n", jsonPath, g.Count())

	yamlData, err := yaml.Marshal(g)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode YAML: %v\n", err)
		os.Exit(1)
	}
	yamlPath := filepath.Join(outputDir, "lineage.yaml")
	if err := os.WriteFile(yamlPath, yamlData, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", yamlPath, err)
		os.Exit(1)
	}
	fmt.Printf("Written %s\n", yamlPath)

	dbPath := filepath.Join(outputDir, "lineage.db")
	os.Remove(dbPath)
	if err := writeDB(dbPath, g); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", dbPath, err)
		os.Exit(1)
	}
	fmt.Printf("Written %s\n", dbPath)

	fmt.Println("\nDone! Sample lineage directory created in", outputDir)
}

func sampleGraph() *model.EntityGraph {
	return &model.EntityGraph{
		Roots: []*model.Node{
			{
				ID: "cycle-2024-w01", Label: "2024-W01", Type: model.TypeCycle,
				Children: []*model.Node{
					{
						ID: "scn-baseline", Label: "baseline", Type: model.TypeScenario, Primary: true,
						Children: []*model.Node{
							{
								ID: "pl-ingest", Label: "ingest", Type: model.TypePipeline,
								Children: []*model.Node{
									{ID: "dn-raw", Label: "raw_records", Type: model.TypeDataNode},
									{ID: "dn-clean", Label: "clean_records", Type: model.TypeDataNode},
								},
							},
							{
								ID: "pl-train", Label: "train", Type: model.TypePipeline,
								Children: []*model.Node{
									{ID: "dn-features", Label: "features", Type: model.TypeDataNode},
									{ID: "dn-model", Label: "trained_model", Type: model.TypeDataNode},
								},
							},
						},
					},
					{
						ID: "scn-retry", Label: "retry-high-lr", Type: model.TypeScenario,
						Children: []*model.Node{
							{
								ID: "pl-train-2", Label: "train", Type: model.TypePipeline,
								Children: []*model.Node{
									{ID: "dn-model-2", Label: "trained_model", Type: model.TypeDataNode},
								},
							},
						},
					},
				},
			},
			{
				ID: "cycle-2024-w02", Label: "2024-W02", Type: model.TypeCycle,
				Children: []*model.Node{
					{ID: "scn-empty", Label: "pending", Type: model.TypeScenario, Primary: true},
				},
			},
		},
	}
}

func writeDB(path string, g *model.EntityGraph) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	schema := []string{
		`CREATE TABLE cycles (id TEXT PRIMARY KEY, label TEXT, position INTEGER)`,
		`CREATE TABLE scenarios (id TEXT PRIMARY KEY, cycle_id TEXT, label TEXT, primary_scenario BOOLEAN, position INTEGER)`,
		`CREATE TABLE pipelines (id TEXT PRIMARY KEY, scenario_id TEXT, label TEXT, position INTEGER)`,
		`CREATE TABLE data_nodes (id TEXT PRIMARY KEY, pipeline_id TEXT, scenario_id TEXT, label TEXT, position INTEGER)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	pos := 0
	for _, cycle := range g.Roots {
		if _, err := db.Exec(`INSERT INTO cycles VALUES (?, ?, ?)`, cycle.ID, cycle.Label, pos); err != nil {
			return err
		}
		pos++
		for si, scenario := range cycle.Children {
			if _, err := db.Exec(`INSERT INTO scenarios VALUES (?, ?, ?, ?, ?)`,
				scenario.ID, cycle.ID, scenario.Label, scenario.Primary, si); err != nil {
				return err
			}
			for pi, pipeline := range scenario.Children {
				if _, err := db.Exec(`INSERT INTO pipelines VALUES (?, ?, ?, ?)`,
					pipeline.ID, scenario.ID, pipeline.Label, pi); err != nil {
					return err
				}
				for di, dn := range pipeline.Children {
					if _, err := db.Exec(`INSERT INTO data_nodes VALUES (?, ?, ?, ?, ?)`,
						dn.ID, pipeline.ID, scenario.ID, dn.Label, di); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}
