package datasource

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/linework/pkg/model"
)

// SQLiteReader provides read access to a lineage SQLite database.
//
// Expected schema (all position columns drive render order):
//
//	cycles(id, label, position)
//	scenarios(id, cycle_id, label, primary_scenario, position)
//	pipelines(id, scenario_id, label, position)
//	data_nodes(id, pipeline_id, scenario_id, label, position)
//
// scenarios.cycle_id may be NULL (scenario roots), and data_nodes may hang
// off a scenario directly instead of a pipeline.
type SQLiteReader struct {
	db   *sql.DB
	path string
}

// NewSQLiteReader opens a SQLite database for reading
func NewSQLiteReader(source DataSource) (*SQLiteReader, error) {
	if source.Type != SourceTypeSQLite {
		return nil, fmt.Errorf("source is not SQLite: %s", source.Type)
	}

	// Open in read-only mode; the db is produced by the host application
	// and only ever read here.
	dsn := fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000", source.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	return &SQLiteReader{
		db:   db,
		path: source.Path,
	}, nil
}

// Close closes the database connection
func (r *SQLiteReader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadGraph assembles the four-level lineage forest from the database.
func (r *SQLiteReader) LoadGraph() (*model.EntityGraph, error) {
	cycles, err := r.loadCycles()
	if err != nil {
		return nil, err
	}

	scenarios, scenarioRoots, err := r.loadScenarios(cycles)
	if err != nil {
		return nil, err
	}

	pipelines, err := r.loadPipelines(scenarios)
	if err != nil {
		return nil, err
	}

	if err := r.loadDataNodes(pipelines, scenarios); err != nil {
		return nil, err
	}

	// Cycle roots first in stored order, then scenario roots.
	var roots []*model.Node
	roots = append(roots, cycles...)
	roots = append(roots, scenarioRoots...)

	g := &model.EntityGraph{Roots: roots}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("invalid lineage database %s: %w", r.path, err)
	}
	return g, nil
}

// loadCycles returns cycle nodes in stored order.
func (r *SQLiteReader) loadCycles() ([]*model.Node, error) {
	rows, err := r.db.Query(`SELECT id, label FROM cycles ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("querying cycles: %w", err)
	}
	defer rows.Close()

	var cycles []*model.Node
	for rows.Next() {
		var n model.Node
		var label sql.NullString
		if err := rows.Scan(&n.ID, &label); err != nil {
			continue
		}
		n.Label = label.String
		n.Type = model.TypeCycle
		cycles = append(cycles, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cycles: %w", err)
	}
	return cycles, nil
}

// loadScenarios attaches scenarios to their cycles and returns an id->node
// map plus the scenarios with no cycle parent (roots). Child order follows
// scenario position, not cycle position.
func (r *SQLiteReader) loadScenarios(cycles []*model.Node) (map[string]*model.Node, []*model.Node, error) {
	cycleIndex := make(map[string]*model.Node, len(cycles))
	for _, c := range cycles {
		cycleIndex[c.ID] = c
	}

	rows, err := r.db.Query(`
		SELECT id, cycle_id, label, primary_scenario
		FROM scenarios
		ORDER BY position, id
	`)
	if err != nil {
		return nil, nil, fmt.Errorf("querying scenarios: %w", err)
	}
	defer rows.Close()

	scenarios := make(map[string]*model.Node)
	var roots []*model.Node

	for rows.Next() {
		var n model.Node
		var cycleID, label sql.NullString
		var primary sql.NullBool
		if err := rows.Scan(&n.ID, &cycleID, &label, &primary); err != nil {
			continue
		}
		n.Label = label.String
		n.Type = model.TypeScenario
		n.Primary = primary.Valid && primary.Bool
		scenarios[n.ID] = &n

		if parent, ok := cycleIndex[cycleID.String]; ok {
			parent.Children = append(parent.Children, &n)
		} else {
			roots = append(roots, &n)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterating scenarios: %w", err)
	}

	return scenarios, roots, nil
}

// loadPipelines attaches pipelines to their scenarios and returns an
// id->node map.
func (r *SQLiteReader) loadPipelines(scenarios map[string]*model.Node) (map[string]*model.Node, error) {
	rows, err := r.db.Query(`
		SELECT id, scenario_id, label
		FROM pipelines
		ORDER BY position, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying pipelines: %w", err)
	}
	defer rows.Close()

	pipelines := make(map[string]*model.Node)
	for rows.Next() {
		var n model.Node
		var scenarioID, label sql.NullString
		if err := rows.Scan(&n.ID, &scenarioID, &label); err != nil {
			continue
		}
		n.Label = label.String
		n.Type = model.TypePipeline
		pipelines[n.ID] = &n

		if parent, ok := scenarios[scenarioID.String]; ok {
			parent.Children = append(parent.Children, &n)
		}
		// Pipelines referencing a missing scenario are dropped; the db is
		// host-produced and a dangling reference means a stale row.
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pipelines: %w", err)
	}
	return pipelines, nil
}

// loadDataNodes attaches data nodes to their pipeline, or directly to a
// scenario when pipeline_id is NULL.
func (r *SQLiteReader) loadDataNodes(pipelines, scenarios map[string]*model.Node) error {
	rows, err := r.db.Query(`
		SELECT id, pipeline_id, scenario_id, label
		FROM data_nodes
		ORDER BY position, id
	`)
	if err != nil {
		return fmt.Errorf("querying data nodes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var n model.Node
		var pipelineID, scenarioID, label sql.NullString
		if err := rows.Scan(&n.ID, &pipelineID, &scenarioID, &label); err != nil {
			continue
		}
		n.Label = label.String
		n.Type = model.TypeDataNode

		if parent, ok := pipelines[pipelineID.String]; ok {
			parent.Children = append(parent.Children, &n)
		} else if parent, ok := scenarios[scenarioID.String]; ok {
			parent.Children = append(parent.Children, &n)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating data nodes: %w", err)
	}
	return nil
}

// CountNodes returns the total entity count across all four tables.
func (r *SQLiteReader) CountNodes() (int, error) {
	var total int
	for _, table := range []string{"cycles", "scenarios", "pipelines", "data_nodes"} {
		var count int
		if err := r.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
			return 0, fmt.Errorf("counting %s: %w", table, err)
		}
		total += count
	}
	return total, nil
}
