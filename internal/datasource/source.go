// Package datasource discovers, validates, and selects the freshest valid
// lineage source for lw. A source yields one entity graph snapshot; the
// selector core consumes snapshots read-only and receives a replacement
// wholesale whenever the source changes.
package datasource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/linework/pkg/model"
)

// LineageDirEnvVar overrides the lineage directory location.
const LineageDirEnvVar = "LINEWORK_DIR"

// SourceType identifies the type of data source
type SourceType string

const (
	// SourceTypeSQLite is a SQLite lineage database (lineage.db)
	SourceTypeSQLite SourceType = "sqlite"
	// SourceTypeJSON is a JSON graph snapshot file
	SourceTypeJSON SourceType = "json"
	// SourceTypeYAML is a YAML graph snapshot file
	SourceTypeYAML SourceType = "yaml"
)

// Priority values for source types (higher = more authoritative)
const (
	PrioritySQLite = 100
	PriorityJSON   = 60
	PriorityYAML   = 50
)

// DataSource represents a potential source of lineage data
type DataSource struct {
	// Type identifies the source type
	Type SourceType `json:"type"`
	// Path is the absolute path to the source file
	Path string `json:"path"`
	// Priority determines preference when timestamps are equal (higher = preferred)
	Priority int `json:"priority"`
	// ModTime is the last modification time of the source
	ModTime time.Time `json:"mod_time"`
	// Valid indicates whether the source passed validation
	Valid bool `json:"valid"`
	// ValidationError describes why validation failed (if Valid is false)
	ValidationError string `json:"validation_error,omitempty"`
	// NodeCount is the number of entities in the source (set during validation)
	NodeCount int `json:"node_count"`
	// Size is the file size in bytes
	Size int64 `json:"size"`
}

// String returns a human-readable description of the source
func (s DataSource) String() string {
	status := "valid"
	if !s.Valid {
		status = fmt.Sprintf("invalid: %s", s.ValidationError)
	}
	return fmt.Sprintf("%s (%s, priority=%d, mod=%s, nodes=%d, %s)",
		s.Path, s.Type, s.Priority, s.ModTime.Format(time.RFC3339), s.NodeCount, status)
}

// DiscoveryOptions configures source discovery behavior
type DiscoveryOptions struct {
	// LineageDir is the lineage directory path (optional, auto-detected if empty)
	LineageDir string
	// ValidateAfterDiscovery runs validation on each discovered source
	ValidateAfterDiscovery bool
	// IncludeInvalid includes sources that failed validation in results
	IncludeInvalid bool
	// Verbose enables detailed logging during discovery
	Verbose bool
	// Logger receives log messages when Verbose is true
	Logger func(msg string)
}

// ResolveLineageDir returns the lineage directory, respecting LINEWORK_DIR.
// Falls back to .linework under the current directory.
func ResolveLineageDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	if envDir := os.Getenv(LineageDirEnvVar); envDir != "" {
		return envDir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	return filepath.Join(cwd, ".linework"), nil
}

// DiscoverSources finds all potential lineage sources in the lineage directory
func DiscoverSources(opts DiscoveryOptions) ([]DataSource, error) {
	if opts.Logger == nil {
		opts.Logger = func(string) {}
	}

	lineageDir, err := ResolveLineageDir(opts.LineageDir)
	if err != nil {
		return nil, err
	}

	if opts.Verbose {
		opts.Logger(fmt.Sprintf("Discovering sources in: %s", lineageDir))
	}

	var sources []DataSource

	// SQLite lineage database
	dbPath := filepath.Join(lineageDir, "lineage.db")
	if info, err := os.Stat(dbPath); err == nil {
		sources = append(sources, DataSource{
			Type:     SourceTypeSQLite,
			Path:     dbPath,
			Priority: PrioritySQLite,
			ModTime:  info.ModTime(),
			Size:     info.Size(),
		})
		if opts.Verbose {
			opts.Logger(fmt.Sprintf("Found SQLite: %s (mod=%s)", dbPath, info.ModTime().Format(time.RFC3339)))
		}
	}

	// Snapshot files
	snapshotSources, err := discoverSnapshotSources(lineageDir, opts)
	if err != nil && opts.Verbose {
		opts.Logger(fmt.Sprintf("Snapshot discovery warning: %v", err))
	}
	sources = append(sources, snapshotSources...)

	// Validate sources if requested; validation of independent files runs
	// concurrently since SQLite opens and large snapshots both stat-and-parse.
	if opts.ValidateAfterDiscovery {
		g, _ := errgroup.WithContext(context.Background())
		for i := range sources {
			src := &sources[i]
			g.Go(func() error {
				if err := ValidateSource(src); err != nil && opts.Verbose {
					opts.Logger(fmt.Sprintf("Validation failed for %s: %v", src.Path, err))
				}
				return nil
			})
		}
		// Validation errors are recorded per-source, never returned.
		_ = g.Wait()
	}

	// Filter out invalid sources if not including them
	if opts.ValidateAfterDiscovery && !opts.IncludeInvalid {
		var validSources []DataSource
		for _, s := range sources {
			if s.Valid {
				validSources = append(validSources, s)
			}
		}
		sources = validSources
	}

	// Sort by mod time, then priority
	sort.Slice(sources, func(i, j int) bool {
		if sources[i].ModTime.Equal(sources[j].ModTime) {
			return sources[i].Priority > sources[j].Priority
		}
		return sources[i].ModTime.After(sources[j].ModTime)
	})

	if opts.Verbose {
		opts.Logger(fmt.Sprintf("Discovered %d sources", len(sources)))
	}

	return sources, nil
}

// discoverSnapshotSources finds JSON/YAML snapshot files in the lineage directory
func discoverSnapshotSources(lineageDir string, opts DiscoveryOptions) ([]DataSource, error) {
	entries, err := os.ReadDir(lineageDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read lineage directory: %w", err)
	}

	var sources []DataSource
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()

		// Skip backups and merge artifacts
		if strings.Contains(name, ".backup") || strings.Contains(name, ".orig") {
			continue
		}

		var srcType SourceType
		var priority int
		switch strings.ToLower(filepath.Ext(name)) {
		case ".json":
			srcType, priority = SourceTypeJSON, PriorityJSON
		case ".yaml", ".yml":
			srcType, priority = SourceTypeYAML, PriorityYAML
		default:
			continue
		}

		info, err := e.Info()
		if err != nil {
			continue
		}

		path := filepath.Join(lineageDir, name)
		sources = append(sources, DataSource{
			Type:     srcType,
			Path:     path,
			Priority: priority,
			ModTime:  info.ModTime(),
			Size:     info.Size(),
		})

		if opts.Verbose {
			opts.Logger(fmt.Sprintf("Found snapshot: %s (mod=%s)", path, info.ModTime().Format(time.RFC3339)))
		}
	}

	return sources, nil
}

// ValidateSource checks that a source can produce a well-formed graph,
// recording the result on the source itself.
func ValidateSource(src *DataSource) error {
	g, err := LoadGraph(*src)
	if err != nil {
		src.Valid = false
		src.ValidationError = err.Error()
		return err
	}
	src.Valid = true
	src.ValidationError = ""
	src.NodeCount = g.Count()
	return nil
}

// LoadGraph reads the entity graph snapshot from a source.
func LoadGraph(src DataSource) (*model.EntityGraph, error) {
	switch src.Type {
	case SourceTypeSQLite:
		reader, err := NewSQLiteReader(src)
		if err != nil {
			return nil, err
		}
		defer reader.Close()
		return reader.LoadGraph()
	case SourceTypeJSON, SourceTypeYAML:
		return model.LoadFile(src.Path)
	default:
		return nil, fmt.Errorf("unknown source type: %s", src.Type)
	}
}

// SelectBest returns the freshest valid source, or an error when none
// qualifies. Sources must already be sorted by DiscoverSources.
func SelectBest(sources []DataSource) (DataSource, error) {
	for _, s := range sources {
		if s.Valid {
			return s, nil
		}
	}
	return DataSource{}, fmt.Errorf("no valid lineage source found")
}
