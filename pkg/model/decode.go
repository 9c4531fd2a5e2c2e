package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// DecodeJSON parses an entity graph snapshot from JSON. Two shapes are
// accepted: an object with a "roots" array, or a bare array of root nodes
// (the shape upstream lineage exports produce).
func DecodeJSON(data []byte) (*EntityGraph, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var roots []*Node
		if err := json.Unmarshal(data, &roots); err != nil {
			return nil, fmt.Errorf("parsing graph snapshot: %w", err)
		}
		return &EntityGraph{Roots: roots}, nil
	}

	var g EntityGraph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("parsing graph snapshot: %w", err)
	}
	return &g, nil
}

// DecodeYAML parses an entity graph snapshot from YAML.
func DecodeYAML(data []byte) (*EntityGraph, error) {
	var g EntityGraph
	if err := yaml.Unmarshal(data, &g); err != nil {
		// Bare-sequence snapshots, same fallback as JSON.
		var roots []*Node
		if seqErr := yaml.Unmarshal(data, &roots); seqErr != nil {
			return nil, fmt.Errorf("parsing graph snapshot: %w", err)
		}
		return &EntityGraph{Roots: roots}, nil
	}
	return &g, nil
}

// LoadFile reads a graph snapshot from disk, choosing the decoder by file
// extension (.yaml/.yml use YAML, everything else JSON). The snapshot is
// validated before being returned.
func LoadFile(path string) (*EntityGraph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading graph snapshot: %w", err)
	}

	var g *EntityGraph
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		g, err = DecodeYAML(data)
	default:
		g, err = DecodeJSON(data)
	}
	if err != nil {
		return nil, err
	}

	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("invalid graph snapshot %s: %w", path, err)
	}
	return g, nil
}

// EncodeJSON serializes a graph snapshot with indentation, for snapshot
// files written by tooling and tests.
func EncodeJSON(g *EntityGraph) ([]byte, error) {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling graph snapshot: %w", err)
	}
	return data, nil
}
