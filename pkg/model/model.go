// Package model defines the entity graph for a workflow execution lineage:
// a four-level forest of cycles, scenarios, pipelines and data nodes.
//
// A graph is an immutable snapshot. The host rebuilds and replaces it
// wholesale whenever the underlying lineage data changes; nothing in this
// package (or its consumers) mutates a snapshot in place.
package model

import (
	"fmt"
)

// NodeType tags an entity with its level in the lineage hierarchy.
// The four types are mutually exclusive tags, not a class hierarchy.
type NodeType string

const (
	TypeCycle    NodeType = "cycle"
	TypeScenario NodeType = "scenario"
	TypePipeline NodeType = "pipeline"
	TypeDataNode NodeType = "datanode"
)

// Valid reports whether t is one of the four known node types.
func (t NodeType) Valid() bool {
	switch t {
	case TypeCycle, TypeScenario, TypePipeline, TypeDataNode:
		return true
	}
	return false
}

// String returns the type tag as a plain string.
func (t NodeType) String() string {
	return string(t)
}

// ParseNodeType maps a string to a NodeType, accepting a few aliases used
// by upstream lineage exports ("node" for data nodes).
func ParseNodeType(s string) (NodeType, error) {
	switch s {
	case "cycle":
		return TypeCycle, nil
	case "scenario":
		return TypeScenario, nil
	case "pipeline":
		return TypePipeline, nil
	case "datanode", "data_node", "node":
		return TypeDataNode, nil
	}
	return "", fmt.Errorf("unknown node type %q", s)
}

// Node is one entity in the lineage forest.
//
// Children order is render order and is preserved by every traversal; it is
// the only ordering used for tie-breaking. Primary is meaningful only for
// scenarios (the primary scenario within its cycle).
type Node struct {
	ID       string   `json:"id" yaml:"id"`
	Label    string   `json:"label" yaml:"label"`
	Children []*Node  `json:"children,omitempty" yaml:"children,omitempty"`
	Type     NodeType `json:"type" yaml:"type"`
	Primary  bool     `json:"primary,omitempty" yaml:"primary,omitempty"`
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// EntityGraph is an ordered forest of root nodes (typically cycle or
// scenario roots). Conceptually a forest, not a single tree.
type EntityGraph struct {
	Roots []*Node `json:"roots" yaml:"roots"`
}

// Empty reports whether the graph has no roots.
func (g *EntityGraph) Empty() bool {
	return g == nil || len(g.Roots) == 0
}

// Walk visits every node in the forest depth-first in child order, calling
// fn for each. Walking stops early when fn returns false.
func (g *EntityGraph) Walk(fn func(n *Node) bool) {
	if g == nil {
		return
	}
	var walk func(n *Node) bool
	walk = func(n *Node) bool {
		if n == nil {
			return true
		}
		if !fn(n) {
			return false
		}
		for _, c := range n.Children {
			if !walk(c) {
				return false
			}
		}
		return true
	}
	for _, root := range g.Roots {
		if !walk(root) {
			return
		}
	}
}

// Index builds an id -> node lookup map over the whole forest.
// The map is a per-call snapshot; it is not cached because graphs are
// replaced wholesale on every refresh.
func (g *EntityGraph) Index() map[string]*Node {
	index := make(map[string]*Node)
	g.Walk(func(n *Node) bool {
		index[n.ID] = n
		return true
	})
	return index
}

// Validate checks snapshot invariants: every node has a non-empty id and a
// known type, and ids are unique across the entire forest.
func (g *EntityGraph) Validate() error {
	seen := make(map[string]bool)
	var err error
	g.Walk(func(n *Node) bool {
		if n.ID == "" {
			err = fmt.Errorf("node %q has empty id", n.Label)
			return false
		}
		if !n.Type.Valid() {
			err = fmt.Errorf("node %s has unknown type %q", n.ID, n.Type)
			return false
		}
		if seen[n.ID] {
			err = fmt.Errorf("duplicate node id %s", n.ID)
			return false
		}
		seen[n.ID] = true
		return true
	})
	return err
}

// Count returns the total number of nodes in the forest.
func (g *EntityGraph) Count() int {
	n := 0
	g.Walk(func(*Node) bool {
		n++
		return true
	})
	return n
}
