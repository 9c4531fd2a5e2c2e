// Package tree implements the selection and pinning state engine over a
// lineage entity graph.
//
// The package is pure data-in/data-out: the locator resolves a node and its
// lineage context, pin state transitions take a prior state and return a new
// one, and the filter view derives what is eligible to render. Rendering
// itself lives elsewhere (pkg/ui) and only consumes these operations.
package tree

import (
	"github.com/vanderheijden86/linework/pkg/model"
)

// Location is the lineage context of one node: the node itself, its ancestor
// chain, and the flattened set of all descendant ids.
//
// Ancestors are ordered from the immediate parent outward to the root
// (nearest parent first). Pin propagation depends on this ordering for its
// short-circuit walk, so it must not be reversed.
type Location struct {
	Node        *model.Node
	Ancestors   []*model.Node
	Descendants map[string]bool
}

// Find resolves an id against the graph with a depth-first search in child
// order. The second return value is false when the id matches no node in the
// forest; callers treat that as a benign miss, never a fatal error (graph
// snapshots can be replaced while UI events referencing stale ids are still
// in flight).
//
// No memoization between calls: the graph is rebuilt per refresh, so any
// cache would be invalidated immediately.
func Find(g *model.EntityGraph, id string) (Location, bool) {
	if g == nil || id == "" {
		return Location{}, false
	}

	// path holds root..parent of the node currently being visited.
	var path []*model.Node
	var found *model.Node
	var foundPath []*model.Node

	var search func(n *model.Node) bool
	search = func(n *model.Node) bool {
		if n == nil {
			return false
		}
		if n.ID == id {
			found = n
			foundPath = append([]*model.Node(nil), path...)
			return true
		}
		path = append(path, n)
		for _, c := range n.Children {
			if search(c) {
				return true
			}
		}
		path = path[:len(path)-1]
		return false
	}

	for _, root := range g.Roots {
		if search(root) {
			break
		}
	}
	if found == nil {
		return Location{}, false
	}

	// Reverse root..parent into nearest-parent-first order.
	ancestors := make([]*model.Node, 0, len(foundPath))
	for i := len(foundPath) - 1; i >= 0; i-- {
		ancestors = append(ancestors, foundPath[i])
	}

	return Location{
		Node:        found,
		Ancestors:   ancestors,
		Descendants: descendantIDs(found),
	}, true
}

// descendantIDs flattens every id strictly below n into a set.
func descendantIDs(n *model.Node) map[string]bool {
	ids := make(map[string]bool)
	var walk func(n *model.Node)
	walk = func(n *model.Node) {
		for _, c := range n.Children {
			if c == nil {
				continue
			}
			ids[c.ID] = true
			walk(c)
		}
	}
	walk(n)
	return ids
}
