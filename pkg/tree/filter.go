package tree

import (
	"github.com/vanderheijden86/linework/pkg/model"
)

// Renderable reports whether a node is eligible to render given the current
// pin state and the pinned-only toggle. With the toggle off everything
// renders; with it on, only nodes in the visible set do.
//
// Cycle flattening (SpliceCycles) is a separate, orthogonal concern applied
// before this filter.
func Renderable(n *model.Node, s PinState, hideNonPinned bool) bool {
	if n == nil {
		return false
	}
	if !hideNonPinned {
		return true
	}
	return s.Visible(n.ID)
}

// SpliceCycles returns the effective sibling list with cycle nodes removed:
// each cycle's children are spliced directly into its position, preserving
// order. Used when cycle display is disabled; the input forest is never
// mutated. Nested cycles are spliced recursively.
func SpliceCycles(nodes []*model.Node) []*model.Node {
	out := make([]*model.Node, 0, len(nodes))
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if n.Type == model.TypeCycle {
			out = append(out, SpliceCycles(n.Children)...)
			continue
		}
		out = append(out, n)
	}
	return out
}

// Row is one renderable entry in the flattened tree: a node plus its
// indentation depth after cycle splicing.
type Row struct {
	Node  *model.Node
	Depth int
}

// RowOptions controls how Rows flattens the forest.
type RowOptions struct {
	DisplayCycles bool // render cycle nodes themselves
	HideNonPinned bool // apply the pinned-only visibility filter
}

// Rows flattens the forest into the ordered list of renderable rows:
// cycle splicing first, then the pin filter. A filtered-out node hides its
// whole subtree (descendants of an invisible node are not re-parented).
func Rows(g *model.EntityGraph, s PinState, opts RowOptions) []Row {
	if g.Empty() {
		return nil
	}

	var rows []Row
	var walk func(nodes []*model.Node, depth int)
	walk = func(nodes []*model.Node, depth int) {
		if !opts.DisplayCycles {
			nodes = SpliceCycles(nodes)
		}
		for _, n := range nodes {
			if !Renderable(n, s, opts.HideNonPinned) {
				continue
			}
			rows = append(rows, Row{Node: n, Depth: depth})
			walk(n.Children, depth+1)
		}
	}
	walk(g.Roots, 0)
	return rows
}
