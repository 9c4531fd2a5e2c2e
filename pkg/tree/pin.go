package tree

import (
	"github.com/vanderheijden86/linework/pkg/model"
)

// PinState is the pair of id sets the pin engine maintains.
//
// Pinned holds nodes explicitly or transitively pinned. Visible holds nodes
// that should render when the pinned-only filter is active; it is tracked
// independently (an ancestor can be visible without being pinned when only
// part of its subtree is pinned), but every pinned node is also visible.
//
// PinState values are immutable: Pin, Unpin and Toggle return a new state
// and never mutate the receiver, so a view holding the previous state never
// observes a partial update.
type PinState struct {
	pinned  map[string]bool
	visible map[string]bool
}

// NewPinState returns an empty pin state.
func NewPinState() PinState {
	return PinState{
		pinned:  make(map[string]bool),
		visible: make(map[string]bool),
	}
}

// Pinned reports whether id is pinned.
func (s PinState) Pinned(id string) bool {
	return s.pinned[id]
}

// Visible reports whether id should render under the pinned-only filter.
func (s PinState) Visible(id string) bool {
	return s.visible[id]
}

// PinnedCount returns the number of pinned ids.
func (s PinState) PinnedCount() int {
	return len(s.pinned)
}

// Equal reports whether two states hold identical pinned and visible sets.
func (s PinState) Equal(o PinState) bool {
	return setsEqual(s.pinned, o.pinned) && setsEqual(s.visible, o.visible)
}

func setsEqual(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for id := range a {
		if !b[id] {
			return false
		}
	}
	return true
}

func (s PinState) clone() PinState {
	next := PinState{
		pinned:  make(map[string]bool, len(s.pinned)),
		visible: make(map[string]bool, len(s.visible)),
	}
	for id := range s.pinned {
		next.pinned[id] = true
	}
	for id := range s.visible {
		next.visible[id] = true
	}
	return next
}

// Apply transitions the state for a pin (pinned=true) or unpin event on id.
// Unknown ids return the state unchanged.
func (s PinState) Apply(g *model.EntityGraph, id string, pinned bool) PinState {
	if pinned {
		return s.Pin(g, id)
	}
	return s.Unpin(g, id)
}

// Toggle flips the pin state of id.
func (s PinState) Toggle(g *model.EntityGraph, id string) PinState {
	return s.Apply(g, id, !s.Pinned(id))
}

// Pin pins id, its whole subtree, and every ancestor whose direct child set
// is now fully pinned.
//
// The ancestor walk is nearest-parent-first and stops at the first ancestor
// that is not fully pinned: a grandparent is never pinned unless its
// immediate parent was just pinned by the same rule. Visibility does not
// short-circuit — every ancestor in the chain is revealed so the pinned
// node keeps its lineage context even when the chain is not pin-complete.
func (s PinState) Pin(g *model.EntityGraph, id string) PinState {
	loc, ok := Find(g, id)
	if !ok {
		return s
	}

	next := s.clone()
	next.pinned[id] = true
	next.visible[id] = true

	walking := true
	for _, anc := range loc.Ancestors {
		if walking {
			if allChildrenPinned(anc, next.pinned) {
				next.pinned[anc.ID] = true
			} else {
				walking = false
			}
		}
		next.visible[anc.ID] = true
	}

	// Pinning cascades down the subtree unconditionally.
	for did := range loc.Descendants {
		next.pinned[did] = true
		next.visible[did] = true
	}

	return next
}

// Unpin removes id and its whole subtree from both sets.
//
// The visible walk mirrors Pin: nearest-first, an ancestor is hidden only
// while none of its direct children remain visible, stopping at the first
// survivor. The pinned walk is intentionally unconditional — an ancestor
// cannot stay "fully pinned" once any descendant is removed, so the whole
// chain loses pinned status regardless of siblings. Prefer under-pinning
// over stale over-pinning.
func (s PinState) Unpin(g *model.EntityGraph, id string) PinState {
	loc, ok := Find(g, id)
	if !ok {
		return s
	}

	next := s.clone()
	delete(next.pinned, id)
	delete(next.visible, id)

	walking := true
	for _, anc := range loc.Ancestors {
		if walking {
			if noChildVisible(anc, next.visible) {
				delete(next.visible, anc.ID)
			} else {
				walking = false
			}
		}
		delete(next.pinned, anc.ID)
	}

	for did := range loc.Descendants {
		delete(next.pinned, did)
		delete(next.visible, did)
	}

	return next
}

// allChildrenPinned reports whether every direct child of n is pinned.
func allChildrenPinned(n *model.Node, pinned map[string]bool) bool {
	for _, c := range n.Children {
		if c == nil {
			continue
		}
		if !pinned[c.ID] {
			return false
		}
	}
	return true
}

// noChildVisible reports whether no direct child of n remains visible.
func noChildVisible(n *model.Node, visible map[string]bool) bool {
	for _, c := range n.Children {
		if c == nil {
			continue
		}
		if visible[c.ID] {
			return false
		}
	}
	return true
}
