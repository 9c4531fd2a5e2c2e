package tree

import (
	"github.com/goccy/go-json"

	"github.com/vanderheijden86/linework/pkg/debug"
	"github.com/vanderheijden86/linework/pkg/model"
)

// Options is the host-supplied widget configuration.
type Options struct {
	LeafType        model.NodeType // node type eligible for selection
	DisplayCycles   bool           // render cycle nodes themselves
	ShowPrimaryFlag bool           // mark the primary scenario
	Propagate       bool           // selection changes notify downstream listeners
	Multiple        bool           // reserved; single-select is enforced
	ShowPins        bool           // enable pinning and the pinned-only filter
}

// ChangeFunc receives selection-change notifications: the newly selected id
// (empty for "none") and whether propagation downstream is requested.
type ChangeFunc func(id string, propagate bool)

// Selector is the stateful core behind the lineage selector widget. It owns
// pin state and selection state exclusively; the graph snapshot is shared
// read-only and replaced wholesale via SetGraph.
//
// All transitions are synchronous and run to completion, so a render pass
// never observes a partially-updated state.
type Selector struct {
	graph         *model.EntityGraph
	pins          PinState
	selected      string
	hideNonPinned bool
	opts          Options
	onChange      ChangeFunc
}

// NewSelector creates a selector with empty pin and selection state.
// onChange may be nil when the host does not listen for selection changes.
func NewSelector(opts Options, onChange ChangeFunc) *Selector {
	return &Selector{
		graph:    &model.EntityGraph{},
		pins:     NewPinState(),
		opts:     opts,
		onChange: onChange,
	}
}

// Options returns the widget configuration.
func (s *Selector) Options() Options {
	return s.opts
}

// Graph returns the current snapshot.
func (s *Selector) Graph() *model.EntityGraph {
	return s.graph
}

// Pins returns the current pin state.
func (s *Selector) Pins() PinState {
	return s.pins
}

// Selected returns the currently selected id, or "" when nothing is
// selected.
func (s *Selector) Selected() string {
	return s.selected
}

// HideNonPinned reports whether the pinned-only filter is active.
func (s *Selector) HideNonPinned() bool {
	return s.hideNonPinned
}

// ToggleHideNonPinned flips the pinned-only filter. A no-op when pinning is
// disabled by configuration.
func (s *Selector) ToggleHideNonPinned() {
	if !s.opts.ShowPins {
		return
	}
	s.hideNonPinned = !s.hideNonPinned
}

// SetGraph replaces the snapshot wholesale. When the new graph is empty and
// a selection exists, the selection auto-clears and the clear notification
// fires exactly once (subsequent empty refreshes stay silent).
//
// Pin state is kept as-is: ids that no longer resolve are harmless, since
// every operation treats unknown ids as a no-op.
func (s *Selector) SetGraph(g *model.EntityGraph) {
	if g == nil {
		g = &model.EntityGraph{}
	}
	s.graph = g
	if g.Empty() && s.selected != "" {
		debug.Log("graph emptied, clearing selection %s", s.selected)
		s.selected = ""
		s.notify("")
	}
}

// Select handles a user selection of id. Unknown ids are ignored (stale
// event against a replaced snapshot). A node whose type does not match the
// configured leaf type clears the selection and propagates "no selection"
// rather than erroring. Re-selecting the current id re-dispatches the
// notification, which is harmless.
func (s *Selector) Select(id string) {
	loc, ok := Find(s.graph, id)
	if !ok {
		return
	}
	if loc.Node.Type != s.opts.LeafType {
		s.selected = ""
		s.notify("")
		return
	}
	s.selected = id
	s.notify(id)
}

// SetValue applies the host's controlled value. A non-empty value always
// overrides internal state; an explicit empty value clears the selection.
// No notification fires — the value came from the host.
func (s *Selector) SetValue(id string) {
	s.selected = id
}

// SetDefaultValue applies the host's default value: a JSON-encoded array of
// ids (the first element wins; single-select is enforced even when the
// multiple flag is set), a JSON string, or — when parsing fails — the raw
// value as a literal id.
func (s *Selector) SetDefaultValue(raw string) {
	if raw == "" {
		return
	}
	s.selected = parseDefaultValue(raw)
}

// TogglePin flips the pin state of id, propagating through the node's
// lineage. A no-op when pinning is disabled or the id is unknown. Selection
// state is never touched by pin operations.
func (s *Selector) TogglePin(id string) {
	if !s.opts.ShowPins {
		return
	}
	s.pins = s.pins.Toggle(s.graph, id)
}

// Rows returns the ordered renderable rows for the current state.
func (s *Selector) Rows() []Row {
	return Rows(s.graph, s.pins, RowOptions{
		DisplayCycles: s.opts.DisplayCycles,
		HideNonPinned: s.hideNonPinned,
	})
}

func (s *Selector) notify(id string) {
	if s.onChange == nil {
		return
	}
	s.onChange(id, s.opts.Propagate)
}

// parseDefaultValue decodes an external default value. Malformed input is
// not an error: the raw string is used as a literal id.
func parseDefaultValue(raw string) string {
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err == nil {
		if len(ids) == 0 {
			return ""
		}
		return ids[0]
	}
	var id string
	if err := json.Unmarshal([]byte(raw), &id); err == nil {
		return id
	}
	return raw
}
