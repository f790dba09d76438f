package scroll

import (
	"slices"

	"golang.org/x/net/html"
)

// DefaultSelectors are the containers tracked by the dashboard.
var DefaultSelectors = []string{"body", "#queue", "#active", "#ended"}

// Surface is the tree the tracker reads and writes offsets on.
type Surface interface {
	Resolve(selector string) (*html.Node, error)
	ScrollTop(n *html.Node) int
	SetScrollTop(n *html.Node, offset int)
}

// Anchor is the last saved offset of one container.
type Anchor struct {
	Selector string
	Offset   int
	node     *html.Node
}

// Tracker holds one [Anchor] per registered selector, in registration order.
type Tracker struct {
	surface Surface
	anchors []*Anchor
}

// NewTracker creates a tracker over surface and registers selectors.
func NewTracker(surface Surface, selectors ...string) *Tracker {
	t := &Tracker{surface: surface}
	for _, s := range selectors {
		t.Register(s)
	}
	return t
}

// Register adds a tracked container. Registering the same selector twice is a no-op.
func (t *Tracker) Register(selector string) {
	if slices.ContainsFunc(t.anchors, func(a *Anchor) bool { return a.Selector == selector }) {
		return
	}
	t.anchors = append(t.anchors, &Anchor{Selector: selector})
}

// Selectors returns the registered selectors.
func (t *Tracker) Selectors() []string {
	out := make([]string, len(t.anchors))
	for i, a := range t.anchors {
		out[i] = a.Selector
	}
	return out
}

// Anchor returns the saved state for selector.
func (t *Tracker) Anchor(selector string) (Anchor, bool) {
	for _, a := range t.anchors {
		if a.Selector == selector {
			return *a, true
		}
	}
	return Anchor{}, false
}

// SaveAll records the current offset of every registered container.
// Containers missing from the tree keep their previous anchor.
func (t *Tracker) SaveAll() {
	for _, a := range t.anchors {
		n, err := t.surface.Resolve(a.Selector)
		if err != nil || n == nil {
			continue
		}
		a.Offset = t.surface.ScrollTop(n)
		a.node = n
	}
}

// RestoreAll reapplies the saved offsets.
//
// A container that was replaced since the save gets the saved offset added to its current one.
// A container that is still the saved node is set back to the saved offset.
func (t *Tracker) RestoreAll() {
	for _, a := range t.anchors {
		n, err := t.surface.Resolve(a.Selector)
		if err != nil || n == nil {
			continue
		}
		if n == a.node {
			t.surface.SetScrollTop(n, a.Offset)
			continue
		}
		t.surface.SetScrollTop(n, t.surface.ScrollTop(n)+a.Offset)
	}
}
