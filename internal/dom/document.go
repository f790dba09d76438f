package dom

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/desertthunder/taskview/internal/shared"
)

// Document is a parsed HTML tree with an id index and per-element scroll offsets.
type Document struct {
	root   *html.Node
	ids    map[string]*html.Node
	scroll map[*html.Node]int
}

// Parse builds a [Document] from a complete HTML page.
//
// Elements repeating an id already seen earlier in document order are dropped.
func Parse(markup string) (*Document, error) {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidMarkup, err)
	}

	d := &Document{
		root:   root,
		ids:    make(map[string]*html.Node),
		scroll: make(map[*html.Node]int),
	}

	var dups []*html.Node
	walk(root, func(n *html.Node) {
		id := indexedID(n)
		if id == "" {
			return
		}
		if _, seen := d.ids[id]; seen {
			dups = append(dups, n)
			return
		}
		d.ids[id] = n
	})
	for _, n := range dups {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}

	return d, nil
}

// Root returns the document node.
func (d *Document) Root() *html.Node {
	return d.root
}

// Len returns the number of indexed ids.
func (d *Document) Len() int {
	return len(d.ids)
}

// ByID returns the element with the given id.
func (d *Document) ByID(id string) (*html.Node, bool) {
	n, ok := d.ids[id]
	return n, ok
}

// Query returns the first element matching selector, or nil when nothing matches.
func (d *Document) Query(selector string) (*html.Node, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", shared.ErrInvalidSelector, selector, err)
	}
	return sel.MatchFirst(d.root), nil
}

// Resolve finds the receiver named by selector.
//
// A bare name that matches no element as a selector is retried as an id.
func (d *Document) Resolve(selector string) (*html.Node, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return nil, fmt.Errorf("%w: empty selector", shared.ErrInvalidSelector)
	}

	n, err := d.Query(selector)
	if err == nil && n != nil {
		return n, nil
	}
	if isBareName(selector) {
		if n, ok := d.ByID(selector); ok {
			return n, nil
		}
	}
	if err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%w: %q", shared.ErrReceiverNotFound, selector)
}

// Insert parses markup and attaches the resulting nodes at pos relative to target.
//
// It returns the attached top-level nodes.
func (d *Document) Insert(target *html.Node, pos Position, markup string) ([]*html.Node, error) {
	parent := target
	if pos.outside() {
		parent = target.Parent
		if parent == nil || parent.Type == html.DocumentNode {
			return nil, fmt.Errorf("%w: %s needs a parent element", shared.ErrInvalidPosition, pos)
		}
	}

	nodes, err := d.parseFragment(parent, markup)
	if err != nil {
		return nil, err
	}
	if err := d.checkAnchor(nodes, target); err != nil {
		return nil, err
	}
	d.evictCollisions(nodes)

	switch pos {
	case BeforeBegin:
		for _, n := range nodes {
			parent.InsertBefore(n, target)
		}
	case AfterBegin:
		ref := target.FirstChild
		for _, n := range nodes {
			target.InsertBefore(n, ref)
		}
	case BeforeEnd:
		for _, n := range nodes {
			target.AppendChild(n)
		}
	case AfterEnd:
		ref := target.NextSibling
		for _, n := range nodes {
			parent.InsertBefore(n, ref)
		}
	default:
		return nil, fmt.Errorf("%w: %q", shared.ErrInvalidPosition, string(pos))
	}

	for _, n := range nodes {
		d.index(n)
	}
	return nodes, nil
}

// SetInner replaces the children of target with the parsed markup.
//
// On error the tree is left untouched.
func (d *Document) SetInner(target *html.Node, markup string) error {
	nodes, err := d.parseFragment(target, markup)
	if err != nil {
		return err
	}
	if err := d.checkAnchor(nodes, target); err != nil {
		return err
	}

	for c := target.FirstChild; c != nil; {
		next := c.NextSibling
		d.Remove(c)
		c = next
	}
	d.evictCollisions(nodes)

	for _, n := range nodes {
		target.AppendChild(n)
		d.index(n)
	}
	return nil
}

// Remove detaches n and everything below it from the tree.
func (d *Document) Remove(n *html.Node) {
	if n == nil || n.Parent == nil {
		return
	}
	d.unindex(n)
	n.Parent.RemoveChild(n)
}

// RemoveByID detaches the element with the given id and reports whether it was present.
func (d *Document) RemoveByID(id string) bool {
	n, ok := d.ByID(id)
	if !ok {
		return false
	}
	d.Remove(n)
	return true
}

// ScrollTop returns the scroll offset of n.
func (d *Document) ScrollTop(n *html.Node) int {
	return d.scroll[n]
}

// SetScrollTop sets the scroll offset of n, clamped at zero.
func (d *Document) SetScrollTop(n *html.Node, offset int) {
	if n == nil {
		return
	}
	if offset <= 0 {
		delete(d.scroll, n)
		return
	}
	d.scroll[n] = offset
}

// HTML renders the whole document.
func (d *Document) HTML() string {
	var buf bytes.Buffer
	_ = html.Render(&buf, d.root)
	return buf.String()
}

// Outer renders n including its own tag.
func (d *Document) Outer(n *html.Node) string {
	var buf bytes.Buffer
	_ = html.Render(&buf, n)
	return buf.String()
}

// Inner renders the children of n.
func (d *Document) Inner(n *html.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&buf, c)
	}
	return buf.String()
}

func (d *Document) parseFragment(context *html.Node, markup string) ([]*html.Node, error) {
	if context != nil && context.Type != html.ElementNode {
		context = nil
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidMarkup, err)
	}
	return dedupeFragment(nodes), nil
}

// checkAnchor rejects nodes carrying an id held by anchor or one of its ancestors.
// Evicting such an element would detach the insertion point.
func (d *Document) checkAnchor(nodes []*html.Node, anchor *html.Node) error {
	for _, n := range nodes {
		var err error
		walk(n, func(c *html.Node) {
			if err != nil {
				return
			}
			id := indexedID(c)
			if id == "" {
				return
			}
			if existing, ok := d.ids[id]; ok && contains(existing, anchor) {
				err = fmt.Errorf("%w: id %q collides with the insertion point", shared.ErrInvalidMarkup, id)
			}
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// evictCollisions removes elements already in the tree whose ids reappear in nodes.
func (d *Document) evictCollisions(nodes []*html.Node) {
	for _, n := range nodes {
		walk(n, func(c *html.Node) {
			id := indexedID(c)
			if id == "" {
				return
			}
			if existing, ok := d.ids[id]; ok {
				d.Remove(existing)
			}
		})
	}
}

func (d *Document) index(n *html.Node) {
	walk(n, func(c *html.Node) {
		if id := indexedID(c); id != "" {
			d.ids[id] = c
		}
	})
}

func (d *Document) unindex(n *html.Node) {
	walk(n, func(c *html.Node) {
		if id := indexedID(c); id != "" && d.ids[id] == c {
			delete(d.ids, id)
		}
		delete(d.scroll, c)
	})
}

// dedupeFragment drops elements repeating an id seen earlier in the fragment.
func dedupeFragment(nodes []*html.Node) []*html.Node {
	seen := make(map[string]bool)
	kept := nodes[:0]
	for _, n := range nodes {
		if id := indexedID(n); id != "" && seen[id] {
			continue
		}
		var dups []*html.Node
		walk(n, func(c *html.Node) {
			id := indexedID(c)
			if id == "" {
				return
			}
			if seen[id] && c != n {
				dups = append(dups, c)
				return
			}
			seen[id] = true
		})
		for _, c := range dups {
			if c.Parent != nil {
				c.Parent.RemoveChild(c)
			}
		}
		kept = append(kept, n)
	}
	return kept
}

// walk visits n and its descendants in document order.
func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		walk(c, fn)
		c = next
	}
}

// contains reports whether n is ancestor or self of other.
func contains(n, other *html.Node) bool {
	for p := other; p != nil; p = p.Parent {
		if p == n {
			return true
		}
	}
	return false
}

func elementID(n *html.Node) string {
	if n.Type != html.ElementNode {
		return ""
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == "id" {
			return a.Val
		}
	}
	return ""
}

// indexedID is the id under which n is indexed.
// Row controls repeat the same id in every row and are told apart by data-id, so they are not indexed.
func indexedID(n *html.Node) string {
	if _, ok := Attr(n, "data-id"); ok {
		return ""
	}
	return elementID(n)
}

// Attr returns the value of the named attribute of n.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func isBareName(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return s != ""
}
