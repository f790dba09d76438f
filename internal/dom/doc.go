// Package dom holds the live task tree: a mutable HTML document with an id index and per-element scroll state.
//
// # Lookups
//
// [Document.ByID] is an exact-match index lookup kept current by every mutation. [Document.Resolve]
// accepts a CSS selector (compiled with cascadia) and falls back to an id lookup when the value is a bare
// name that matches no element, which tolerates receivers written as "ended" instead of "#ended".
//
// # Mutations
//
// [Document.Insert] parses markup as a fragment in the context of the element that will contain it and
// attaches it at one of the four insertAdjacentHTML positions. [Document.SetInner] replaces an element's
// children wholesale. Both keep the tree free of duplicate ids: an id arriving in new markup evicts the
// older element carrying it. Row controls carrying a data-id attribute repeat the same id in every row and
// are left out of the index.
//
// # Scroll state
//
// Scroll offsets belong to element nodes. An element created by a mutation starts at offset zero, the way
// freshly parsed browser elements do, which is what the scroll tracker compensates for.
//
// The Document is not safe for concurrent use; the engine confines it to its event loop.
package dom
