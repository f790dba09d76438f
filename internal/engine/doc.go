// Package engine owns the live task tree and serializes every access to it.
//
// An [Engine] holds the document, the scroll anchors and the row bindings. All of them are touched
// only by functions running on its [Loop], so push patches, poll swaps and reads from the command
// dispatcher interleave at the granularity of whole operations and never inside one.
//
// The push listener, poll refresher and command dispatcher talk to the engine through the interfaces
// their packages declare:
//   - [push.Sink]: Apply and Alert
//   - [poll.Target]: SaveScroll and Swap
//   - [control.TreeReader]: Selection and ErrorText
//
// Alerts run on the loop and block it until the notifier returns, so no patch lands while the user
// is reading one. Views of the tree are published on [Engine.Changes] rather than read through the
// loop, which keeps a dashboard responsive while an alert is pending.
package engine
