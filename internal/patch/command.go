package patch

import (
	"fmt"

	"github.com/desertthunder/taskview/internal/dom"
)

// Kind discriminates [Command] variants.
type Kind int

const (
	KindAppend Kind = iota
	KindRemove
	KindReplaceSubtree
	KindReplaceContent
)

func (k Kind) String() string {
	switch k {
	case KindAppend:
		return "append"
	case KindRemove:
		return "remove"
	case KindReplaceSubtree:
		return "replace-subtree"
	case KindReplaceContent:
		return "replace-content"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Command is one mutation of the tree.
type Command interface {
	Kind() Kind
}

// Append inserts Markup at the end of the container with id ContainerID.
type Append struct {
	ContainerID string
	Markup      string
}

// Remove detaches the node with id NodeID if it exists.
type Remove struct {
	NodeID string
}

// ReplaceSubtree removes TargetNodeID, then inserts Markup at Position relative to ReceiverSelector.
type ReplaceSubtree struct {
	TargetNodeID     string
	ReceiverSelector string
	Position         dom.Position
	Markup           string
}

// ReplaceContent overwrites the inner content of ReceiverSelector.
type ReplaceContent struct {
	ReceiverSelector string
	Markup           string
}

func (Append) Kind() Kind         { return KindAppend }
func (Remove) Kind() Kind         { return KindRemove }
func (ReplaceSubtree) Kind() Kind { return KindReplaceSubtree }
func (ReplaceContent) Kind() Kind { return KindReplaceContent }
