package push

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/desertthunder/taskview/internal/dom"
	"github.com/desertthunder/taskview/internal/models"
	"github.com/desertthunder/taskview/internal/patch"
	"github.com/desertthunder/taskview/internal/shared"
	"github.com/desertthunder/taskview/internal/sse"
)

// Event names on the stream.
const (
	EventNewTask            = "new-task"
	EventRemoveTask         = "remove-task"
	EventRemoveNode         = "remove-node"
	EventReplaceNode        = "replace-node"
	EventUpdateNodeContent  = "update-node-content"
	EventReplaceNodeContent = "replace-node-content" // deprecated spelling of update-node-content
	EventError              = sse.ErrorType
	EventMessage            = sse.DefaultType
)

// Message is a decoded push event.
type Message interface {
	Tag() string
}

// NewTask carries a rendered row for the queued bucket.
type NewTask struct {
	Markup string
}

// Remove names a node to detach.
type Remove struct {
	NodeID string
}

// ReplaceNode moves or re-renders a node.
type ReplaceNode struct {
	TargetNodeID         string
	ReceiverNodeSelector string
	Position             dom.Position
	NewContent           string
}

// UpdateContent overwrites the inner content of a receiver.
type UpdateContent struct {
	ReceiverNodeSelector string
	NewContent           string
}

// Error is a server-reported failure, or a dropped connection when Text is empty.
type Error struct {
	Text string
}

// Diagnostic is free-form text with no effect on the tree.
type Diagnostic struct {
	Text string
}

func (NewTask) Tag() string       { return EventNewTask }
func (Remove) Tag() string        { return EventRemoveTask }
func (ReplaceNode) Tag() string   { return EventReplaceNode }
func (UpdateContent) Tag() string { return EventUpdateNodeContent }
func (Error) Tag() string         { return EventError }
func (Diagnostic) Tag() string    { return EventMessage }

// renderPayload is the JSON body of replace-node and update-node-content.
// Field names match case-insensitively; receiverNode is the older name of the receiver field.
type renderPayload struct {
	TargetNodeID         string          `json:"TargetNodeID"`
	ReceiverNodeSelector string          `json:"ReceiverNodeSelector"`
	ReceiverNode         string          `json:"receiverNode"`
	Position             string          `json:"Position"`
	NewContent           json.RawMessage `json:"NewContent"`
}

func (p renderPayload) receiver() string {
	if p.ReceiverNodeSelector != "" {
		return p.ReceiverNodeSelector
	}
	return p.ReceiverNode
}

func (p renderPayload) content() (string, error) {
	raw := bytes.TrimSpace(p.NewContent)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("NewContent must be a string: %v", err)
	}
	return s, nil
}

// Decode turns one stream event into a [Message].
func Decode(ev sse.Event) (Message, error) {
	switch ev.Type {
	case EventNewTask:
		return NewTask{Markup: ev.Data}, nil
	case EventRemoveTask, EventRemoveNode:
		id := strings.TrimSpace(ev.Data)
		if id == "" {
			return nil, fmt.Errorf("%w: %s: empty node id", shared.ErrMalformedPayload, ev.Type)
		}
		return Remove{NodeID: id}, nil
	case EventReplaceNode:
		p, err := decodeRender(ev)
		if err != nil {
			return nil, err
		}
		content, err := p.content()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", shared.ErrMalformedPayload, ev.Type, err)
		}
		pos, err := dom.ParsePosition(p.Position)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", shared.ErrMalformedPayload, ev.Type, err)
		}
		if p.receiver() == "" {
			return nil, fmt.Errorf("%w: %s: missing receiver", shared.ErrMalformedPayload, ev.Type)
		}
		return ReplaceNode{
			TargetNodeID:         p.TargetNodeID,
			ReceiverNodeSelector: p.receiver(),
			Position:             pos,
			NewContent:           content,
		}, nil
	case EventUpdateNodeContent, EventReplaceNodeContent:
		p, err := decodeRender(ev)
		if err != nil {
			return nil, err
		}
		content, err := p.content()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", shared.ErrMalformedPayload, ev.Type, err)
		}
		if p.receiver() == "" {
			return nil, fmt.Errorf("%w: %s: missing receiver", shared.ErrMalformedPayload, ev.Type)
		}
		return UpdateContent{ReceiverNodeSelector: p.receiver(), NewContent: content}, nil
	case EventError:
		return Error{Text: ev.Data}, nil
	case EventMessage:
		return Diagnostic{Text: ev.Data}, nil
	default:
		return nil, fmt.Errorf("%w: %q", shared.ErrUnknownEvent, ev.Type)
	}
}

func decodeRender(ev sse.Event) (renderPayload, error) {
	var p renderPayload
	if err := json.Unmarshal([]byte(ev.Data), &p); err != nil {
		return p, fmt.Errorf("%w: %s: %v", shared.ErrMalformedPayload, ev.Type, err)
	}
	return p, nil
}

// Command maps m to the tree mutation it describes.
// It reports false for messages that do not touch the tree.
func Command(m Message) (patch.Command, bool) {
	switch m := m.(type) {
	case NewTask:
		return patch.Append{ContainerID: models.Queued.ContainerID(), Markup: m.Markup}, true
	case Remove:
		return patch.Remove{NodeID: m.NodeID}, true
	case ReplaceNode:
		return patch.ReplaceSubtree{
			TargetNodeID:     m.TargetNodeID,
			ReceiverSelector: m.ReceiverNodeSelector,
			Position:         m.Position,
			Markup:           m.NewContent,
		}, true
	case UpdateContent:
		return patch.ReplaceContent{ReceiverSelector: m.ReceiverNodeSelector, Markup: m.NewContent}, true
	default:
		return nil, false
	}
}
