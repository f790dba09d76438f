package patch

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/taskview/internal/dom"
	"github.com/desertthunder/taskview/internal/shared"
)

// Activator is called after every mutation that changed the tree.
type Activator interface {
	Activate(doc *dom.Document)
}

// ActivatorFunc adapts a function to [Activator].
type ActivatorFunc func(doc *dom.Document)

func (f ActivatorFunc) Activate(doc *dom.Document) { f(doc) }

// Applier performs [Command]s against a document.
//
// It is not safe for concurrent use; callers serialize access to the document.
type Applier struct {
	doc       *dom.Document
	logger    *log.Logger
	activator Activator
}

// NewApplier creates an applier for doc. activator may be nil.
func NewApplier(doc *dom.Document, logger *log.Logger, activator Activator) *Applier {
	if logger == nil {
		logger = log.Default()
	}
	return &Applier{doc: doc, logger: logger, activator: activator}
}

// Apply performs cmd.
//
// A missing removal target is not an error. A missing receiver returns [shared.ErrReceiverNotFound]
// and leaves the tree as it was, apart from a removal half already applied.
func (a *Applier) Apply(cmd Command) error {
	var (
		changed bool
		err     error
	)

	switch c := cmd.(type) {
	case Append:
		changed, err = a.append(c)
	case Remove:
		changed = a.remove(c.NodeID)
	case ReplaceSubtree:
		changed, err = a.replaceSubtree(c)
	case ReplaceContent:
		changed, err = a.replaceContent(c)
	case nil:
		return fmt.Errorf("%w: nil command", shared.ErrInvalidInput)
	default:
		return fmt.Errorf("%w: unsupported command %T", shared.ErrInvalidInput, cmd)
	}

	if changed {
		a.activate()
	}
	if err != nil {
		return fmt.Errorf("%s: %w", cmd.Kind(), err)
	}
	return nil
}

func (a *Applier) append(c Append) (bool, error) {
	container, ok := a.doc.ByID(c.ContainerID)
	if !ok {
		return false, fmt.Errorf("%w: container %q", shared.ErrReceiverNotFound, c.ContainerID)
	}
	if _, err := a.doc.Insert(container, dom.BeforeEnd, c.Markup); err != nil {
		return false, err
	}
	return true, nil
}

func (a *Applier) remove(id string) bool {
	if a.doc.RemoveByID(id) {
		return true
	}
	a.logger.Debug("remove target already gone", "id", id)
	return false
}

func (a *Applier) replaceSubtree(c ReplaceSubtree) (bool, error) {
	pos, err := dom.ParsePosition(string(c.Position))
	if err != nil {
		return false, err
	}

	removed := false
	if c.TargetNodeID != "" {
		removed = a.remove(c.TargetNodeID)
	}

	receiver, err := a.doc.Resolve(c.ReceiverSelector)
	if err != nil {
		return removed, err
	}
	if _, err := a.doc.Insert(receiver, pos, c.Markup); err != nil {
		return removed, err
	}
	return true, nil
}

func (a *Applier) replaceContent(c ReplaceContent) (bool, error) {
	receiver, err := a.doc.Resolve(c.ReceiverSelector)
	if err != nil {
		return false, err
	}
	if err := a.doc.SetInner(receiver, c.Markup); err != nil {
		return false, err
	}
	return true, nil
}

func (a *Applier) activate() {
	if a.activator != nil {
		a.activator.Activate(a.doc)
	}
}
