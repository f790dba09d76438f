package engine

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/desertthunder/taskview/internal/control"
	"github.com/desertthunder/taskview/internal/dom"
	"github.com/desertthunder/taskview/internal/models"
	"github.com/desertthunder/taskview/internal/patch"
	"github.com/desertthunder/taskview/internal/scroll"
)

//go:embed shell.html
var Shell string

// DefaultRoot is the element a snapshot replaces the content of.
const DefaultRoot = "#tasks"

// View is a read-only copy of the tree published after every change.
type View struct {
	Revision uint64
	Buckets  map[models.Bucket][]models.Task
	Scroll   map[string]int
	Bindings control.Bindings
}

// Tasks returns the rows of bucket.
func (v View) Tasks(bucket models.Bucket) []models.Task {
	return v.Buckets[bucket]
}

// Offset returns the scroll offset of the pane wrapping bucket.
func (v View) Offset(bucket models.Bucket) int {
	return v.Scroll[bucket.ScrollSelector()]
}

// Options configure an [Engine].
type Options struct {
	// Shell is the initial document. Empty uses the embedded [Shell].
	Shell string
	// Root selects the snapshot container. Empty uses [DefaultRoot].
	Root string
	// Notifier shows alerts. Nil logs them instead.
	Notifier control.Notifier
}

// Engine is the single owner of the live tree.
type Engine struct {
	id       string
	loop     *Loop
	logger   *log.Logger
	notifier control.Notifier
	root     string

	doc      *dom.Document
	applier  *patch.Applier
	tracker  *scroll.Tracker
	bindings control.Bindings
	revision uint64

	changes chan View
}

// New parses the shell document and builds an engine around it.
func New(logger *log.Logger, opts Options) (*Engine, error) {
	if logger == nil {
		logger = log.Default()
	}
	if opts.Shell == "" {
		opts.Shell = Shell
	}
	if opts.Root == "" {
		opts.Root = DefaultRoot
	}

	doc, err := dom.Parse(opts.Shell)
	if err != nil {
		return nil, fmt.Errorf("failed to parse shell: %w", err)
	}
	if _, err := doc.Resolve(opts.Root); err != nil {
		return nil, fmt.Errorf("shell has no snapshot root: %w", err)
	}

	id := uuid.NewString()
	logger = logger.With("session", id[:8])

	e := &Engine{
		id:       id,
		loop:     NewLoop(logger),
		logger:   logger,
		notifier: opts.Notifier,
		root:     opts.Root,
		doc:      doc,
		tracker:  scroll.NewTracker(doc, scroll.DefaultSelectors...),
		changes:  make(chan View, 1),
	}
	e.applier = patch.NewApplier(doc, logger, patch.ActivatorFunc(e.activate))
	e.activate(doc)
	e.publish()
	return e, nil
}

// ID returns the engine's session id.
func (e *Engine) ID() string { return e.id }

// Run processes queued operations until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	e.logger.Debug("engine started")
	defer e.logger.Debug("engine stopped")
	return e.loop.Run(ctx)
}

// Changes delivers the latest [View]. Views not yet received are replaced by newer ones.
func (e *Engine) Changes() <-chan View {
	return e.changes
}

// Apply performs one patch on the loop.
func (e *Engine) Apply(ctx context.Context, cmd patch.Command) error {
	return e.loop.Do(ctx, func() error {
		err := e.applier.Apply(cmd)
		e.publish()
		return err
	})
}

// Alert shows text and waits for the notifier to return.
func (e *Engine) Alert(ctx context.Context, text string) error {
	return e.loop.Do(ctx, func() error {
		if e.notifier == nil {
			e.logger.Warn("alert", "message", text)
			return nil
		}
		return e.notifier.Alert(ctx, text)
	})
}

// SaveScroll records the offsets of the tracked containers.
func (e *Engine) SaveScroll(ctx context.Context) error {
	return e.loop.Do(ctx, func() error {
		e.tracker.SaveAll()
		return nil
	})
}

// Swap replaces the content of the snapshot root, re-activates it and restores scroll offsets.
// If markup cannot be placed the tree is left as it was.
func (e *Engine) Swap(ctx context.Context, markup string) error {
	return e.loop.Do(ctx, func() error {
		root, err := e.doc.Resolve(e.root)
		if err != nil {
			return err
		}
		if err := e.doc.SetInner(root, markup); err != nil {
			return err
		}
		e.activate(e.doc)
		e.tracker.RestoreAll()
		e.publish()
		return nil
	})
}

// Selection returns the ids in the ended bucket, excluding its sentinels.
func (e *Engine) Selection(ctx context.Context) ([]string, error) {
	var ids []string
	err := e.loop.Do(ctx, func() error {
		ids = control.Selection(e.doc, models.Ended.ContainerID())
		return nil
	})
	return ids, err
}

// ErrorText returns the error log rendered for taskID.
func (e *Engine) ErrorText(ctx context.Context, taskID string) (string, bool, error) {
	var (
		text string
		ok   bool
	)
	err := e.loop.Do(ctx, func() error {
		text, ok = e.doc.Text(models.ErrorNodeID(taskID))
		return nil
	})
	return text, ok, err
}

// Snapshot returns the current view.
func (e *Engine) Snapshot(ctx context.Context) (View, error) {
	var v View
	err := e.loop.Do(ctx, func() error {
		v = e.view()
		return nil
	})
	return v, err
}

// HTML renders the whole document.
func (e *Engine) HTML(ctx context.Context) (string, error) {
	var s string
	err := e.loop.Do(ctx, func() error {
		s = e.doc.HTML()
		return nil
	})
	return s, err
}

// SetScroll records a new offset for the container selected by selector without waiting.
func (e *Engine) SetScroll(selector string, offset int) error {
	return e.loop.Post(func() {
		n, err := e.doc.Resolve(selector)
		if err != nil {
			e.logger.Debug("scroll target missing", "selector", selector)
			return
		}
		e.doc.SetScrollTop(n, offset)
		e.publish()
	})
}

// activate recomputes row bindings for the current tree.
func (e *Engine) activate(doc *dom.Document) {
	e.bindings = control.NewBindings(control.BindRows(doc))
}

func (e *Engine) view() View {
	v := View{
		Revision: e.revision,
		Buckets:  make(map[models.Bucket][]models.Task, len(models.Buckets)),
		Scroll:   make(map[string]int),
		Bindings: e.bindings,
	}
	for _, b := range models.Buckets {
		v.Buckets[b] = e.doc.Tasks(b)
	}
	for _, sel := range e.tracker.Selectors() {
		if n, err := e.doc.Resolve(sel); err == nil {
			v.Scroll[sel] = e.doc.ScrollTop(n)
		}
	}
	return v
}

// publish replaces any unread view with the current one. Only loop functions call it.
func (e *Engine) publish() {
	e.revision++
	v := e.view()
	select {
	case <-e.changes:
	default:
	}
	e.changes <- v
}
