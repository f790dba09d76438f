package push

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/taskview/internal/patch"
	"github.com/desertthunder/taskview/internal/sse"
)

// Stream delivers events in the order the server emitted them.
type Stream interface {
	Subscribe(ctx context.Context, fn func(sse.Event)) error
}

// Sink receives decoded work. Implementations must process calls in the order they are made.
type Sink interface {
	Apply(ctx context.Context, cmd patch.Command) error
	Alert(ctx context.Context, text string) error
}

// Listener forwards stream events to a [Sink].
type Listener struct {
	stream Stream
	sink   Sink
	logger *log.Logger
}

// NewListener creates a listener reading stream and writing to sink.
func NewListener(stream Stream, sink Sink, logger *log.Logger) *Listener {
	if logger == nil {
		logger = log.Default()
	}
	return &Listener{stream: stream, sink: sink, logger: logger}
}

// Run subscribes and handles events until ctx is cancelled.
func (l *Listener) Run(ctx context.Context) error {
	err := l.stream.Subscribe(ctx, func(ev sse.Event) {
		_ = l.Handle(ctx, ev)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Handle processes one event. Failures are logged and returned; they never stop the stream.
func (l *Listener) Handle(ctx context.Context, ev sse.Event) error {
	msg, err := Decode(ev)
	if err != nil {
		l.logger.Warn("dropping event", "event", ev.Type, "id", ev.ID, "error", err)
		return err
	}

	switch m := msg.(type) {
	case Error:
		if m.Text == "" {
			l.logger.Debug("stream interrupted")
			return nil
		}
		l.logger.Error("server error", "message", m.Text)
		return l.sink.Alert(ctx, m.Text)
	case Diagnostic:
		l.logger.Debug("server message", "message", m.Text)
		return nil
	}

	cmd, ok := Command(msg)
	if !ok {
		return nil
	}
	if err := l.sink.Apply(ctx, cmd); err != nil {
		l.logger.Warn("patch failed", "event", ev.Type, "error", err)
		return err
	}
	l.logger.Debug("patch applied", "event", ev.Type, "kind", cmd.Kind())
	return nil
}
