package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/taskview/internal/shared"
)

// Loop runs posted functions one at a time, in the order they were posted.
// Post never blocks; the queue is unbounded.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	closed  bool
	wake    chan struct{}
	stopped chan struct{}
	logger  *log.Logger
}

// NewLoop creates a loop. Nothing runs until [Loop.Run] is called.
func NewLoop(logger *log.Logger) *Loop {
	if logger == nil {
		logger = log.Default()
	}
	return &Loop{
		wake:    make(chan struct{}, 1),
		stopped: make(chan struct{}),
		logger:  logger,
	}
}

// Post enqueues fn.
func (l *Loop) Post(fn func()) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return shared.ErrLoopStopped
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return nil
}

// Do enqueues fn and waits for it to return.
//
// Do must not be called from a function running on the loop.
func (l *Loop) Do(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)
	err := l.Post(func() {
		defer func() {
			if r := recover(); r != nil {
				result <- fmt.Errorf("handler panicked: %v", r)
				panic(r)
			}
		}()
		result <- fn()
	})
	if err != nil {
		return err
	}
	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-l.stopped:
		select {
		case err := <-result:
			return err
		default:
			return shared.ErrLoopStopped
		}
	}
}

// Run processes the queue until ctx is cancelled. Functions still queued at that point are dropped.
func (l *Loop) Run(ctx context.Context) error {
	defer l.stop()
	for {
		l.mu.Lock()
		batch := l.queue
		l.queue = nil
		l.mu.Unlock()

		for _, fn := range batch {
			if ctx.Err() != nil {
				return nil
			}
			l.run(fn)
		}
		if len(batch) > 0 {
			continue
		}

		select {
		case <-ctx.Done():
			return nil
		case <-l.wake:
		}
	}
}

// Stopped is closed once Run has returned.
func (l *Loop) Stopped() <-chan struct{} {
	return l.stopped
}

func (l *Loop) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("handler panicked", "panic", fmt.Sprint(r))
		}
	}()
	fn()
}

func (l *Loop) stop() {
	l.mu.Lock()
	l.closed = true
	l.queue = nil
	l.mu.Unlock()
	close(l.stopped)
}
