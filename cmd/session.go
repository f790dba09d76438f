package main

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/desertthunder/taskview/internal/control"
	"github.com/desertthunder/taskview/internal/engine"
	"github.com/desertthunder/taskview/internal/poll"
	"github.com/desertthunder/taskview/internal/push"
	"github.com/desertthunder/taskview/internal/sse"
)

// session is one live view: the engine plus the push listener and poll refresher feeding it.
type session struct {
	engine     *engine.Engine
	stream     *sse.Client
	listener   *push.Listener
	refresher  *poll.Refresher
	dispatcher *control.Dispatcher
}

// sessionOpts are the user-facing collaborators of a session. Nil fields log instead of prompting.
type sessionOpts struct {
	Notifier  control.Notifier
	Confirmer control.Confirmer
	Clipboard control.Clipboard
	LastID    string
}

func (r *Runner) newSession(opts sessionOpts) (*session, error) {
	if err := r.config.Validate(); err != nil {
		return nil, err
	}

	eng, err := engine.New(r.logger, engine.Options{
		Root:     r.config.Poll.RootSelector,
		Notifier: opts.Notifier,
	})
	if err != nil {
		return nil, err
	}

	stream := sse.NewClient(
		r.api.URL(r.config.Stream.Path),
		r.api.HTTPClient(),
		sse.WithLogger(r.logger),
		sse.WithRetry(r.config.Stream.Retry()),
		sse.WithLastEventID(opts.LastID),
	)

	refresher := poll.NewRefresher(r.api, eng, r.logger, poll.Options{
		Interval:     r.config.Poll.Interval(),
		SnapshotPath: r.config.Poll.SnapshotPath,
		IntervalPath: r.config.Poll.IntervalPath,
	})

	clip := opts.Clipboard
	if clip == nil {
		clip = r.clipboard
	}

	return &session{
		engine:    eng,
		stream:    stream,
		listener:  push.NewListener(stream, eng, r.logger),
		refresher: refresher,
		dispatcher: control.NewDispatcher(r.api, control.Deps{
			Notifier:  eng,
			Confirmer: opts.Confirmer,
			Clipboard: clip,
			Tree:      eng,
			Reloader:  refresher,
		}, r.logger),
	}, nil
}

// run drives the engine loop, the listener and the refresher until ctx is cancelled or one of them fails.
func (s *session) run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.engine.Run(ctx) })
	g.Go(func() error { return s.listener.Run(ctx) })
	g.Go(func() error { return s.refresher.Run(ctx) })

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("session stopped: %w", err)
	}
	return nil
}
