package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/taskview/internal/engine"
	"github.com/desertthunder/taskview/internal/models"
)

// Watch runs a live view without a dashboard and logs a summary of every change.
func (r *Runner) Watch(ctx context.Context, cmd *cli.Command) error {
	s, err := r.newSession(sessionOpts{LastID: cmd.String("last-event-id")})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go r.logChanges(ctx, s.engine, cmd.Bool("html"))

	r.logger.Info("watching", "stream", s.stream.URL(), "session", s.engine.ID())
	return s.run(ctx)
}

func (r *Runner) logChanges(ctx context.Context, eng *engine.Engine, printHTML bool) {
	changes := eng.Changes()
	for {
		select {
		case <-ctx.Done():
			return
		case v := <-changes:
			r.logger.Info("view changed",
				"revision", v.Revision,
				"queued", len(v.Tasks(models.Queued)),
				"active", len(v.Tasks(models.Active)),
				"ended", len(v.Tasks(models.Ended)),
			)
			if !printHTML {
				continue
			}
			html, err := eng.HTML(ctx)
			if err != nil {
				r.logger.Debug("failed to render document", "error", err)
				continue
			}
			r.writePlain("%s\n", html)
		}
	}
}
