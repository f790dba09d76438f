package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/taskview/internal/control"
	"github.com/desertthunder/taskview/internal/models"
	"github.com/desertthunder/taskview/internal/repositories"
	"github.com/desertthunder/taskview/internal/shared"
	"github.com/desertthunder/taskview/internal/tasks"
)

// boardTree reads the selection and error logs from a one-off snapshot, fetched on first use.
type boardTree struct {
	snapshotter *tasks.Snapshotter
	board       *models.Board
}

func (b *boardTree) load(ctx context.Context) error {
	if b.board != nil {
		return nil
	}
	board, err := b.snapshotter.Snapshot(ctx, nil)
	if err != nil {
		return err
	}
	b.board = board
	return nil
}

func (b *boardTree) Selection(ctx context.Context) ([]string, error) {
	if err := b.load(ctx); err != nil {
		return nil, err
	}
	ended := b.board.Tasks[models.Ended]
	ids := make([]string, 0, len(ended))
	for _, t := range ended {
		ids = append(ids, t.ID)
	}
	return ids, nil
}

func (b *boardTree) ErrorText(ctx context.Context, taskID string) (string, bool, error) {
	if err := b.load(ctx); err != nil {
		return "", false, err
	}
	for _, bucket := range models.Buckets {
		for _, t := range b.board.Tasks[bucket] {
			if t.ID == taskID && t.HasError() {
				return t.Error, true, nil
			}
		}
	}
	return "", false, nil
}

// dispatcher builds a one-shot dispatcher that prompts on the console.
func (r *Runner) dispatcher(assumeYes bool) *control.Dispatcher {
	prompter := newConsolePrompter(r.output, r.input, assumeYes)
	return control.NewDispatcher(r.api, control.Deps{
		Notifier:  prompter,
		Confirmer: prompter,
		Clipboard: r.clipboard,
		Tree:      &boardTree{snapshotter: tasks.NewSnapshotter(r.api, r.config.Poll.SnapshotPath)},
	}, r.logger)
}

// TaskAdd queues a new download using the given or saved service.
func (r *Runner) TaskAdd(ctx context.Context, cmd *cli.Command) error {
	albumID := strings.TrimSpace(cmd.StringArg("album-id"))
	if albumID == "" {
		return fmt.Errorf("%w: album id", shared.ErrMissingArgument)
	}

	service, err := r.resolveService(cmd.String("service"))
	if err != nil {
		return err
	}

	form := &control.TaskForm{AlbumID: albumID, Slugs: cmd.String("slugs"), Service: service}
	if err := r.dispatcher(false).Dispatch(ctx, control.Action{Trigger: control.SubmitTask, Form: form}); err != nil {
		return err
	}
	return r.writePlain("✓ queued %s on %s\n", albumID, service)
}

// TaskRetry retries one task.
func (r *Runner) TaskRetry(ctx context.Context, cmd *cli.Command) error {
	return r.rowTask(ctx, control.RetryTask, cmd.StringArg("id"), "retried")
}

// TaskRemove removes one task.
func (r *Runner) TaskRemove(ctx context.Context, cmd *cli.Command) error {
	return r.rowTask(ctx, control.RemoveTask, cmd.StringArg("id"), "removed")
}

// TaskCopyError copies the error log of one task to the clipboard.
func (r *Runner) TaskCopyError(ctx context.Context, cmd *cli.Command) error {
	return r.rowTask(ctx, control.CopyError, cmd.StringArg("id"), "")
}

func (r *Runner) rowTask(ctx context.Context, trigger control.Trigger, id, verb string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: task id", shared.ErrMissingArgument)
	}
	if err := r.dispatcher(false).Dispatch(ctx, control.Action{Trigger: trigger, TaskID: id}); err != nil {
		return err
	}
	if verb == "" {
		return nil
	}
	return r.writePlain("✓ %s %s\n", verb, id)
}

// TaskClear clears tasks in bulk.
func (r *Runner) TaskClear(ctx context.Context, cmd *cli.Command) error {
	mode, err := control.ParseMode(cmd.String("mode"))
	if err != nil {
		return err
	}
	trigger, err := triggerForMode(mode)
	if err != nil {
		return err
	}
	if err := r.dispatcher(false).Dispatch(ctx, control.Action{Trigger: trigger}); err != nil {
		return err
	}
	return r.writePlain("✓ %s\n", trigger)
}

// Restart asks the server to restart.
func (r *Runner) Restart(ctx context.Context, cmd *cli.Command) error {
	return r.dispatcher(cmd.Bool("yes")).Dispatch(ctx, control.Action{Trigger: control.Restart})
}

var bulkTriggers = []control.Trigger{
	control.ClearQueued, control.ClearCompleted, control.ClearSucceeded, control.ClearFailed, control.RetryFailed,
}

// triggerForMode maps a clear mode onto the trigger that sends it.
func triggerForMode(mode control.Mode) (control.Trigger, error) {
	if mode == control.ModeMultiple {
		return control.ClearSelection, nil
	}
	for _, t := range bulkTriggers {
		if m, ok := t.BulkMode(); ok && m == mode {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %s clears one task, use task remove", shared.ErrInvalidMode, mode)
}

// resolveService returns name when given, otherwise the saved selection.
func (r *Runner) resolveService(name string) (string, error) {
	catalog := r.catalog()
	if name != "" {
		if !catalog.Contains(name) {
			return "", fmt.Errorf("%w: unknown service %q (known: %s)", shared.ErrInvalidArgument, name, strings.Join(catalog.Names(), ", "))
		}
		return name, nil
	}

	db, err := r.openDB()
	if err != nil {
		r.logger.Warn("using default service", "error", err)
		return catalog.Default(), nil
	}
	defer db.Close()

	saved, err := repositories.NewPreferenceRepository(db).SelectedService(catalog.Default())
	if err != nil {
		return "", err
	}
	return catalog.Resolve(saved), nil
}
