package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/taskview/internal/formatter"
	"github.com/desertthunder/taskview/internal/tasks"
)

// Snapshot fetches the task list once and prints it, writes it to a file, or exports every format.
func (r *Runner) Snapshot(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	progress := make(chan tasks.ProgressUpdate, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for u := range progress {
			r.logger.Debug(u.Message, "phase", u.Phase)
		}
	}()
	defer func() {
		close(progress)
		<-done
	}()

	s := tasks.NewSnapshotter(r.api, r.config.Poll.SnapshotPath)
	board, err := s.Snapshot(ctx, progress)
	if err != nil {
		return err
	}

	if dir := cmd.String("export-dir"); dir != "" {
		result, err := s.BulkExport(ctx, progress, board, tasks.BulkExportOpts{OutputDir: dir})
		if err != nil {
			return err
		}
		r.writePlainHeader("Export complete")
		r.writePlain("Tasks:    %d\n", result.TaskCount)
		r.writePlain("Written:  %d\n", result.SuccessfulExports)
		r.writePlain("Failed:   %d\n", result.FailedExports)
		r.writePlain("Manifest: %s\n", result.ManifestPath)
		return nil
	}

	if path := cmd.String("output"); path != "" {
		if err := formatter.WriteExport(board, format, path); err != nil {
			return err
		}
		return r.writePlain("✓ wrote %d tasks to %s\n", board.Count(), path)
	}

	data, err := formatter.Export(board, format)
	if err != nil {
		return err
	}
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
