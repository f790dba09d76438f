package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/taskview/internal/repositories"
	"github.com/desertthunder/taskview/internal/shared"
	"github.com/desertthunder/taskview/internal/ui"
)

// TUI launches the interactive task dashboard.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	logPath := cmd.String("log-file")
	if logPath == "" {
		logPath = r.config.Log.File
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(logPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, shared.ParseLogLevel(r.config.Log.Level))
	r.SetLogger(fileLogger)

	db, err := r.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	prompter := ui.NewPrompter()
	defer prompter.Close()

	s, err := r.newSession(sessionOpts{Notifier: prompter, Confirmer: prompter})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := ui.NewModel(ctx, s.engine, s.dispatcher, r.catalog(), repositories.NewPreferenceRepository(db), r.logger)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	prompter.Attach(p.Send)

	done := make(chan error, 1)
	go func() { done <- s.run(ctx) }()

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		cancel()
		<-done
		return fmt.Errorf("error running TUI: %w", err)
	}

	cancel()
	prompter.Close()
	return <-done
}
