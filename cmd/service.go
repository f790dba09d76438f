package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/taskview/internal/repositories"
	"github.com/desertthunder/taskview/internal/shared"
)

// ServiceGet prints the selected download service.
func (r *Runner) ServiceGet(ctx context.Context, cmd *cli.Command) error {
	service, err := r.resolveService("")
	if err != nil {
		return err
	}
	return r.writePlain("%s\n", service)
}

// ServiceSet saves the selected download service.
func (r *Runner) ServiceSet(ctx context.Context, cmd *cli.Command) error {
	name := strings.TrimSpace(cmd.StringArg("name"))
	if name == "" {
		return fmt.Errorf("%w: service name", shared.ErrMissingArgument)
	}
	if _, err := r.resolveService(name); err != nil {
		return err
	}

	db, err := r.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repositories.NewPreferenceRepository(db).SetSelectedService(name); err != nil {
		return fmt.Errorf("failed to save service: %w", err)
	}
	return r.writePlain("✓ selected %s\n", name)
}

// ServiceList prints every known service, marking the selected one.
func (r *Runner) ServiceList(ctx context.Context, cmd *cli.Command) error {
	selected, err := r.resolveService("")
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{"selected": selected, "services": r.catalog().Names()}, true)
	}

	for _, name := range r.catalog().Names() {
		marker := " "
		if name == selected {
			marker = "*"
		}
		if err := r.writePlain("%s %s\n", marker, name); err != nil {
			return err
		}
	}
	return nil
}
