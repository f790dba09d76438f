package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/desertthunder/taskview/internal/control"
)

var (
	_ control.Notifier  = (*consolePrompter)(nil)
	_ control.Confirmer = (*consolePrompter)(nil)
)

// consolePrompter prints alerts and reads yes/no answers from a line-oriented input.
type consolePrompter struct {
	out     io.Writer
	in      *bufio.Reader
	assumeY bool
}

func newConsolePrompter(out io.Writer, in io.Reader, assumeYes bool) *consolePrompter {
	return &consolePrompter{out: out, in: bufio.NewReader(in), assumeY: assumeYes}
}

func (c *consolePrompter) Alert(_ context.Context, text string) error {
	_, err := fmt.Fprintf(c.out, "! %s\n", text)
	return err
}

func (c *consolePrompter) Confirm(_ context.Context, question string) (bool, error) {
	if c.assumeY {
		return true, nil
	}
	if _, err := fmt.Fprintf(c.out, "%s [y/N] ", question); err != nil {
		return false, err
	}
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return false, nil
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
