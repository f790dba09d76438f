package ui

import (
	"context"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/taskview/internal/control"
	"github.com/desertthunder/taskview/internal/shared"
)

var (
	_ control.Notifier  = (*Prompter)(nil)
	_ control.Confirmer = (*Prompter)(nil)
)

// Prompter shows alerts and confirmations as modals in a running program.
//
// Each call blocks until the user answers, ctx is done, or the prompter is closed.
type Prompter struct {
	mu   sync.Mutex
	send func(tea.Msg)
	done chan struct{}
	once sync.Once
}

// NewPrompter creates a prompter that is not yet attached to a program.
func NewPrompter() *Prompter {
	return &Prompter{done: make(chan struct{})}
}

// Attach routes prompts through send, typically [tea.Program.Send].
func (p *Prompter) Attach(send func(tea.Msg)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.send = send
}

// Close releases every pending and future prompt.
func (p *Prompter) Close() {
	p.once.Do(func() { close(p.done) })
}

// Alert shows text and waits for it to be dismissed.
func (p *Prompter) Alert(ctx context.Context, text string) error {
	_, err := p.ask(ctx, text, false)
	return err
}

// Confirm asks a yes/no question.
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	return p.ask(ctx, question, true)
}

func (p *Prompter) ask(ctx context.Context, text string, confirm bool) (bool, error) {
	p.mu.Lock()
	send := p.send
	p.mu.Unlock()
	if send == nil {
		return false, fmt.Errorf("%w: prompter is not attached", shared.ErrMissingConfig)
	}

	pr := &prompt{text: text, confirm: confirm, reply: make(chan bool, 1)}
	select {
	case <-p.done:
		return false, context.Canceled
	default:
	}
	send(promptMsg(pr))

	select {
	case answer := <-pr.reply:
		return answer, nil
	case <-ctx.Done():
		return false, ctx.Err()
	case <-p.done:
		return false, context.Canceled
	}
}
