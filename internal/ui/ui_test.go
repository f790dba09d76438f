package ui

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/desertthunder/taskview/internal/control"
	"github.com/desertthunder/taskview/internal/engine"
	"github.com/desertthunder/taskview/internal/models"
	"github.com/desertthunder/taskview/internal/services"
	"github.com/desertthunder/taskview/internal/shared"
)

type fakeSource struct {
	mu      sync.Mutex
	changes chan engine.View
	scrolls map[string]int
}

func newFakeSource() *fakeSource {
	return &fakeSource{changes: make(chan engine.View, 1), scrolls: make(map[string]int)}
}

func (f *fakeSource) Changes() <-chan engine.View { return f.changes }

func (f *fakeSource) SetScroll(selector string, offset int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scrolls[selector] = offset
	return nil
}

type fakeDispatcher struct {
	actions []control.Action
	err     error
}

func (f *fakeDispatcher) Dispatch(_ context.Context, a control.Action) error {
	f.actions = append(f.actions, a)
	if a.Form != nil && f.err == nil {
		a.Form.Reset()
	}
	return f.err
}

type fakeStore struct {
	value string
	err   error
}

func (f *fakeStore) SelectedService(fallback string) (string, error) {
	if f.value == "" {
		return fallback, nil
	}
	return f.value, nil
}

func (f *fakeStore) SetSelectedService(s string) error {
	if f.err != nil {
		return f.err
	}
	f.value = s
	return nil
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sampleView() engine.View {
	return engine.View{
		Revision: 3,
		Buckets: map[models.Bucket][]models.Task{
			models.Queued: {{ID: "q1", Text: "one"}, {ID: "q2", Text: "two"}, {ID: "q3", Text: "three"}},
			models.Ended:  {{ID: "e1", Text: "done", Error: "boom"}},
		},
		Scroll: map[string]int{"#queue": 2},
		Bindings: control.NewBindings([]control.RowAction{
			{TaskID: "q1", Trigger: control.RemoveTask},
			{TaskID: "e1", Trigger: control.RetryTask},
		}),
	}
}

func newTestModel(t *testing.T, d Dispatcher, store ServiceStore) (*Model, *fakeSource) {
	t.Helper()
	source := newFakeSource()
	m := NewModel(context.Background(), source, d, services.NewCatalog(nil), store, log.New(io.Discard))
	return m, source
}

// run executes cmd and feeds its message back into the model.
func run(m *Model, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	if msg := cmd(); msg != nil {
		m.Update(msg)
	}
}

func TestModelView(t *testing.T) {
	t.Run("applies views and restores offsets", func(t *testing.T) {
		m, source := newTestModel(t, nil, nil)
		source.changes <- sampleView()
		run(m, m.Init())

		if m.view.Revision != 3 {
			t.Errorf("expected revision 3, got %d", m.view.Revision)
		}
		if got := len(m.panes[0].Items()); got != 3 {
			t.Errorf("expected 3 queued items, got %d", got)
		}
		if got := m.panes[0].Index(); got != 2 {
			t.Errorf("expected queued cursor restored to 2, got %d", got)
		}
	})

	t.Run("offsets beyond the rows clamp", func(t *testing.T) {
		m, _ := newTestModel(t, nil, nil)
		v := sampleView()
		v.Scroll = map[string]int{"#ended": 9}
		m.Update(viewChangedMsg(v))

		if got := m.panes[2].Index(); got != 0 {
			t.Errorf("expected ended cursor clamped to 0, got %d", got)
		}
	})

	t.Run("cursor moves report scroll", func(t *testing.T) {
		m, source := newTestModel(t, nil, nil)
		m.Update(viewChangedMsg(engine.View{Buckets: sampleView().Buckets}))
		m.Update(tea.KeyMsg{Type: tea.KeyDown})

		source.mu.Lock()
		defer source.mu.Unlock()
		if got := source.scrolls["#queue"]; got != 1 {
			t.Errorf("expected #queue offset 1, got %d", got)
		}
	})

	t.Run("renders every pane", func(t *testing.T) {
		m, _ := newTestModel(t, nil, nil)
		m.Update(viewChangedMsg(sampleView()))
		out := m.View()
		for _, want := range []string{"Queued", "Active", "Ended", "rev 3"} {
			if !strings.Contains(out, want) {
				t.Errorf("view missing %q", want)
			}
		}
	})
}

func TestModelActions(t *testing.T) {
	t.Run("bulk key dispatches", func(t *testing.T) {
		d := &fakeDispatcher{}
		m, _ := newTestModel(t, d, nil)
		_, cmd := m.Update(keyRunes("c"))
		run(m, cmd)

		if len(d.actions) != 1 || d.actions[0].Trigger != control.ClearCompleted {
			t.Fatalf("expected clear-completed, got %+v", d.actions)
		}
		if m.pending != 0 {
			t.Errorf("expected no pending actions, got %d", m.pending)
		}
	})

	t.Run("row key needs a rendered control", func(t *testing.T) {
		d := &fakeDispatcher{}
		m, _ := newTestModel(t, d, nil)
		m.Update(viewChangedMsg(sampleView()))
		m.panes[0].Select(0)

		_, cmd := m.Update(keyRunes("r"))
		if cmd != nil || len(d.actions) != 0 {
			t.Error("q1 has no retry control and should not dispatch")
		}

		_, cmd = m.Update(keyRunes("x"))
		run(m, cmd)
		if len(d.actions) != 1 || d.actions[0].Trigger != control.RemoveTask || d.actions[0].TaskID != "q1" {
			t.Errorf("expected remove of q1, got %+v", d.actions)
		}
	})

	t.Run("submit form clears album on success", func(t *testing.T) {
		d := &fakeDispatcher{}
		m, _ := newTestModel(t, d, nil)
		m.Update(keyRunes("n"))
		if !m.editing {
			t.Fatal("expected form to open")
		}
		m.Update(keyRunes("123"))
		m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		run(m, cmd)

		if len(d.actions) != 1 {
			t.Fatalf("expected one action, got %d", len(d.actions))
		}
		if a := d.actions[0]; a.Trigger != control.SubmitTask || a.Form.Service != services.DefaultServices[0] {
			t.Errorf("unexpected submit action: %+v", a)
		}
		if m.inputs[0].Value() != "" {
			t.Errorf("expected album input cleared, got %q", m.inputs[0].Value())
		}
	})

	t.Run("empty album is not submitted", func(t *testing.T) {
		d := &fakeDispatcher{}
		m, _ := newTestModel(t, d, nil)
		m.Update(keyRunes("n"))
		m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		if cmd != nil || len(d.actions) != 0 {
			t.Error("expected no dispatch without an album id")
		}
	})

	t.Run("rejected request shows status", func(t *testing.T) {
		d := &fakeDispatcher{err: &control.RequestError{Method: "DELETE", StatusCode: 500, Body: "locked"}}
		m, _ := newTestModel(t, d, nil)
		_, cmd := m.Update(keyRunes("1"))
		run(m, cmd)
		if !strings.Contains(m.status, "status 500") {
			t.Errorf("unexpected status %q", m.status)
		}
	})
}

func TestModelService(t *testing.T) {
	t.Run("loads and persists selection", func(t *testing.T) {
		store := &fakeStore{value: "sukidesuost"}
		m, _ := newTestModel(t, nil, store)
		if m.service != "sukidesuost" {
			t.Fatalf("expected stored service, got %s", m.service)
		}

		m.Update(keyRunes("s"))
		if m.service != "doujinstyle" || store.value != "doujinstyle" {
			t.Errorf("expected cycle to doujinstyle, got %s (stored %s)", m.service, store.value)
		}
	})

	t.Run("unknown stored service falls back", func(t *testing.T) {
		m, _ := newTestModel(t, nil, &fakeStore{value: "gone"})
		if m.service != "doujinstyle" {
			t.Errorf("expected default service, got %s", m.service)
		}
	})

	t.Run("save failure keeps selection", func(t *testing.T) {
		m, _ := newTestModel(t, nil, &fakeStore{err: errors.New("disk full")})
		m.Update(keyRunes("s"))
		if m.service != "doujinstyle" {
			t.Errorf("expected service unchanged, got %s", m.service)
		}
	})
}

func TestPrompter(t *testing.T) {
	t.Run("unattached", func(t *testing.T) {
		p := NewPrompter()
		if err := p.Alert(context.Background(), "hi"); !errors.Is(err, shared.ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("alert blocks until dismissed", func(t *testing.T) {
		m, _ := newTestModel(t, nil, nil)
		msgs := make(chan tea.Msg, 1)
		p := NewPrompter()
		p.Attach(func(msg tea.Msg) { msgs <- msg })

		done := make(chan error, 1)
		go func() { done <- p.Alert(context.Background(), "Error log of task t1 copied") }()

		m.Update(<-msgs)
		select {
		case <-done:
			t.Fatal("alert returned before dismissal")
		case <-time.After(20 * time.Millisecond):
		}
		if !strings.Contains(m.View(), "Error log of task t1 copied") {
			t.Error("modal not rendered")
		}

		m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		if err := <-done; err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if len(m.prompts) != 0 {
			t.Error("prompt should be dismissed")
		}
	})

	t.Run("confirm answers", func(t *testing.T) {
		for _, tt := range []struct {
			key  string
			want bool
		}{{"y", true}, {"n", false}} {
			m, _ := newTestModel(t, nil, nil)
			msgs := make(chan tea.Msg, 1)
			p := NewPrompter()
			p.Attach(func(msg tea.Msg) { msgs <- msg })

			type answer struct {
				ok  bool
				err error
			}
			done := make(chan answer, 1)
			go func() {
				ok, err := p.Confirm(context.Background(), "Restart?")
				done <- answer{ok, err}
			}()

			m.Update(<-msgs)
			m.Update(keyRunes(tt.key))
			got := <-done
			if got.err != nil || got.ok != tt.want {
				t.Errorf("key %s: expected %v, got %v (%v)", tt.key, tt.want, got.ok, got.err)
			}
		}
	})

	t.Run("close releases waiters", func(t *testing.T) {
		p := NewPrompter()
		p.Attach(func(tea.Msg) {})
		done := make(chan error, 1)
		go func() { done <- p.Alert(context.Background(), "x") }()
		p.Close()
		if err := <-done; !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("context cancel releases waiters", func(t *testing.T) {
		p := NewPrompter()
		p.Attach(func(tea.Msg) {})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := p.Confirm(ctx, "x"); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}
