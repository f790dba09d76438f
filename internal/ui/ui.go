package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/desertthunder/taskview/internal/control"
	"github.com/desertthunder/taskview/internal/engine"
	"github.com/desertthunder/taskview/internal/models"
	"github.com/desertthunder/taskview/internal/services"
)

// ViewSource publishes engine views and accepts scroll changes.
type ViewSource interface {
	Changes() <-chan engine.View
	SetScroll(selector string, offset int) error
}

// Dispatcher performs control actions.
type Dispatcher interface {
	Dispatch(ctx context.Context, a control.Action) error
}

// ServiceStore persists the selected download service.
type ServiceStore interface {
	SelectedService(fallback string) (string, error)
	SetSelectedService(service string) error
}

// Model represents the TUI application state.
type Model struct {
	ctx        context.Context
	source     ViewSource
	dispatcher Dispatcher
	store      ServiceStore
	catalog    *services.Catalog
	logger     *log.Logger

	view     engine.View
	panes    []list.Model
	offsets  []int
	focus    int
	service  string
	inputs   []textinput.Model
	input    int
	editing  bool
	prompts  []*prompt
	pending  int
	status   string
	width    int
	height   int
	help     help.Model
	keys     keyMap
	fullHelp bool
}

// NewModel creates a new TUI model with the provided dependencies. store may be nil.
func NewModel(ctx context.Context, source ViewSource, dispatcher Dispatcher, catalog *services.Catalog, store ServiceStore, logger *log.Logger) *Model {
	if catalog == nil {
		catalog = services.NewCatalog(nil)
	}
	if logger == nil {
		logger = log.Default()
	}

	m := &Model{
		ctx:        ctx,
		source:     source,
		dispatcher: dispatcher,
		store:      store,
		catalog:    catalog,
		logger:     logger,
		help:       help.New(),
		keys:       newKeyMap(),
		width:      120,
		height:     30,
	}

	for _, b := range models.Buckets {
		m.panes = append(m.panes, newTaskList(b))
		m.offsets = append(m.offsets, 0)
	}

	album := textinput.New()
	album.Placeholder = "album id"
	album.Prompt = "Album: "
	slugs := textinput.New()
	slugs.Placeholder = "slugs (defaults to album id)"
	slugs.Prompt = "Slugs: "
	m.inputs = []textinput.Model{album, slugs}

	m.service = catalog.Default()
	if store != nil {
		if s, err := store.SelectedService(catalog.Default()); err == nil {
			m.service = catalog.Resolve(s)
		} else {
			logger.Warn("failed to read selected service", "error", err)
		}
	}

	m.resize()
	return m
}

// Init starts waiting for engine views.
func (m *Model) Init() tea.Cmd {
	return m.waitForView()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		switch {
		case len(m.prompts) > 0:
			return m.handlePromptKeys(msg)
		case m.editing:
			return m.handleFormKeys(msg)
		default:
			return m.handleBoardKeys(msg)
		}

	case Msg:
		switch msg.kind {
		case MsgViewChanged:
			m.applyView(msg.data.(engine.View))
			return m, m.waitForView()
		case MsgActionDone:
			m.finishAction(msg.data.(actionResult))
			return m, nil
		case MsgPrompt:
			m.prompts = append(m.prompts, msg.data.(*prompt))
			return m, nil
		}
	}

	return m, nil
}

// View renders the dashboard.
func (m *Model) View() string {
	var b strings.Builder

	header := fmt.Sprintf("%s  service: %s  rev %d", styles.title.Render("taskview"), styles.ok.Render(m.service), m.view.Revision)
	if m.pending > 0 {
		header += styles.warn.Render(fmt.Sprintf("  (%d pending)", m.pending))
	}
	b.WriteString(header + "\n")

	panes := make([]string, len(m.panes))
	for i, p := range m.panes {
		style := styles.pane
		if i == m.focus {
			style = styles.focused
		}
		panes[i] = style.Render(p.View())
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, panes...) + "\n")

	if m.editing {
		b.WriteString(m.renderForm() + "\n")
	}
	if len(m.prompts) > 0 {
		b.WriteString(m.renderPrompt() + "\n")
	}
	if m.status != "" {
		b.WriteString(m.status + "\n")
	}

	if m.fullHelp {
		b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	} else {
		b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	}
	return b.String()
}

func (m *Model) handlePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.prompts[0]
	answered := false

	switch {
	case p.confirm && key.Matches(msg, m.keys.yes):
		p.reply <- true
		answered = true
	case p.confirm && key.Matches(msg, m.keys.no):
		p.reply <- false
		answered = true
	case !p.confirm && (key.Matches(msg, m.keys.enter) || key.Matches(msg, m.keys.back)):
		p.reply <- true
		answered = true
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	}

	if answered {
		m.prompts = m.prompts[1:]
	}
	return m, nil
}

func (m *Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.editing = false
		m.inputs[m.input].Blur()
		return m, nil
	case key.Matches(msg, m.keys.next), key.Matches(msg, m.keys.prev):
		m.inputs[m.input].Blur()
		m.input = (m.input + 1) % len(m.inputs)
		return m, m.inputs[m.input].Focus()
	case key.Matches(msg, m.keys.enter):
		if m.input < len(m.inputs)-1 {
			m.inputs[m.input].Blur()
			m.input++
			return m, m.inputs[m.input].Focus()
		}
		return m, m.submit()
	}

	var cmd tea.Cmd
	m.inputs[m.input], cmd = m.inputs[m.input].Update(msg)
	return m, cmd
}

func (m *Model) handleBoardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.help):
		m.fullHelp = !m.fullHelp
		return m, nil
	case key.Matches(msg, m.keys.next):
		m.focus = (m.focus + 1) % len(m.panes)
		return m, nil
	case key.Matches(msg, m.keys.prev):
		m.focus = (m.focus + len(m.panes) - 1) % len(m.panes)
		return m, nil
	case key.Matches(msg, m.keys.newTask):
		m.editing = true
		m.input = 0
		return m, m.inputs[0].Focus()
	case key.Matches(msg, m.keys.service):
		return m, m.cycleService()
	case key.Matches(msg, m.keys.retry):
		return m, m.rowAction(control.RetryTask)
	case key.Matches(msg, m.keys.remove):
		return m, m.rowAction(control.RemoveTask)
	case key.Matches(msg, m.keys.copyError):
		return m, m.rowAction(control.CopyError)
	case key.Matches(msg, m.keys.clearQueued):
		return m, m.dispatch(control.Action{Trigger: control.ClearQueued})
	case key.Matches(msg, m.keys.clearSucceeded):
		return m, m.dispatch(control.Action{Trigger: control.ClearSucceeded})
	case key.Matches(msg, m.keys.clearFailed):
		return m, m.dispatch(control.Action{Trigger: control.ClearFailed})
	case key.Matches(msg, m.keys.clearCompleted):
		return m, m.dispatch(control.Action{Trigger: control.ClearCompleted})
	case key.Matches(msg, m.keys.retryFailed):
		return m, m.dispatch(control.Action{Trigger: control.RetryFailed})
	case key.Matches(msg, m.keys.clearSelection):
		return m, m.dispatch(control.Action{Trigger: control.ClearSelection})
	case key.Matches(msg, m.keys.restart):
		return m, m.dispatch(control.Action{Trigger: control.Restart})
	}

	var cmd tea.Cmd
	m.panes[m.focus], cmd = m.panes[m.focus].Update(msg)
	m.reportScroll(m.focus)
	return m, cmd
}

// applyView replaces every pane's rows and restores the offsets the engine reports.
func (m *Model) applyView(v engine.View) {
	m.view = v
	for i, b := range models.Buckets {
		tasks := v.Tasks(b)
		m.panes[i].SetItems(taskItems(tasks))
		offset := v.Offset(b)
		if offset >= len(tasks) {
			offset = len(tasks) - 1
		}
		if offset < 0 {
			offset = 0
		}
		m.panes[i].Select(offset)
		m.offsets[i] = m.panes[i].Index()
	}
}

// reportScroll tells the engine when the cursor of pane i moved.
func (m *Model) reportScroll(i int) {
	idx := m.panes[i].Index()
	if idx == m.offsets[i] {
		return
	}
	m.offsets[i] = idx
	if m.source == nil {
		return
	}
	if err := m.source.SetScroll(models.Buckets[i].ScrollSelector(), idx); err != nil {
		m.logger.Debug("failed to report scroll offset", "pane", models.Buckets[i], "error", err)
	}
}

func (m *Model) selectedTask() (models.Task, bool) {
	item, ok := m.panes[m.focus].SelectedItem().(taskItem)
	if !ok {
		return models.Task{}, false
	}
	return item.task, true
}

// rowAction dispatches trigger for the selected row when the row renders that control.
func (m *Model) rowAction(trigger control.Trigger) tea.Cmd {
	task, ok := m.selectedTask()
	if !ok {
		m.status = styles.warn.Render("no task selected")
		return nil
	}
	row, ok := m.view.Bindings.Lookup(task.ID, trigger)
	if !ok {
		m.status = styles.warn.Render(fmt.Sprintf("task %s has no %s control", task.ID, trigger))
		return nil
	}
	return m.dispatch(row.Action())
}

func (m *Model) submit() tea.Cmd {
	form := &control.TaskForm{
		AlbumID: strings.TrimSpace(m.inputs[0].Value()),
		Slugs:   strings.TrimSpace(m.inputs[1].Value()),
		Service: m.service,
	}
	if form.AlbumID == "" {
		m.status = styles.warn.Render("album id is required")
		return nil
	}
	m.editing = false
	m.inputs[m.input].Blur()
	return m.dispatch(control.Action{Trigger: control.SubmitTask, Form: form})
}

func (m *Model) dispatch(a control.Action) tea.Cmd {
	if m.dispatcher == nil {
		return nil
	}
	m.pending++
	m.status = styles.help.Render(fmt.Sprintf("%s...", a.Trigger))
	ctx, d := m.ctx, m.dispatcher
	return func() tea.Msg {
		return actionDoneMsg(a, d.Dispatch(ctx, a))
	}
}

func (m *Model) finishAction(r actionResult) {
	if m.pending > 0 {
		m.pending--
	}

	if r.action.Trigger == control.SubmitTask && r.action.Form != nil && r.action.Form.AlbumID == "" {
		m.inputs[0].Reset()
	}

	var reqErr *control.RequestError
	switch {
	case r.err == nil:
		m.status = styles.ok.Render(fmt.Sprintf("✓ %s", r.action.Trigger))
	case errors.As(r.err, &reqErr):
		m.status = styles.err.Render(fmt.Sprintf("✗ %s rejected (status %d)", r.action.Trigger, reqErr.StatusCode))
	default:
		m.status = styles.err.Render(fmt.Sprintf("✗ %s: %v", r.action.Trigger, r.err))
	}
}

func (m *Model) cycleService() tea.Cmd {
	next := m.catalog.Next(m.service)
	if m.store != nil {
		if err := m.store.SetSelectedService(next); err != nil {
			m.status = styles.err.Render(fmt.Sprintf("failed to save service: %v", err))
			return nil
		}
	}
	m.service = next
	m.status = fmt.Sprintf("service: %s", next)
	return nil
}

func (m *Model) waitForView() tea.Cmd {
	if m.source == nil {
		return nil
	}
	changes := m.source.Changes()
	return func() tea.Msg {
		select {
		case v, ok := <-changes:
			if !ok {
				return nil
			}
			return viewChangedMsg(v)
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *Model) resize() {
	w := m.width/len(m.panes) - 4
	h := m.height - 8
	if w < 10 {
		w = 10
	}
	if h < 3 {
		h = 3
	}
	for i := range m.panes {
		m.panes[i].SetSize(w, h)
	}
	m.help.Width = m.width
}

func (m *Model) renderForm() string {
	lines := []string{styles.title.Render("New task") + "  " + styles.help.Render("service: "+m.service)}
	for _, in := range m.inputs {
		lines = append(lines, in.View())
	}
	lines = append(lines, styles.help.Render("enter next/submit • tab switch • esc cancel"))
	return strings.Join(lines, "\n")
}

func (m *Model) renderPrompt() string {
	p := m.prompts[0]
	hint := "enter ok"
	if p.confirm {
		hint = "y yes • n no"
	}
	body := fmt.Sprintf("%s\n\n%s", p.text, styles.help.Render(hint))
	if more := len(m.prompts) - 1; more > 0 {
		body += styles.help.Render(fmt.Sprintf(" • %d more", more))
	}
	return styles.modal.Render(body)
}
