package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/taskview/internal/models"
)

var _ list.Item = taskItem{}

// taskItem wraps [models.Task] to implement [list.Item].
type taskItem struct {
	task models.Task
}

func (i taskItem) FilterValue() string { return i.task.Text }
func (i taskItem) Title() string {
	if i.task.Text == "" {
		return i.task.ID
	}
	return i.task.Text
}
func (i taskItem) Description() string {
	if i.task.HasError() {
		return fmt.Sprintf("%s • %s", i.task.ID, styles.err.Render(firstLine(i.task.Error)))
	}
	return i.task.ID
}

func taskItems(tasks []models.Task) []list.Item {
	items := make([]list.Item, len(tasks))
	for i, t := range tasks {
		items[i] = taskItem{task: t}
	}
	return items
}

func newTaskList(bucket models.Bucket) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = paneTitle(bucket)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)
	l.KeyMap.ShowFullHelp.SetEnabled(false)
	l.KeyMap.CloseFullHelp.SetEnabled(false)
	return l
}

func paneTitle(b models.Bucket) string {
	switch b {
	case models.Queued:
		return "Queued"
	case models.Active:
		return "Active"
	case models.Ended:
		return "Ended"
	default:
		return string(b)
	}
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
