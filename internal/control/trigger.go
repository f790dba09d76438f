package control

import (
	"fmt"
	"strings"

	"github.com/desertthunder/taskview/internal/shared"
)

// Trigger is a user action the dispatcher knows how to carry out.
type Trigger int

const (
	ClearQueued Trigger = iota
	ClearCompleted
	ClearSucceeded
	ClearFailed
	RetryFailed
	ClearSelection
	RemoveTask
	RetryTask
	CopyError
	SubmitTask
	Restart
)

var triggerNames = map[Trigger]string{
	ClearQueued:    "clear-queued",
	ClearCompleted: "clear-completed",
	ClearSucceeded: "clear-succeeded",
	ClearFailed:    "clear-failed",
	RetryFailed:    "retry-failed",
	ClearSelection: "clear-selection",
	RemoveTask:     "remove-task",
	RetryTask:      "retry-task",
	CopyError:      "copy-error",
	SubmitTask:     "submit-task",
	Restart:        "restart",
}

func (t Trigger) String() string {
	if name, ok := triggerNames[t]; ok {
		return name
	}
	return fmt.Sprintf("trigger(%d)", int(t))
}

// bulkModes are the triggers that clear a whole bucket.
var bulkModes = map[Trigger]Mode{
	ClearQueued:    ModeQueued,
	ClearCompleted: ModeCompleted,
	ClearSucceeded: ModeSucceeded,
	ClearFailed:    ModeFailed,
	RetryFailed:    ModeRetryFailed,
}

// BulkMode returns the mode sent for a whole-bucket trigger.
func (t Trigger) BulkMode() (Mode, bool) {
	m, ok := bulkModes[t]
	return m, ok
}

// NeedsTask reports whether the trigger operates on one task id.
func (t Trigger) NeedsTask() bool {
	switch t {
	case RemoveTask, RetryTask, CopyError:
		return true
	default:
		return false
	}
}

// ParseTrigger reads a trigger name. The button ids of the web dashboard are accepted too.
func ParseTrigger(s string) (Trigger, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, name := range triggerNames {
		if name == s {
			return t, nil
		}
	}
	if t, ok := controlIDs[s]; ok {
		return t, nil
	}
	return 0, fmt.Errorf("%w: unknown action %q", shared.ErrInvalidArgument, s)
}

// controlIDs maps the element ids of the web dashboard's buttons to triggers.
// clear-fail-completed clears failed tasks; retry-fail-completed retries them.
var controlIDs = map[string]Trigger{
	"clear-queued":            ClearQueued,
	"clear-all-completed":     ClearCompleted,
	"clear-success-completed": ClearSucceeded,
	"clear-fail-completed":    ClearFailed,
	"retry-fail-completed":    RetryFailed,
	"task-ctrl-remove-task":   RemoveTask,
	"task-ctrl-retry":         RetryTask,
	"task-ctrl-copy-error":    CopyError,
}

// TaskForm is the new-task form.
type TaskForm struct {
	AlbumID string
	Slugs   string
	Service string
}

// Reset clears the identifying field and keeps the service selection.
func (f *TaskForm) Reset() {
	f.AlbumID = ""
}

// Action is one dispatched trigger with the payload it needs.
type Action struct {
	Trigger Trigger
	TaskID  string
	Form    *TaskForm
}
