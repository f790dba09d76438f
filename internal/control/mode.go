package control

import (
	"fmt"
	"strings"

	"github.com/desertthunder/taskview/internal/shared"
)

// Mode selects which tasks a DELETE /api/task request applies to.
type Mode string

const (
	ModeSingle      Mode = "single"
	ModeMultiple    Mode = "multiple"
	ModeQueued      Mode = "queued"
	ModeCompleted   Mode = "completed"
	ModeSucceeded   Mode = "succeeded"
	ModeFailed      Mode = "failed"
	ModeRetryFailed Mode = "retry-fail-completed"
)

var modes = []Mode{ModeSingle, ModeMultiple, ModeQueued, ModeCompleted, ModeSucceeded, ModeFailed, ModeRetryFailed}

// legacyModes maps deprecated values to their current spelling.
var legacyModes = map[string]Mode{
	"clear-queued":            ModeQueued,
	"clear-all-completed":     ModeCompleted,
	"clear-success-completed": ModeSucceeded,
	"clear-fail-completed":    ModeFailed,
}

// Modes returns every canonical mode.
func Modes() []Mode {
	return append([]Mode(nil), modes...)
}

// ParseMode accepts canonical and deprecated mode names.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, m := range modes {
		if string(m) == s {
			return m, nil
		}
	}
	if m, ok := legacyModes[s]; ok {
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", shared.ErrInvalidMode, s)
}

func (m Mode) String() string { return string(m) }
