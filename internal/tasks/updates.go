package tasks

import (
	"fmt"

	"github.com/desertthunder/taskview/internal/formatter"
	"github.com/desertthunder/taskview/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchSnapshot Phase = iota
	ParseSnapshot
	ExportBoard
)

func (p Phase) String() string {
	switch p {
	case FetchSnapshot:
		return "fetch_snapshot"
	case ParseSnapshot:
		return "parse_snapshot"
	case ExportBoard:
		return "export_board"
	default:
		return ""
	}
}

// sendProgress sends update without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func fetchSnapshotUpdate(url string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSnapshot,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching task list from %s...", url),
	}
}

func parsedSnapshotUpdate(board *models.Board) ProgressUpdate {
	return ProgressUpdate{
		Phase: ParseSnapshot,
		Step:  1,
		Total: 1,
		Message: fmt.Sprintf("Found %d tasks (%d queued, %d active, %d ended)",
			board.Count(), len(board.Tasks[models.Queued]), len(board.Tasks[models.Active]), len(board.Tasks[models.Ended])),
		Data: board,
	}
}

func exportCompletedUpdate(step, total int, f formatter.Format, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportBoard,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%s)", step, total, f, path),
	}
}

func exportFailedUpdate(step, total int, f formatter.Format, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportBoard,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, f, err),
	}
}
