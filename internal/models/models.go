package models

import (
	"fmt"
	"time"
)

// Bucket is one of the three lifecycle groupings of task rows.
type Bucket string

const (
	Queued Bucket = "queued"
	Active Bucket = "active"
	Ended  Bucket = "ended"
)

// Buckets lists every bucket in display order.
var Buckets = []Bucket{Queued, Active, Ended}

// ContainerID returns the id of the element that holds the bucket's rows.
func (b Bucket) ContainerID() string {
	return string(b)
}

// ScrollSelector returns the selector of the scrollable pane that wraps the bucket.
func (b Bucket) ScrollSelector() string {
	if b == Queued {
		return "#queue"
	}
	return "#" + string(b)
}

// Validate reports whether b is a known bucket.
func (b Bucket) Validate() error {
	switch b {
	case Queued, Active, Ended:
		return nil
	default:
		return fmt.Errorf("unknown bucket %q", string(b))
	}
}

// Task is a snapshot of one task row.
type Task struct {
	ID     string // Unique identifier (the row element's id)
	Bucket Bucket // Bucket the row is rendered in
	Markup string // Outer markup of the row
	Text   string // Visible text of the row, whitespace-collapsed
	Error  string // Text of the row's "<id>-error" element, empty when absent
}

// HasError reports whether the task carries an error payload.
func (t Task) HasError() bool {
	return t.Error != ""
}

// ErrorNodeID returns the id of the element holding the error payload of task id.
func ErrorNodeID(id string) string {
	return id + "-error"
}

// Board is the task list at one moment, grouped by bucket.
type Board struct {
	Source  string // Where the board was read from
	TakenAt time.Time
	Tasks   map[Bucket][]Task
}

// NewBoard creates an empty board.
func NewBoard(source string, takenAt time.Time) *Board {
	return &Board{Source: source, TakenAt: takenAt, Tasks: make(map[Bucket][]Task, len(Buckets))}
}

// Count returns the number of tasks across every bucket.
func (b *Board) Count() int {
	n := 0
	for _, tasks := range b.Tasks {
		n += len(tasks)
	}
	return n
}

// Failed returns the tasks carrying an error payload, in bucket order.
func (b *Board) Failed() []Task {
	var out []Task
	for _, bucket := range Buckets {
		for _, t := range b.Tasks[bucket] {
			if t.HasError() {
				out = append(out, t)
			}
		}
	}
	return out
}
