package control

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/desertthunder/taskview/internal/dom"
)

// Delimiter joins task ids in a bulk request.
const Delimiter = "|"

// Selection returns the ids of the rows in the container endedID, in document order.
// The first and last children are sentinels and are skipped.
func Selection(doc *dom.Document, endedID string) []string {
	var ids []string
	for _, n := range doc.Interior(endedID) {
		if id, ok := dom.Attr(n, "id"); ok && id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// JoinIDs formats ids for the IDs form field.
func JoinIDs(ids []string) string {
	return strings.Join(ids, Delimiter)
}

// RowAction is a control rendered inside a task row.
type RowAction struct {
	TaskID  string
	Trigger Trigger
	Label   string
}

// Action returns the dispatchable form of r.
func (r RowAction) Action() Action {
	return Action{Trigger: r.Trigger, TaskID: r.TaskID}
}

// BindRows collects the row controls present in doc.
//
// A control is any element with a data-id attribute whose data-action, or failing that its id,
// names a row trigger.
func BindRows(doc *dom.Document) []RowAction {
	var rows []RowAction
	doc.Find("[data-id]").Each(func(_ int, s *goquery.Selection) {
		taskID := strings.TrimSpace(s.AttrOr("data-id", ""))
		if taskID == "" {
			return
		}
		name := s.AttrOr("data-action", "")
		if name == "" {
			name = s.AttrOr("id", "")
		}
		trigger, err := ParseTrigger(name)
		if err != nil || !trigger.NeedsTask() {
			return
		}
		rows = append(rows, RowAction{
			TaskID:  taskID,
			Trigger: trigger,
			Label:   strings.TrimSpace(s.Text()),
		})
	})
	return rows
}

// Bindings indexes row controls by task id.
type Bindings map[string][]RowAction

// NewBindings groups rows by task.
func NewBindings(rows []RowAction) Bindings {
	b := make(Bindings)
	for _, r := range rows {
		b[r.TaskID] = append(b[r.TaskID], r)
	}
	return b
}

// Lookup returns the control for taskID and trigger, if the row renders one.
func (b Bindings) Lookup(taskID string, trigger Trigger) (RowAction, bool) {
	for _, r := range b[taskID] {
		if r.Trigger == trigger {
			return r, true
		}
	}
	return RowAction{}, false
}
