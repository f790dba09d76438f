// Package formatter provides functions to export task boards to various formats (CSV, Markdown, JSON, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/desertthunder/taskview/internal/models"
	"github.com/desertthunder/taskview/internal/shared"
)

// Format names an export format.
type Format string

const (
	Text     Format = "text"
	CSV      Format = "csv"
	Markdown Format = "markdown"
	JSON     Format = "json"
)

// Formats lists every supported format.
var Formats = []Format{Text, CSV, Markdown, JSON}

// ParseFormat reads a format name; "md" and "txt" are accepted as short forms.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return Text, nil
	case "csv":
		return CSV, nil
	case "markdown", "md":
		return Markdown, nil
	case "json":
		return JSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
	}
}

// Export renders board in format f.
func Export(board *models.Board, f Format) ([]byte, error) {
	switch f {
	case Text:
		return ExportToText(board)
	case CSV:
		return ExportToCSV(board)
	case Markdown:
		return ExportToMarkdown(board)
	case JSON:
		return ExportToJSON(board)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, string(f))
	}
}

// ExportToCSV converts a Board to CSV format with columns: ID, Bucket, Text, Error
func ExportToCSV(board *models.Board) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"ID", "Bucket", "Text", "Error"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, bucket := range models.Buckets {
		for _, task := range board.Tasks[bucket] {
			if err := writer.Write([]string{task.ID, string(bucket), task.Text, task.Error}); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a Board to Markdown with one section per bucket
func ExportToMarkdown(board *models.Board) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# Tasks\n\n")
	if board.Source != "" {
		fmt.Fprintf(&buf, "**Source**: %s\n", board.Source)
	}
	fmt.Fprintf(&buf, "**Taken**: %s\n", board.TakenAt.Format(time.RFC3339))
	fmt.Fprintf(&buf, "**Tasks**: %d\n\n", board.Count())

	for _, bucket := range models.Buckets {
		tasks := board.Tasks[bucket]
		fmt.Fprintf(&buf, "## %s (%d)\n\n", title(bucket), len(tasks))
		if len(tasks) == 0 {
			buf.WriteString("_none_\n\n")
			continue
		}
		for i, task := range tasks {
			fmt.Fprintf(&buf, "%d. `%s` %s\n", i+1, task.ID, task.Text)
			if task.HasError() {
				fmt.Fprintf(&buf, "\n   ```\n   %s\n   ```\n", strings.ReplaceAll(task.Error, "\n", "\n   "))
			}
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts a Board to plain text format
func ExportToText(board *models.Board) ([]byte, error) {
	var buf bytes.Buffer

	for _, bucket := range models.Buckets {
		tasks := board.Tasks[bucket]
		fmt.Fprintf(&buf, "%s: %d\n", title(bucket), len(tasks))
		for _, task := range tasks {
			marker := " "
			if task.HasError() {
				marker = "!"
			}
			fmt.Fprintf(&buf, " %s %s  %s\n", marker, task.ID, task.Text)
		}
	}

	return buf.Bytes(), nil
}

// jsonTask omits the raw markup from JSON exports.
type jsonTask struct {
	ID     string `json:"id"`
	Bucket string `json:"bucket"`
	Text   string `json:"text"`
	Error  string `json:"error,omitempty"`
}

// ExportToJSON converts a Board to indented JSON
func ExportToJSON(board *models.Board) ([]byte, error) {
	out := struct {
		Source  string                `json:"source,omitempty"`
		TakenAt time.Time             `json:"taken_at"`
		Tasks   map[string][]jsonTask `json:"tasks"`
	}{
		Source:  board.Source,
		TakenAt: board.TakenAt,
		Tasks:   make(map[string][]jsonTask, len(models.Buckets)),
	}
	for _, bucket := range models.Buckets {
		tasks := make([]jsonTask, 0, len(board.Tasks[bucket]))
		for _, t := range board.Tasks[bucket] {
			tasks = append(tasks, jsonTask{ID: t.ID, Bucket: string(bucket), Text: t.Text, Error: t.Error})
		}
		out.Tasks[string(bucket)] = tasks
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal board: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteExport renders board in format f and writes it to path.
func WriteExport(board *models.Board, f Format, path string) error {
	data, err := Export(board, f)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s export: %w", f, err)
	}
	return nil
}

func title(b models.Bucket) string {
	s := string(b)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
