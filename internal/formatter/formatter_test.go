package formatter

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/taskview/internal/models"
	"github.com/desertthunder/taskview/internal/shared"
	th "github.com/desertthunder/taskview/internal/testing"
)

func sampleBoard() *models.Board {
	b := models.NewBoard("http://127.0.0.1:5522", time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))
	b.Tasks[models.Queued] = []models.Task{{ID: "q1", Bucket: models.Queued, Text: "Album One"}}
	b.Tasks[models.Ended] = []models.Task{
		{ID: "e1", Bucket: models.Ended, Text: "Album Two"},
		{ID: "e2", Bucket: models.Ended, Text: "Album, Three", Error: "line one\nline two"},
	}
	return b
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleBoard())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}
		output := string(data)

		if !strings.HasPrefix(output, "ID,Bucket,Text,Error\n") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "q1,queued,Album One,") {
			t.Errorf("CSV missing queued row, got: %s", output)
		}
		if !strings.Contains(output, `"Album, Three"`) {
			t.Errorf("CSV should quote fields containing commas, got: %s", output)
		}
		if strings.Index(output, "q1") > strings.Index(output, "e1") {
			t.Error("CSV rows should follow bucket order")
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(sampleBoard())
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}
		output := string(data)

		for _, want := range []string{
			"# Tasks",
			"**Tasks**: 3",
			"## Queued (1)",
			"## Active (0)",
			"_none_",
			"## Ended (2)",
			"2. `e2` Album, Three",
			"   line two",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(sampleBoard())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}
		output := string(data)

		if !strings.Contains(output, "Ended: 2") {
			t.Errorf("text missing bucket count, got: %s", output)
		}
		if !strings.Contains(output, " ! e2  Album, Three") {
			t.Errorf("text should mark failed tasks, got: %s", output)
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(sampleBoard())
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var decoded struct {
			Tasks map[string][]map[string]string `json:"tasks"`
		}
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(decoded.Tasks["ended"]) != 2 || decoded.Tasks["ended"][1]["error"] == "" {
			t.Errorf("unexpected ended tasks: %v", decoded.Tasks["ended"])
		}
		if tasks, ok := decoded.Tasks["active"]; !ok || len(tasks) != 0 {
			t.Errorf("expected empty active list, got %v", tasks)
		}
	})
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{"": Text, "txt": Text, "CSV": CSV, "md": Markdown, "markdown": Markdown, "json": JSON}
	for in, want := range tests {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %s, %v; want %s", in, got, err, want)
		}
	}

	if _, err := ParseFormat("xml"); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestWriteExport(t *testing.T) {
	t.Run("Writes File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "board.md")
		if err := WriteExport(sampleBoard(), Markdown, path); err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		th.AssertFileExists(t, path)
		if content := th.MustReadFile(t, path); !strings.Contains(content, "# Tasks") {
			t.Errorf("unexpected file content: %s", content)
		}
	})

	t.Run("Bad Path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "board.txt")
		if err := WriteExport(sampleBoard(), Text, path); err == nil {
			t.Error("expected error writing into a missing directory")
		}
	})

	t.Run("Unknown Format", func(t *testing.T) {
		if err := WriteExport(sampleBoard(), Format("xml"), filepath.Join(t.TempDir(), "x")); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}
