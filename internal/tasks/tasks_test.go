package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/desertthunder/taskview/internal/formatter"
	"github.com/desertthunder/taskview/internal/models"
	"github.com/desertthunder/taskview/internal/services"
	"github.com/desertthunder/taskview/internal/shared"
	th "github.com/desertthunder/taskview/internal/testing"
)

const fragment = `<section id="queue"><ul id="queued"><li id="q1">Queued album</li></ul></section>
<section id="active"><div id="a1">Downloading</div></section>
<section id="ended"><header id="ended-header">Ended</header>
<div id="e1">Done</div>
<div id="e2">Broken <pre id="e2-error">404 not found</pre></div>
<footer id="ended-footer"></footer></section>`

func newServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != DefaultSnapshotPath {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func fixedSnapshotter(api APIClient) *Snapshotter {
	s := NewSnapshotter(api, "")
	s.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestSnapshot(t *testing.T) {
	t.Run("groups rows by bucket", func(t *testing.T) {
		server := newServer(t, http.StatusOK, fragment)
		s := fixedSnapshotter(services.NewAPIService(server.URL, server.Client()))
		progress := make(chan ProgressUpdate, 4)

		board, err := s.Snapshot(context.Background(), progress)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if board.Source != server.URL+DefaultSnapshotPath {
			t.Errorf("expected source %s, got %s", server.URL+DefaultSnapshotPath, board.Source)
		}
		if board.Count() != 4 {
			t.Errorf("expected 4 tasks, got %d", board.Count())
		}
		if ended := board.Tasks[models.Ended]; len(ended) != 2 || ended[0].ID != "e1" {
			t.Errorf("ended rows should exclude the header and footer, got %+v", ended)
		}
		if failed := board.Failed(); len(failed) != 1 || failed[0].Error != "404 not found" {
			t.Errorf("expected one failed task, got %+v", failed)
		}

		close(progress)
		var phases []Phase
		for u := range progress {
			phases = append(phases, u.Phase)
		}
		if len(phases) != 2 || phases[0] != FetchSnapshot || phases[1] != ParseSnapshot {
			t.Errorf("unexpected phases: %v", phases)
		}
	})

	t.Run("non-2xx fails", func(t *testing.T) {
		server := newServer(t, http.StatusServiceUnavailable, "busy")
		s := fixedSnapshotter(services.NewAPIService(server.URL, server.Client()))

		if _, err := s.Snapshot(context.Background(), nil); !errors.Is(err, shared.ErrSnapshotFailed) {
			t.Errorf("expected ErrSnapshotFailed, got %v", err)
		}
	})

	t.Run("nil client", func(t *testing.T) {
		s := NewSnapshotter(nil, "")
		if _, err := s.Snapshot(context.Background(), nil); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

func TestParseBoard(t *testing.T) {
	board, err := ParseBoard(`<section id="queue"><ul id="queued"></ul></section>`, "test", time.Time{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if board.Count() != 0 {
		t.Errorf("expected empty board, got %d tasks", board.Count())
	}
	if _, ok := board.Tasks[models.Active]; !ok {
		t.Error("every bucket should have an entry")
	}
}

func TestBulkExport(t *testing.T) {
	board, err := ParseBoard(fragment, "test", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name      string
		formats   []formatter.Format
		wantFiles []string
	}{
		{name: "every format by default", wantFiles: []string{"tasks.txt", "tasks.csv", "tasks.md", "tasks.json"}},
		{name: "single format", formats: []formatter.Format{formatter.CSV}, wantFiles: []string{"tasks.csv"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			s := fixedSnapshotter(nil)

			result, err := s.BulkExport(context.Background(), nil, board, BulkExportOpts{Formats: tt.formats, OutputDir: dir})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.SuccessfulExports != len(tt.wantFiles) || result.FailedExports != 0 {
				t.Errorf("expected %d successes, got %d (failed %d)", len(tt.wantFiles), result.SuccessfulExports, result.FailedExports)
			}
			for _, name := range tt.wantFiles {
				th.AssertFileExists(t, filepath.Join(dir, name))
			}

			data, err := os.ReadFile(filepath.Join(dir, ManifestName))
			if err != nil {
				t.Fatalf("manifest not written: %v", err)
			}
			var manifest BulkExportResult
			if err := json.Unmarshal(data, &manifest); err != nil {
				t.Fatalf("invalid manifest: %v", err)
			}
			if manifest.TaskCount != 4 || len(manifest.Results) != len(tt.wantFiles) {
				t.Errorf("unexpected manifest: %+v", manifest)
			}
		})
	}

	t.Run("unknown format is recorded and others continue", func(t *testing.T) {
		dir := t.TempDir()
		s := fixedSnapshotter(nil)
		result, err := s.BulkExport(context.Background(), nil, board, BulkExportOpts{
			Formats:   []formatter.Format{formatter.Text, formatter.Format("xml")},
			OutputDir: dir,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.SuccessfulExports != 1 || result.FailedExports != 1 {
			t.Errorf("expected 1 success and 1 failure, got %d/%d", result.SuccessfulExports, result.FailedExports)
		}
		for _, r := range result.Results {
			if !r.Success && r.Message == "" {
				t.Error("failed result should carry its error message")
			}
		}
	})

	t.Run("default output directory", func(t *testing.T) {
		wd := th.MustGetwd(t)
		th.MustChdir(t, t.TempDir())
		t.Cleanup(func() { th.MustChdir(t, wd) })

		s := fixedSnapshotter(nil)
		result, err := s.BulkExport(context.Background(), nil, board, BulkExportOpts{Formats: []formatter.Format{formatter.JSON}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.OutputDirectory != "tasks_export_1740830400" {
			t.Errorf("unexpected output directory %s", result.OutputDirectory)
		}
	})
}
