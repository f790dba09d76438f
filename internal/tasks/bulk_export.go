package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/desertthunder/taskview/internal/formatter"
	"github.com/desertthunder/taskview/internal/models"
)

// BulkExportOpts contains configuration for multi-format exports.
type BulkExportOpts struct {
	Formats    []formatter.Format // Formats to write (default: every format)
	OutputDir  string             // Output directory (default: tasks_export_{epoch})
	BaseName   string             // File name without extension (default: tasks)
	NumWorkers int                // Concurrent workers (default: 2, max: 4)
}

// FormatExportResult is the outcome of writing one format.
type FormatExportResult struct {
	Format  formatter.Format `json:"format"`
	File    string           `json:"file,omitempty"`
	Success bool             `json:"success"`
	Error   error            `json:"-"`
	Message string           `json:"error,omitempty"`
}

// BulkExportResult summarizes a multi-format export.
type BulkExportResult struct {
	Source            string               `json:"source"`
	TakenAt           time.Time            `json:"taken_at"`
	TaskCount         int                  `json:"task_count"`
	OutputDirectory   string               `json:"output_directory"`
	SuccessfulExports int                  `json:"successful_exports"`
	FailedExports     int                  `json:"failed_exports"`
	Results           []FormatExportResult `json:"results"`
	ManifestPath      string               `json:"-"`
}

// ManifestName is the file the export summary is written to.
const ManifestName = "export_manifest.json"

var extensions = map[formatter.Format]string{
	formatter.Text:     "txt",
	formatter.CSV:      "csv",
	formatter.Markdown: "md",
	formatter.JSON:     "json",
}

// BulkExport writes board in every requested format on a worker pool and records the files in a manifest.
//
// A failed format does not stop the others; the manifest is written regardless.
func (s *Snapshotter) BulkExport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	board *models.Board,
	opts BulkExportOpts,
) (*BulkExportResult, error) {
	if len(opts.Formats) == 0 {
		opts.Formats = formatter.Formats
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("tasks_export_%d", s.now().Unix())
	}
	if opts.BaseName == "" {
		opts.BaseName = "tasks"
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 2
	}
	if opts.NumWorkers > 4 {
		opts.NumWorkers = 4
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkExportResult{
		Source:          board.Source,
		TakenAt:         board.TakenAt,
		TaskCount:       board.Count(),
		OutputDirectory: opts.OutputDir,
		Results:         make([]FormatExportResult, 0, len(opts.Formats)),
	}

	jobs := make(chan formatter.Format, len(opts.Formats))
	results := make(chan FormatExportResult, len(opts.Formats))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go exportWorker(ctx, &wg, board, jobs, results, opts)
	}

	for _, f := range opts.Formats {
		jobs <- f
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	total := len(opts.Formats)
	completed := 0
	for res := range results {
		completed++
		if res.Success {
			result.SuccessfulExports++
			sendProgress(prog, exportCompletedUpdate(completed, total, res.Format, res.File))
		} else {
			result.FailedExports++
			res.Message = res.Error.Error()
			sendProgress(prog, exportFailedUpdate(completed, total, res.Format, res.Error))
		}
		result.Results = append(result.Results, res)
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	manifestPath := filepath.Join(opts.OutputDir, ManifestName)
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return result, fmt.Errorf("export completed but failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, data, 0644); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// exportWorker writes formats from jobs until it is closed or ctx is done.
func exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	board *models.Board,
	jobs <-chan formatter.Format,
	results chan<- FormatExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for f := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}
		results <- exportFormat(board, f, opts)
	}
}

func exportFormat(board *models.Board, f formatter.Format, opts BulkExportOpts) FormatExportResult {
	ext, ok := extensions[f]
	if !ok {
		ext = string(f)
	}
	path := filepath.Join(opts.OutputDir, opts.BaseName+"."+ext)

	if err := formatter.WriteExport(board, f, path); err != nil {
		return FormatExportResult{Format: f, Error: err}
	}
	return FormatExportResult{Format: f, File: path, Success: true}
}
