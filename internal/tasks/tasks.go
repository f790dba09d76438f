package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/taskview/internal/dom"
	"github.com/desertthunder/taskview/internal/engine"
	"github.com/desertthunder/taskview/internal/models"
	"github.com/desertthunder/taskview/internal/services"
	"github.com/desertthunder/taskview/internal/shared"
)

// DefaultSnapshotPath is the endpoint that renders the task list fragment.
const DefaultSnapshotPath = "/renderTasks"

// APIClient is the subset of [services.APIService] used to read snapshots.
type APIClient interface {
	Get(ctx context.Context, path string) (*services.APIResponse, error)
	URL(path string) string
}

// Snapshotter reads the task list without a live view.
type Snapshotter struct {
	api  APIClient
	path string
	now  func() time.Time
}

// NewSnapshotter creates a Snapshotter reading path from api. An empty path uses [DefaultSnapshotPath].
func NewSnapshotter(api APIClient, path string) *Snapshotter {
	if path == "" {
		path = DefaultSnapshotPath
	}
	return &Snapshotter{api: api, path: path, now: time.Now}
}

// Snapshot fetches the rendered task list and groups its rows by bucket.
func (s *Snapshotter) Snapshot(ctx context.Context, progress chan<- ProgressUpdate) (*models.Board, error) {
	if s.api == nil {
		return nil, fmt.Errorf("%w: API client not initialized", shared.ErrServiceUnavailable)
	}

	source := s.api.URL(s.path)
	sendProgress(progress, fetchSnapshotUpdate(source))

	resp, err := s.api.Get(ctx, s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrSnapshotFailed, err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: status %d", shared.ErrSnapshotFailed, resp.StatusCode)
	}

	board, err := ParseBoard(resp.Text(), source, s.now())
	if err != nil {
		return nil, err
	}
	sendProgress(progress, parsedSnapshotUpdate(board))
	return board, nil
}

// ParseBoard swaps fragment into the dashboard shell and reads every bucket.
func ParseBoard(fragment, source string, takenAt time.Time) (*models.Board, error) {
	doc, err := dom.Parse(engine.Shell)
	if err != nil {
		return nil, err
	}
	root, err := doc.Resolve(engine.DefaultRoot)
	if err != nil {
		return nil, err
	}
	if err := doc.SetInner(root, fragment); err != nil {
		return nil, err
	}

	board := models.NewBoard(source, takenAt)
	for _, bucket := range models.Buckets {
		board.Tasks[bucket] = doc.Tasks(bucket)
	}
	return board, nil
}
