package poll

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/taskview/internal/services"
	"github.com/desertthunder/taskview/internal/shared"
)

// DefaultInterval is the refresh period when none is configured.
const DefaultInterval = 5 * time.Second

// Fetcher issues GET requests against the dashboard server.
type Fetcher interface {
	Get(ctx context.Context, path string) (*services.APIResponse, error)
}

// Target is the tree a snapshot is swapped into.
//
// Swap must replace the content, re-activate it and restore scroll offsets as one uninterrupted step.
type Target interface {
	SaveScroll(ctx context.Context) error
	Swap(ctx context.Context, markup string) error
}

// Options configure a [Refresher].
type Options struct {
	Interval     time.Duration
	SnapshotPath string
	// IntervalPath, when set, is fetched once at start for a plain-text seconds value.
	IntervalPath string
}

// Refresher runs the snapshot loop.
type Refresher struct {
	api     Fetcher
	target  Target
	logger  *log.Logger
	opts    Options
	trigger chan struct{}
}

// NewRefresher creates a refresher. Zero options fall back to [DefaultInterval] and "/renderTasks".
func NewRefresher(api Fetcher, target Target, logger *log.Logger, opts Options) *Refresher {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.SnapshotPath == "" {
		opts.SnapshotPath = "/renderTasks"
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Refresher{
		api:     api,
		target:  target,
		logger:  logger,
		opts:    opts,
		trigger: make(chan struct{}, 1),
	}
}

// Interval returns the current refresh period.
func (r *Refresher) Interval() time.Duration {
	return r.opts.Interval
}

// ResolveInterval asks the server for its preferred period.
// Failures and unusable values keep the configured interval.
func (r *Refresher) ResolveInterval(ctx context.Context) time.Duration {
	if r.opts.IntervalPath == "" {
		return r.opts.Interval
	}

	resp, err := r.api.Get(ctx, r.opts.IntervalPath)
	if err != nil {
		r.logger.Debug("interval lookup failed", "error", err)
		return r.opts.Interval
	}
	if !resp.OK() {
		r.logger.Debug("interval lookup failed", "status", resp.StatusCode)
		return r.opts.Interval
	}

	d, err := ParseInterval(resp.Text())
	if err != nil {
		r.logger.Debug("ignoring server interval", "body", resp.Text(), "error", err)
		return r.opts.Interval
	}
	r.opts.Interval = d
	return d
}

// ParseInterval reads a floating-point number of seconds.
func ParseInterval(s string) (time.Duration, error) {
	secs, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	d := shared.Seconds(secs)
	if d <= 0 {
		return 0, fmt.Errorf("%w: interval must be positive", shared.ErrInvalidInput)
	}
	return d, nil
}

// Tick performs one save, fetch and swap cycle.
// On any fetch failure the target is not swapped.
func (r *Refresher) Tick(ctx context.Context) error {
	if err := r.target.SaveScroll(ctx); err != nil {
		return err
	}

	resp, err := r.api.Get(ctx, r.opts.SnapshotPath)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrSnapshotFailed, err)
	}
	if !resp.OK() {
		return fmt.Errorf("%w: status %d", shared.ErrSnapshotFailed, resp.StatusCode)
	}

	return r.target.Swap(ctx, resp.Text())
}

// Trigger requests an immediate refresh. Requests made while one is pending are merged.
func (r *Refresher) Trigger() {
	select {
	case r.trigger <- struct{}{}:
	default:
	}
}

// Run refreshes once immediately, then on every interval and trigger until ctx is cancelled.
func (r *Refresher) Run(ctx context.Context) error {
	interval := r.ResolveInterval(ctx)
	r.logger.Info("polling", "path", r.opts.SnapshotPath, "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.tick(ctx)
		case <-r.trigger:
			r.tick(ctx)
			ticker.Reset(interval)
		}
	}
}

func (r *Refresher) tick(ctx context.Context) {
	if err := r.Tick(ctx); err != nil && ctx.Err() == nil {
		r.logger.Debug("refresh skipped", "error", err)
	}
}
