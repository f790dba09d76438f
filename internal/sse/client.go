package sse

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/desertthunder/taskview/internal/shared"
)

// ErrorType is the type of the synthetic event emitted when a connection drops.
const ErrorType = "error"

// DefaultRetry is the reconnection delay used until the server sends a retry field.
const DefaultRetry = 3 * time.Second

// Client subscribes to an event stream and reconnects when it drops.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *log.Logger
	limiter    *rate.Limiter
	lastID     string
}

// Option configures a [Client].
type Option func(*Client)

// WithLogger sets the logger for connection lifecycle messages.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithRetry sets the initial reconnection delay.
func WithRetry(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.limiter.SetLimit(rate.Every(d))
		}
	}
}

// WithLastEventID seeds the Last-Event-ID sent on the first connection.
func WithLastEventID(id string) Option {
	return func(c *Client) { c.lastID = id }
}

// NewClient creates a client for url. A nil httpClient uses [http.DefaultClient].
func NewClient(url string, httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &Client{
		url:        url,
		httpClient: httpClient,
		logger:     log.Default(),
		limiter:    rate.NewLimiter(rate.Every(DefaultRetry), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the stream endpoint.
func (c *Client) URL() string { return c.url }

// Subscribe connects and calls fn for every event until ctx is cancelled.
//
// After each dropped connection fn receives an event of type [ErrorType] with empty data,
// and the client reconnects once the limiter allows. fn runs on the calling goroutine, in receipt order.
func (c *Client) Subscribe(ctx context.Context, fn func(Event)) error {
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		connID := uuid.NewString()
		logger := c.logger.With("conn", connID)
		logger.Debug("connecting", "url", c.url, "last_event_id", c.lastID)

		err := c.stream(ctx, fn)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		switch {
		case errors.Is(err, shared.ErrStreamClosed):
			logger.Debug("stream ended")
		case errors.Is(err, shared.ErrLineTooLong):
			logger.Error("event line exceeds the size limit, reconnecting", "error", err)
		default:
			logger.Warn("stream dropped", "error", err)
		}
		fn(Event{ID: c.lastID, Type: ErrorType})
	}
}

// stream runs one connection until it ends.
func (c *Client) stream(ctx context.Context, fn func(Event)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	if c.lastID != "" {
		req.Header.Set("Last-Event-ID", c.lastID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d", shared.ErrServiceUnavailable, resp.StatusCode)
	}

	dec := NewDecoder(resp.Body, c.lastID)
	retry := time.Duration(0)
	for {
		ev, err := dec.Next()
		c.lastID = dec.LastID()
		if r := dec.Retry(); r > 0 && r != retry {
			retry = r
			c.limiter.SetLimit(rate.Every(r))
		}
		if errors.Is(err, io.EOF) {
			return shared.ErrStreamClosed
		}
		if err != nil {
			return err
		}
		fn(ev)
	}
}
