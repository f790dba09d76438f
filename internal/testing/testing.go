// Package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"
	"testing"
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// RecordingNotifier collects alerts and answers confirmations with Answer.
type RecordingNotifier struct {
	mu       sync.Mutex
	Answer   bool
	AlertErr error
	alerts   []string
	prompts  []string
}

func (n *RecordingNotifier) Alert(_ context.Context, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, text)
	return n.AlertErr
}

func (n *RecordingNotifier) Confirm(_ context.Context, prompt string) (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.prompts = append(n.prompts, prompt)
	return n.Answer, nil
}

// Alerts returns a copy of every alert seen so far.
func (n *RecordingNotifier) Alerts() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.alerts...)
}

// Prompts returns a copy of every confirmation prompt seen so far.
func (n *RecordingNotifier) Prompts() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.prompts...)
}

// FakeClipboard keeps the last written text in memory.
type FakeClipboard struct {
	Text string
	Err  error
}

func (c *FakeClipboard) WriteAll(text string) error {
	if c.Err != nil {
		return c.Err
	}
	c.Text = text
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
