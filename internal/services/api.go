package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// DefaultBaseURL is the address the dashboard server listens on out of the box.
const DefaultBaseURL = "http://127.0.0.1:5522"

// APIService provides methods for making raw HTTP requests to the dashboard server.
type APIService struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIService creates a new API service instance for the server at baseURL.
func NewAPIService(baseURL string, client *http.Client) *APIService {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &APIService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
	}
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// OK reports whether the status is 2xx.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Text returns the body as a string.
func (r *APIResponse) Text() string {
	return string(r.Body)
}

// URL joins path onto the base URL.
func (a *APIService) URL(path string) string {
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return a.baseURL + path
}

// HTTPClient returns the underlying client.
func (a *APIService) HTTPClient() *http.Client {
	return a.httpClient
}

// Get performs a GET request to the specified path and returns the raw response.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	return a.do(ctx, http.MethodGet, path, nil)
}

// Post sends form as a POST body.
func (a *APIService) Post(ctx context.Context, path string, form url.Values) (*APIResponse, error) {
	return a.do(ctx, http.MethodPost, path, form)
}

// Patch sends form as a PATCH body.
func (a *APIService) Patch(ctx context.Context, path string, form url.Values) (*APIResponse, error) {
	return a.do(ctx, http.MethodPatch, path, form)
}

// Delete sends form as a DELETE body.
func (a *APIService) Delete(ctx context.Context, path string, form url.Values) (*APIResponse, error) {
	return a.do(ctx, http.MethodDelete, path, form)
}

func (a *APIService) do(ctx context.Context, method, path string, form url.Values) (*APIResponse, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, a.URL(path), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       data,
	}, nil
}
