// Package services talks to the dashboard server.
//
// # API Client
//
// [APIService] issues raw requests against the server's control endpoints. Request bodies are
// form-encoded, matching what the dashboard's own form posts send. Responses are returned whole as
// an [APIResponse]; callers decide what a non-2xx status means. A non-nil error always means the
// request never produced a response.
//
// # Catalog
//
// [Catalog] is the list of download services a task can be submitted to, in the order they are cycled
// through in the dashboard.
package services
