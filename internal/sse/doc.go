// Package sse is a client for text/event-stream endpoints.
package sse
