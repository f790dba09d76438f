// Package push decodes server-push events into tree patches and alerts.
package push
