package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Tree errors
	ErrReceiverNotFound = fmt.Errorf("receiver node not found")
	ErrInvalidSelector  = fmt.Errorf("invalid selector")
	ErrInvalidPosition  = fmt.Errorf("invalid insert position")
	ErrInvalidMarkup    = fmt.Errorf("invalid markup")

	// Push stream errors
	ErrUnknownEvent     = fmt.Errorf("unknown event type")
	ErrMalformedPayload = fmt.Errorf("malformed event payload")
	ErrStreamClosed     = fmt.Errorf("event stream closed")
	ErrLineTooLong      = fmt.Errorf("event stream line too long")

	// Engine errors
	ErrLoopStopped = fmt.Errorf("event loop stopped")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrSnapshotFailed     = fmt.Errorf("snapshot fetch failed")

	// Persistence errors
	ErrPreferenceNotFound = fmt.Errorf("preference not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidMode     = fmt.Errorf("invalid mode")
)
