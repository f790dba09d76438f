package control

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"

	"github.com/desertthunder/taskview/internal/services"
	"github.com/desertthunder/taskview/internal/shared"
)

const (
	TaskPath    = "/api/task"
	RestartPath = "/api/internal/restart"
)

// API is the subset of [services.APIService] the dispatcher uses.
type API interface {
	Post(ctx context.Context, path string, form url.Values) (*services.APIResponse, error)
	Patch(ctx context.Context, path string, form url.Values) (*services.APIResponse, error)
	Delete(ctx context.Context, path string, form url.Values) (*services.APIResponse, error)
}

// Notifier shows a message the user must acknowledge.
type Notifier interface {
	Alert(ctx context.Context, text string) error
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// Clipboard receives copied text.
type Clipboard interface {
	WriteAll(text string) error
}

// TreeReader reads the live tree without mutating it.
type TreeReader interface {
	Selection(ctx context.Context) ([]string, error)
	ErrorText(ctx context.Context, taskID string) (string, bool, error)
}

// Reloader refreshes the whole view.
type Reloader interface {
	Trigger()
}

// SystemClipboard writes to the operating system clipboard.
type SystemClipboard struct{}

func (SystemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// RequestError is a non-2xx control response. Its body has already been shown to the user.
type RequestError struct {
	Method     string
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, TaskPath, e.StatusCode, e.Body)
}

func (e *RequestError) Unwrap() error { return shared.ErrAPIRequest }

// Deps are the dispatcher's collaborators. Tree and Reloader may be nil when the
// triggers that need them are never dispatched.
type Deps struct {
	Notifier  Notifier
	Confirmer Confirmer
	Clipboard Clipboard
	Tree      TreeReader
	Reloader  Reloader
}

// Dispatcher maps [Action]s onto control requests.
type Dispatcher struct {
	api    API
	deps   Deps
	logger *log.Logger
}

// NewDispatcher creates a dispatcher. A nil Clipboard uses [SystemClipboard].
func NewDispatcher(api API, deps Deps, logger *log.Logger) *Dispatcher {
	if deps.Clipboard == nil {
		deps.Clipboard = SystemClipboard{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Dispatcher{api: api, deps: deps, logger: logger}
}

// Dispatch performs a.
//
// A non-2xx response is alerted verbatim and returned as a [*RequestError]. A transport failure is
// logged and returned without an alert.
func (d *Dispatcher) Dispatch(ctx context.Context, a Action) error {
	if a.Trigger.NeedsTask() && a.TaskID == "" {
		return fmt.Errorf("%w: %s needs a task id", shared.ErrMissingArgument, a.Trigger)
	}

	if mode, ok := a.Trigger.BulkMode(); ok {
		return d.send(ctx, "DELETE", url.Values{"Mode": {string(mode)}})
	}

	switch a.Trigger {
	case ClearSelection:
		return d.clearSelection(ctx)
	case RemoveTask:
		return d.send(ctx, "DELETE", url.Values{
			"Mode":    {string(ModeSingle)},
			"IDs":     {a.TaskID},
			"AlbumID": {a.TaskID},
		})
	case RetryTask:
		return d.send(ctx, "PATCH", url.Values{"AlbumID": {a.TaskID}, "Id": {a.TaskID}})
	case CopyError:
		return d.copyError(ctx, a.TaskID)
	case SubmitTask:
		return d.submit(ctx, a.Form)
	case Restart:
		return d.restart(ctx)
	default:
		return fmt.Errorf("%w: %s", shared.ErrInvalidArgument, a.Trigger)
	}
}

func (d *Dispatcher) clearSelection(ctx context.Context) error {
	if d.deps.Tree == nil {
		return fmt.Errorf("%w: no tree to select from", shared.ErrMissingConfig)
	}
	ids, err := d.deps.Tree.Selection(ctx)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		d.logger.Info("nothing to clear")
		return nil
	}
	return d.send(ctx, "DELETE", url.Values{"Mode": {string(ModeMultiple)}, "IDs": {JoinIDs(ids)}})
}

func (d *Dispatcher) copyError(ctx context.Context, taskID string) error {
	if d.deps.Tree == nil {
		return fmt.Errorf("%w: no tree to read from", shared.ErrMissingConfig)
	}
	text, ok, err := d.deps.Tree.ErrorText(ctx, taskID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: no error log for task %q", shared.ErrReceiverNotFound, taskID)
	}
	if err := d.deps.Clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to copy error log: %w", err)
	}
	return d.alert(ctx, fmt.Sprintf("Error log of task %s copied", taskID))
}

func (d *Dispatcher) submit(ctx context.Context, form *TaskForm) error {
	if form == nil || form.AlbumID == "" && form.Slugs == "" {
		return fmt.Errorf("%w: album id", shared.ErrMissingArgument)
	}

	slugs := form.Slugs
	if slugs == "" {
		slugs = form.AlbumID
	}
	values := url.Values{"AlbumID": {form.AlbumID}, "Slugs": {slugs}}
	if form.Service != "" {
		values.Set("Service", form.Service)
	}

	resp, err := d.api.Post(ctx, TaskPath, values)
	if err != nil {
		d.logger.Error("submit failed", "error", err)
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	form.Reset()
	return d.check(ctx, "POST", resp)
}

func (d *Dispatcher) restart(ctx context.Context) error {
	if d.deps.Confirmer != nil {
		ok, err := d.deps.Confirmer.Confirm(ctx, "Restart the server?")
		if err != nil || !ok {
			return nil
		}
	}

	if resp, err := d.api.Post(ctx, RestartPath, nil); err != nil {
		d.logger.Debug("restart request failed", "error", err)
	} else if !resp.OK() {
		d.logger.Debug("restart rejected", "status", resp.StatusCode)
	}

	if d.deps.Reloader != nil {
		d.deps.Reloader.Trigger()
	}
	return nil
}

func (d *Dispatcher) send(ctx context.Context, method string, form url.Values) error {
	var (
		resp *services.APIResponse
		err  error
	)
	switch method {
	case "DELETE":
		resp, err = d.api.Delete(ctx, TaskPath, form)
	case "PATCH":
		resp, err = d.api.Patch(ctx, TaskPath, form)
	default:
		resp, err = d.api.Post(ctx, TaskPath, form)
	}
	if err != nil {
		d.logger.Error("control request failed", "method", method, "error", err)
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	return d.check(ctx, method, resp)
}

func (d *Dispatcher) check(ctx context.Context, method string, resp *services.APIResponse) error {
	if resp.OK() {
		return nil
	}
	reqErr := &RequestError{Method: method, StatusCode: resp.StatusCode, Body: resp.Text()}
	d.logger.Warn("control request rejected", "method", method, "status", resp.StatusCode)
	if err := d.alert(ctx, reqErr.Body); err != nil {
		return errors.Join(reqErr, err)
	}
	return reqErr
}

func (d *Dispatcher) alert(ctx context.Context, text string) error {
	if d.deps.Notifier == nil {
		d.logger.Info(text)
		return nil
	}
	return d.deps.Notifier.Alert(ctx, text)
}
