package tasklist

import (
	"context"
	"html/template"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Component owns the task list UI state. Network failures are logged and
// otherwise swallowed: the user keeps seeing the last good list and the
// draft they typed.
type Component struct {
	api    API
	logger *slog.Logger
	newID  func() string

	mountOnce sync.Once
	loaded    chan struct{}

	mu    sync.Mutex
	state State
}

type ComponentOption func(*Component)

// WithIDGenerator replaces uuid.NewString for new task ids.
func WithIDGenerator(fn func() string) ComponentOption {
	return func(c *Component) { c.newID = fn }
}

func NewComponent(api API, logger *slog.Logger, opts ...ComponentOption) *Component {
	c := &Component{
		api:    api,
		logger: logger,
		newID:  uuid.NewString,
		loaded: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mount starts the initial fetch in the background and returns at once.
// Only the first call does anything; Loaded is closed when that fetch ends.
func (c *Component) Mount(ctx context.Context) {
	c.mountOnce.Do(func() {
		go func() {
			defer close(c.loaded)
			c.Fetch(ctx)
		}()
	})
}

func (c *Component) Loaded() <-chan struct{} { return c.loaded }

// Fetch reloads the list from the API.
func (c *Component) Fetch(ctx context.Context) {
	c.mu.Lock()
	var token uint64
	c.state, token = c.state.FetchIssued()
	c.mu.Unlock()

	entries, err := c.api.List(ctx)
	if err != nil {
		requestsTotal.WithLabelValues(opFetch, "error").Inc()
		c.logger.Error("fetch_tasks_failed", slog.String("error", err.Error()))
		return
	}

	c.mu.Lock()
	var applied bool
	c.state, applied = c.state.ListReplaced(token, entries)
	c.mu.Unlock()

	if !applied {
		staleResponsesTotal.WithLabelValues(opFetch).Inc()
		c.logger.Debug("fetch_tasks_stale", slog.Uint64("token", token))
		return
	}
	requestsTotal.WithLabelValues(opFetch, "ok").Inc()
}

func (c *Component) SetDraft(draft string) {
	c.mu.Lock()
	c.state = c.state.DraftChanged(draft)
	c.mu.Unlock()
}

// Submit creates a task from the draft. An empty draft is ignored. On
// success the draft is cleared and the list refetched; on failure both
// stay as they were.
func (c *Component) Submit(ctx context.Context) {
	c.mu.Lock()
	var (
		text  string
		token uint64
		ok    bool
	)
	c.state, text, token, ok = c.state.SubmitRequested()
	c.mu.Unlock()
	if !ok {
		return
	}

	t := NewTask{ID: c.newID(), Task: text}
	if err := c.api.Create(ctx, t); err != nil {
		requestsTotal.WithLabelValues(opCreate, "error").Inc()
		c.logger.Error("create_task_failed", slog.String("id", t.ID), slog.String("error", err.Error()))
		return
	}
	requestsTotal.WithLabelValues(opCreate, "ok").Inc()

	c.mu.Lock()
	var cleared bool
	c.state, cleared = c.state.Created(token)
	c.mu.Unlock()
	if !cleared {
		staleResponsesTotal.WithLabelValues(opCreate).Inc()
	}

	c.Fetch(ctx)
}

// Snapshot returns a copy of the current state.
func (c *Component) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	s.Entries = append([]Entry(nil), c.state.Entries...)
	return s
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Task Manager</title>
</head>
<body>
<div style="max-width: 500px; margin: 40px auto; font-family: sans-serif">
<h1>Task Manager</h1>
<form method="post" action="/">
<input type="text" name="task" value="{{.Draft}}" placeholder="Enter a task" style="width: 70%; padding: 8px">
<button type="submit" style="padding: 8px 12px; margin-left: 8px">Add</button>
</form>
<ul style="margin-top: 20px">
{{- range .Entries}}
<li>{{.Label}}</li>
{{- end}}
</ul>
</div>
</body>
</html>
`))

// Render writes the page for the current state.
func (c *Component) Render(w io.Writer) error {
	return pageTmpl.Execute(w, c.Snapshot())
}
