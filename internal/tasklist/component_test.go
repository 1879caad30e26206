package tasklist

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	mu      sync.Mutex
	calls   []string
	created []NewTask

	entries   []Entry
	listErr   error
	createErr error
	listFn    func(ctx context.Context) ([]Entry, error)
}

func (f *fakeAPI) List(ctx context.Context) ([]Entry, error) {
	f.mu.Lock()
	f.calls = append(f.calls, "list")
	fn, entries, err := f.listFn, f.entries, f.listErr
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx)
	}
	return entries, err
}

func (f *fakeAPI) Create(_ context.Context, t NewTask) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "create")
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, t)
	f.entries = append(f.entries, TaskEntry{ID: t.ID, Text: t.Task})
	return nil
}

func (f *fakeAPI) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestComponent_MountFetchesOnce(t *testing.T) {
	api := &fakeAPI{entries: []Entry{TextEntry("a")}}
	c := NewComponent(api, discardLogger())

	c.Mount(context.Background())
	c.Mount(context.Background())
	<-c.Loaded()

	assert.Equal(t, []string{"list"}, api.callLog())
	assert.Equal(t, []Entry{TextEntry("a")}, c.Snapshot().Entries)
}

func TestComponent_SubmitEmptyDraft(t *testing.T) {
	api := &fakeAPI{entries: []Entry{TextEntry("keep")}}
	c := NewComponent(api, discardLogger())
	c.Fetch(context.Background())

	for _, draft := range []string{"", "   ", "\n\t"} {
		c.SetDraft(draft)
		c.Submit(context.Background())

		s := c.Snapshot()
		assert.Equal(t, draft, s.Draft)
		assert.Equal(t, []Entry{TextEntry("keep")}, s.Entries)
	}
	assert.Equal(t, []string{"list"}, api.callLog(), "no create request for blank drafts")
}

func TestComponent_SubmitCreatesThenFetches(t *testing.T) {
	api := &fakeAPI{}
	c := NewComponent(api, discardLogger(), WithIDGenerator(func() string { return "id-1" }))

	c.SetDraft("Buy milk")
	c.Submit(context.Background())

	assert.Equal(t, []string{"create", "list"}, api.callLog())
	require.Len(t, api.created, 1)
	assert.Equal(t, NewTask{ID: "id-1", Task: "Buy milk"}, api.created[0])

	s := c.Snapshot()
	assert.Equal(t, "", s.Draft)
	require.Len(t, s.Entries, 1)
	assert.Equal(t, "Buy milk", s.Entries[0].Label())
}

func TestComponent_SubmitUsesFreshUUIDs(t *testing.T) {
	api := &fakeAPI{}
	c := NewComponent(api, discardLogger())

	c.SetDraft("one")
	c.Submit(context.Background())
	c.SetDraft("two")
	c.Submit(context.Background())

	require.Len(t, api.created, 2)
	assert.Len(t, api.created[0].ID, 36)
	assert.NotEqual(t, api.created[0].ID, api.created[1].ID)
}

func TestComponent_FailedFetchKeepsList(t *testing.T) {
	var logs bytes.Buffer
	api := &fakeAPI{entries: []Entry{TextEntry("shown")}}
	c := NewComponent(api, slog.New(slog.NewJSONHandler(&logs, nil)))
	c.Fetch(context.Background())

	before := testutil.ToFloat64(requestsTotal.WithLabelValues(opFetch, "error"))
	api.mu.Lock()
	api.listErr = errors.New("network down")
	api.mu.Unlock()

	require.NotPanics(t, func() { c.Fetch(context.Background()) })

	assert.Equal(t, []Entry{TextEntry("shown")}, c.Snapshot().Entries)
	assert.Contains(t, logs.String(), "fetch_tasks_failed")
	assert.Contains(t, logs.String(), "network down")
	assert.Equal(t, before+1, testutil.ToFloat64(requestsTotal.WithLabelValues(opFetch, "error")))
}

func TestComponent_FailedCreateKeepsDraft(t *testing.T) {
	var logs bytes.Buffer
	api := &fakeAPI{entries: []Entry{TextEntry("old")}, createErr: errors.New("502")}
	c := NewComponent(api, slog.New(slog.NewJSONHandler(&logs, nil)))
	c.Fetch(context.Background())

	c.SetDraft("Buy milk")
	c.Submit(context.Background())

	s := c.Snapshot()
	assert.Equal(t, "Buy milk", s.Draft)
	assert.Equal(t, []Entry{TextEntry("old")}, s.Entries)
	assert.Equal(t, []string{"list", "create"}, api.callLog(), "no refetch after a failed create")
	assert.Contains(t, logs.String(), "create_task_failed")
}

func TestComponent_StaleFetchIsDropped(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var first sync.Once

	api := &fakeAPI{}
	api.listFn = func(context.Context) ([]Entry, error) {
		slow := false
		first.Do(func() { slow = true })
		if slow {
			close(entered)
			<-release
			return []Entry{TextEntry("old")}, nil
		}
		return []Entry{TextEntry("new")}, nil
	}
	c := NewComponent(api, discardLogger())

	before := testutil.ToFloat64(staleResponsesTotal.WithLabelValues(opFetch))

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Fetch(context.Background())
	}()
	<-entered

	c.Fetch(context.Background())
	close(release)
	<-done

	assert.Equal(t, []Entry{TextEntry("new")}, c.Snapshot().Entries)
	assert.Equal(t, before+1, testutil.ToFloat64(staleResponsesTotal.WithLabelValues(opFetch)))
}

func TestComponent_RenderBothEntryShapes(t *testing.T) {
	api := &fakeAPI{entries: []Entry{TextEntry("Walk dog"), TaskEntry{ID: "1", Text: "Walk dog"}}}
	c := NewComponent(api, discardLogger())
	c.Fetch(context.Background())
	c.SetDraft(`<b>"x"</b>`)

	var buf bytes.Buffer
	require.NoError(t, c.Render(&buf))
	page := buf.String()

	assert.Equal(t, 2, strings.Count(page, "<li>Walk dog</li>"))
	assert.Contains(t, page, `value="&lt;b&gt;&#34;x&#34;&lt;/b&gt;"`, "draft is escaped into the input")
	assert.Contains(t, page, `<button type="submit"`)
}
