package tasklist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Entry is one item of the list returned by the tasks endpoint, sent
// either as a bare string or as a task object.
type Entry interface {
	Label() string
	isEntry()
}

// TextEntry is an entry sent as a plain JSON string.
type TextEntry string

func (e TextEntry) Label() string { return string(e) }
func (TextEntry) isEntry()        {}

// TaskEntry is an entry sent as an object.
type TaskEntry struct {
	ID   string
	Text string
}

func (e TaskEntry) Label() string { return e.Text }
func (TaskEntry) isEntry()        {}

type taskObject struct {
	ID    string  `json:"id"`
	Task  *string `json:"task"`
	Title string  `json:"title"`
}

type listResponse struct {
	Tasks []json.RawMessage `json:"tasks"`
}

// ParseList decodes a {"tasks": [...]} body. A missing or null tasks
// field yields an empty list, and so does any valid non-object body such
// as a bare array. A null body and entries other than strings and objects
// are rejected.
func ParseList(data []byte) ([]Entry, error) {
	var top json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("decode task list: %w", err)
	}
	top = bytes.TrimSpace(top)
	if len(top) == 0 || bytes.Equal(top, []byte("null")) {
		return nil, errors.New("decode task list: null body")
	}
	if top[0] != '{' {
		return []Entry{}, nil
	}

	var resp listResponse
	if err := json.Unmarshal(top, &resp); err != nil {
		return nil, fmt.Errorf("decode task list: %w", err)
	}
	out := make([]Entry, 0, len(resp.Tasks))
	for i, raw := range resp.Tasks {
		e, err := parseEntry(raw)
		if err != nil {
			return nil, fmt.Errorf("tasks[%d]: %w", i, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func parseEntry(raw json.RawMessage) (Entry, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty entry")
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, err
		}
		return TextEntry(s), nil
	case '{':
		var obj taskObject
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return nil, err
		}
		text := obj.Title
		if obj.Task != nil {
			text = *obj.Task
		}
		return TaskEntry{ID: obj.ID, Text: text}, nil
	default:
		return nil, fmt.Errorf("unsupported entry %s", trimmed)
	}
}
