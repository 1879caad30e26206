package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/s1natex/tasklist-GO/internal/response"
)

// Request is the subset of a serverless HTTP event the handler reads.
type Request struct {
	HTTPMethod string
	Body       string
}

type createTaskRequest struct {
	ID    string `json:"id"`
	Task  string `json:"task"`
	Title string `json:"title"`
}

type listTasksResponse struct {
	Tasks []Task `json:"tasks"`
}

type Handler struct {
	repo   Repository
	logger *slog.Logger
	newID  func() string
	now    func() time.Time
}

func NewHandler(repo Repository, logger *slog.Logger) *Handler {
	return &Handler{
		repo:   repo,
		logger: logger,
		newID:  uuid.NewString,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Handle dispatches on the request method: GET lists, POST creates,
// OPTIONS answers a CORS preflight, anything else is 405. Every envelope
// carries response.DefaultHeaders so browsers on other origins can read it.
func (h *Handler) Handle(ctx context.Context, req Request) response.Envelope {
	var env response.Envelope
	switch req.HTTPMethod {
	case http.MethodGet:
		env = h.list(ctx)
	case http.MethodPost:
		env = h.create(ctx, req.Body)
	case http.MethodOptions:
		env = h.success(nil, http.StatusNoContent)
	default:
		env = response.Error("method not allowed", http.StatusMethodNotAllowed)
	}
	return withDefaultHeaders(env)
}

func (h *Handler) list(ctx context.Context) response.Envelope {
	items, err := h.repo.List(ctx)
	if err != nil {
		h.logger.Error("list_tasks_failed", slog.String("error", err.Error()))
		return response.Error(err.Error())
	}
	if items == nil {
		items = []Task{}
	}
	return h.success(listTasksResponse{Tasks: items}, http.StatusOK)
}

func (h *Handler) create(ctx context.Context, body string) response.Envelope {
	var req createTaskRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		return response.Error("invalid JSON", http.StatusBadRequest)
	}

	text := strings.TrimSpace(req.Task)
	if text == "" {
		text = strings.TrimSpace(req.Title)
	}
	if text == "" {
		return response.Error("task is required", http.StatusBadRequest)
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = h.newID()
	}

	t, err := h.repo.Create(ctx, Task{ID: id, Task: text, CreatedAt: h.now()})
	if errors.Is(err, ErrDuplicateID) {
		return response.Error("task id already exists", http.StatusConflict)
	}
	if err != nil {
		h.logger.Error("create_task_failed", slog.String("id", id), slog.String("error", err.Error()))
		return response.Error(err.Error())
	}

	h.logger.Debug("task_created", slog.String("id", t.ID))
	return h.success(t, http.StatusCreated)
}

func (h *Handler) success(v any, status int) response.Envelope {
	env, err := response.JSON(status, v, nil)
	if err != nil {
		h.logger.Error("encode_response_failed", slog.String("error", err.Error()))
		return response.Error("unexpected_error")
	}
	return env
}

func withDefaultHeaders(env response.Envelope) response.Envelope {
	h := make(map[string]string, len(response.DefaultHeaders)+len(env.Headers))
	for k, v := range response.DefaultHeaders {
		h[k] = v
	}
	for k, v := range env.Headers {
		h[k] = v
	}
	env.Headers = h
	return env
}
