package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/s1natex/tasklist-GO/internal/config"
	"github.com/s1natex/tasklist-GO/internal/tasks"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	h := tasks.NewHandler(tasks.NewInMemoryRepo(), logger)
	return newRouter(h, config.Config{}, logger)
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	expected := `{"status":"ok"}`
	if strings.TrimSpace(w.Body.String()) != expected {
		t.Errorf("expected body %s, got %s", expected, w.Body.String())
	}
}

func TestTasksRoundTrip(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/tasks", bytes.NewBufferString(`{"id":"1","task":"Buy milk"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tasks", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"task":"Buy milk"`) {
		t.Fatalf("created task missing from list: %s", w.Body.String())
	}
}

func TestCORSPreflight(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/tasks", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected wildcard CORS origin, got %q", got)
	}
}

func TestOpenRepository_SQLite(t *testing.T) {
	cfg := config.Config{Store: config.StoreSQLite, SQLitePath: filepath.Join(t.TempDir(), "tasks.db")}
	repo, closeRepo, err := openRepository(context.Background(), cfg)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer closeRepo()

	if _, ok := repo.(*tasks.SQLiteRepo); !ok {
		t.Fatalf("expected *tasks.SQLiteRepo, got %T", repo)
	}
	if _, err := repo.Create(context.Background(), tasks.Task{ID: "x", Task: "y"}); err != nil {
		t.Fatalf("create: %v", err)
	}
}
