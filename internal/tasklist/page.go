package tasklist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes serves the component: GET / shows the page, POST /
// submits the "task" form field and redirects back to GET /.
func RegisterRoutes(r chi.Router, c *Component, logger *slog.Logger) {
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		// the initial fetch runs detached; the page shows the current
		// snapshot and picks up the list on a later render
		c.Mount(context.WithoutCancel(r.Context()))

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := c.Render(w); err != nil {
			logger.Error("render_failed", slog.String("error", err.Error()))
		}
	})

	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		c.SetDraft(r.PostFormValue("task"))
		c.Submit(context.WithoutCancel(r.Context()))
		http.Redirect(w, r, "/", http.StatusSeeOther)
	})
}
