package tasks

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/s1natex/tasklist-GO/internal/response"
)

const maxBodyBytes = 1 << 20

// RegisterRoutes serves /tasks for every method through h, the way a
// serverless host would invoke it.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.HandleFunc("/tasks", serveEvent(h))
}

func serveEvent(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				response.Error("request body too large", http.StatusRequestEntityTooLarge).Write(w)
				return
			}
			response.Error("invalid request body", http.StatusBadRequest).Write(w)
			return
		}
		env := h.Handle(r.Context(), Request{
			HTTPMethod: r.Method,
			Body:       string(body),
		})
		env.Write(w)
	}
}
