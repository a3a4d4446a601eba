package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// maxBodyBytes caps request bodies at 2 MB.
const maxBodyBytes = 2 << 20

func NewRouter(h *Handler, allowedOrigins []string, log *slog.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(Recover(log))
	r.Use(corsHandler(allowedOrigins))
	r.Use(OriginGate(allowedOrigins))
	r.Use(middleware.RequestSize(maxBodyBytes))
	r.Get("/health", h.Health)
	r.Post("/tasks", h.Tasks)
	return r
}

func corsHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	origins := allowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	})
}
