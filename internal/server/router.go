package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/docyard-ai/docyard/internal/api"
	"github.com/docyard-ai/docyard/internal/api/handlers"
	"github.com/docyard-ai/docyard/internal/api/middleware"
)

type RouterConfig struct {
	APIToken         string
	MaxBodyBytes     int64
	UploadHandler    *handlers.UploadHandler
	AskHandler       *handlers.AskHandler
	DocumentsHandler *handlers.DocumentsHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	maxBodyBytes := cfg.MaxBodyBytes
	if maxBodyBytes <= 0 {
		maxBodyBytes = 10 * 1024 * 1024
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.BearerAuth(cfg.APIToken))

		r.Post("/upload", cfg.UploadHandler.Upload)
		r.Post("/ask", cfg.AskHandler.Ask)
		r.Get("/documents", cfg.DocumentsHandler.List)
		r.Get("/stats", cfg.DocumentsHandler.Stats)
		r.Get("/history", cfg.DocumentsHandler.History)
	})

	return r
}
