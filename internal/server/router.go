package server

import (
	"net/http"

	"github.com/cloo-solutions/sitelens/internal/api"
	"github.com/cloo-solutions/sitelens/internal/api/handlers"
	"github.com/cloo-solutions/sitelens/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

type RouterConfig struct {
	SearchHandler *handlers.SearchHandler
	ChatHandler   *handlers.ChatHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 10 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		api.JSON(w, http.StatusOK, map[string]string{"message": "Welcome to website search"})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/search_website/", cfg.SearchHandler.SearchWebsite)
	r.Post("/chat_website/", cfg.ChatHandler.ChatWebsite)

	return r
}
