package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/api"
	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/api/handlers"
	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/api/middleware"
)

type RouterConfig struct {
	ChatHandler      *handlers.ChatHandler
	InitHandler      *handlers.InitHandler
	SessionHandler   *handlers.SessionHandler
	AnalyticsHandler *handlers.AnalyticsHandler
	InsightsHandler  *handlers.InsightsHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 1 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/assistant", func(r chi.Router) {
			r.Post("/chat", cfg.ChatHandler.Chat)
			r.Post("/chat/stream", cfg.ChatHandler.ChatStream)
			r.Get("/init", cfg.InitHandler.Initialize)
			r.Post("/init", cfg.InitHandler.Action)
			r.Get("/sessions/{id}/messages", cfg.SessionHandler.Messages)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Get("/analytics", cfg.AnalyticsHandler.Report)
			r.Get("/insights", cfg.InsightsHandler.Report)
		})
	})

	return r
}
