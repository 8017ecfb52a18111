package api

import (
	"net/http"
	"time"

	// Registers the generated swagger spec.
	_ "rag-chat/frontend/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// NewRouter wires every HTTP route of the chat frontend.
func NewRouter(chatHandler *ChatHandler, backendHandler *BackendHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/swagger/*", httpSwagger.WrapHandler)

	// Liveness probe.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			// --- Registry ---
			r.Get("/state", chatHandler.GetState)
			r.Delete("/error", chatHandler.ClearError)

			// --- Conversations ---
			r.Get("/conversations", chatHandler.GetConversations)
			r.Post("/conversations", chatHandler.CreateConversation)
			r.Put("/conversations/current", chatHandler.SelectConversation)
			r.Get("/conversations/{conversationID}", chatHandler.GetConversation)
			r.Delete("/conversations/{conversationID}", chatHandler.HandleDeleteConversation)

			// --- Settings ---
			r.Get("/settings", chatHandler.GetSettings)
			r.Post("/settings", chatHandler.UpdateSettings)

			// --- Backend ---
			r.Get("/backend/health", backendHandler.HandleBackendHealth)
		})

		// Streaming routes hold the connection open and must not time out.
		r.Group(func(r chi.Router) {
			r.Post("/messages", chatHandler.HandleStreamMessage)
			r.Get("/events", chatHandler.HandleEvents)
		})
	})

	return r
}
