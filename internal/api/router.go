package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/mlockett42/bingo-live/internal/api/handlers"
	"github.com/mlockett42/bingo-live/internal/api/middleware"
	"github.com/mlockett42/bingo-live/internal/config"
	"github.com/mlockett42/bingo-live/internal/repository"
	"github.com/mlockett42/bingo-live/internal/service"
	"github.com/mlockett42/bingo-live/internal/websocket"
)

func NewRouter(services *service.Services, hub *websocket.Hub, repos *repository.Repositories, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth)
	gameHandler := handlers.NewGameHandler(services.Game, services.Draw, services.Auth)
	cardHandler := handlers.NewCardHandler(services.Card, repos)
	claimHandler := handlers.NewClaimHandler(services.Claim, services.Game, repos)
	wsHandler := handlers.NewWebSocketHandler(hub, services.Auth)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Auth))
				r.Get("/me", authHandler.Me)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth))

			// Game routes
			r.Route("/games", func(r chi.Router) {
				r.Post("/", gameHandler.Create)
				r.Get("/{idOrCode}", gameHandler.Get)
				r.Get("/{idOrCode}/snapshot", gameHandler.Snapshot)
				r.Post("/{idOrCode}/join", gameHandler.Join)

				// Host controls
				r.Post("/{idOrCode}/draw", gameHandler.Draw)
				r.Post("/{idOrCode}/status", gameHandler.SetStatus)
				r.Post("/{idOrCode}/auto-draw", gameHandler.SetAutoDraw)

				// Claims
				r.Post("/{idOrCode}/claims", claimHandler.Submit)
				r.Get("/{idOrCode}/claims", claimHandler.List)
			})

			// Card routes
			r.Route("/cards", func(r chi.Router) {
				r.Get("/{cardId}", cardHandler.Get)
				r.Post("/{cardId}/mark", cardHandler.Mark)
				r.Get("/{cardId}/eligible-patterns", cardHandler.EligiblePatterns)
			})
		})

		// WebSocket endpoint
		r.Get("/ws", wsHandler.Handle)
	})

	return r
}
