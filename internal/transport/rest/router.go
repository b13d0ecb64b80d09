package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/shark-krahs/game-platform/internal/cache"
	"github.com/shark-krahs/game-platform/internal/repository"
	"github.com/shark-krahs/game-platform/internal/service"
	"github.com/shark-krahs/game-platform/internal/transport/rest/handler"
	"github.com/shark-krahs/game-platform/internal/transport/rest/middleware"
	"github.com/shark-krahs/game-platform/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService   *service.AuthService
	GameService   *service.GameService
	SavedGameRepo repository.SavedGameRepo
	RatingRepo    repository.RatingRepo
	Leaderboard   cache.LeaderboardCache
	WSHub         *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	gamesHandler := handler.NewGamesHandler(c.GameService, c.SavedGameRepo)
	ratingsHandler := handler.NewRatingsHandler(c.RatingRepo, c.Leaderboard)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.GameService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/guest", authHandler.GuestSession).Methods("POST", "OPTIONS")
	v1.HandleFunc("/time-controls", gamesHandler.TimeControls).Methods("GET", "OPTIONS")

	// WebSocket route (public with token in query param)
	v1.HandleFunc("/ws", wsHandler.Serve).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Participant routes (require auth)
	authed := v1.NewRoute().Subrouter()
	authed.Use(authMW.RequireParticipant)

	authed.HandleFunc("/games/active", gamesHandler.Active).Methods("GET", "OPTIONS")
	authed.HandleFunc("/games/saved", gamesHandler.ListSaved).Methods("GET", "OPTIONS")
	authed.HandleFunc("/games/saved/{gameId}", gamesHandler.GetSaved).Methods("GET", "OPTIONS")
	authed.HandleFunc("/games/saved/{gameId}", gamesHandler.DeleteSaved).Methods("DELETE", "OPTIONS")
	authed.HandleFunc("/ratings", ratingsHandler.Mine).Methods("GET", "OPTIONS")
	authed.HandleFunc("/leaderboard/{category}", ratingsHandler.Leaderboard).Methods("GET", "OPTIONS")
	authed.HandleFunc("/leaderboard/{category}/rank", ratingsHandler.Rank).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
