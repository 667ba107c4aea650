package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"codeclash/internal/service"
	"codeclash/internal/transport/rest/handler"
	"codeclash/internal/transport/rest/middleware"
	"codeclash/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService  *service.AuthService
	DuelService  *service.DuelService
	DailyService *service.DailyService
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	duelHandler := handler.NewDuelHandler(c.DuelService, c.AuthService)
	dailyHandler := handler.NewDailyHandler(c.DailyService)
	wsHandler := ws.NewHandler(c.DuelService, c.AuthService)

	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/duels", duelHandler.Create).Methods("POST", "OPTIONS")
	v1.HandleFunc("/duels/{code}/join", duelHandler.Join).Methods("POST", "OPTIONS")
	v1.HandleFunc("/duels/{code}", duelHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/daily", dailyHandler.Challenge).Methods("GET", "OPTIONS")
	v1.HandleFunc("/daily/score", dailyHandler.SubmitScore).Methods("POST", "OPTIONS")
	v1.HandleFunc("/daily/leaderboard", dailyHandler.Leaderboard).Methods("GET", "OPTIONS")
	v1.HandleFunc("/leaderboard/xp", dailyHandler.TopXP).Methods("GET", "OPTIONS")

	// WebSocket route (public with token in query param)
	v1.HandleFunc("/ws/duels/{code}", wsHandler.DuelWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Player routes (require duel-scoped player auth)
	playerRoutes := v1.NewRoute().Subrouter()
	playerRoutes.Use(authMW.RequirePlayer)

	playerRoutes.HandleFunc("/duels/{code}/ready", duelHandler.Ready).Methods("POST", "OPTIONS")
	playerRoutes.HandleFunc("/duels/{code}/score", duelHandler.Score).Methods("PATCH", "OPTIONS")
	playerRoutes.HandleFunc("/duels/{code}", duelHandler.Delete).Methods("DELETE", "OPTIONS")

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
			allowedMethods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
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
