package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/pokertable/pokertable/internal/api/handler"
	"github.com/pokertable/pokertable/internal/api/middleware"
	"github.com/pokertable/pokertable/internal/services/auth"
	"github.com/pokertable/pokertable/internal/services/table"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger          *slog.Logger
	AuthService     *auth.Service
	TableController *table.Controller
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	accountHandler := handler.NewAccountHandler(cfg.AuthService)
	gameHandler := handler.NewGameHandler(cfg.TableController)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Account routes (no auth required for creating accounts/logging in)
	api.HandleFunc("/accounts/guest", accountHandler.CreateGuest).Methods(http.MethodPost)
	api.HandleFunc("/accounts/register", accountHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/accounts/login", accountHandler.Login).Methods(http.MethodPost)

	// Protected account routes
	accountProtected := api.PathPrefix("/accounts").Subrouter()
	accountProtected.Use(authMiddleware)
	accountProtected.HandleFunc("/me", accountHandler.GetMe).Methods(http.MethodGet)

	// Game routes (all require auth)
	games := api.PathPrefix("/games").Subrouter()
	games.Use(authMiddleware)
	games.HandleFunc("", gameHandler.Create).Methods(http.MethodPost)
	games.HandleFunc("", gameHandler.List).Methods(http.MethodGet)
	games.HandleFunc("/{id}", gameHandler.Get).Methods(http.MethodGet)
	games.HandleFunc("/{id}/join", gameHandler.Join).Methods(http.MethodPost)
	games.HandleFunc("/{id}/bet", gameHandler.PlaceBet).Methods(http.MethodPost)
	games.HandleFunc("/{id}/fold", gameHandler.Fold).Methods(http.MethodPost)
	games.HandleFunc("/{id}/players", gameHandler.ListPlayers).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
