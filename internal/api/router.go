package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/gridmatch/gridmatch/internal/api/handler"
	"github.com/gridmatch/gridmatch/internal/api/middleware"
	"github.com/gridmatch/gridmatch/internal/broadcast"
	"github.com/gridmatch/gridmatch/internal/services/matchmaker"
	"github.com/gridmatch/gridmatch/internal/services/registry"
	"github.com/gridmatch/gridmatch/internal/services/session"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger            *slog.Logger
	Registry          *registry.Service
	Matchmaker        *matchmaker.Controller
	SessionController *session.Controller
	HubManager        *broadcast.HubManager
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	playerHandler := handler.NewPlayerHandler(cfg.Registry, cfg.Matchmaker)
	sessionHandler := handler.NewSessionHandler(cfg.Matchmaker, cfg.SessionController)
	eventsHandler := handler.NewEventsHandler(cfg.HubManager, cfg.Registry, cfg.Matchmaker)

	authMiddleware := middleware.Auth(cfg.Registry)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Registration needs no token; it issues one
	api.HandleFunc("/players", playerHandler.Register).Methods(http.MethodPost)

	// Player routes
	players := api.PathPrefix("/players").Subrouter()
	players.Use(authMiddleware)
	players.HandleFunc("", playerHandler.List).Methods(http.MethodGet)
	players.HandleFunc("/me", playerHandler.GetMe).Methods(http.MethodGet)
	players.HandleFunc("/me", playerHandler.Unregister).Methods(http.MethodDelete)

	// Session routes
	sessions := api.PathPrefix("/sessions").Subrouter()
	sessions.Use(authMiddleware)
	sessions.HandleFunc("/find", sessionHandler.Find).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}", sessionHandler.Get).Methods(http.MethodGet)
	sessions.HandleFunc("/{id}/play", sessionHandler.Play).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/leave", sessionHandler.Leave).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/events", eventsHandler.Session).Methods(http.MethodGet)

	// Connection-lifetime event stream
	events := api.PathPrefix("/events").Subrouter()
	events.Use(authMiddleware)
	events.HandleFunc("", eventsHandler.Global).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
