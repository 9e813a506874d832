package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/apollo/internal/api/apierr"
	"github.com/mcoot/apollo/internal/api/handler"
	"github.com/mcoot/apollo/internal/api/middleware"
	httpmw "github.com/mcoot/apollo/internal/middleware"
	"github.com/mcoot/apollo/internal/services/competition"
	"github.com/mcoot/apollo/internal/web/sse"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger       *slog.Logger
	Store        *competition.Store
	Hub          *sse.Hub
	Broadcaster  *sse.Broadcaster
	EventTitle   string
	SecureCookie bool
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	stateHandler := handler.NewStateHandler(cfg.Store, cfg.Hub, cfg.Broadcaster, cfg.EventTitle)
	teamHandler := handler.NewTeamHandler(cfg.Store, cfg.SecureCookie)
	adminHandler := handler.NewAdminHandler(cfg.Store)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.Store)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.Store)
	loggingMiddleware := httpmw.Logging(cfg.Logger)
	recoveryMiddleware := httpmw.Recovery(cfg.Logger, apiPanicHandler)

	// API subrouter with common middleware
	api := r.PathPrefix("/api").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Public routes
	api.HandleFunc("/health", stateHandler.Health).Methods(http.MethodGet)
	api.HandleFunc("/event_title", stateHandler.EventTitle).Methods(http.MethodGet)
	api.HandleFunc("/state", stateHandler.State).Methods(http.MethodGet)
	api.HandleFunc("/state/stream", stateHandler.Stream).Methods(http.MethodGet)
	api.Handle("/auth_state", optionalAuthMiddleware(http.HandlerFunc(stateHandler.AuthState))).Methods(http.MethodGet)

	// Team routes
	api.HandleFunc("/join", teamHandler.Join).Methods(http.MethodPost)
	api.HandleFunc("/logout", teamHandler.Logout).Methods(http.MethodPost)
	api.Handle("/submit", authMiddleware(http.HandlerFunc(teamHandler.Submit))).Methods(http.MethodPost)

	// Admin routes (password in body)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.HandleFunc("/password", adminHandler.SetPassword).Methods(http.MethodPost)
	admin.HandleFunc("/puzzles", adminHandler.SetPuzzles).Methods(http.MethodPost)

	return r
}

// apiPanicHandler answers a recovered panic with the JSON internal error
func apiPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	apierr.WriteError(w, apierr.NewInternalError())
}
