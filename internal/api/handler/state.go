package handler

import (
	"net/http"

	"github.com/mcoot/apollo/internal/api/apierr"
	"github.com/mcoot/apollo/internal/api/middleware"
	"github.com/mcoot/apollo/internal/api/response"
	"github.com/mcoot/apollo/internal/services/competition"
	"github.com/mcoot/apollo/internal/web/sse"
)

// StateHandler serves the public, read-only views
type StateHandler struct {
	store       *competition.Store
	hub         *sse.Hub
	broadcaster *sse.Broadcaster
	eventTitle  string
}

// NewStateHandler creates a new state handler
func NewStateHandler(store *competition.Store, hub *sse.Hub, broadcaster *sse.Broadcaster, eventTitle string) *StateHandler {
	return &StateHandler{
		store:       store,
		hub:         hub,
		broadcaster: broadcaster,
		eventTitle:  eventTitle,
	}
}

// Health handles GET /api/health
func (h *StateHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}

// EventTitle handles GET /api/event_title
func (h *StateHandler) EventTitle(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.EventTitle{Title: h.eventTitle})
}

// State handles GET /api/state
func (h *StateHandler) State(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.ScoreboardFromModel(h.store.Scoreboard(r.Context())))
}

// Stream handles GET /api/state/stream
func (h *StateHandler) Stream(w http.ResponseWriter, r *http.Request) {
	initial, err := h.broadcaster.Message(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	sse.ServeSSE(w, r, h.hub, initial)
}

// AuthState handles GET /api/auth_state
func (h *StateHandler) AuthState(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.GetUsername(r.Context())
	response.JSON(w, http.StatusOK, response.AuthState{
		Authenticated:    ok,
		Username:         username,
		AdminPasswordSet: h.store.AdminPasswordSet(),
	})
}
