package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/mcoot/apollo/internal/api/apierr"
	"github.com/mcoot/apollo/internal/api/middleware"
	"github.com/mcoot/apollo/internal/api/request"
	"github.com/mcoot/apollo/internal/api/response"
	"github.com/mcoot/apollo/internal/model"
	"github.com/mcoot/apollo/internal/services/competition"
)

// TeamHandler handles team endpoints
type TeamHandler struct {
	store        *competition.Store
	secureCookie bool
}

// NewTeamHandler creates a new team handler
func NewTeamHandler(store *competition.Store, secureCookie bool) *TeamHandler {
	return &TeamHandler{
		store:        store,
		secureCookie: secureCookie,
	}
}

// Join handles POST /api/join
func (h *TeamHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req request.JoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	sid, err := h.store.Join(r.Context(), req.Username)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	http.SetCookie(w, h.sessionCookie(string(sid), 0))
	response.Created(w, response.Join{
		Username:     req.Username,
		SessionToken: string(sid),
	})
}

// Submit handles POST /api/submit
func (h *TeamHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req request.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}
	if req.PuzzleID == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("puzzle_id is required"))
		return
	}

	sid := middleware.GetSession(r.Context())
	if err := h.store.Submit(r.Context(), sid, model.PuzzleID(req.PuzzleID), req.Solution); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Submit{PuzzleID: req.PuzzleID, Solved: true})
}

// Logout handles POST /api/logout
func (h *TeamHandler) Logout(w http.ResponseWriter, r *http.Request) {
	// The body is optional
	var req request.LogoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	sid := middleware.ExtractSessionID(r)
	if sid == "" {
		apierr.WriteError(w, apierr.NewUnauthorizedError())
		return
	}
	if err := h.store.Logout(r.Context(), sid, req.Wipe); err != nil {
		apierr.WriteError(w, err)
		return
	}

	http.SetCookie(w, h.sessionCookie("", -1))
	response.NoContent(w)
}

func (h *TeamHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}
