package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/mcoot/apollo/internal/api/apierr"
	"github.com/mcoot/apollo/internal/api/request"
	"github.com/mcoot/apollo/internal/api/response"
	"github.com/mcoot/apollo/internal/model"
	"github.com/mcoot/apollo/internal/services/competition"
)

// AdminHandler handles admin endpoints. Every call carries the admin password.
type AdminHandler struct {
	store *competition.Store
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(store *competition.Store) *AdminHandler {
	return &AdminHandler{store: store}
}

// SetPassword handles POST /api/admin/password
func (h *AdminHandler) SetPassword(w http.ResponseWriter, r *http.Request) {
	var req request.SetAdminPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	if err := h.store.SetAdminPassword(r.Context(), req.Password); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// SetPuzzles handles POST /api/admin/puzzles
func (h *AdminHandler) SetPuzzles(w http.ResponseWriter, r *http.Request) {
	var req request.SetPuzzlesRequest
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	batch, err := toPuzzles(req.Puzzles)
	if err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError(err.Error()))
		return
	}

	if err := h.store.SetPuzzles(r.Context(), req.Password, batch); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.Created(w, response.PuzzlesAdded{Added: len(batch)})
}

// toPuzzles validates point values, which must be integers in [0, 2^32)
func toPuzzles(defs map[string]request.PuzzleDefinition) (model.Puzzles, error) {
	batch := make(model.Puzzles, len(defs))
	for id, def := range defs {
		value, err := strconv.ParseUint(def.Value.String(), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("value for puzzle %q must be a non-negative integer", id)
		}
		batch[model.PuzzleID(id)] = model.Puzzle{
			Solution: def.Solution,
			Value:    model.PuzzleValue(value),
		}
	}
	return batch, nil
}
