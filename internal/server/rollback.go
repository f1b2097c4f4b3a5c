package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/flarewatcher/flarewatcher/internal/credentials"
	"github.com/flarewatcher/flarewatcher/internal/reconciler"
	"github.com/flarewatcher/flarewatcher/internal/store"
)

type rollbackRequest struct {
	OperatorID string `json:"operatorId"`
	UpdateID   string `json:"updateId"`
	Actor      string `json:"actor,omitempty"`
	Admin      bool   `json:"admin,omitempty"`
}

func (h *handlers) rollback(w http.ResponseWriter, r *http.Request) {
	var request rollbackRequest
	err := json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		httpError(w, http.StatusBadRequest, "decoding request: "+err.Error())
		return
	}
	if request.OperatorID == "" || request.UpdateID == "" {
		httpError(w, http.StatusBadRequest, "operatorId and updateId are required")
		return
	}
	if request.Actor == "" {
		request.Actor = request.OperatorID
	}

	result, err := h.rollbacker.Rollback(r.Context(), reconciler.RollbackRequest{
		OperatorID: request.OperatorID,
		EntryID:    request.UpdateID,
		Actor:      request.Actor,
		Admin:      request.Admin,
	})
	switch {
	case errors.Is(err, store.ErrEntryNotFound),
		errors.Is(err, reconciler.ErrEntryNotOwned):
		// Entries not owned by the actor are indistinguishable from
		// absent ones, so ownership cannot be probed.
		httpError(w, http.StatusNotFound, "update entry not found")
		return
	case errors.Is(err, reconciler.ErrRollbackUnavailable):
		httpError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, credentials.ErrCredentialMissing):
		httpError(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		httpError(w, http.StatusBadGateway, err.Error())
		return
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusConflict
	}
	h.respondJSON(w, status, updateResponse{
		EntryID: result.EntryID,
		Success: result.Success,
		Message: result.Message,
	})
}
