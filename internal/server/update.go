package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/flarewatcher/flarewatcher/internal/credentials"
	"github.com/flarewatcher/flarewatcher/internal/models"
)

type manualUpdateRequest struct {
	OperatorID string `json:"operatorId"`
	ZoneID     string `json:"zoneId"`
	RecordID   string `json:"recordId"`
	TokenID    string `json:"tokenId"`
	TTL        uint32 `json:"ttl,omitempty"`
	Proxied    *bool  `json:"proxied,omitempty"`
	Comment    string `json:"comment,omitempty"`
}

type updateResponse struct {
	EntryID         string `json:"updateId,omitempty"`
	Success         bool   `json:"success"`
	Message         string `json:"message,omitempty"`
	Propagated      *bool  `json:"propagated,omitempty"`
	PropagationNote string `json:"propagationNote,omitempty"`
}

func (h *handlers) manualUpdate(w http.ResponseWriter, r *http.Request) {
	var request manualUpdateRequest
	err := json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		httpError(w, http.StatusBadRequest, "decoding request: "+err.Error())
		return
	}
	if request.OperatorID == "" || request.ZoneID == "" ||
		request.RecordID == "" || request.TokenID == "" {
		httpError(w, http.StatusBadRequest,
			"operatorId, zoneId, recordId and tokenId are required")
		return
	}

	runner, err := h.runners.Runner(r.Context(), request.OperatorID)
	if err != nil {
		httpError(w, http.StatusNotFound, err.Error())
		return
	}

	record := models.MonitoredRecord{
		ZoneID:   request.ZoneID,
		RecordID: request.RecordID,
		TokenID:  request.TokenID,
	}
	result, err := runner.ManualUpdate(r.Context(), record,
		request.TTL, request.Proxied, request.Comment)
	switch {
	case errors.Is(err, credentials.ErrCredentialMissing):
		httpError(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		httpError(w, http.StatusBadGateway, err.Error())
		return
	}

	status := http.StatusOK
	if !result.Success {
		// The provider rejected the update, surface its message.
		status = http.StatusConflict
	}
	h.respondJSON(w, status, updateResponse{
		EntryID:         result.EntryID,
		Success:         result.Success,
		Message:         result.Message,
		Propagated:      result.Propagated,
		PropagationNote: result.PropagationNote,
	})
}

func (h *handlers) forceReconcile(w http.ResponseWriter, r *http.Request) {
	operatorID := r.URL.Query().Get("operatorId")
	if operatorID == "" {
		httpError(w, http.StatusBadRequest, "operatorId is required")
		return
	}

	runner, err := h.runners.Runner(r.Context(), operatorID)
	if err != nil {
		httpError(w, http.StatusNotFound, err.Error())
		return
	}

	start := h.timeNow()
	errs := runner.ForceReconcile(r.Context())
	duration := h.timeNow().Sub(start)
	if len(errs) > 0 {
		httpErrors(w, http.StatusInternalServerError, errs)
		return
	}
	w.WriteHeader(http.StatusAccepted)
	_, _ = w.Write([]byte("All records reconciled successfully in " +
		duration.String()))
}

func (h *handlers) ipState(w http.ResponseWriter, r *http.Request) {
	operatorID := r.URL.Query().Get("operatorId")
	if operatorID == "" {
		httpError(w, http.StatusBadRequest, "operatorId is required")
		return
	}

	runner, err := h.runners.Runner(r.Context(), operatorID)
	if err != nil {
		httpError(w, http.StatusNotFound, err.Error())
		return
	}

	current, previous := runner.IPState()
	body := struct {
		CurrentIP  string `json:"currentIp,omitempty"`
		PreviousIP string `json:"previousIp,omitempty"`
	}{}
	if current.IsValid() {
		body.CurrentIP = current.String()
	}
	if previous.IsValid() {
		body.PreviousIP = previous.String()
	}
	h.respondJSON(w, http.StatusOK, body)
}
