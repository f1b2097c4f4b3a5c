package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/flarewatcher/flarewatcher/internal/models"
)

func (h *handlers) listUpdates(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	actor := query.Get("operatorId")
	if actor == "" {
		httpError(w, http.StatusBadRequest, "operatorId is required")
		return
	}

	var since *time.Time
	if monthsString := query.Get("months"); monthsString != "" {
		months, err := strconv.ParseUint(monthsString, 10, 8)
		if err != nil {
			httpError(w, http.StatusBadRequest, "months: "+err.Error())
			return
		}
		sinceTime := h.timeNow().AddDate(0, -int(months), 0)
		since = &sinceTime
	}

	var take uint
	if takeString := query.Get("take"); takeString != "" {
		take64, err := strconv.ParseUint(takeString, 10, 32)
		if err != nil {
			httpError(w, http.StatusBadRequest, "take: "+err.Error())
			return
		}
		take = uint(take64)
	}

	entries, err := h.ledgerStore.ListByActor(r.Context(), actor, since, take)
	if err != nil {
		h.logger.Error("listing updates: " + err.Error())
		httpError(w, http.StatusInternalServerError, "")
		return
	}
	h.respondJSON(w, http.StatusOK, entriesBody(entries))
}

func (h *handlers) latestPerZone(w http.ResponseWriter, r *http.Request) {
	operatorID := r.URL.Query().Get("operatorId")
	if operatorID == "" {
		httpError(w, http.StatusBadRequest, "operatorId is required")
		return
	}

	entries, err := h.ledgerStore.LatestPerZone(r.Context(), operatorID)
	if err != nil {
		h.logger.Error("listing latest updates: " + err.Error())
		httpError(w, http.StatusInternalServerError, "")
		return
	}
	h.respondJSON(w, http.StatusOK, entriesBody(entries))
}

func (h *handlers) rollbackCandidates(w http.ResponseWriter, r *http.Request) {
	operatorID := r.URL.Query().Get("operatorId")
	if operatorID == "" {
		httpError(w, http.StatusBadRequest, "operatorId is required")
		return
	}

	entries, err := h.ledgerStore.LatestRollbackCandidates(r.Context(), operatorID)
	if err != nil {
		h.logger.Error("listing rollback candidates: " + err.Error())
		httpError(w, http.StatusInternalServerError, "")
		return
	}
	h.respondJSON(w, http.StatusOK, entriesBody(entries))
}

func (h *handlers) deleteUpdates(w http.ResponseWriter, r *http.Request) {
	actor := r.URL.Query().Get("operatorId")
	if actor == "" {
		httpError(w, http.StatusBadRequest, "operatorId is required")
		return
	}

	deleted, err := h.ledgerStore.DeleteByActor(r.Context(), actor)
	if err != nil {
		h.logger.Error("deleting updates: " + err.Error())
		httpError(w, http.StatusInternalServerError, "")
		return
	}
	h.respondJSON(w, http.StatusOK, struct {
		Deleted int64 `json:"deleted"`
	}{Deleted: deleted})
}

// entriesBody keeps list responses as JSON arrays even when empty.
func entriesBody(entries []models.LedgerEntry) []models.LedgerEntry {
	if entries == nil {
		return []models.LedgerEntry{}
	}
	return entries
}
