package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/flarewatcher/flarewatcher/internal/credentials"
	"github.com/flarewatcher/flarewatcher/internal/models"
	"github.com/flarewatcher/flarewatcher/internal/store"
)

func (h *handlers) getSettings(w http.ResponseWriter, r *http.Request) {
	operatorID := r.URL.Query().Get("operatorId")
	if operatorID == "" {
		httpError(w, http.StatusBadRequest, "operatorId is required")
		return
	}

	settings, err := h.settingsStore.GetSettings(r.Context(), operatorID)
	switch {
	case errors.Is(err, store.ErrSettingsNotFound):
		httpError(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		h.logger.Error("reading settings: " + err.Error())
		httpError(w, http.StatusInternalServerError, "")
		return
	}
	h.respondJSON(w, http.StatusOK, settings)
}

func (h *handlers) putSettings(w http.ResponseWriter, r *http.Request) {
	var settings models.OperatorSettings
	err := json.NewDecoder(r.Body).Decode(&settings)
	if err != nil {
		httpError(w, http.StatusBadRequest, "decoding request: "+err.Error())
		return
	}
	if settings.OperatorID == "" {
		httpError(w, http.StatusBadRequest, "operatorId is required")
		return
	}
	if settings.IntervalMinutes == 0 { // omitted from the payload
		settings.IntervalMinutes = models.DefaultIntervalMinutes
	} else if settings.IntervalMinutes > models.MaxIntervalMinutes {
		httpError(w, http.StatusBadRequest, fmt.Sprintf(
			"intervalMinutes must be between %d and %d",
			models.MinIntervalMinutes, models.MaxIntervalMinutes))
		return
	}

	existing, err := h.settingsStore.GetSettings(r.Context(), settings.OperatorID)
	haveExisting := err == nil
	if err != nil && !errors.Is(err, store.ErrSettingsNotFound) {
		h.logger.Error("reading settings: " + err.Error())
		httpError(w, http.StatusInternalServerError, "")
		return
	}

	switch {
	case settings.SMTPPass == "" && haveExisting:
		// An omitted password keeps the stored one.
		settings.SMTPPass = existing.SMTPPass
	case settings.SMTPPass != "" && !credentials.IsEncrypted(settings.SMTPPass):
		settings.SMTPPass, err = h.codec.Encrypt(settings.SMTPPass)
		if err != nil {
			h.logger.Error("encrypting SMTP password: " + err.Error())
			httpError(w, http.StatusInternalServerError, "")
			return
		}
	}

	err = h.settingsStore.UpsertSettings(r.Context(), settings)
	if err != nil {
		h.logger.Error("saving settings: " + err.Error())
		httpError(w, http.StatusInternalServerError, "")
		return
	}

	settings, err = h.settingsStore.GetSettings(r.Context(), settings.OperatorID)
	if err != nil {
		h.logger.Error("reading settings back: " + err.Error())
		httpError(w, http.StatusInternalServerError, "")
		return
	}
	h.respondJSON(w, http.StatusOK, settings)
}

type putTokenRequest struct {
	OperatorID string `json:"operatorId"`
	TokenID    string `json:"tokenId,omitempty"`
	Name       string `json:"name"`
	Secret     string `json:"secret"`
}

func (h *handlers) putToken(w http.ResponseWriter, r *http.Request) {
	var request putTokenRequest
	err := json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		httpError(w, http.StatusBadRequest, "decoding request: "+err.Error())
		return
	}
	if request.OperatorID == "" || request.Secret == "" {
		httpError(w, http.StatusBadRequest, "operatorId and secret are required")
		return
	}
	encryptedSecret := request.Secret
	if !credentials.IsEncrypted(encryptedSecret) {
		encryptedSecret, err = h.codec.Encrypt(request.Secret)
		if err != nil {
			h.logger.Error("encrypting token secret: " + err.Error())
			httpError(w, http.StatusInternalServerError, "")
			return
		}
	}

	tokenID, err := h.tokenStore.UpsertToken(r.Context(), request.OperatorID,
		request.TokenID, request.Name, encryptedSecret)
	if err != nil {
		h.logger.Error("saving token: " + err.Error())
		httpError(w, http.StatusInternalServerError, "")
		return
	}
	h.respondJSON(w, http.StatusOK, struct {
		TokenID string `json:"tokenId"`
	}{TokenID: tokenID})
}
