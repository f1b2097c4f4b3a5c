package server

import (
	"encoding/json"
	"net/http"
)

func (h *handlers) respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		h.logger.Error("failed encoding JSON response: " + err.Error())
	}
}
