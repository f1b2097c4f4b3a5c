package server

import (
	"encoding/json"
	"net/http"
)

type errJSONWrapper struct {
	Error string `json:"error"`
}

func httpError(w http.ResponseWriter, status int, errString string) {
	if errString == "" {
		errString = http.StatusText(status)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := errJSONWrapper{Error: errString}
	_ = json.NewEncoder(w).Encode(body)
}

func httpErrors(w http.ResponseWriter, status int, errs []error) {
	errStrings := make([]string, len(errs))
	for i, err := range errs {
		errStrings[i] = err.Error()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := struct {
		Errors []string `json:"errors"`
	}{Errors: errStrings}
	_ = json.NewEncoder(w).Encode(body)
}
