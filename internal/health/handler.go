package health

import (
	"net/http"
)

// handler serves GET / only, answering 200 when the program is
// healthy and 500 with the failure reason otherwise.
type handler struct {
	isHealthy func() error
}

func newHandler(isHealthy func() error) http.Handler {
	return &handler{
		isHealthy: isHealthy,
	}
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rootPath := r.RequestURI == "" || r.RequestURI == "/"
	if r.Method != http.MethodGet || !rootPath {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}

	err := h.isHealthy()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
