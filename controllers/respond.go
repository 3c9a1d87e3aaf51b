package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go-marketplace/payment"
	"go-marketplace/store"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the error taxonomy onto HTTP statuses: absent documents are
// 404, invalid state and validation problems are 400, lost conditional
// updates are 409, unreachable collaborators are 502 with a retry hint.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, payment.ErrEmptyCart),
		errors.Is(err, store.ErrIllegalTransition),
		errors.Is(err, payment.ErrBadSignature):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, store.ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, payment.ErrProviderUnavailable):
		w.Header().Set("Retry-After", "5")
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
