package server

import (
	"encoding/json"
	"net/http"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondFieldErrors(w http.ResponseWriter, fields map[string]string) {
	respondJSON(w, http.StatusBadRequest, map[string]any{"error": fields})
}

func respondInternalError(w http.ResponseWriter) {
	respondJSON(w, http.StatusInternalServerError, map[string]any{"error": map[string]string{"internal": "internal server error"}})
}
