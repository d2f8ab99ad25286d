package api

import (
	"encoding/json"
	"log"
	"net/http"
)

// errorResponse is the JSON body every failed request gets: a
// human-readable message plus optional detail for operator diagnosis.
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string, cause error) {
	resp := errorResponse{Error: message}
	if cause != nil {
		resp.Details = cause.Error()
	}
	writeJSON(w, status, resp)
}
