package handlers

import (
	"encoding/json"
	"net/http"

	"photo-archive/internal/archerr"
	"photo-archive/internal/logging"
)

// writeJSON encodes v as JSON and writes it to the response writer.
// Encoding or write errors are logged since we typically cannot
// recover from them in an HTTP handler context.
func writeJSON(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}

// writeJSONStatus writes a simple status response as JSON.
func writeJSONStatus(w http.ResponseWriter, status string) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]string{"status": status})
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// statusOf maps an error classification to an HTTP status code.
func statusOf(kind archerr.Kind) int {
	switch kind {
	case archerr.KindValidation:
		return http.StatusBadRequest
	case archerr.KindNotFound:
		return http.StatusNotFound
	case archerr.KindConflict:
		return http.StatusConflict
	case archerr.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError translates err into a JSON error response. Unexpected and
// storage errors are logged with their cause; the response body only
// carries the classified message, never wrapped internals.
func writeError(w http.ResponseWriter, err error) {
	kind := archerr.KindOf(err)
	if kind == archerr.KindInternal || kind == archerr.KindUnavailable {
		logging.Error("request failed: %v", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusOf(kind))
	writeJSON(w, ErrorResponse{Error: archerr.MessageOf(err), Kind: kind.String()})
}
