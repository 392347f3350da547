package httputil

import (
	"encoding/json"
	"net/http"
)

// WriteJSON encodes v as the response body with the given status code.
// Encoding errors after the header is written cannot be reported, so they
// are dropped.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes {"error": msg} with the given status code. Every error
// a handler returns to a client goes through here so the shape is uniform.
func WriteError(w http.ResponseWriter, code int, msg string) {
	WriteJSON(w, code, map[string]any{"error": msg})
}

// WriteSuccess writes the bare {"status": "ok"} body.
func WriteSuccess(w http.ResponseWriter) {
	WriteJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

// WriteSuccessWithData writes {"status": "ok"} merged with data. A "status"
// key in data wins over the default.
func WriteSuccessWithData(w http.ResponseWriter, data map[string]any) {
	response := map[string]any{"status": "ok"}
	for k, v := range data {
		response[k] = v
	}
	WriteJSON(w, http.StatusOK, response)
}
