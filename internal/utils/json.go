package utils

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

const contentTypeJSON = "application/json; charset=utf-8"

// WriteJSON encodes v before touching the response, so a value that cannot be
// encoded (a NaN reading, for one) becomes a 500 instead of a truncated body.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorBody(status, "failed to encode response"))
	}
	body = append(body, '\n')

	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		slog.Debug("failed to write JSON response", "error", err)
	}
}

func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, errorBody(status, msg))
}

func errorBody(status int, msg string) map[string]any {
	return map[string]any{
		"error":   http.StatusText(status),
		"message": msg,
	}
}
