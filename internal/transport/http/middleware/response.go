package middleware

import (
	"encoding/json"
	"net/http"
)

// errorBody mirrors the error shape of the handler package's envelope.
type errorBody struct {
	Error     string `json:"error"`
	ErrorCode int    `json:"error_code"`
}

// writeJSONError rejects a request before it reaches a handler. Used by
// BrowserSession when no session cookie can be issued and by RateLimiter.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: msg, ErrorCode: status})
}
