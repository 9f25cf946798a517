// Package response provides shared JSON response helpers for HTTP handlers.
// Bodies are written without an envelope so existing clients can read fields
// such as "key" and "error" at the top level.
package response

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the body of every error response.
type ErrorBody struct {
	Error string `json:"error" example:"File not found"`
}

// JSON writes a JSON-encoded payload with the given HTTP status code.
func JSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// OK writes a 200 response with data.
func OK(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, data)
}

// Error writes an error response with the given status and message.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorBody{Error: message})
}

// BadRequest writes a 400 response.
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message)
}

// NotFound writes a 404 response.
func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message)
}

// InternalError writes a 500 response with the given message.
func InternalError(w http.ResponseWriter, message string) {
	Error(w, http.StatusInternalServerError, message)
}
