package handlers

import (
	"encoding/json"
	"net/http"
)

// apiError is the JSON body of every non-2xx response. Code is a stable
// machine-readable identifier; Message is for humans.
type apiError struct {
	Code    string `json:"error"`
	Message string `json:"message"`
}

// ErrorResponse writes a JSON error body with the given status code.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	return WriteJSON(w, statusCode, apiError{Code: errorCode, Message: message})
}

// WriteJSON serializes data as the response body with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}
