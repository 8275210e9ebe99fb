// Package response writes the JSON bodies the frontend consumes: resources
// keyed by name ({"user": …}, {"shops": […]}) and {"message": …} for
// everything else.
package response

import (
	"encoding/json"
	"net/http"
)

func write(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// JSON sends an arbitrary body with the given status.
func JSON(w http.ResponseWriter, status int, body interface{}) {
	write(w, status, body)
}

// Resource sends {name: v} with a 200.
func Resource(w http.ResponseWriter, name string, v interface{}) {
	write(w, http.StatusOK, map[string]interface{}{name: v})
}

// CreatedResource sends {name: v} with a 201.
func CreatedResource(w http.ResponseWriter, name string, v interface{}) {
	write(w, http.StatusCreated, map[string]interface{}{name: v})
}

// Message sends {"message": msg} with the given status.
func Message(w http.ResponseWriter, status int, msg string) {
	write(w, status, map[string]string{"message": msg})
}

// Error sends {"message": msg} with an error status.
func Error(w http.ResponseWriter, status int, msg string) {
	Message(w, status, msg)
}

// ValidationError sends a 422 with field-level errors.
func ValidationError(w http.ResponseWriter, errs map[string]string) {
	write(w, http.StatusUnprocessableEntity, map[string]interface{}{
		"message": "Validation failed",
		"errors":  errs,
	})
}

// Unauthorized sends a 401.
func Unauthorized(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "Unauthorized"
	}
	Error(w, http.StatusUnauthorized, msg)
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "Not found"
	}
	Error(w, http.StatusNotFound, msg)
}

// Internal sends a 500 with the conventional message.
func Internal(w http.ResponseWriter) {
	Error(w, http.StatusInternalServerError, "Internal Server Error")
}
