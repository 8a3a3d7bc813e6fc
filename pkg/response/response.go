// Package response writes the service's JSON response bodies.
//
// Successful responses are the bare resource; failures are
// {"message": "..."} plus any extra fields the error carries.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/shashiranjanraj/jwtpizza/pkg/apperr"
	"github.com/shashiranjanraj/jwtpizza/pkg/logger"
)

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// Success sends a 200 with data as the body.
func Success(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, data)
}

// Message sends a 200 {"message": msg}.
func Message(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusOK, map[string]string{"message": msg})
}

// Error sends a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"message": message})
}

// ValidationError sends a 422 with field-level error map.
func ValidationError(w http.ResponseWriter, errs map[string]string) {
	JSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
		"message": "Validation failed",
		"errors":  errs,
	})
}

// Unauthorized sends a 401.
func Unauthorized(w http.ResponseWriter) {
	Error(w, http.StatusUnauthorized, "unauthorized")
}

// Forbidden sends a 403.
func Forbidden(w http.ResponseWriter) {
	Error(w, http.StatusForbidden, "forbidden")
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter) {
	Error(w, http.StatusNotFound, "not found")
}

// Fail maps err onto its status and client-safe body. Server-side failures
// are logged with their cause through the request logger.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)
	log := logger.WithCtx(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error("request failed", "error", err, "method", r.Method, "path", r.URL.Path)
	} else {
		log.Debug("request rejected", "status", status, "error", err)
	}

	body := map[string]interface{}{"message": apperr.PublicMessage(err)}
	for k, v := range apperr.FieldsOf(err) {
		body[k] = v
	}
	JSON(w, status, body)
}
