// Package controllers wires the HTTP surface: decode the request, call a
// service, translate the outcome into a JSON response.
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bookhive/bookhive/app/models"
	"github.com/bookhive/bookhive/app/services"
	"github.com/bookhive/bookhive/pkg/logger"
	"github.com/bookhive/bookhive/pkg/response"
)

// serviceError maps a service sentinel to its HTTP status and message.
// Anything unmapped is a 500; the cause goes to the log, not the client.
func serviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidRole):
		response.Error(w, http.StatusBadRequest, "Invalid role")
	case errors.Is(err, services.ErrEmailTaken):
		response.Error(w, http.StatusBadRequest, "Email already registered")
	case errors.Is(err, services.ErrBadDataURI):
		response.Error(w, http.StatusBadRequest, "Invalid file payload")
	case errors.Is(err, services.ErrAlreadyFollowing):
		response.Error(w, http.StatusBadRequest, "Already following this shop")
	case errors.Is(err, services.ErrNotFollowing):
		response.Error(w, http.StatusBadRequest, "Not following this shop")
	case errors.Is(err, services.ErrInvalidCredentials):
		response.Unauthorized(w, "Invalid credentials")
	case errors.Is(err, services.ErrRoleMismatch):
		response.Unauthorized(w, "Role does not match this account")
	case errors.Is(err, services.ErrUserNotFound):
		response.NotFound(w, "User not found")
	case errors.Is(err, services.ErrCustomerNotFound):
		response.NotFound(w, "Customer not found")
	case errors.Is(err, services.ErrShopNotFound):
		response.NotFound(w, "Shop not found")
	case errors.Is(err, services.ErrNotificationNotFound):
		response.NotFound(w, "Notification not found")
	default:
		logger.WithCtx(r.Context()).Error("unhandled service error",
			"path", r.URL.Path, "error", err)
		response.Internal(w)
	}
}

// uintParam parses a numeric chi route parameter.
func uintParam(r *http.Request, name string) (uint, bool) {
	raw := chi.URLParam(r, name)
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}

// badParam writes the 400 for an unparseable route parameter.
func badParam(w http.ResponseWriter, name string) {
	response.Error(w, http.StatusBadRequest, "Invalid "+name)
}
