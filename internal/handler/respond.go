package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/maplefay/homeplate/internal/membership"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeMembershipError maps the membership service's sentinel errors to
// HTTP statuses; anything unrecognized is a 500.
func writeMembershipError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, membership.ErrNotAuthenticated):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, membership.ErrPermissionDenied):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, membership.ErrInvalidInvite):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, membership.ErrNotInHousehold):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
