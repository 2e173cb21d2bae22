package controllers

import (
	"net/http"
	"strings"

	"github.com/dmorenov/servicedesk-backend/api/responses"
	"github.com/dmorenov/servicedesk-backend/api/validators"
	usersvc "github.com/dmorenov/servicedesk-backend/internal/users"
	pkgerrors "github.com/dmorenov/servicedesk-backend/pkg/errors"
	"github.com/dmorenov/servicedesk-backend/pkg/logger"
)

// CurrentUser returns the admin profile the back office operates as.
func CurrentUser(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable"))
			return
		}

		view, err := svc.Current(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func UpdateUser(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable"))
			return
		}

		id, err := parseIDParam(r, "userId", "user id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload usersvc.UpdateUserInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Update(r.Context(), id, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// UserPreferences returns the decoded preference map for a user.
func UserPreferences(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable"))
			return
		}

		id, err := parseIDParam(r, "userId", "user id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		prefs, err := svc.Preferences(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, prefs)
	}
}

type setPreferenceRequest struct {
	Key   string `json:"key" validate:"required,max=120"`
	Value any    `json:"value"`
}

// SetUserPreference upserts one preference entry for a user.
func SetUserPreference(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable"))
			return
		}

		id, err := parseIDParam(r, "userId", "user id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setPreferenceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		key := strings.TrimSpace(payload.Key)
		if key == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "preference key is required"))
			return
		}

		if err := svc.SetPreference(r.Context(), id, key, payload.Value); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		prefs, err := svc.Preferences(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, prefs)
	}
}
