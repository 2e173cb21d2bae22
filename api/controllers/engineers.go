package controllers

import (
	"net/http"

	"github.com/dmorenov/servicedesk-backend/api/responses"
	"github.com/dmorenov/servicedesk-backend/api/validators"
	engineersvc "github.com/dmorenov/servicedesk-backend/internal/engineers"
	pkgerrors "github.com/dmorenov/servicedesk-backend/pkg/errors"
	"github.com/dmorenov/servicedesk-backend/pkg/logger"
)

func CreateEngineer(svc engineersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "engineers service unavailable"))
			return
		}

		var payload engineersvc.CreateEngineerInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Create(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// ListEngineers returns every engineer with their open complaint count.
func ListEngineers(svc engineersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "engineers service unavailable"))
			return
		}

		views, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, views)
	}
}

func GetEngineer(svc engineersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "engineers service unavailable"))
			return
		}

		id, err := parseIDParam(r, "engineerId", "engineer id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func UpdateEngineer(svc engineersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "engineers service unavailable"))
			return
		}

		id, err := parseIDParam(r, "engineerId", "engineer id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload engineersvc.UpdateEngineerInput
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

// DeleteEngineer removes an engineer. Their complaints stay on file as
// unassigned.
func DeleteEngineer(svc engineersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "engineers service unavailable"))
			return
		}

		id, err := parseIDParam(r, "engineerId", "engineer id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
