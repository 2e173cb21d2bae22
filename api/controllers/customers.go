package controllers

import (
	"net/http"

	"github.com/dmorenov/servicedesk-backend/api/responses"
	"github.com/dmorenov/servicedesk-backend/api/validators"
	customersvc "github.com/dmorenov/servicedesk-backend/internal/customers"
	pkgerrors "github.com/dmorenov/servicedesk-backend/pkg/errors"
	"github.com/dmorenov/servicedesk-backend/pkg/logger"
)

// CreateCustomer registers a customer directly, outside complaint intake.
func CreateCustomer(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customers service unavailable"))
			return
		}

		var payload customersvc.CreateCustomerInput
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

func ListCustomers(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customers service unavailable"))
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

func GetCustomer(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customers service unavailable"))
			return
		}

		id, err := parseIDParam(r, "customerId", "customer id")
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

func UpdateCustomer(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customers service unavailable"))
			return
		}

		id, err := parseIDParam(r, "customerId", "customer id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload customersvc.UpdateCustomerInput
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

// DeleteCustomer removes a customer. Customers with complaints on file are
// protected and the delete is rejected.
func DeleteCustomer(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customers service unavailable"))
			return
		}

		id, err := parseIDParam(r, "customerId", "customer id")
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
