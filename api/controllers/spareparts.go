package controllers

import (
	"net/http"
	"strings"

	"github.com/dmorenov/servicedesk-backend/api/responses"
	"github.com/dmorenov/servicedesk-backend/api/validators"
	sparepartsvc "github.com/dmorenov/servicedesk-backend/internal/spareparts"
	pkgerrors "github.com/dmorenov/servicedesk-backend/pkg/errors"
	"github.com/dmorenov/servicedesk-backend/pkg/logger"
	"github.com/dmorenov/servicedesk-backend/pkg/pagination"
)

// CreateSparePart registers a stock item.
func CreateSparePart(svc sparepartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "spare parts service unavailable"))
			return
		}

		var payload sparepartsvc.CreateSparePartInput
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

// ListSpareParts returns a cursor-paginated stock list with optional
// warehouse and free-text filters.
func ListSpareParts(svc sparepartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "spare parts service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}
		filters := sparepartsvc.SparePartFilters{
			Warehouse: validators.SanitizeString(r.URL.Query().Get("warehouse"), 120),
			Query:     validators.SanitizeString(r.URL.Query().Get("q"), 200),
		}

		list, err := svc.List(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ListLowStockSpareParts returns every part at or below the configured
// low-stock threshold.
func ListLowStockSpareParts(svc sparepartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "spare parts service unavailable"))
			return
		}

		views, err := svc.ListLowStock(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, views)
	}
}

func GetSparePart(svc sparepartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "spare parts service unavailable"))
			return
		}

		id, err := parseIDParam(r, "sparePartId", "spare part id")
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

func UpdateSparePart(svc sparepartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "spare parts service unavailable"))
			return
		}

		id, err := parseIDParam(r, "sparePartId", "spare part id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload sparepartsvc.UpdateSparePartInput
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

// AdjustSparePartQuantity moves quantity-on-hand by a signed delta. Negative
// deltas that would take stock below zero are rejected.
func AdjustSparePartQuantity(svc sparepartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "spare parts service unavailable"))
			return
		}

		id, err := parseIDParam(r, "sparePartId", "spare part id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload sparepartsvc.AdjustQuantityInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.AdjustQuantity(r.Context(), id, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// DeleteSparePart removes a stock item. Parts with consumption history are
// protected and the delete is rejected.
func DeleteSparePart(svc sparepartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "spare parts service unavailable"))
			return
		}

		id, err := parseIDParam(r, "sparePartId", "spare part id")
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
