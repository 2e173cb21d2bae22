package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmorenov/servicedesk-backend/api/responses"
	"github.com/dmorenov/servicedesk-backend/api/validators"
	complaintsvc "github.com/dmorenov/servicedesk-backend/internal/complaints"
	"github.com/dmorenov/servicedesk-backend/pkg/enums"
	pkgerrors "github.com/dmorenov/servicedesk-backend/pkg/errors"
	"github.com/dmorenov/servicedesk-backend/pkg/logger"
	"github.com/dmorenov/servicedesk-backend/pkg/pagination"
)

// CreateComplaint registers a new complaint, resolving the customer by phone
// and the appliance by serial.
func CreateComplaint(svc complaintsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "complaints service unavailable"))
			return
		}

		var payload complaintsvc.CreateComplaintInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Create(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, detail)
	}
}

// ListComplaints returns a cursor-paginated complaint list with optional
// status, kind, engineer, date-range and free-text filters.
func ListComplaints(svc complaintsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "complaints service unavailable"))
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

		filters, err := parseComplaintFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// GetComplaint returns the expanded detail for a single complaint.
func GetComplaint(svc complaintsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "complaints service unavailable"))
			return
		}

		id, err := parseIDParam(r, "complaintId", "complaint id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

type assignEngineerRequest struct {
	EngineerID string `json:"engineer_id" validate:"required"`
}

// AssignComplaintEngineer assigns an engineer to an open or in-progress
// complaint.
func AssignComplaintEngineer(svc complaintsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "complaints service unavailable"))
			return
		}

		complaintID, err := parseIDParam(r, "complaintId", "complaint id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload assignEngineerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		engineerID, err := uuid.Parse(strings.TrimSpace(payload.EngineerID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid engineer id"))
			return
		}

		if err := svc.AssignEngineer(r.Context(), complaintID, engineerID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Get(r.Context(), complaintID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// BeginComplaintInvestigation moves an open complaint to under investigation.
func BeginComplaintInvestigation(svc complaintsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "complaints service unavailable"))
			return
		}

		complaintID, err := parseIDParam(r, "complaintId", "complaint id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.BeginInvestigation(r.Context(), complaintID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Get(r.Context(), complaintID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// CompleteComplaintRepair closes a complaint, recording the repair outcome
// and consuming any spare parts in the same transaction.
func CompleteComplaintRepair(svc complaintsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "complaints service unavailable"))
			return
		}

		complaintID, err := parseIDParam(r, "complaintId", "complaint id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload complaintsvc.CompleteRepairInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.CompleteRepair(r.Context(), complaintID, payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Get(r.Context(), complaintID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// DeleteComplaint removes a complaint and its consumption records. Consumed
// stock stays deducted.
func DeleteComplaint(svc complaintsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "complaints service unavailable"))
			return
		}

		complaintID, err := parseIDParam(r, "complaintId", "complaint id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), complaintID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func parseComplaintFilters(r *http.Request) (complaintsvc.ComplaintFilters, error) {
	query := r.URL.Query()
	filters := complaintsvc.ComplaintFilters{
		Query: validators.SanitizeString(query.Get("q"), 200),
	}

	if raw := strings.TrimSpace(query.Get("status")); raw != "" {
		status, err := enums.ParseComplaintStatus(raw)
		if err != nil {
			return complaintsvc.ComplaintFilters{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		filters.Status = &status
	}
	if raw := strings.TrimSpace(query.Get("kind")); raw != "" {
		kind, err := enums.ParseComplaintKind(raw)
		if err != nil {
			return complaintsvc.ComplaintFilters{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid kind filter")
		}
		filters.Kind = &kind
	}
	if raw := strings.TrimSpace(query.Get("engineer_id")); raw != "" {
		engineerID, err := uuid.Parse(raw)
		if err != nil {
			return complaintsvc.ComplaintFilters{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid engineer filter")
		}
		filters.EngineerID = &engineerID
	}
	if raw := strings.TrimSpace(query.Get("date_from")); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return complaintsvc.ComplaintFilters{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid date_from filter")
		}
		filters.DateFrom = &from
	}
	if raw := strings.TrimSpace(query.Get("date_to")); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return complaintsvc.ComplaintFilters{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid date_to filter")
		}
		// The filter is inclusive of the whole end day.
		end := to.Add(24*time.Hour - time.Nanosecond)
		filters.DateTo = &end
	}

	return filters, nil
}

func parseIDParam(r *http.Request, param, label string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, param))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, label+" is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+label)
	}
	return id, nil
}
