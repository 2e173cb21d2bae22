package controllers

import (
	"net/http"

	"github.com/dmorenov/servicedesk-backend/api/responses"
	statsvc "github.com/dmorenov/servicedesk-backend/internal/stats"
	pkgerrors "github.com/dmorenov/servicedesk-backend/pkg/errors"
	"github.com/dmorenov/servicedesk-backend/pkg/logger"
)

// StatsOverview returns the dashboard metrics: totals, status breakdown,
// month-over-month growth, resolution time and completion rate.
func StatsOverview(svc statsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stats service unavailable"))
			return
		}

		overview, err := svc.Overview(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, overview)
	}
}
