package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/camachodev/puntoventa-backend/api/responses"
	"github.com/camachodev/puntoventa-backend/api/validators"
	"github.com/camachodev/puntoventa-backend/internal/dashboard"
	pkgerrors "github.com/camachodev/puntoventa-backend/pkg/errors"
	"github.com/camachodev/puntoventa-backend/pkg/logger"
)

// DashboardSummary returns today's revenue and sale count.
func DashboardSummary(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, err := orgIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.GetSummary(r.Context(), orgID, time.Now().UTC())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// DashboardTopProducts returns best sellers since an optional cutoff.
func DashboardTopProducts(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, err := orgIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		since := time.Now().UTC().AddDate(0, 0, -30)
		if raw := strings.TrimSpace(r.URL.Query().Get("since")); raw != "" {
			parsed, parseErr := time.Parse(time.RFC3339, raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid since timestamp"))
				return
			}
			since = parsed
		}
		limit, err := validators.ParseQueryInt(r, "limit", 10, 1, 50)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.GetTopProducts(r.Context(), orgID, since, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// DashboardLowStock lists managed products at or below their alert level.
func DashboardLowStock(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, err := orgIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.GetLowStock(r.Context(), orgID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}
