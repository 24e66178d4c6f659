package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	mw "github.com/dailycopilot/dailycopilot/internal/api/middleware"
	"github.com/dailycopilot/dailycopilot/internal/api/response"
	"github.com/dailycopilot/dailycopilot/internal/metrics"
	"github.com/dailycopilot/dailycopilot/internal/summary"
	"github.com/dailycopilot/dailycopilot/pkg/models"
)

// SummaryMetricsLister defines the interface the handler depends on.
type SummaryMetricsLister interface {
	ListMetrics(ctx context.Context, params summary.MetricsParams) (*metrics.SummaryMetrics, error)
}

// NewSummaryMetricsHandler returns an http.HandlerFunc for GET /api/v1/metrics.
func NewSummaryMetricsHandler(svc SummaryMetricsLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, ok := mw.GetProjectID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing project", nil)
			return
		}

		period := models.Period(r.URL.Query().Get("period"))
		if period == "" {
			period = models.PeriodWeek
		}

		userID := uuid.Nil
		if raw := r.URL.Query().Get("user_id"); raw != "" {
			parsed, err := uuid.Parse(raw)
			if err != nil {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "user_id must be a valid UUID", nil)
				return
			}
			userID = parsed
		}

		result, err := svc.ListMetrics(r.Context(), summary.MetricsParams{
			ProjectID: projectID,
			UserID:    userID,
			Period:    period,
		})
		if err != nil {
			switch {
			case errors.Is(err, summary.ErrInvalidPeriod):
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "period must be day, week, or month", nil)
			default:
				response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
					"An unexpected error occurred", nil)
			}
			return
		}

		response.JSON(w, result)
	}
}
