package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	mw "github.com/dailycopilot/dailycopilot/internal/api/middleware"
	"github.com/dailycopilot/dailycopilot/internal/api/response"
	"github.com/dailycopilot/dailycopilot/internal/mcp"
	"github.com/dailycopilot/dailycopilot/internal/metrics"
	"github.com/dailycopilot/dailycopilot/internal/store"
	"github.com/dailycopilot/dailycopilot/pkg/models"
)

// UnsolvedLister defines the interface the list handler depends on.
type UnsolvedLister interface {
	ListUnsolved(ctx context.Context, projectID, userID uuid.UUID) ([]*models.BuildError, error)
}

// ErrorSolver defines the interface the solve handler depends on.
type ErrorSolver interface {
	MarkSolved(ctx context.Context, id, projectID uuid.UUID, solution string) (*models.BuildError, error)
}

// ErrorMetricsProvider defines the interface the metrics handler depends on.
type ErrorMetricsProvider interface {
	ErrorMetrics(ctx context.Context, params mcp.ErrorMetricsParams) (*metrics.ErrorMetrics, error)
}

// NewListUnsolvedHandler returns an http.HandlerFunc for GET /api/v1/mcp/errors.
func NewListUnsolvedHandler(svc UnsolvedLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, ok := mw.GetProjectID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing project", nil)
			return
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

		errs, err := svc.ListUnsolved(r.Context(), projectID, userID)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"An unexpected error occurred", nil)
			return
		}

		response.JSON(w, errs)
	}
}

// NewSolveErrorHandler returns an http.HandlerFunc for POST /api/v1/mcp/errors/{errorID}/solve.
func NewSolveErrorHandler(svc ErrorSolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, ok := mw.GetProjectID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing project", nil)
			return
		}

		errorID, err := uuid.Parse(chi.URLParam(r, "errorID"))
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "errorID must be a valid UUID", nil)
			return
		}

		var req struct {
			Solution string `json:"solution"`
		}
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
				return
			}
		}

		solved, err := svc.MarkSolved(r.Context(), errorID, projectID, req.Solution)
		if err != nil {
			switch {
			case errors.Is(err, store.ErrNotFound):
				response.Error(w, http.StatusNotFound, "NOT_FOUND", "Build error not found", nil)
			default:
				response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
					"An unexpected error occurred", nil)
			}
			return
		}

		response.JSON(w, solved)
	}
}

// NewErrorMetricsHandler returns an http.HandlerFunc for GET /api/v1/mcp/metrics.
func NewErrorMetricsHandler(svc ErrorMetricsProvider) http.HandlerFunc {
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

		result, err := svc.ErrorMetrics(r.Context(), mcp.ErrorMetricsParams{
			ProjectID: projectID,
			Period:    period,
		})
		if err != nil {
			switch {
			case errors.Is(err, mcp.ErrInvalidPeriod):
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
