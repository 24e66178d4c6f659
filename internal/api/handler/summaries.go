package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	mw "github.com/dailycopilot/dailycopilot/internal/api/middleware"
	"github.com/dailycopilot/dailycopilot/internal/api/response"
	"github.com/dailycopilot/dailycopilot/internal/summary"
	"github.com/dailycopilot/dailycopilot/pkg/models"
)

// SummaryRegistrar defines the interface the handler depends on.
type SummaryRegistrar interface {
	RegisterSummary(ctx context.Context, params summary.RegisterParams) (*models.Summary, error)
}

// NewRegisterSummaryHandler returns an http.HandlerFunc for POST /api/v1/summaries.
func NewRegisterSummaryHandler(svc SummaryRegistrar) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, ok := mw.GetProjectID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing project", nil)
			return
		}

		var req struct {
			Text   string `json:"text"`
			Date   string `json:"date"`
			UserID string `json:"user_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		if req.UserID == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "user_id is required", nil)
			return
		}
		userID, err := uuid.Parse(req.UserID)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "user_id must be a valid UUID", nil)
			return
		}

		sm, err := svc.RegisterSummary(r.Context(), summary.RegisterParams{
			ProjectID: projectID,
			UserID:    userID,
			Text:      req.Text,
			Date:      req.Date,
		})
		if err != nil {
			switch {
			case errors.Is(err, summary.ErrEmptyText):
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "text is required", nil)
			case errors.Is(err, summary.ErrInvalidDate):
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "date must be in YYYY-MM-DD format", nil)
			default:
				response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
					"An unexpected error occurred", nil)
			}
			return
		}

		response.Created(w, sm)
	}
}
