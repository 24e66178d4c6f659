package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	mw "github.com/dailycopilot/dailycopilot/internal/api/middleware"
	"github.com/dailycopilot/dailycopilot/internal/api/response"
	"github.com/dailycopilot/dailycopilot/internal/mcp"
	"github.com/dailycopilot/dailycopilot/pkg/models"
)

// BuildAnalyzer defines the interface the handler depends on.
type BuildAnalyzer interface {
	AnalyzeErrors(ctx context.Context, input mcp.AnalyzeInput) (*mcp.Analysis, error)
}

// NewAnalyzeHandler returns an http.HandlerFunc for POST /api/v1/mcp/analyze.
func NewAnalyzeHandler(svc BuildAnalyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, ok := mw.GetProjectID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing project", nil)
			return
		}

		var req struct {
			BuildOutput string `json:"build_output"`
			Source      string `json:"source"`
			UserID      string `json:"user_id"`
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

		analysis, err := svc.AnalyzeErrors(r.Context(), mcp.AnalyzeInput{
			ProjectID:   projectID,
			UserID:      userID,
			BuildOutput: req.BuildOutput,
			Source:      models.ErrorSource(req.Source),
		})
		if err != nil {
			switch {
			case errors.Is(err, mcp.ErrEmptyOutput):
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "build_output is required", nil)
			default:
				response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
					"An unexpected error occurred", nil)
			}
			return
		}

		response.JSON(w, analysis)
	}
}
