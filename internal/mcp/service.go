package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dailycopilot/dailycopilot/internal/cache"
	"github.com/dailycopilot/dailycopilot/internal/metrics"
	"github.com/dailycopilot/dailycopilot/internal/store"
	"github.com/dailycopilot/dailycopilot/pkg/models"
)

var ErrEmptyOutput = errors.New("build output is required")
var ErrInvalidPeriod = errors.New("period must be day, week, or month")

const metricsCacheTTL = 60 * time.Second

// ErrorMetricsParams scopes one error-metrics query.
type ErrorMetricsParams struct {
	ProjectID uuid.UUID
	Period    models.Period
}

// Service orchestrates build output analysis, persistence of the extracted
// errors, and error metrics aggregation.
type Service struct {
	store    store.Store
	cache    cache.Cache
	analyzer Analyzer
	now      func() time.Time
}

// NewService creates a new Service using the real clock.
func NewService(st store.Store, ca cache.Cache, an Analyzer) *Service {
	return &Service{store: st, cache: ca, analyzer: an, now: time.Now}
}

// AnalyzeErrors runs the analyzer over raw build output and persists every
// extracted error. The returned analysis carries the assigned record IDs so
// callers can reference them in later solve calls. Analysis itself never
// fails; only persistence can surface an error.
func (s *Service) AnalyzeErrors(ctx context.Context, input AnalyzeInput) (*Analysis, error) {
	if input.BuildOutput == "" {
		return nil, ErrEmptyOutput
	}
	if !input.Source.Valid() {
		input.Source = models.SourceOther
	}

	analysis := s.analyzer.Analyze(ctx, input)

	now := s.now().UTC()
	for i := range analysis.Errors {
		record := &analysis.Errors[i]
		record.ID = uuid.New()

		buildError := &models.BuildError{
			ID:        record.ID,
			Message:   record.Message,
			Type:      record.Type,
			Severity:  record.Severity,
			File:      record.File,
			Line:      record.Line,
			Column:    record.Column,
			ProjectID: input.ProjectID,
			UserID:    input.UserID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.store.CreateBuildError(ctx, buildError); err != nil {
			return nil, fmt.Errorf("persisting build error: %w", err)
		}
	}

	slog.Info("build output analyzed",
		"project_id", input.ProjectID,
		"source", input.Source,
		"analysis_source", analysis.Source,
		"errors", len(analysis.Errors))

	return &analysis, nil
}

// ListUnsolved returns open errors for a project, narrowed to one user when
// userID is set.
func (s *Service) ListUnsolved(ctx context.Context, projectID, userID uuid.UUID) ([]*models.BuildError, error) {
	if userID != uuid.Nil {
		errs, err := s.store.FindUnsolvedByUserID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("fetching unsolved errors: %w", err)
		}
		return errs, nil
	}
	errs, err := s.store.FindUnsolvedByProjectID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("fetching unsolved errors: %w", err)
	}
	return errs, nil
}

// MarkSolved flags one error as solved, recording the solution when one is
// supplied.
func (s *Service) MarkSolved(ctx context.Context, id, projectID uuid.UUID, solution string) (*models.BuildError, error) {
	return s.store.MarkAsSolved(ctx, id, projectID, solution)
}

// ErrorMetrics aggregates the project's build errors over the window ending
// now, with a short-lived cache in front of the database. The per-type counts
// come from the store's grouped query; everything else is derived from the
// window population.
func (s *Service) ErrorMetrics(ctx context.Context, params ErrorMetricsParams) (*metrics.ErrorMetrics, error) {
	if !params.Period.Valid() {
		return nil, ErrInvalidPeriod
	}

	cacheKey := cache.ErrorMetricsKey(params.ProjectID, params.Period)
	if data, found, err := s.cache.Get(ctx, cacheKey); err == nil && found {
		var cached metrics.ErrorMetrics
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	from, to := metrics.Window(params.Period, s.now().UTC())

	countByType, err := s.store.GetErrorCountByType(ctx, params.ProjectID, from, to)
	if err != nil {
		return nil, fmt.Errorf("counting errors by type: %w", err)
	}

	errs, err := s.store.FindBuildErrorsByPeriod(ctx, store.BuildErrorFilter{
		ProjectID: params.ProjectID,
		From:      from,
		To:        to,
	})
	if err != nil {
		return nil, fmt.Errorf("fetching build errors: %w", err)
	}

	result := metrics.ComputeErrorMetrics(errs, countByType)

	if data, err := json.Marshal(result); err == nil {
		if err := s.cache.Set(ctx, cacheKey, data, metricsCacheTTL); err != nil {
			slog.Warn("caching error metrics failed", "error", err)
		}
	}

	return &result, nil
}
