// Package summary orchestrates the daily summary pipeline: classify the
// free text, persist the summary with its linked entities, and serve the
// aggregated team metrics.
package summary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dailycopilot/dailycopilot/internal/cache"
	"github.com/dailycopilot/dailycopilot/internal/classifier"
	"github.com/dailycopilot/dailycopilot/internal/metrics"
	"github.com/dailycopilot/dailycopilot/internal/store"
	"github.com/dailycopilot/dailycopilot/pkg/models"
)

var ErrEmptyText = errors.New("summary text is required")
var ErrInvalidDate = errors.New("date must be in YYYY-MM-DD format")
var ErrInvalidPeriod = errors.New("period must be day, week, or month")

const dateLayout = "2006-01-02"
const metricsCacheTTL = 60 * time.Second

// RegisterParams holds validated parameters for a summary submission.
// Date is optional; empty means today.
type RegisterParams struct {
	ProjectID uuid.UUID
	UserID    uuid.UUID
	Text      string
	Date      string
}

// MetricsParams scopes one metrics query. UserID is optional; the zero UUID
// aggregates the whole project.
type MetricsParams struct {
	ProjectID uuid.UUID
	UserID    uuid.UUID
	Period    models.Period
}

// Service orchestrates summary registration and metrics aggregation.
type Service struct {
	store      store.Store
	cache      cache.Cache
	classifier classifier.Classifier
	now        func() time.Time
}

// NewService creates a new Service using the real clock.
func NewService(st store.Store, ca cache.Cache, cl classifier.Classifier) *Service {
	return &Service{store: st, cache: ca, classifier: cl, now: time.Now}
}

// RegisterSummary classifies the text, persists the summary, and links the
// resulting tags, blockers, and suggestions. Classification never fails; a
// model outage degrades to the keyword fallback inside the classifier.
func (s *Service) RegisterSummary(ctx context.Context, params RegisterParams) (*models.Summary, error) {
	if params.Text == "" {
		return nil, ErrEmptyText
	}

	date, err := s.resolveDate(params.Date)
	if err != nil {
		return nil, err
	}

	result := s.classifier.Classify(ctx, params.Text)

	now := s.now().UTC()
	sm := &models.Summary{
		ID:        uuid.New(),
		Text:      params.Text,
		Date:      date,
		UserID:    params.UserID,
		ProjectID: params.ProjectID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateSummary(ctx, sm); err != nil {
		return nil, fmt.Errorf("persisting summary: %w", err)
	}

	for _, name := range result.Tags {
		tag, err := s.getOrCreateTag(ctx, name)
		if err != nil {
			return nil, err
		}
		if err := s.store.AddTagToSummary(ctx, sm.ID, tag.ID); err != nil {
			return nil, fmt.Errorf("linking tag %q: %w", name, err)
		}
		sm.AddTag(*tag)
	}

	for _, name := range result.Blockers {
		blocker, err := s.getOrCreateBlocker(ctx, name)
		if err != nil {
			return nil, err
		}
		if err := s.store.AddBlockerToSummary(ctx, sm.ID, blocker.ID); err != nil {
			return nil, fmt.Errorf("linking blocker %q: %w", name, err)
		}
		sm.AddBlocker(*blocker)
	}

	for _, text := range result.Suggestions {
		sg := &models.Suggestion{ID: uuid.New(), Text: text}
		if err := s.store.CreateSuggestion(ctx, sg); err != nil {
			return nil, fmt.Errorf("persisting suggestion: %w", err)
		}
		if err := s.store.AddSuggestionToSummary(ctx, sm.ID, sg.ID); err != nil {
			return nil, fmt.Errorf("linking suggestion: %w", err)
		}
		sm.AddSuggestion(*sg)
	}

	slog.Info("summary registered",
		"summary_id", sm.ID,
		"project_id", sm.ProjectID,
		"classification_source", result.Source,
		"tags", len(sm.Tags),
		"blockers", len(sm.Blockers))

	return sm, nil
}

// ListMetrics resolves the aggregation window ending now and computes the
// summary metrics, with a short-lived cache in front of the database.
func (s *Service) ListMetrics(ctx context.Context, params MetricsParams) (*metrics.SummaryMetrics, error) {
	if !params.Period.Valid() {
		return nil, ErrInvalidPeriod
	}

	cacheKey := cache.SummaryMetricsKey(params.ProjectID, params.Period, params.UserID)
	if data, found, err := s.cache.Get(ctx, cacheKey); err == nil && found {
		var cached metrics.SummaryMetrics
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	from, to := metrics.Window(params.Period, s.now().UTC())
	summaries, err := s.store.FindSummariesByPeriod(ctx, store.SummaryFilter{
		ProjectID: params.ProjectID,
		UserID:    params.UserID,
		From:      from,
		To:        to,
	})
	if err != nil {
		return nil, fmt.Errorf("fetching summaries: %w", err)
	}

	result := metrics.ComputeSummaryMetrics(summaries, params.Period)

	if data, err := json.Marshal(result); err == nil {
		if err := s.cache.Set(ctx, cacheKey, data, metricsCacheTTL); err != nil {
			slog.Warn("caching summary metrics failed", "error", err)
		}
	}

	return &result, nil
}

// resolveDate parses an optional YYYY-MM-DD date, defaulting to today.
func (s *Service) resolveDate(raw string) (time.Time, error) {
	if raw == "" {
		now := s.now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	date, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return date, nil
}

// getOrCreateTag resolves a tag by name, creating it on first sight. A
// duplicate-key race with a concurrent submission resolves by re-reading.
func (s *Service) getOrCreateTag(ctx context.Context, name string) (*models.Tag, error) {
	tag, err := s.store.FindTagByName(ctx, name)
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("finding tag %q: %w", name, err)
	}

	tag = &models.Tag{ID: uuid.New(), Name: name}
	err = s.store.CreateTag(ctx, tag)
	if errors.Is(err, store.ErrDuplicateKey) {
		return s.store.FindTagByName(ctx, name)
	}
	if err != nil {
		return nil, fmt.Errorf("creating tag %q: %w", name, err)
	}
	return tag, nil
}

func (s *Service) getOrCreateBlocker(ctx context.Context, name string) (*models.Blocker, error) {
	blocker, err := s.store.FindBlockerByName(ctx, name)
	if err == nil {
		return blocker, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("finding blocker %q: %w", name, err)
	}

	blocker = &models.Blocker{ID: uuid.New(), Name: name}
	err = s.store.CreateBlocker(ctx, blocker)
	if errors.Is(err, store.ErrDuplicateKey) {
		return s.store.FindBlockerByName(ctx, name)
	}
	if err != nil {
		return nil, fmt.Errorf("creating blocker %q: %w", name, err)
	}
	return blocker, nil
}
