package store

import (
	"context"
	"errors"
	"time"

	"github.com/dailycopilot/dailycopilot/pkg/models"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateKey = errors.New("duplicate key violation")

// Store is the data access interface. All database operations go through here.
type Store interface {
	Ping(ctx context.Context) error

	GetAPIKeyByPrefix(ctx context.Context, prefix string) ([]*models.APIKey, error)
	UpdateAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error
	CreateAPIKey(ctx context.Context, key *models.APIKey) error
	ListAPIKeys(ctx context.Context, projectID uuid.UUID) ([]*models.APIKey, error)
	RevokeAPIKey(ctx context.Context, id uuid.UUID, projectID uuid.UUID) error

	CreateSummary(ctx context.Context, summary *models.Summary) error
	FindSummariesByPeriod(ctx context.Context, filter SummaryFilter) ([]*models.Summary, error)

	FindTagByName(ctx context.Context, name string) (*models.Tag, error)
	CreateTag(ctx context.Context, tag *models.Tag) error
	FindBlockerByName(ctx context.Context, name string) (*models.Blocker, error)
	CreateBlocker(ctx context.Context, blocker *models.Blocker) error
	CreateSuggestion(ctx context.Context, suggestion *models.Suggestion) error

	AddTagToSummary(ctx context.Context, summaryID, tagID uuid.UUID) error
	AddBlockerToSummary(ctx context.Context, summaryID, blockerID uuid.UUID) error
	AddSuggestionToSummary(ctx context.Context, summaryID, suggestionID uuid.UUID) error

	CreateBuildError(ctx context.Context, buildError *models.BuildError) error
	FindBuildErrorsByPeriod(ctx context.Context, filter BuildErrorFilter) ([]*models.BuildError, error)
	FindUnsolvedByProjectID(ctx context.Context, projectID uuid.UUID) ([]*models.BuildError, error)
	FindUnsolvedByUserID(ctx context.Context, userID uuid.UUID) ([]*models.BuildError, error)
	GetErrorCountByType(ctx context.Context, projectID uuid.UUID, from, to time.Time) (map[string]int, error)
	MarkAsSolved(ctx context.Context, id uuid.UUID, projectID uuid.UUID, solution string) (*models.BuildError, error)
}

// SummaryFilter scopes a summary window query. UserID is optional; the zero
// UUID matches all users.
type SummaryFilter struct {
	ProjectID uuid.UUID
	UserID    uuid.UUID
	From      time.Time
	To        time.Time
}

// BuildErrorFilter scopes a build error window query. UserID is optional.
type BuildErrorFilter struct {
	ProjectID uuid.UUID
	UserID    uuid.UUID
	From      time.Time
	To        time.Time
}
