package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dailycopilot/dailycopilot/pkg/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- API Keys ---

func (s *PostgresStore) GetAPIKeyByPrefix(ctx context.Context, prefix string) ([]*models.APIKey, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, project_id, name, key_hash, key_prefix, scopes, last_used_at, deleted_at, created_at, updated_at
		 FROM api_keys WHERE key_prefix = $1 AND deleted_at IS NULL`, prefix)
	if err != nil {
		return nil, fmt.Errorf("get api key by prefix: %w", err)
	}
	defer rows.Close()

	var keys []*models.APIKey
	for rows.Next() {
		var k models.APIKey
		if err := rows.Scan(&k.ID, &k.ProjectID, &k.Name, &k.KeyHash, &k.KeyPrefix, &k.Scopes,
			&k.LastUsedAt, &k.DeletedAt, &k.CreatedAt, &k.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan api key: %w", err)
		}
		keys = append(keys, &k)
	}
	return keys, rows.Err()
}

func (s *PostgresStore) UpdateAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE api_keys SET last_used_at = NOW(), updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("update api key last used: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreateAPIKey(ctx context.Context, key *models.APIKey) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO api_keys (id, project_id, name, key_hash, key_prefix, scopes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		key.ID, key.ProjectID, key.Name, key.KeyHash, key.KeyPrefix, key.Scopes, key.CreatedAt, key.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create api key: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListAPIKeys(ctx context.Context, projectID uuid.UUID) ([]*models.APIKey, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, project_id, name, key_hash, key_prefix, scopes, last_used_at, deleted_at, created_at, updated_at
		 FROM api_keys WHERE project_id = $1 AND deleted_at IS NULL ORDER BY created_at DESC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list api keys: %w", err)
	}
	defer rows.Close()

	var keys []*models.APIKey
	for rows.Next() {
		var k models.APIKey
		if err := rows.Scan(&k.ID, &k.ProjectID, &k.Name, &k.KeyHash, &k.KeyPrefix, &k.Scopes,
			&k.LastUsedAt, &k.DeletedAt, &k.CreatedAt, &k.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan api key: %w", err)
		}
		keys = append(keys, &k)
	}
	return keys, rows.Err()
}

func (s *PostgresStore) RevokeAPIKey(ctx context.Context, id uuid.UUID, projectID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE api_keys SET deleted_at = NOW(), updated_at = NOW()
		 WHERE id = $1 AND project_id = $2 AND deleted_at IS NULL`, id, projectID)
	if err != nil {
		return fmt.Errorf("revoke api key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Summaries ---

func (s *PostgresStore) CreateSummary(ctx context.Context, summary *models.Summary) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO summaries (id, text, date, user_id, project_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		summary.ID, summary.Text, summary.Date, summary.UserID, summary.ProjectID,
		summary.CreatedAt, summary.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create summary: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindSummariesByPeriod(ctx context.Context, filter SummaryFilter) ([]*models.Summary, error) {
	conditions := []string{"project_id = $1", "date >= $2", "date <= $3"}
	args := []any{filter.ProjectID, filter.From, filter.To}
	argIdx := 4

	if filter.UserID != uuid.Nil {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", argIdx))
		args = append(args, filter.UserID)
		argIdx++
	}

	query := fmt.Sprintf(
		`SELECT id, text, date, user_id, project_id, created_at, updated_at
		 FROM summaries WHERE %s ORDER BY date ASC`, strings.Join(conditions, " AND "))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find summaries: %w", err)
	}
	defer rows.Close()

	var summaries []*models.Summary
	byID := map[uuid.UUID]*models.Summary{}
	var ids []uuid.UUID
	for rows.Next() {
		var sm models.Summary
		if err := rows.Scan(&sm.ID, &sm.Text, &sm.Date, &sm.UserID, &sm.ProjectID,
			&sm.CreatedAt, &sm.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		summaries = append(summaries, &sm)
		byID[sm.ID] = &sm
		ids = append(ids, sm.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return []*models.Summary{}, nil
	}

	if err := s.loadSummaryRelations(ctx, ids, byID); err != nil {
		return nil, err
	}
	return summaries, nil
}

// loadSummaryRelations attaches tags, blockers, and suggestions to each
// summary in byID with three link-table queries.
func (s *PostgresStore) loadSummaryRelations(ctx context.Context, ids []uuid.UUID, byID map[uuid.UUID]*models.Summary) error {
	tagRows, err := s.pool.Query(ctx,
		`SELECT st.summary_id, t.id, t.name
		 FROM summary_tags st JOIN tags t ON t.id = st.tag_id
		 WHERE st.summary_id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("load summary tags: %w", err)
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var summaryID uuid.UUID
		var t models.Tag
		if err := tagRows.Scan(&summaryID, &t.ID, &t.Name); err != nil {
			return fmt.Errorf("scan summary tag: %w", err)
		}
		byID[summaryID].Tags = append(byID[summaryID].Tags, t)
	}
	if err := tagRows.Err(); err != nil {
		return err
	}

	blockerRows, err := s.pool.Query(ctx,
		`SELECT sb.summary_id, b.id, b.name
		 FROM summary_blockers sb JOIN blockers b ON b.id = sb.blocker_id
		 WHERE sb.summary_id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("load summary blockers: %w", err)
	}
	defer blockerRows.Close()
	for blockerRows.Next() {
		var summaryID uuid.UUID
		var b models.Blocker
		if err := blockerRows.Scan(&summaryID, &b.ID, &b.Name); err != nil {
			return fmt.Errorf("scan summary blocker: %w", err)
		}
		byID[summaryID].Blockers = append(byID[summaryID].Blockers, b)
	}
	if err := blockerRows.Err(); err != nil {
		return err
	}

	suggestionRows, err := s.pool.Query(ctx,
		`SELECT ss.summary_id, sg.id, sg.text
		 FROM summary_suggestions ss JOIN suggestions sg ON sg.id = ss.suggestion_id
		 WHERE ss.summary_id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("load summary suggestions: %w", err)
	}
	defer suggestionRows.Close()
	for suggestionRows.Next() {
		var summaryID uuid.UUID
		var sg models.Suggestion
		if err := suggestionRows.Scan(&summaryID, &sg.ID, &sg.Text); err != nil {
			return fmt.Errorf("scan summary suggestion: %w", err)
		}
		byID[summaryID].Suggestions = append(byID[summaryID].Suggestions, sg)
	}
	return suggestionRows.Err()
}

// --- Tags, Blockers, Suggestions ---

func (s *PostgresStore) FindTagByName(ctx context.Context, name string) (*models.Tag, error) {
	var t models.Tag
	err := s.pool.QueryRow(ctx,
		`SELECT id, name FROM tags WHERE name = $1`, name,
	).Scan(&t.ID, &t.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find tag by name: %w", err)
	}
	return &t, nil
}

func (s *PostgresStore) CreateTag(ctx context.Context, tag *models.Tag) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO tags (id, name) VALUES ($1, $2)`, tag.ID, tag.Name)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create tag: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindBlockerByName(ctx context.Context, name string) (*models.Blocker, error) {
	var b models.Blocker
	err := s.pool.QueryRow(ctx,
		`SELECT id, name FROM blockers WHERE name = $1`, name,
	).Scan(&b.ID, &b.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find blocker by name: %w", err)
	}
	return &b, nil
}

func (s *PostgresStore) CreateBlocker(ctx context.Context, blocker *models.Blocker) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO blockers (id, name) VALUES ($1, $2)`, blocker.ID, blocker.Name)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create blocker: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreateSuggestion(ctx context.Context, suggestion *models.Suggestion) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO suggestions (id, text) VALUES ($1, $2)`, suggestion.ID, suggestion.Text)
	if err != nil {
		return fmt.Errorf("create suggestion: %w", err)
	}
	return nil
}

func (s *PostgresStore) AddTagToSummary(ctx context.Context, summaryID, tagID uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO summary_tags (summary_id, tag_id) VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`, summaryID, tagID)
	if err != nil {
		return fmt.Errorf("add tag to summary: %w", err)
	}
	return nil
}

func (s *PostgresStore) AddBlockerToSummary(ctx context.Context, summaryID, blockerID uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO summary_blockers (summary_id, blocker_id) VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`, summaryID, blockerID)
	if err != nil {
		return fmt.Errorf("add blocker to summary: %w", err)
	}
	return nil
}

func (s *PostgresStore) AddSuggestionToSummary(ctx context.Context, summaryID, suggestionID uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO summary_suggestions (summary_id, suggestion_id) VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`, summaryID, suggestionID)
	if err != nil {
		return fmt.Errorf("add suggestion to summary: %w", err)
	}
	return nil
}

// --- Build Errors ---

const buildErrorColumns = `id, message, stack, type, severity, file, line_number, column_number,
	 project_id, user_id, solved, solution_applied, created_at, updated_at`

func (s *PostgresStore) CreateBuildError(ctx context.Context, buildError *models.BuildError) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO build_errors (`+buildErrorColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		buildError.ID, buildError.Message, buildError.Stack, buildError.Type, buildError.Severity,
		buildError.File, buildError.Line, buildError.Column, buildError.ProjectID, buildError.UserID,
		buildError.Solved, buildError.SolutionApplied, buildError.CreatedAt, buildError.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create build error: %w", err)
	}
	return nil
}

func scanBuildError(row pgx.Row) (*models.BuildError, error) {
	var e models.BuildError
	err := row.Scan(&e.ID, &e.Message, &e.Stack, &e.Type, &e.Severity, &e.File, &e.Line, &e.Column,
		&e.ProjectID, &e.UserID, &e.Solved, &e.SolutionApplied, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *PostgresStore) queryBuildErrors(ctx context.Context, query string, args ...any) ([]*models.BuildError, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query build errors: %w", err)
	}
	defer rows.Close()

	var errs []*models.BuildError
	for rows.Next() {
		e, err := scanBuildError(rows)
		if err != nil {
			return nil, fmt.Errorf("scan build error: %w", err)
		}
		errs = append(errs, e)
	}
	return errs, rows.Err()
}

func (s *PostgresStore) FindBuildErrorsByPeriod(ctx context.Context, filter BuildErrorFilter) ([]*models.BuildError, error) {
	conditions := []string{"project_id = $1", "created_at >= $2", "created_at <= $3"}
	args := []any{filter.ProjectID, filter.From, filter.To}
	argIdx := 4

	if filter.UserID != uuid.Nil {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", argIdx))
		args = append(args, filter.UserID)
		argIdx++
	}

	query := fmt.Sprintf(`SELECT `+buildErrorColumns+`
		 FROM build_errors WHERE %s ORDER BY created_at DESC`, strings.Join(conditions, " AND "))
	return s.queryBuildErrors(ctx, query, args...)
}

func (s *PostgresStore) FindUnsolvedByProjectID(ctx context.Context, projectID uuid.UUID) ([]*models.BuildError, error) {
	return s.queryBuildErrors(ctx,
		`SELECT `+buildErrorColumns+`
		 FROM build_errors WHERE project_id = $1 AND solved = FALSE ORDER BY created_at DESC`, projectID)
}

func (s *PostgresStore) FindUnsolvedByUserID(ctx context.Context, userID uuid.UUID) ([]*models.BuildError, error) {
	return s.queryBuildErrors(ctx,
		`SELECT `+buildErrorColumns+`
		 FROM build_errors WHERE user_id = $1 AND solved = FALSE ORDER BY created_at DESC`, userID)
}

func (s *PostgresStore) GetErrorCountByType(ctx context.Context, projectID uuid.UUID, from, to time.Time) (map[string]int, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT type, COUNT(*) FROM build_errors
		 WHERE project_id = $1 AND created_at >= $2 AND created_at <= $3
		 GROUP BY type`, projectID, from, to)
	if err != nil {
		return nil, fmt.Errorf("count build errors by type: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var typ string
		var count int
		if err := rows.Scan(&typ, &count); err != nil {
			return nil, fmt.Errorf("scan error count: %w", err)
		}
		counts[typ] = count
	}
	return counts, rows.Err()
}

func (s *PostgresStore) MarkAsSolved(ctx context.Context, id uuid.UUID, projectID uuid.UUID, solution string) (*models.BuildError, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE build_errors SET solved = TRUE, solution_applied = NULLIF($3, ''), updated_at = NOW()
		 WHERE id = $1 AND project_id = $2
		 RETURNING `+buildErrorColumns, id, projectID, solution)
	e, err := scanBuildError(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mark build error solved: %w", err)
	}
	return e, nil
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}
