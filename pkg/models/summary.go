package models

import (
	"time"

	"github.com/google/uuid"
)

// Tag is a named activity category attached to summaries.
// Tags are deduplicated by name across the whole system.
type Tag struct {
	ID   uuid.UUID `db:"id"   json:"id"`
	Name string    `db:"name" json:"name"`
}

// Blocker is a named impediment category attached to summaries.
// Like tags, blockers are deduplicated by name.
type Blocker struct {
	ID   uuid.UUID `db:"id"   json:"id"`
	Name string    `db:"name" json:"name"`
}

// Suggestion is a free-text remediation hint tied to one summary.
// Suggestions are never deduplicated; each submission creates fresh rows.
type Suggestion struct {
	ID   uuid.UUID `db:"id"   json:"id"`
	Text string    `db:"text" json:"text"`
}

// Summary is one developer's free-text report for one project and day.
type Summary struct {
	ID          uuid.UUID    `db:"id"         json:"id"`
	Text        string       `db:"text"       json:"text"`
	Date        time.Time    `db:"date"       json:"date"`
	UserID      uuid.UUID    `db:"user_id"    json:"user_id"`
	ProjectID   uuid.UUID    `db:"project_id" json:"project_id"`
	Tags        []Tag        `json:"tags"`
	Blockers    []Blocker    `json:"blockers"`
	Suggestions []Suggestion `json:"suggestions"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updated_at"`
}

// AddTag attaches a tag unless one with the same name is already present.
func (s *Summary) AddTag(t Tag) {
	for _, existing := range s.Tags {
		if existing.Name == t.Name {
			return
		}
	}
	s.Tags = append(s.Tags, t)
	s.UpdatedAt = time.Now().UTC()
}

// AddBlocker attaches a blocker unless one with the same name is already present.
func (s *Summary) AddBlocker(b Blocker) {
	for _, existing := range s.Blockers {
		if existing.Name == b.Name {
			return
		}
	}
	s.Blockers = append(s.Blockers, b)
	s.UpdatedAt = time.Now().UTC()
}

// AddSuggestion attaches a suggestion. Suggestions are not deduplicated.
func (s *Summary) AddSuggestion(sg Suggestion) {
	s.Suggestions = append(s.Suggestions, sg)
	s.UpdatedAt = time.Now().UTC()
}
