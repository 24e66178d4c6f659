// Package classifier maps free-text daily summaries to activity tags,
// blockers, and remediation suggestions.
package classifier

import "context"

// Result sources. Fallback covers both the standalone rule engine and the
// rule engine running behind a failed model call, so callers and tests can
// assert which path executed.
const (
	SourceModel    = "model"
	SourceFallback = "fallback"
)

// Result is the output of a classification. Tags is never empty.
type Result struct {
	Tags        []string `json:"tags"`
	Blockers    []string `json:"blockers"`
	Suggestions []string `json:"suggestions"`
	Source      string   `json:"source"`
}

// Classifier turns a daily summary text into a Result. Implementations are
// total: they always produce a complete result and never return an error to
// the caller.
type Classifier interface {
	Classify(ctx context.Context, text string) Result
}
