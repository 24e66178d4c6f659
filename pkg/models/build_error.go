package models

import (
	"time"

	"github.com/google/uuid"
)

// ErrorType classifies what kind of tooling produced a build error.
type ErrorType string

const (
	ErrorTypeBuild     ErrorType = "build"
	ErrorTypeTest      ErrorType = "test"
	ErrorTypeLint      ErrorType = "lint"
	ErrorTypeTypecheck ErrorType = "typecheck"
	ErrorTypeRuntime   ErrorType = "runtime"
)

// Valid reports whether t is one of the fixed error types.
func (t ErrorType) Valid() bool {
	switch t {
	case ErrorTypeBuild, ErrorTypeTest, ErrorTypeLint, ErrorTypeTypecheck, ErrorTypeRuntime:
		return true
	}
	return false
}

// ErrorSeverity ranks how urgent a build error is.
type ErrorSeverity string

const (
	SeverityCritical ErrorSeverity = "critical"
	SeverityHigh     ErrorSeverity = "high"
	SeverityMedium   ErrorSeverity = "medium"
	SeverityLow      ErrorSeverity = "low"
)

// Valid reports whether s is one of the fixed severities.
func (s ErrorSeverity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// ErrorSource identifies which tool produced the raw build output.
type ErrorSource string

const (
	SourceNPM     ErrorSource = "npm"
	SourceJest    ErrorSource = "jest"
	SourceESLint  ErrorSource = "eslint"
	SourceTSC     ErrorSource = "tsc"
	SourceWebpack ErrorSource = "webpack"
	SourceVite    ErrorSource = "vite"
	SourceNext    ErrorSource = "next"
	SourceOther   ErrorSource = "other"
)

// Valid reports whether s is one of the accepted sources.
func (s ErrorSource) Valid() bool {
	switch s {
	case SourceNPM, SourceJest, SourceESLint, SourceTSC, SourceWebpack, SourceVite, SourceNext, SourceOther:
		return true
	}
	return false
}

// BuildError is one structured, classified problem extracted from raw
// build/test/lint tool output.
type BuildError struct {
	ID              uuid.UUID     `db:"id"               json:"id"`
	Message         string        `db:"message"          json:"message"`
	Stack           *string       `db:"stack"            json:"stack,omitempty"`
	Type            ErrorType     `db:"type"             json:"type"`
	Severity        ErrorSeverity `db:"severity"         json:"severity"`
	File            *string       `db:"file"             json:"file,omitempty"`
	Line            *int          `db:"line"             json:"line,omitempty"`
	Column          *int          `db:"column"           json:"column,omitempty"`
	ProjectID       uuid.UUID     `db:"project_id"       json:"project_id"`
	UserID          uuid.UUID     `db:"user_id"          json:"user_id"`
	Solved          bool          `db:"solved"           json:"solved"`
	SolutionApplied *string       `db:"solution_applied" json:"solution_applied,omitempty"`
	CreatedAt       time.Time     `db:"created_at"       json:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at"       json:"updated_at"`
}

// ApplySolution records a solution text. A non-empty solution implies solved.
func (e *BuildError) ApplySolution(solution string) {
	if solution != "" {
		e.SolutionApplied = &solution
		e.Solved = true
	}
	e.UpdatedAt = time.Now().UTC()
}
