// Package mcp implements the Model Context Protocol integration surface:
// raw build/test/lint output goes in, structured severity-ranked errors with
// suggested fixes come out.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dailycopilot/dailycopilot/pkg/models"
)

// Analysis sources, mirroring the classifier's tagged-result convention.
const (
	SourceModel    = "model"
	SourceFallback = "fallback"
)

const defaultModelSummary = "Análise realizada, porém sem conclusões claras."

// AnalyzeInput carries one analysis request. BuildOutput is the raw tool
// output verbatim; Source declares which tool produced it.
type AnalyzeInput struct {
	ProjectID   uuid.UUID
	UserID      uuid.UUID
	BuildOutput string
	Source      models.ErrorSource
}

// ErrorRecord is one detected error. ID is assigned when the record is
// persisted; the analyzer itself leaves it zero.
type ErrorRecord struct {
	ID       uuid.UUID            `json:"id"`
	Message  string               `json:"message"`
	Type     models.ErrorType     `json:"type"`
	Severity models.ErrorSeverity `json:"severity"`
	File     *string              `json:"file,omitempty"`
	Line     *int                 `json:"line,omitempty"`
	Column   *int                 `json:"column,omitempty"`
}

// SuggestionRecord pairs a suggested fix with the error at ErrorIndex.
type SuggestionRecord struct {
	ErrorIndex  int     `json:"errorIndex"`
	Solution    string  `json:"solution"`
	CodeSnippet *string `json:"codeSnippet,omitempty"`
}

// Analysis is the complete, schema-conformant result of one analysis.
type Analysis struct {
	Errors      []ErrorRecord      `json:"errors"`
	Suggestions []SuggestionRecord `json:"suggestions"`
	Summary     string             `json:"summary"`
	Source      string             `json:"source"`
}

// Analyzer turns raw build output into an Analysis. Implementations are
// total: every failure is recovered internally and a complete result is
// always produced.
type Analyzer interface {
	Analyze(ctx context.Context, input AnalyzeInput) Analysis
}

const analyzerSystemPrompt = "Você é um expert em análise de erros de desenvolvimento, " +
	"especializado em identificar problemas em código. Ao analisar a saída de um comando, " +
	"identifique erros, classifique por severidade e proponha soluções. " +
	"Sua resposta deve seguir estritamente o formato JSON solicitado."

const analyzerPromptTemplate = `Analise a seguinte saída de %s e identifique todos os erros presentes.

Para cada erro encontrado, determine:
1. A mensagem de erro
2. O tipo de erro (build, test, lint, typecheck ou runtime)
3. A severidade (critical, high, medium, low)
4. O arquivo relacionado (se disponível)
5. A linha e coluna (se disponível)

Para cada erro, proponha uma solução específica que resolveria o problema.

Responda APENAS em formato JSON seguindo este modelo:
{
  "errors": [
    {
      "message": "string",
      "type": "build|test|lint|typecheck|runtime",
      "severity": "critical|high|medium|low",
      "file": "string (opcional)",
      "line": number (opcional),
      "column": number (opcional)
    }
  ],
  "suggestions": [
    {
      "errorIndex": number,
      "solution": "string",
      "codeSnippet": "string (opcional)"
    }
  ],
  "summary": "string"
}

Saída a analisar:
` + "```\n%s\n```"

// LLMAnalyzer asks the hosted model to extract structured errors, routing
// every failure to the deterministic pattern fallback with no partial-result
// mixing.
type LLMAnalyzer struct {
	client  models.ChatClient
	timeout time.Duration
}

// NewLLMAnalyzer creates a new LLMAnalyzer bounded by timeout per model call.
func NewLLMAnalyzer(client models.ChatClient, timeout time.Duration) *LLMAnalyzer {
	return &LLMAnalyzer{client: client, timeout: timeout}
}

func (a *LLMAnalyzer) Analyze(ctx context.Context, input AnalyzeInput) Analysis {
	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	prompt := fmt.Sprintf(analyzerPromptTemplate, input.Source, input.BuildOutput)
	content, err := a.client.Complete(callCtx, models.ChatRequest{
		Messages: []models.ChatMessage{
			{Role: models.RoleSystem, Content: analyzerSystemPrompt},
			{Role: models.RoleUser, Content: prompt},
		},
		JSONResponse: true,
	})
	if err != nil {
		slog.Warn("error analysis model call failed, using pattern fallback",
			"source", input.Source, "error", err)
		return FallbackAnalyze(input.BuildOutput, input.Source)
	}

	var parsed struct {
		Errors      []ErrorRecord      `json:"errors"`
		Suggestions []SuggestionRecord `json:"suggestions"`
		Summary     string             `json:"summary"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		slog.Warn("error analysis model returned unparsable JSON, using pattern fallback",
			"source", input.Source, "error", err)
		return FallbackAnalyze(input.BuildOutput, input.Source)
	}

	result := Analysis{
		Errors:      parsed.Errors,
		Suggestions: parsed.Suggestions,
		Summary:     parsed.Summary,
		Source:      SourceModel,
	}
	if result.Errors == nil {
		result.Errors = []ErrorRecord{}
	}
	if result.Suggestions == nil {
		result.Suggestions = []SuggestionRecord{}
	}
	if result.Summary == "" {
		result.Summary = defaultModelSummary
	}
	// The model occasionally strays from the enum vocabularies; coerce to
	// the catch-all values rather than persisting invalid states.
	for i := range result.Errors {
		if !result.Errors[i].Type.Valid() {
			result.Errors[i].Type = models.ErrorTypeRuntime
		}
		if !result.Errors[i].Severity.Valid() {
			result.Errors[i].Severity = models.SeverityMedium
		}
	}
	return result
}

var _ Analyzer = (*LLMAnalyzer)(nil)
