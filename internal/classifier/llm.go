package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dailycopilot/dailycopilot/pkg/models"
)

const classifierSystemPrompt = "Você é um assistente especializado em classificar resumos diários de desenvolvedores."

const classifierPromptTemplate = `Analise o seguinte resumo diário de atividade de um desenvolvedor e extraia:
1. Tags de atividade (escolha entre: code, tests, review, deploy, ci, docs)
2. Bloqueadores identificados (escolha entre: dependency, env, spec, access, merge-conflict)
3. Sugestões de como resolver os bloqueios

Formato de resposta deve ser um objeto JSON com as chaves: tags, blockers, suggestions

Resumo: %s`

// LLMClassifier asks a hosted language model to classify the text, falling
// back to the rule engine on any transport, status, or parse failure. The
// fallback is all-or-nothing: a partially usable model response is never
// mixed with rule-engine output.
type LLMClassifier struct {
	client   models.ChatClient
	fallback *RuleClassifier
	timeout  time.Duration
}

// NewLLMClassifier creates a new LLMClassifier. The timeout bounds each
// model call; a timed-out call is treated like any other failure.
func NewLLMClassifier(client models.ChatClient, timeout time.Duration) *LLMClassifier {
	return &LLMClassifier{
		client:   client,
		fallback: NewRuleClassifier(),
		timeout:  timeout,
	}
}

func (c *LLMClassifier) Classify(ctx context.Context, text string) Result {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	content, err := c.client.Complete(callCtx, models.ChatRequest{
		Messages: []models.ChatMessage{
			{Role: models.RoleSystem, Content: classifierSystemPrompt},
			{Role: models.RoleUser, Content: fmt.Sprintf(classifierPromptTemplate, text)},
		},
		JSONResponse: true,
	})
	if err != nil {
		slog.Warn("classifier model call failed, using rule fallback", "error", err)
		return c.fallback.Classify(ctx, text)
	}

	var parsed struct {
		Tags        []string `json:"tags"`
		Blockers    []string `json:"blockers"`
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		slog.Warn("classifier model returned unparsable JSON, using rule fallback", "error", err)
		return c.fallback.Classify(ctx, text)
	}

	result := Result{
		Tags:        parsed.Tags,
		Blockers:    parsed.Blockers,
		Suggestions: parsed.Suggestions,
		Source:      SourceModel,
	}
	if result.Tags == nil {
		result.Tags = []string{}
	}
	if result.Blockers == nil {
		result.Blockers = []string{}
	}
	if result.Suggestions == nil {
		result.Suggestions = []string{}
	}
	// The non-empty-tags invariant holds on the model path too.
	if len(result.Tags) == 0 {
		result.Tags = []string{"code"}
	}
	return result
}

var _ Classifier = (*LLMClassifier)(nil)
