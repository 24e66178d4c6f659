package classifier

import (
	"context"
	"strings"
)

// Keyword tables for the rule engine. Matching is case-insensitive substring
// search over the summary text; the summaries this system receives are
// typically Portuguese.
var tagRules = []struct {
	name     string
	keywords []string
}{
	{"code", []string{"código", "implement"}},
	{"tests", []string{"teste"}},
	{"review", []string{"review"}},
	{"deploy", []string{"deploy", "ambiente"}},
	{"ci", []string{"ci", "pipeline"}},
	{"docs", []string{"document"}},
}

var blockerRules = []struct {
	name     string
	keywords []string
}{
	{"dependency", []string{"dependência", "lib", "biblioteca", "versão"}},
	{"env", []string{"ambiente", "env", "configuração"}},
	{"spec", []string{"requisito", "especificação", "não está claro"}},
	{"access", []string{"acesso", "permissão", "autenticação"}},
	{"merge-conflict", []string{"conflito", "merge"}},
}

// Each detected blocker maps to exactly one canned suggestion sentence.
var blockerSuggestions = map[string]string{
	"dependency":     "Atualizar para versão compatível ou buscar alternativa",
	"env":            "Verificar documentação de configuração do ambiente",
	"spec":           "Agendar reunião para esclarecer requisitos",
	"access":         "Solicitar acesso ao administrador do sistema",
	"merge-conflict": "Resolva conflitos e rebase com a branch principal",
}

// RuleClassifier is the deterministic keyword-rule engine. It is a pure
// function of its input and serves as the fallback path for the model-backed
// classifier.
type RuleClassifier struct{}

// NewRuleClassifier creates a new RuleClassifier.
func NewRuleClassifier() *RuleClassifier {
	return &RuleClassifier{}
}

// Classify scans the text against the keyword tables. When no tag keyword
// matches, the result defaults to the single tag "code", so Tags is never
// empty.
func (c *RuleClassifier) Classify(_ context.Context, text string) Result {
	lower := strings.ToLower(text)

	var tags []string
	for _, rule := range tagRules {
		if containsAny(lower, rule.keywords) {
			tags = append(tags, rule.name)
		}
	}
	if len(tags) == 0 {
		tags = []string{"code"}
	}

	var blockers, suggestions []string
	for _, rule := range blockerRules {
		if containsAny(lower, rule.keywords) {
			blockers = append(blockers, rule.name)
			suggestions = append(suggestions, blockerSuggestions[rule.name])
		}
	}

	return Result{
		Tags:        tags,
		Blockers:    blockers,
		Suggestions: suggestions,
		Source:      SourceFallback,
	}
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

var _ Classifier = (*RuleClassifier)(nil)
