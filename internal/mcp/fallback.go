package mcp

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dailycopilot/dailycopilot/pkg/models"
)

type errorPattern struct {
	re       *regexp.Regexp
	typ      models.ErrorType
	severity models.ErrorSeverity
}

// Pattern tables compiled once at package init, keyed by source tool.
// Sources without their own set (vite, other) use the npm set.
var sourcePatterns = map[models.ErrorSource][]errorPattern{
	models.SourceNPM: {
		{regexp.MustCompile(`(?i)npm ERR! code (.+)`), models.ErrorTypeBuild, models.SeverityHigh},
		{regexp.MustCompile(`(?i)404 Not Found`), models.ErrorTypeBuild, models.SeverityHigh},
	},
	models.SourceJest: {
		{regexp.MustCompile(`(?i)FAIL (.+)`), models.ErrorTypeTest, models.SeverityMedium},
		{regexp.MustCompile(`(?i)Expected (.+) but received (.+)`), models.ErrorTypeTest, models.SeverityMedium},
	},
	models.SourceESLint: {
		{regexp.MustCompile(`(?i)error\s+(.+)\s+`), models.ErrorTypeLint, models.SeverityMedium},
		{regexp.MustCompile(`(?i)warning\s+(.+)\s+`), models.ErrorTypeLint, models.SeverityLow},
	},
	models.SourceTSC: {
		{regexp.MustCompile(`TS\d+:`), models.ErrorTypeTypecheck, models.SeverityHigh},
		{regexp.MustCompile(`(?i)Property '(.+)' does not exist on type`), models.ErrorTypeTypecheck, models.SeverityHigh},
	},
	models.SourceWebpack: {
		{regexp.MustCompile(`(?i)Module not found`), models.ErrorTypeBuild, models.SeverityHigh},
		{regexp.MustCompile(`(?i)ERROR in (.+)`), models.ErrorTypeBuild, models.SeverityHigh},
	},
	models.SourceNext: {
		{regexp.MustCompile(`(?i)Build error occurred`), models.ErrorTypeBuild, models.SeverityHigh},
		{regexp.MustCompile(`(?i)Failed to compile`), models.ErrorTypeBuild, models.SeverityHigh},
	},
}

// filePathRe extracts a path:line[:column] token from a matching line.
var filePathRe = regexp.MustCompile(`([a-zA-Z0-9_\-/.]+\.[a-zA-Z0-9]+):(\d+)(?::(\d+))?`)

// One canned solution sentence per error type.
var genericSolutions = map[models.ErrorType]string{
	models.ErrorTypeBuild:     "Verifique as dependências do projeto e garanta que todas estão instaladas corretamente.",
	models.ErrorTypeTest:      "Revise a lógica no teste e confirme que os resultados esperados correspondem ao comportamento real.",
	models.ErrorTypeLint:      "Atualize o código para atender aos padrões definidos nas regras de linting.",
	models.ErrorTypeTypecheck: "Corrija as tipagens para garantir compatibilidade com a interface esperada.",
	models.ErrorTypeRuntime:   "Verifique o fluxo de execução e os valores sendo processados durante o runtime.",
}

const catchAllSolution = "Analise o contexto do erro para identificar a melhor solução."

const noErrorsSummary = "Não foram detectados erros claros na saída fornecida."

// FallbackAnalyze scans buildOutput line by line against the pattern set for
// source. It is pure string scanning over a bounded input and cannot fail,
// which is what makes the analyzer as a whole total.
func FallbackAnalyze(buildOutput string, source models.ErrorSource) Analysis {
	patterns, ok := sourcePatterns[source]
	if !ok {
		patterns = sourcePatterns[models.SourceNPM]
	}

	errs := []ErrorRecord{}
	suggestions := []SuggestionRecord{}

	for _, line := range strings.Split(buildOutput, "\n") {
		for _, pattern := range patterns {
			match := pattern.re.FindStringSubmatch(line)
			if match == nil {
				continue
			}

			message := match[0]
			if len(match) > 1 && match[1] != "" {
				message = match[1]
			}

			record := ErrorRecord{
				Message:  message,
				Type:     pattern.typ,
				Severity: pattern.severity,
			}
			if fileMatch := filePathRe.FindStringSubmatch(line); fileMatch != nil {
				record.File = &fileMatch[1]
				if n, err := strconv.Atoi(fileMatch[2]); err == nil {
					record.Line = &n
				}
				if fileMatch[3] != "" {
					if n, err := strconv.Atoi(fileMatch[3]); err == nil {
						record.Column = &n
					}
				}
			}

			errs = append(errs, record)
			suggestions = append(suggestions, SuggestionRecord{
				ErrorIndex: len(errs) - 1,
				Solution:   genericSolution(record.Type),
			})
		}
	}

	summary := noErrorsSummary
	if len(errs) > 0 {
		summary = fmt.Sprintf("Foram detectados %d possíveis erros. Verificação manual é recomendada.", len(errs))
	}

	return Analysis{
		Errors:      errs,
		Suggestions: suggestions,
		Summary:     summary,
		Source:      SourceFallback,
	}
}

func genericSolution(typ models.ErrorType) string {
	if s, ok := genericSolutions[typ]; ok {
		return s
	}
	return catchAllSolution
}
