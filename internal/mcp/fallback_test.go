package mcp

import (
	"testing"

	"github.com/dailycopilot/dailycopilot/pkg/models"
)

func TestFallbackAnalyze_TSCTypecheckLine(t *testing.T) {
	out := "src/index.ts(10,5): error TS2322: Type 'string' is not assignable to type 'number'."
	got := FallbackAnalyze(out, models.SourceTSC)

	if len(got.Errors) != 1 {
		t.Fatalf("expected exactly 1 error, got %d: %+v", len(got.Errors), got.Errors)
	}
	if got.Errors[0].Type != models.ErrorTypeTypecheck {
		t.Errorf("expected type typecheck, got %s", got.Errors[0].Type)
	}
	if got.Errors[0].Severity != models.SeverityHigh {
		t.Errorf("expected severity high, got %s", got.Errors[0].Severity)
	}
	if got.Source != SourceFallback {
		t.Errorf("expected source %q, got %q", SourceFallback, got.Source)
	}
}

func TestFallbackAnalyze_NoMatches(t *testing.T) {
	got := FallbackAnalyze("tudo certo por aqui\nbuild finished", models.SourceTSC)

	if len(got.Errors) != 0 {
		t.Fatalf("expected no errors, got %+v", got.Errors)
	}
	if len(got.Suggestions) != 0 {
		t.Fatalf("expected no suggestions, got %+v", got.Suggestions)
	}
	if got.Summary != "Não foram detectados erros claros na saída fornecida." {
		t.Errorf("unexpected summary: %q", got.Summary)
	}
}

func TestFallbackAnalyze_JestFail(t *testing.T) {
	got := FallbackAnalyze("FAIL src/foo.test.ts", models.SourceJest)

	if len(got.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(got.Errors))
	}
	e := got.Errors[0]
	if e.Type != models.ErrorTypeTest || e.Severity != models.SeverityMedium {
		t.Errorf("expected test/medium, got %s/%s", e.Type, e.Severity)
	}
	if e.Message != "src/foo.test.ts" {
		t.Errorf("expected captured message, got %q", e.Message)
	}
	if len(got.Suggestions) != 1 {
		t.Fatalf("expected exactly one paired suggestion, got %d", len(got.Suggestions))
	}
	if got.Suggestions[0].ErrorIndex != 0 {
		t.Errorf("suggestion should reference error 0, got %d", got.Suggestions[0].ErrorIndex)
	}
	if got.Suggestions[0].Solution != genericSolutions[models.ErrorTypeTest] {
		t.Errorf("unexpected solution: %q", got.Suggestions[0].Solution)
	}
}

func TestFallbackAnalyze_NPMError(t *testing.T) {
	out := "npm ERR! code ERESOLVE\nnpm ERR! ERESOLVE unable to resolve dependency tree"
	got := FallbackAnalyze(out, models.SourceNPM)

	if len(got.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(got.Errors))
	}
	if got.Errors[0].Message != "ERESOLVE" {
		t.Errorf("expected captured code, got %q", got.Errors[0].Message)
	}
	if got.Errors[0].Type != models.ErrorTypeBuild || got.Errors[0].Severity != models.SeverityHigh {
		t.Errorf("expected build/high, got %s/%s", got.Errors[0].Type, got.Errors[0].Severity)
	}
}

func TestFallbackAnalyze_UnknownSourceUsesNPMPatterns(t *testing.T) {
	out := "npm ERR! code E404\n404 Not Found - GET https://registry.npmjs.org/left-pad"
	for _, source := range []models.ErrorSource{models.SourceVite, models.SourceOther} {
		got := FallbackAnalyze(out, source)
		if len(got.Errors) != 2 {
			t.Errorf("source %s: expected 2 errors via npm patterns, got %d", source, len(got.Errors))
		}
	}
}

func TestFallbackAnalyze_FileLineColumnExtraction(t *testing.T) {
	out := "ERROR in ./src/components/App.tsx:42:17"
	got := FallbackAnalyze(out, models.SourceWebpack)

	if len(got.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(got.Errors))
	}
	e := got.Errors[0]
	if e.File == nil || *e.File != "./src/components/App.tsx" {
		t.Fatalf("unexpected file: %v", e.File)
	}
	if e.Line == nil || *e.Line != 42 {
		t.Errorf("unexpected line: %v", e.Line)
	}
	if e.Column == nil || *e.Column != 17 {
		t.Errorf("unexpected column: %v", e.Column)
	}
}

func TestFallbackAnalyze_FileWithoutColumn(t *testing.T) {
	got := FallbackAnalyze("ERROR in src/main.ts:7", models.SourceWebpack)

	if len(got.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(got.Errors))
	}
	e := got.Errors[0]
	if e.File == nil || *e.File != "src/main.ts" {
		t.Fatalf("unexpected file: %v", e.File)
	}
	if e.Line == nil || *e.Line != 7 {
		t.Errorf("unexpected line: %v", e.Line)
	}
	if e.Column != nil {
		t.Errorf("expected no column, got %v", e.Column)
	}
}

func TestFallbackAnalyze_SummaryCountsErrors(t *testing.T) {
	out := "FAIL src/a.test.ts\nFAIL src/b.test.ts\nFAIL src/c.test.ts"
	got := FallbackAnalyze(out, models.SourceJest)

	if got.Summary != "Foram detectados 3 possíveis erros. Verificação manual é recomendada." {
		t.Errorf("unexpected summary: %q", got.Summary)
	}
	if len(got.Errors) != len(got.Suggestions) {
		t.Errorf("expected paired suggestions, got %d errors and %d suggestions",
			len(got.Errors), len(got.Suggestions))
	}
}

func TestFallbackAnalyze_NextBuildFailure(t *testing.T) {
	out := "> Build error occurred\nFailed to compile."
	got := FallbackAnalyze(out, models.SourceNext)

	if len(got.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(got.Errors))
	}
	for _, e := range got.Errors {
		if e.Type != models.ErrorTypeBuild || e.Severity != models.SeverityHigh {
			t.Errorf("expected build/high, got %s/%s", e.Type, e.Severity)
		}
	}
}

func TestFallbackAnalyze_ESLintSeverities(t *testing.T) {
	out := "  12:4  error  'x' is assigned a value but never used  no-unused-vars"
	got := FallbackAnalyze(out, models.SourceESLint)

	if len(got.Errors) == 0 {
		t.Fatal("expected at least one lint error")
	}
	if got.Errors[0].Type != models.ErrorTypeLint {
		t.Errorf("expected lint, got %s", got.Errors[0].Type)
	}
}
