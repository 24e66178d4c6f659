package metrics

import (
	"reflect"
	"testing"
	"time"

	"github.com/dailycopilot/dailycopilot/pkg/models"
	"github.com/google/uuid"
)

func buildError(typ models.ErrorType, message string, userID uuid.UUID) *models.BuildError {
	now := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	return &models.BuildError{
		ID:        uuid.New(),
		ProjectID: uuid.New(),
		UserID:    userID,
		Message:   message,
		Type:      typ,
		Severity:  models.SeverityMedium,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func solvedError(typ models.ErrorType, message, solution string, userID uuid.UUID, hoursToFix float64) *models.BuildError {
	e := buildError(typ, message, userID)
	e.Solved = true
	e.SolutionApplied = &solution
	e.UpdatedAt = e.CreatedAt.Add(time.Duration(hoursToFix * float64(time.Hour)))
	return e
}

func TestComputeErrorMetrics_CountByTypeFromStore(t *testing.T) {
	fromStore := map[string]int{"build": 4, "test": 2}

	got := ComputeErrorMetrics(nil, fromStore)

	if !reflect.DeepEqual(got.ErrorCountByType, fromStore) {
		t.Errorf("store counts must pass through, got %v", got.ErrorCountByType)
	}
}

func TestComputeErrorMetrics_CountByTypeDerivedWhenNil(t *testing.T) {
	user := uuid.New()
	errs := []*models.BuildError{
		buildError(models.ErrorTypeBuild, "npm ERR! code ERESOLVE", user),
		buildError(models.ErrorTypeBuild, "404 Not Found", user),
		buildError(models.ErrorTypeTest, "FAIL src/app.test.ts", user),
	}

	got := ComputeErrorMetrics(errs, nil)

	expected := map[string]int{"build": 2, "test": 1}
	if !reflect.DeepEqual(got.ErrorCountByType, expected) {
		t.Errorf("counts:\nexpected: %v\ngot:      %v", expected, got.ErrorCountByType)
	}
}

func TestComputeErrorMetrics_CountByUser(t *testing.T) {
	alice := uuid.New()
	bob := uuid.New()
	errs := []*models.BuildError{
		buildError(models.ErrorTypeBuild, "a", alice),
		buildError(models.ErrorTypeLint, "b", alice),
		buildError(models.ErrorTypeTest, "c", bob),
	}

	got := ComputeErrorMetrics(errs, nil)

	expected := map[string]int{alice.String(): 2, bob.String(): 1}
	if !reflect.DeepEqual(got.ErrorCountByUser, expected) {
		t.Errorf("counts:\nexpected: %v\ngot:      %v", expected, got.ErrorCountByUser)
	}
}

func TestAverageTimeToFix(t *testing.T) {
	user := uuid.New()

	tests := []struct {
		name     string
		errs     []*models.BuildError
		expected float64
	}{
		{
			name:     "no errors",
			errs:     nil,
			expected: 0,
		},
		{
			name: "nothing solved",
			errs: []*models.BuildError{
				buildError(models.ErrorTypeBuild, "a", user),
			},
			expected: 0,
		},
		{
			name: "single solved",
			errs: []*models.BuildError{
				solvedError(models.ErrorTypeBuild, "a", "fix", user, 4),
			},
			expected: 4,
		},
		{
			name: "mean over solved only",
			errs: []*models.BuildError{
				solvedError(models.ErrorTypeBuild, "a", "fix", user, 2),
				solvedError(models.ErrorTypeTest, "b", "fix", user, 6),
				buildError(models.ErrorTypeLint, "open", user),
			},
			expected: 4,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeErrorMetrics(tt.errs, nil)
			if got.AverageTimeToFixHours != tt.expected {
				t.Errorf("expected %v hours, got %v", tt.expected, got.AverageTimeToFixHours)
			}
		})
	}
}

func TestMostCommonErrors(t *testing.T) {
	user := uuid.New()
	errs := []*models.BuildError{
		buildError(models.ErrorTypeTest, "FAIL app.test.ts", user),
		buildError(models.ErrorTypeBuild, "npm ERR! code ERESOLVE", user),
		buildError(models.ErrorTypeBuild, "404 Not Found", user),
		buildError(models.ErrorTypeBuild, "npm ERR! code ERESOLVE", user),
	}

	got := ComputeErrorMetrics(errs, nil)

	if len(got.MostCommonErrors) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(got.MostCommonErrors))
	}
	first := got.MostCommonErrors[0]
	if first.Type != "build" || first.Count != 3 {
		t.Errorf("expected build x3 first, got %+v", first)
	}
	// Examples hold distinct messages only.
	if !reflect.DeepEqual(first.Examples, []string{"npm ERR! code ERESOLVE", "404 Not Found"}) {
		t.Errorf("unexpected examples: %v", first.Examples)
	}
	if got.MostCommonErrors[1].Type != "test" || got.MostCommonErrors[1].Count != 1 {
		t.Errorf("expected test x1 second, got %+v", got.MostCommonErrors[1])
	}
}

func TestMostCommonErrors_ExamplesCapped(t *testing.T) {
	user := uuid.New()
	var errs []*models.BuildError
	for _, msg := range []string{"a", "b", "c", "d", "e"} {
		errs = append(errs, buildError(models.ErrorTypeLint, msg, user))
	}

	got := ComputeErrorMetrics(errs, nil)

	if len(got.MostCommonErrors[0].Examples) != 3 {
		t.Errorf("expected 3 examples, got %v", got.MostCommonErrors[0].Examples)
	}
	if got.MostCommonErrors[0].Count != 5 {
		t.Errorf("count must include all errors, got %d", got.MostCommonErrors[0].Count)
	}
}

func TestRecentSolutions_SortedAndCapped(t *testing.T) {
	user := uuid.New()
	var errs []*models.BuildError
	for i := 1; i <= 7; i++ {
		errs = append(errs, solvedError(models.ErrorTypeBuild, "err", "fix", user, float64(i)))
	}
	// An unsolved error and a solved one missing its solution are excluded.
	errs = append(errs, buildError(models.ErrorTypeBuild, "open", user))
	noSolution := buildError(models.ErrorTypeBuild, "odd", user)
	noSolution.Solved = true
	errs = append(errs, noSolution)

	got := ComputeErrorMetrics(errs, nil)

	if len(got.RecentSolutions) != recentSolutionsLimit {
		t.Fatalf("expected %d solutions, got %d", recentSolutionsLimit, len(got.RecentSolutions))
	}
	for i := 1; i < len(got.RecentSolutions); i++ {
		if got.RecentSolutions[i].SolvedAt.After(got.RecentSolutions[i-1].SolvedAt) {
			t.Errorf("solutions not ordered newest first: %v", got.RecentSolutions)
		}
	}
	if got.RecentSolutions[0].AppliedBy != user.String() {
		t.Errorf("expected appliedBy %s, got %s", user, got.RecentSolutions[0].AppliedBy)
	}
}

func TestComputeErrorMetrics_Empty(t *testing.T) {
	got := ComputeErrorMetrics(nil, nil)

	if len(got.ErrorCountByType) != 0 || len(got.ErrorCountByUser) != 0 {
		t.Errorf("expected empty counts, got %+v", got)
	}
	if got.AverageTimeToFixHours != 0 {
		t.Errorf("expected zero fix time, got %v", got.AverageTimeToFixHours)
	}
	if len(got.MostCommonErrors) != 0 || len(got.RecentSolutions) != 0 {
		t.Errorf("expected empty groupings, got %+v", got)
	}
}
