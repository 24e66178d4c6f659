package metrics

import (
	"sort"
	"time"

	"github.com/dailycopilot/dailycopilot/pkg/models"
)

const (
	recentSolutionsLimit = 5
	exampleMessagesLimit = 3
)

// CommonError is one most-common-errors grouping: all errors sharing a type,
// with up to a few distinct example messages.
type CommonError struct {
	Type     string   `json:"type"`
	Count    int      `json:"count"`
	Examples []string `json:"examples"`
}

// RecentSolution is one recently solved error with its applied fix.
type RecentSolution struct {
	Error     string    `json:"error"`
	Solution  string    `json:"solution"`
	AppliedBy string    `json:"appliedBy"`
	SolvedAt  time.Time `json:"solvedAt"`
}

// ErrorMetrics is the aggregation result for one error-metrics query.
type ErrorMetrics struct {
	ErrorCountByType      map[string]int   `json:"errorCountByType"`
	ErrorCountByUser      map[string]int   `json:"errorCountByUser"`
	AverageTimeToFixHours float64          `json:"averageTimeToFix"`
	MostCommonErrors      []CommonError    `json:"mostCommonErrors"`
	RecentSolutions       []RecentSolution `json:"recentSolutions"`
}

// ComputeErrorMetrics aggregates build errors from one resolved window.
// countByType usually comes from the store's grouped count; when nil it is
// derived from the window population instead.
func ComputeErrorMetrics(errs []*models.BuildError, countByType map[string]int) ErrorMetrics {
	if countByType == nil {
		countByType = map[string]int{}
		for _, e := range errs {
			countByType[string(e.Type)]++
		}
	}

	countByUser := map[string]int{}
	for _, e := range errs {
		countByUser[e.UserID.String()]++
	}

	return ErrorMetrics{
		ErrorCountByType:      countByType,
		ErrorCountByUser:      countByUser,
		AverageTimeToFixHours: averageTimeToFix(errs),
		MostCommonErrors:      mostCommonErrors(errs),
		RecentSolutions:       recentSolutions(errs),
	}
}

// averageTimeToFix is the mean elapsed hours between creation and the solved
// timestamp, over solved errors. Zero when nothing in scope is solved.
func averageTimeToFix(errs []*models.BuildError) float64 {
	var total time.Duration
	solved := 0
	for _, e := range errs {
		if !e.Solved {
			continue
		}
		total += e.UpdatedAt.Sub(e.CreatedAt)
		solved++
	}
	if solved == 0 {
		return 0
	}
	return total.Hours() / float64(solved)
}

func mostCommonErrors(errs []*models.BuildError) []CommonError {
	byType := map[string]*CommonError{}
	var order []string

	for _, e := range errs {
		typ := string(e.Type)
		group, ok := byType[typ]
		if !ok {
			group = &CommonError{Type: typ}
			byType[typ] = group
			order = append(order, typ)
		}
		group.Count++
		if len(group.Examples) < exampleMessagesLimit && !contains(group.Examples, e.Message) {
			group.Examples = append(group.Examples, e.Message)
		}
	}

	result := make([]CommonError, 0, len(order))
	for _, typ := range order {
		result = append(result, *byType[typ])
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})
	return result
}

func recentSolutions(errs []*models.BuildError) []RecentSolution {
	var solved []*models.BuildError
	for _, e := range errs {
		if e.Solved && e.SolutionApplied != nil {
			solved = append(solved, e)
		}
	}
	sort.SliceStable(solved, func(i, j int) bool {
		return solved[i].UpdatedAt.After(solved[j].UpdatedAt)
	})
	if len(solved) > recentSolutionsLimit {
		solved = solved[:recentSolutionsLimit]
	}

	result := make([]RecentSolution, 0, len(solved))
	for _, e := range solved {
		result = append(result, RecentSolution{
			Error:     e.Message,
			Solution:  *e.SolutionApplied,
			AppliedBy: e.UserID.String(),
			SolvedAt:  e.UpdatedAt,
		})
	}
	return result
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
