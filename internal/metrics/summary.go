// Package metrics contains the pure aggregation engines that turn persisted
// summaries and build errors into dashboard metrics. Everything here is a
// deterministic function of its inputs; window resolution against the clock
// happens in the calling service.
package metrics

import (
	"math"
	"sort"
	"time"

	"github.com/dailycopilot/dailycopilot/pkg/models"
)

const topBlockersLimit = 5

// Heatmap bucket counts per period. The month heatmap carries 31 buckets so
// day-31 summaries always land somewhere.
const (
	weekBuckets  = 7
	monthBuckets = 31
)

// SummaryMetrics is the aggregation result for one metrics query.
type SummaryMetrics struct {
	CountsByBlocker map[string]int `json:"countsByBlocker"`
	TopBlockers     []string       `json:"topBlockers"`
	VelocityScore   int            `json:"velocityScore"`
	Heatmap         []int          `json:"heatmap"`
}

// ComputeSummaryMetrics aggregates the summaries of one resolved window.
// Callers fetch the window via the store; this function never touches the
// clock or the database.
func ComputeSummaryMetrics(summaries []*models.Summary, period models.Period) SummaryMetrics {
	counts := map[string]int{}
	var order []string

	withBlockers := 0
	for _, s := range summaries {
		if len(s.Blockers) > 0 {
			withBlockers++
		}
		for _, b := range s.Blockers {
			if _, seen := counts[b.Name]; !seen {
				order = append(order, b.Name)
			}
			counts[b.Name]++
		}
	}

	// Descending by count; ties keep discovery order.
	top := make([]string, len(order))
	copy(top, order)
	sort.SliceStable(top, func(i, j int) bool {
		return counts[top[i]] > counts[top[j]]
	})
	if len(top) > topBlockersLimit {
		top = top[:topBlockersLimit]
	}

	return SummaryMetrics{
		CountsByBlocker: counts,
		TopBlockers:     top,
		VelocityScore:   velocityScore(withBlockers, len(summaries)),
		Heatmap:         heatmap(summaries, period),
	}
}

// velocityScore is round((1 − withBlockers/total) × 100), or 100 when there
// are no summaries at all.
func velocityScore(withBlockers, total int) int {
	if total == 0 {
		return 100
	}
	return int(math.Round((1 - float64(withBlockers)/float64(total)) * 100))
}

func heatmap(summaries []*models.Summary, period models.Period) []int {
	switch period {
	case models.PeriodWeek:
		buckets := make([]int, weekBuckets)
		for _, s := range summaries {
			buckets[int(s.Date.Weekday())]++
		}
		return buckets
	case models.PeriodMonth:
		buckets := make([]int, monthBuckets)
		for _, s := range summaries {
			buckets[s.Date.Day()-1]++
		}
		return buckets
	default:
		return []int{len(summaries)}
	}
}

// Window resolves the [start, end] aggregation window for a period, ending at
// now. Shared by the summary and error metrics services.
func Window(period models.Period, now time.Time) (start, end time.Time) {
	return period.WindowStart(now), now
}
