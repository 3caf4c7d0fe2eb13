package ranking

import (
	"sort"

	"github.com/cbonnaire/tidyquest/internal/model"
)

// Metric selects which counter a ranking is ordered by.
type Metric string

const (
	MetricWeekly Metric = "weekly"
	MetricTotal  Metric = "total"
)

// Rank returns the entries ordered by the chosen metric, descending. The
// sort is stable: ties keep their input order.
func Rank(entries []model.RankingEntry, metric Metric) []model.RankingEntry {
	out := make([]model.RankingEntry, len(entries))
	copy(out, entries)

	points := func(e model.RankingEntry) int {
		if metric == MetricTotal {
			return e.TotalPoints
		}
		return e.WeeklyPoints
	}

	sort.SliceStable(out, func(i, j int) bool {
		return points(out[i]) > points(out[j])
	})
	return out
}

// Podium returns the weekly top 3 (or fewer, when fewer participants exist).
func Podium(entries []model.RankingEntry) []model.RankingEntry {
	ranked := Rank(entries, MetricWeekly)
	if len(ranked) > 3 {
		ranked = ranked[:3]
	}
	return ranked
}
