package history

import (
	"slices"
	"strings"
	"time"

	"serenity/internal/core/domain"
)

const dayLayout = "2006-01-02"

// Summarize aggregates entries relative to now, in now's location. "This
// week" is the seven days before local midnight plus today.
func Summarize(entries []domain.HistoryEntry, now time.Time) domain.HistoryStats {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	week := today.Add(-7 * 24 * time.Hour)
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)

	stats := domain.HistoryStats{Total: len(entries)}

	var sum int64

	for _, entry := range entries {
		completedAt := entry.CompletedAt.In(loc)

		if !completedAt.Before(today) {
			stats.Today++
		}

		if !completedAt.Before(week) {
			stats.ThisWeek++
		}

		if !completedAt.Before(month) {
			stats.ThisMonth++
		}

		sum += entry.TimeToComplete
		stats.PriorityBreakdown.Add(entry.Priority)
	}

	if len(entries) > 0 {
		stats.AverageTimeToComplete = float64(sum) / float64(len(entries))
	}

	return stats
}

// GroupByDay buckets entries by the calendar day of their completion in loc.
// Days are sorted most recent first and entries keep their input order.
func GroupByDay(entries []domain.HistoryEntry, loc *time.Location) []domain.DayGroup {
	if loc == nil {
		loc = time.Local
	}

	groups := []domain.DayGroup{}
	index := map[string]int{}

	for _, entry := range entries {
		day := entry.CompletedAt.In(loc).Format(dayLayout)

		i, ok := index[day]
		if !ok {
			i = len(groups)
			index[day] = i
			groups = append(groups, domain.DayGroup{Day: day})
		}

		groups[i].Entries = append(groups[i].Entries, entry)
	}

	slices.SortStableFunc(groups, func(a, b domain.DayGroup) int {
		return strings.Compare(b.Day, a.Day)
	})

	return groups
}
