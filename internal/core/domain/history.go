package domain

import "time"

// HistoryEntry records one todo completion. Entries are never mutated once
// created.
type HistoryEntry struct {
	ID             string    `json:"id"`
	UserID         string    `json:"-"`
	OriginalTodoID string    `json:"originalTodoId"`
	Text           string    `json:"text"`
	Priority       Priority  `json:"priority"`
	Category       string    `json:"category"`
	CreatedAt      time.Time `json:"createdAt"`
	CompletedAt    time.Time `json:"completedAt"`
	TimeToComplete int64     `json:"timeToComplete"`
}

func (h HistoryEntry) Duration() time.Duration {
	return time.Duration(h.TimeToComplete) * time.Millisecond
}

type HistoryStats struct {
	Total                 int           `json:"total"`
	Today                 int           `json:"today"`
	ThisWeek              int           `json:"thisWeek"`
	ThisMonth             int           `json:"thisMonth"`
	AverageTimeToComplete float64       `json:"averageTimeToComplete"`
	PriorityBreakdown     PriorityCount `json:"priorityBreakdown"`
}

type DayGroup struct {
	Day     string         `json:"day"`
	Entries []HistoryEntry `json:"entries"`
}
