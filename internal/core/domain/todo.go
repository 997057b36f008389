package domain

import (
	"fmt"
	"strings"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

const DefaultCategory = "general"

type Todo struct {
	ID        string     `json:"id"`
	UserID    string     `json:"-"`
	Text      string     `json:"text" validate:"required,max=500"`
	Completed bool       `json:"completed"`
	Priority  Priority   `json:"priority" validate:"omitempty,oneof=low medium high"`
	Category  string     `json:"category" validate:"max=50"`
	DueDate   *time.Time `json:"dueDate,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt,omitzero"`
}

// ParsePriority accepts an empty value as medium.
func ParsePriority(value string) (Priority, error) {
	switch Priority(strings.ToLower(strings.TrimSpace(value))) {
	case "", PriorityMedium:
		return PriorityMedium, nil
	case PriorityLow:
		return PriorityLow, nil
	case PriorityHigh:
		return PriorityHigh, nil
	default:
		return "", fmt.Errorf("invalid priority: %s", value)
	}
}

func (p Priority) OrDefault() Priority {
	if p == "" {
		return PriorityMedium
	}

	return p
}

func CategoryOrDefault(category string) string {
	if strings.TrimSpace(category) == "" {
		return DefaultCategory
	}

	return category
}

// Normalize fills the defaults every Todo is expected to carry.
func (t *Todo) Normalize() {
	t.Text = strings.TrimSpace(t.Text)
	t.Priority = t.Priority.OrDefault()
	t.Category = CategoryOrDefault(t.Category)
}

func (t *Todo) BelongsToUser(userID string) bool {
	return t.UserID == userID
}

// LastTouched is the best known completion instant for an already
// completed todo.
func (t *Todo) LastTouched(now time.Time) time.Time {
	if !t.UpdatedAt.IsZero() {
		return t.UpdatedAt
	}

	return now
}

// TodoPatch carries a partial update. Nil fields are left untouched.
type TodoPatch struct {
	Text      *string
	Completed *bool
	Priority  *Priority
	Category  *string
	DueDate   *time.Time
}

func (p TodoPatch) Apply(t *Todo) {
	if p.Text != nil {
		t.Text = strings.TrimSpace(*p.Text)
	}

	if p.Completed != nil {
		t.Completed = *p.Completed
	}

	if p.Priority != nil {
		t.Priority = *p.Priority
	}

	if p.Category != nil {
		t.Category = *p.Category
	}

	if p.DueDate != nil {
		t.DueDate = p.DueDate
	}
}

type PriorityCount struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

func (c *PriorityCount) Add(p Priority) {
	switch p.OrDefault() {
	case PriorityHigh:
		c.High++
	case PriorityMedium:
		c.Medium++
	case PriorityLow:
		c.Low++
	}
}

type TodoStats struct {
	Total          int           `json:"total"`
	Completed      int           `json:"completed"`
	Pending        int           `json:"pending"`
	CompletionRate int           `json:"completionRate"`
	PriorityStats  PriorityCount `json:"priorityStats"`
}

// SummarizeTodos counts the list. Priority stats only consider pending todos.
func SummarizeTodos(todos []Todo) TodoStats {
	stats := TodoStats{Total: len(todos)}

	for _, todo := range todos {
		if todo.Completed {
			stats.Completed++
			continue
		}

		stats.PriorityStats.Add(todo.Priority)
	}

	stats.Pending = stats.Total - stats.Completed

	if stats.Total > 0 {
		stats.CompletionRate = int(float64(stats.Completed)/float64(stats.Total)*100 + 0.5)
	}

	return stats
}
