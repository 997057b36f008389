package remote

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"serenity/internal/core/domain"
)

// flexibleID accepts ids sent as JSON strings or numbers.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		*f = flexibleID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}

	*f = flexibleID(n.String())
	return nil
}

// flexibleTime accepts RFC 3339 strings or unix milliseconds. Anything else
// decodes as the zero time.
type flexibleTime time.Time

func (f *flexibleTime) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	if raw == "" || raw == "null" {
		return nil
	}

	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		*f = flexibleTime(t)
		return nil
	}

	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*f = flexibleTime(time.UnixMilli(ms).UTC())
	}

	return nil
}

func (f *flexibleTime) ptr() *time.Time {
	if f == nil || time.Time(*f).IsZero() {
		return nil
	}

	t := time.Time(*f)
	return &t
}

type todoPayload struct {
	ID        flexibleID    `json:"id"`
	Text      string        `json:"text"`
	Completed bool          `json:"completed"`
	Priority  string        `json:"priority"`
	Category  string        `json:"category"`
	DueDate   *flexibleTime `json:"dueDate"`
	CreatedAt flexibleTime  `json:"createdAt"`
	UpdatedAt flexibleTime  `json:"updatedAt"`
}

// toDomain converts the wire shape into the canonical Todo. Unknown
// priorities fall back to medium.
func (p todoPayload) toDomain() domain.Todo {
	priority, err := domain.ParsePriority(p.Priority)
	if err != nil {
		priority = domain.PriorityMedium
	}

	todo := domain.Todo{
		ID:        string(p.ID),
		Text:      p.Text,
		Completed: p.Completed,
		Priority:  priority,
		Category:  p.Category,
		DueDate:   p.DueDate.ptr(),
		CreatedAt: time.Time(p.CreatedAt),
		UpdatedAt: time.Time(p.UpdatedAt),
	}
	todo.Normalize()

	return todo
}

func normalizeTodos(payloads []todoPayload) []domain.Todo {
	todos := make([]domain.Todo, 0, len(payloads))
	for _, p := range payloads {
		todos = append(todos, p.toDomain())
	}

	return todos
}

type historyPayload struct {
	ID             flexibleID   `json:"id"`
	OriginalTodoID flexibleID   `json:"originalTodoId"`
	Text           string       `json:"text"`
	Priority       string       `json:"priority"`
	Category       string       `json:"category"`
	CreatedAt      flexibleTime `json:"createdAt"`
	CompletedAt    flexibleTime `json:"completedAt"`
	TimeToComplete int64        `json:"timeToComplete"`
}

func (p historyPayload) toDomain() domain.HistoryEntry {
	priority, err := domain.ParsePriority(p.Priority)
	if err != nil {
		priority = domain.PriorityMedium
	}

	elapsed := p.TimeToComplete
	if elapsed < 0 {
		elapsed = 0
	}

	return domain.HistoryEntry{
		ID:             string(p.ID),
		OriginalTodoID: string(p.OriginalTodoID),
		Text:           p.Text,
		Priority:       priority,
		Category:       domain.CategoryOrDefault(p.Category),
		CreatedAt:      time.Time(p.CreatedAt),
		CompletedAt:    time.Time(p.CompletedAt),
		TimeToComplete: elapsed,
	}
}
