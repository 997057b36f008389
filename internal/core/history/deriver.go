// Package history turns todo completions into an append-only log of
// HistoryEntry records and aggregates that log for display.
package history

import (
	"time"

	"github.com/google/uuid"

	"serenity/internal/core/domain"
)

// NewID generates history entry ids.
var NewID = uuid.NewString

// Derive builds the completion record of todo. A zero completedAt means
// "now", a zero createdAt is replaced by now, and the duration never goes
// below zero.
func Derive(todo domain.Todo, completedAt, now time.Time) domain.HistoryEntry {
	if completedAt.IsZero() {
		completedAt = now
	}

	createdAt := todo.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	elapsed := completedAt.Sub(createdAt).Milliseconds()
	if elapsed < 0 {
		elapsed = 0
	}

	return domain.HistoryEntry{
		ID:             NewID(),
		UserID:         todo.UserID,
		OriginalTodoID: todo.ID,
		Text:           todo.Text,
		Priority:       todo.Priority.OrDefault(),
		Category:       domain.CategoryOrDefault(todo.Category),
		CreatedAt:      createdAt,
		CompletedAt:    completedAt,
		TimeToComplete: elapsed,
	}
}

// Log is an ordered history, newest entry first, holding at most one entry
// per originating todo id. It is not safe for concurrent use.
type Log struct {
	entries []domain.HistoryEntry
	seen    map[string]struct{}
}

func NewLog(entries []domain.HistoryEntry) *Log {
	l := &Log{
		entries: make([]domain.HistoryEntry, 0, len(entries)),
		seen:    make(map[string]struct{}, len(entries)),
	}

	for _, entry := range entries {
		if _, ok := l.seen[entry.OriginalTodoID]; ok {
			continue
		}

		l.seen[entry.OriginalTodoID] = struct{}{}
		l.entries = append(l.entries, entry)
	}

	return l
}

func (l *Log) Has(todoID string) bool {
	_, ok := l.seen[todoID]
	return ok
}

func (l *Log) Len() int {
	return len(l.entries)
}

// Record prepends the completion of todo unless the log already references
// its id. The second return value reports whether an entry was added.
func (l *Log) Record(todo domain.Todo, completedAt, now time.Time) (domain.HistoryEntry, bool) {
	if l.Has(todo.ID) {
		return domain.HistoryEntry{}, false
	}

	entry := Derive(todo, completedAt, now)

	l.seen[todo.ID] = struct{}{}
	l.entries = append([]domain.HistoryEntry{entry}, l.entries...)

	return entry, true
}

// Entries returns a copy of the log.
func (l *Log) Entries() []domain.HistoryEntry {
	out := make([]domain.HistoryEntry, len(l.entries))
	copy(out, l.entries)

	return out
}

// Filter returns the entries accepted by keep, in log order.
func (l *Log) Filter(keep func(domain.HistoryEntry) bool) []domain.HistoryEntry {
	out := []domain.HistoryEntry{}

	for _, entry := range l.entries {
		if keep(entry) {
			out = append(out, entry)
		}
	}

	return out
}
