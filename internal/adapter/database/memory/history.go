package memory

import (
	"context"
	"time"

	"serenity/internal/core/domain"
	"serenity/internal/core/history"
)

type HistoryRepository struct {
	db  *DB
	now func() time.Time
}

func NewHistoryRepository(db *DB) *HistoryRepository {
	return &HistoryRepository{db: db, now: time.Now}
}

// Record runs the dedup check and the append under the write lock, so two
// concurrent completions of the same todo produce a single entry.
func (r *HistoryRepository) Record(ctx context.Context, todo domain.Todo, completedAt time.Time) (domain.HistoryEntry, bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	log, ok := r.db.history[todo.UserID]
	if !ok {
		log = history.NewLog(nil)
		r.db.history[todo.UserID] = log
	}

	entry, added := log.Record(todo, completedAt, r.now())

	return entry, added, nil
}

func (r *HistoryRepository) ListByUser(ctx context.Context, userID string) ([]domain.HistoryEntry, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	log, ok := r.db.history[userID]
	if !ok {
		return []domain.HistoryEntry{}, nil
	}

	return log.Entries(), nil
}
