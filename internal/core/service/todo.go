package service

import (
	"context"
	"slices"
	"time"

	"serenity/internal/core/domain"
	"serenity/internal/core/history"
	"serenity/internal/core/model/response"
	"serenity/internal/core/port"
	"serenity/internal/core/util"
	. "serenity/pkg/tracing"
)

type TodoService struct {
	repo    port.TodoRepository
	history port.HistoryRepository
	now     func() time.Time
}

func NewTodoService(repo port.TodoRepository, history port.HistoryRepository) *TodoService {
	return &TodoService{repo: repo, history: history, now: time.Now}
}

func (ts *TodoService) List(ctx context.Context, userID string) ([]domain.Todo, error) {
	return ts.repo.ListByUser(ctx, userID)
}

func (ts *TodoService) Create(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	var created domain.Todo

	err := ServiceSpanWrapper(ctx, "todo", "create", todo.UserID, func(ctx context.Context) error {
		todo.Normalize()

		if todo.Text == "" {
			return domain.ErrEmptyText
		}

		now := ts.now()
		todo.ID = util.GenerateID()
		todo.Completed = false
		todo.CreatedAt = now
		todo.UpdatedAt = now

		var err error
		created, err = ts.repo.Create(ctx, todo)

		return err
	})

	return created, err
}

// Update applies patch to the user's todo. A pending to completed transition
// records a history entry.
func (ts *TodoService) Update(ctx context.Context, userID, id string, patch domain.TodoPatch) (domain.Todo, error) {
	var updated domain.Todo

	err := ServiceSpanWrapper(ctx, "todo", "update", userID, func(ctx context.Context) error {
		existing, err := ts.owned(ctx, userID, id)
		if err != nil {
			return err
		}

		todo := existing
		patch.Apply(&todo)
		todo.Normalize()

		if todo.Text == "" {
			return domain.ErrEmptyText
		}

		now := ts.now()
		todo.UpdatedAt = now

		updated, err = ts.repo.Update(ctx, todo)
		if err != nil {
			return err
		}

		if !existing.Completed && updated.Completed {
			if _, _, err := ts.history.Record(ctx, updated, now); err != nil {
				return err
			}
		}

		return nil
	})

	return updated, err
}

// Delete removes the user's todo. A completed todo without a history entry
// gets one, dated at its last update.
func (ts *TodoService) Delete(ctx context.Context, userID, id string) error {
	return ServiceSpanWrapper(ctx, "todo", "delete", userID, func(ctx context.Context) error {
		if _, err := ts.owned(ctx, userID, id); err != nil {
			return err
		}

		deleted, err := ts.repo.Delete(ctx, id)
		if err != nil {
			return err
		}

		if deleted.Completed {
			if _, _, err := ts.history.Record(ctx, deleted, deleted.LastTouched(ts.now())); err != nil {
				return err
			}
		}

		return nil
	})
}

func (ts *TodoService) Stats(ctx context.Context, userID string) (domain.TodoStats, error) {
	todos, err := ts.repo.ListByUser(ctx, userID)
	if err != nil {
		return domain.TodoStats{}, err
	}

	return domain.SummarizeTodos(todos), nil
}

// History pages through the user's history, newest first. A limit of zero
// or less returns everything after the cursor.
func (ts *TodoService) History(ctx context.Context, userID string, limit int, cursor string) (*response.HistoryPage, error) {
	entries, err := ts.history.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	start := 0

	if cursor != "" {
		_, lastID, err := util.DecodeCursor(cursor)
		if err != nil {
			return nil, err
		}

		i := slices.IndexFunc(entries, func(e domain.HistoryEntry) bool { return e.ID == lastID })
		if i < 0 {
			return nil, util.ErrCursorUnknown
		}

		start = i + 1
	}

	entries = entries[start:]

	page := &response.HistoryPage{}

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]

		page.Pagination.HasNext = true
		page.Pagination.NextCursor = util.EncodeCursor(last.CompletedAt.Format(time.RFC3339Nano), last.ID)
	}

	page.Data = entries
	page.Size = len(entries)

	return page, nil
}

func (ts *TodoService) HistoryStats(ctx context.Context, userID string) (domain.HistoryStats, error) {
	entries, err := ts.history.ListByUser(ctx, userID)
	if err != nil {
		return domain.HistoryStats{}, err
	}

	return history.Summarize(entries, ts.now()), nil
}

func (ts *TodoService) owned(ctx context.Context, userID, id string) (domain.Todo, error) {
	todo, err := ts.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Todo{}, err
	}

	if !todo.BelongsToUser(userID) {
		return domain.Todo{}, domain.ErrTodoNotFound
	}

	return todo, nil
}
