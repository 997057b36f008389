package port

import (
	"context"
	"time"

	"serenity/internal/core/domain"
	"serenity/internal/core/model/response"
)

type TodoRepository interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Todo, error)
	GetByID(ctx context.Context, id string) (domain.Todo, error)
	Create(ctx context.Context, todo domain.Todo) (domain.Todo, error)
	Update(ctx context.Context, todo domain.Todo) (domain.Todo, error)
	Delete(ctx context.Context, id string) (domain.Todo, error)
}

type HistoryRepository interface {
	// Record appends the completion of todo unless one already exists for
	// its id. The check and the append are atomic.
	Record(ctx context.Context, todo domain.Todo, completedAt time.Time) (domain.HistoryEntry, bool, error)
	ListByUser(ctx context.Context, userID string) ([]domain.HistoryEntry, error)
}

type TodoService interface {
	List(ctx context.Context, userID string) ([]domain.Todo, error)
	Create(ctx context.Context, todo domain.Todo) (domain.Todo, error)
	Update(ctx context.Context, userID, id string, patch domain.TodoPatch) (domain.Todo, error)
	Delete(ctx context.Context, userID, id string) error
	Stats(ctx context.Context, userID string) (domain.TodoStats, error)
	History(ctx context.Context, userID string, limit int, cursor string) (*response.HistoryPage, error)
	HistoryStats(ctx context.Context, userID string) (domain.HistoryStats, error)
}
