package memory

import (
	"context"
	"slices"

	"serenity/internal/core/domain"
)

type todoRecord struct {
	domain.Todo
}

type TodoRepository struct {
	db *DB
}

func NewTodoRepository(db *DB) *TodoRepository {
	return &TodoRepository{db: db}
}

// ListByUser returns the user's todos, newest first.
func (r *TodoRepository) ListByUser(ctx context.Context, userID string) ([]domain.Todo, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	todos := []domain.Todo{}

	for _, rec := range r.db.todos {
		if rec.BelongsToUser(userID) {
			todos = append(todos, rec.Todo)
		}
	}

	slices.SortStableFunc(todos, func(a, b domain.Todo) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return todos, nil
}

func (r *TodoRepository) GetByID(ctx context.Context, id string) (domain.Todo, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return domain.Todo{}, domain.ErrTodoNotFound
	}

	return r.db.todos[i].Todo, nil
}

func (r *TodoRepository) Create(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.todos = append(r.db.todos, todoRecord{todo})

	return todo, nil
}

func (r *TodoRepository) Update(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	i := r.indexOf(todo.ID)
	if i < 0 {
		return domain.Todo{}, domain.ErrTodoNotFound
	}

	r.db.todos[i] = todoRecord{todo}

	return todo, nil
}

func (r *TodoRepository) Delete(ctx context.Context, id string) (domain.Todo, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return domain.Todo{}, domain.ErrTodoNotFound
	}

	deleted := r.db.todos[i].Todo
	r.db.todos = slices.Delete(r.db.todos, i, i+1)

	return deleted, nil
}

// indexOf must be called with the lock held.
func (r *TodoRepository) indexOf(id string) int {
	return slices.IndexFunc(r.db.todos, func(rec todoRecord) bool {
		return rec.ID == id
	})
}
