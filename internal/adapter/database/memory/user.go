package memory

import (
	"context"
	"slices"
	"strings"

	"serenity/internal/core/domain"
)

type userRecord struct {
	domain.User
}

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	i := slices.IndexFunc(r.db.users, func(rec userRecord) bool { return rec.ID == id })
	if i < 0 {
		return domain.User{}, domain.ErrUserNotFound
	}

	return r.db.users[i].User, nil
}

// GetByEmail matches case-insensitively.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	i := slices.IndexFunc(r.db.users, func(rec userRecord) bool { return strings.EqualFold(rec.Email, email) })
	if i < 0 {
		return domain.User{}, domain.ErrUserNotFound
	}

	return r.db.users[i].User, nil
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	exists := slices.ContainsFunc(r.db.users, func(rec userRecord) bool {
		return strings.EqualFold(rec.Email, user.Email)
	})
	if exists {
		return domain.User{}, domain.ErrUserExists
	}

	r.db.users = append(r.db.users, userRecord{user})

	return user, nil
}

func (r *UserRepository) Update(ctx context.Context, user domain.User) (domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	i := slices.IndexFunc(r.db.users, func(rec userRecord) bool { return rec.ID == user.ID })
	if i < 0 {
		return domain.User{}, domain.ErrUserNotFound
	}

	r.db.users[i] = userRecord{user}

	return user, nil
}
