package service

import (
	"context"
	"strings"
	"time"

	"serenity/internal/core/domain"
	"serenity/internal/core/port"
)

type UserService struct {
	repo port.UserRepository
}

func NewUserService(repo port.UserRepository) *UserService {
	return &UserService{repo}
}

func (u *UserService) Profile(ctx context.Context, userID string) (domain.User, error) {
	return u.repo.GetByID(ctx, userID)
}

// UpdateProfile ignores a blank name.
func (u *UserService) UpdateProfile(ctx context.Context, userID string, name string) (domain.User, error) {
	user, err := u.repo.GetByID(ctx, userID)

	if err != nil {
		return domain.User{}, err
	}

	if name = strings.TrimSpace(name); name != "" {
		user.Name = name
		user.UpdatedAt = time.Now()
	}

	return u.repo.Update(ctx, user)
}

func (u *UserService) UpdatePreferences(ctx context.Context, userID string, patch domain.PreferencesPatch) (domain.Preferences, error) {
	user, err := u.repo.GetByID(ctx, userID)

	if err != nil {
		return domain.Preferences{}, err
	}

	patch.Apply(&user.Preferences)
	user.UpdatedAt = time.Now()

	user, err = u.repo.Update(ctx, user)

	if err != nil {
		return domain.Preferences{}, err
	}

	return user.Preferences, nil
}
