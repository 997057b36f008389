package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"serenity/internal/core/domain"
	"serenity/internal/core/model/request"
	"serenity/internal/core/port"
	"serenity/internal/core/util"
)

type AuthService struct {
	repo port.UserRepository
}

func NewAuthService(repo port.UserRepository) *AuthService {
	return &AuthService{repo}
}

func (us *AuthService) Registration(ctx context.Context, req *request.SignUpRequest) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := us.repo.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	}

	encrypted, err := util.GenerateEncrypt(req.Password)

	if err != nil {
		return nil, fmt.Errorf("error creating encrypted password: %w", err)
	}

	now := time.Now()

	user := domain.User{
		ID:                uuid.NewString(),
		Name:              strings.TrimSpace(req.Name),
		Email:             email,
		EncryptedPassword: encrypted,
		Preferences:       domain.DefaultPreferences(),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	savedUser, err := us.repo.Create(ctx, user)

	if err != nil {
		return nil, err
	}

	return &savedUser, nil
}

// Authenticate hides whether the email or the password was wrong.
func (us *AuthService) Authenticate(ctx context.Context, req *request.LoginRequest) (*domain.User, error) {
	user, err := us.repo.GetByEmail(ctx, strings.TrimSpace(req.Email))

	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}

		return nil, err
	}

	if err := util.ComparePassword(req.Password, user.EncryptedPassword); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return &user, nil
}

func (us *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := us.repo.GetByID(ctx, userID)

	if err != nil {
		return nil, err
	}

	return &user, nil
}
