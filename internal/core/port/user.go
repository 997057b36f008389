package port

import (
	"context"

	"serenity/internal/core/domain"
	"serenity/internal/core/model/request"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	Create(ctx context.Context, user domain.User) (domain.User, error)
	Update(ctx context.Context, user domain.User) (domain.User, error)
}

type UserService interface {
	Profile(ctx context.Context, userID string) (domain.User, error)
	UpdateProfile(ctx context.Context, userID string, name string) (domain.User, error)
	UpdatePreferences(ctx context.Context, userID string, patch domain.PreferencesPatch) (domain.Preferences, error)
}

type AuthService interface {
	Registration(ctx context.Context, req *request.SignUpRequest) (*domain.User, error)
	Authenticate(ctx context.Context, req *request.LoginRequest) (*domain.User, error)
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
}

type TokenIssuer interface {
	CreateToken(userID, email string) (string, error)
}
