package repository

import (
	"context"

	"eras-capsule-be/internal/model"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	ActivateUser(ctx context.Context, id uuid.UUID) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateSelectedTitle(ctx context.Context, id uuid.UUID, title *string) error

	// Email verification
	CreateEmailVerificationToken(ctx context.Context, token *model.EmailVerificationToken) error
	FindEmailVerificationToken(ctx context.Context, userID uuid.UUID, token string) (*model.EmailVerificationToken, error)
	DeleteEmailVerificationToken(ctx context.Context, id uuid.UUID) error

	// Password reset
	CreatePasswordResetToken(ctx context.Context, token *model.PasswordResetToken) error
	FindPasswordResetToken(ctx context.Context, token string) (*model.PasswordResetToken, error)
	MarkResetTokenUsed(ctx context.Context, id uuid.UUID) error

	// Refresh tokens
	CreateRefreshToken(ctx context.Context, token *model.UserRefreshToken) error
	FindRefreshTokenByHash(ctx context.Context, tokenHash string) (*model.UserRefreshToken, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error

	// OAuth providers
	FindProvider(ctx context.Context, providerName, providerUserID string) (*model.UserProvider, error)
	CreateProvider(ctx context.Context, provider *model.UserProvider) error
}
