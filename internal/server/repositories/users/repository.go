package users

import (
	"context"

	"github.com/dmitrijs2005/matchmaker/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, userID string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	GetByResetToken(ctx context.Context, token string) (*models.User, error)
	SetResetToken(ctx context.Context, userID, token string, expiry int64) error
	// UpdatePassword stores a new hash and clears any pending reset token.
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}
