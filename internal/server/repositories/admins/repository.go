package admins

import (
	"context"

	"github.com/dmitrijs2005/matchmaker/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetByID(ctx context.Context, adminID string) (*models.Admin, error)
	GetByUsername(ctx context.Context, username string) (*models.Admin, error)
}
