package applications

import (
	"context"
	"time"

	"github.com/dmitrijs2005/matchmaker/internal/server/models"
	"github.com/dmitrijs2005/matchmaker/internal/server/store"
)

type Repository interface {
	// Put writes the whole application, replacing any previous version.
	Put(ctx context.Context, app *models.Application) error
	GetByID(ctx context.Context, applicationID string) (*models.Application, error)
	GetByUserID(ctx context.Context, userID string) (*models.Application, error)
	SetApproved(ctx context.Context, applicationID string, approved bool, at time.Time) error
	List(ctx context.Context, p store.Predicate) ([]models.Application, error)
}
