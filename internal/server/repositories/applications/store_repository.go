package applications

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/matchmaker/internal/common"
	"github.com/dmitrijs2005/matchmaker/internal/server/models"
	"github.com/dmitrijs2005/matchmaker/internal/server/store"
)

type StoreRepository struct {
	db   store.RecordStore
	coll store.Collection
}

func NewStoreRepository(db store.RecordStore, table string) *StoreRepository {
	return &StoreRepository{db: db, coll: store.Collection{Name: table, Key: models.AttrApplicationID}}
}

func (r *StoreRepository) Put(ctx context.Context, app *models.Application) error {
	if err := r.db.Put(ctx, r.coll, app); err != nil {
		return fmt.Errorf("error saving application: %w", err)
	}
	return nil
}

func (r *StoreRepository) GetByID(ctx context.Context, applicationID string) (*models.Application, error) {
	app := &models.Application{}
	if err := r.db.GetByID(ctx, r.coll, applicationID, app); err != nil {
		return nil, err
	}
	return app, nil
}

// GetByUserID returns the user's application. The store does not enforce one
// application per user; if several exist the first one scanned wins.
func (r *StoreRepository) GetByUserID(ctx context.Context, userID string) (*models.Application, error) {
	apps, err := r.List(ctx, store.Where(models.AttrUserID, userID))
	if err != nil {
		return nil, err
	}
	if len(apps) == 0 {
		return nil, common.ErrorNotFound
	}
	return &apps[0], nil
}

func (r *StoreRepository) SetApproved(ctx context.Context, applicationID string, approved bool, at time.Time) error {
	return r.db.Update(ctx, r.coll, applicationID, []store.Assignment{
		store.Set(models.AttrApproved, approved),
		store.Set(models.AttrUpdatedAt, at),
	})
}

func (r *StoreRepository) List(ctx context.Context, p store.Predicate) ([]models.Application, error) {
	apps := make([]models.Application, 0)
	if err := r.db.Scan(ctx, r.coll, p, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}
