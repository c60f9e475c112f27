package admins

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/matchmaker/internal/common"
	"github.com/dmitrijs2005/matchmaker/internal/server/models"
	"github.com/dmitrijs2005/matchmaker/internal/server/store"
)

type StoreRepository struct {
	db   store.RecordStore
	coll store.Collection
}

func NewStoreRepository(db store.RecordStore, table string) *StoreRepository {
	return &StoreRepository{db: db, coll: store.Collection{Name: table, Key: "adminId"}}
}

func (r *StoreRepository) Create(ctx context.Context, admin *models.Admin) error {
	if err := r.db.Put(ctx, r.coll, admin); err != nil {
		return fmt.Errorf("error creating admin: %w", err)
	}
	return nil
}

func (r *StoreRepository) GetByID(ctx context.Context, adminID string) (*models.Admin, error) {
	admin := &models.Admin{}
	if err := r.db.GetByID(ctx, r.coll, adminID, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

func (r *StoreRepository) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	var found []models.Admin
	if err := r.db.Scan(ctx, r.coll, store.Where("username", username), &found); err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, common.ErrorNotFound
	}
	return &found[0], nil
}
