package users

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
	return &StoreRepository{db: db, coll: store.Collection{Name: table, Key: "userId"}}
}

func (r *StoreRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.Put(ctx, r.coll, user); err != nil {
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

func (r *StoreRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	user := &models.User{}
	if err := r.db.GetByID(ctx, r.coll, userID, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *StoreRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, store.Where("email", email))
}

func (r *StoreRepository) GetByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	return r.findOne(ctx, store.Where("googleId", googleID))
}

func (r *StoreRepository) GetByResetToken(ctx context.Context, token string) (*models.User, error) {
	return r.findOne(ctx, store.Where("resetToken", token))
}

func (r *StoreRepository) SetResetToken(ctx context.Context, userID, token string, expiry int64) error {
	return r.db.Update(ctx, r.coll, userID, []store.Assignment{
		store.Set("resetToken", token),
		store.Set("resetTokenExpiry", expiry),
	})
}

func (r *StoreRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	return r.db.Update(ctx, r.coll, userID, []store.Assignment{
		store.Set("password", passwordHash),
		store.Set("resetToken", ""),
		store.Set("resetTokenExpiry", int64(0)),
	})
}

// findOne returns the first match. Uniqueness of the looked up attribute is
// maintained by the services, not by the store.
func (r *StoreRepository) findOne(ctx context.Context, p store.Predicate) (*models.User, error) {
	var found []models.User
	if err := r.db.Scan(ctx, r.coll, p, &found); err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, common.ErrorNotFound
	}
	return &found[0], nil
}
