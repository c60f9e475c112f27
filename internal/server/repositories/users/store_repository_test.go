package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/matchmaker/internal/common"
	"github.com/dmitrijs2005/matchmaker/internal/server/models"
	"github.com/dmitrijs2005/matchmaker/internal/server/store"
	"github.com/dmitrijs2005/matchmaker/internal/server/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

type failingStore struct {
	store.RecordStore
}

func (failingStore) Scan(context.Context, store.Collection, store.Predicate, any) error {
	return errBoom
}

func (failingStore) Put(context.Context, store.Collection, any) error {
	return errBoom
}

func newRepo(t *testing.T) *StoreRepository {
	t.Helper()
	r := NewStoreRepository(memory.New(), "users")
	ctx := context.Background()
	require.NoError(t, r.Create(ctx, &models.User{UserID: "u1", Username: "ann", Email: "ann@example.com", PasswordHash: "h1", CreatedAt: time.Unix(100, 0).UTC()}))
	require.NoError(t, r.Create(ctx, &models.User{UserID: "u2", Username: "bob", Email: "bob@example.com", GoogleID: "g-2"}))
	return r
}

func TestStoreRepository_Lookups(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	u, err := r.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", u.Email)
	assert.Equal(t, time.Unix(100, 0).UTC(), u.CreatedAt)

	u, err = r.GetByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u2", u.UserID)

	u, err = r.GetByGoogleID(ctx, "g-2")
	require.NoError(t, err)
	assert.Equal(t, "u2", u.UserID)

	_, err = r.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = r.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestStoreRepository_ResetTokenLifecycle(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	require.NoError(t, r.SetResetToken(ctx, "u1", "tok", 12345))

	u, err := r.GetByResetToken(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.UserID)
	assert.Equal(t, int64(12345), u.ResetTokenExpiry)

	require.NoError(t, r.UpdatePassword(ctx, "u1", "h2"))

	u, err = r.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "h2", u.PasswordHash)
	assert.Empty(t, u.ResetToken)
	assert.Zero(t, u.ResetTokenExpiry)

	_, err = r.GetByResetToken(ctx, "tok")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestStoreRepository_UpdateMissing(t *testing.T) {
	r := newRepo(t)
	err := r.SetResetToken(context.Background(), "ghost", "tok", 1)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestStoreRepository_StoreErrors(t *testing.T) {
	r := NewStoreRepository(failingStore{}, "users")

	_, err := r.GetByEmail(context.Background(), "a@b.com")
	assert.ErrorIs(t, err, errBoom)

	err = r.Create(context.Background(), &models.User{UserID: "x"})
	assert.ErrorIs(t, err, errBoom)
}
