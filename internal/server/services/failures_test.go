package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/matchmaker/internal/common"
	"github.com/dmitrijs2005/matchmaker/internal/server/auth"
	"github.com/dmitrijs2005/matchmaker/internal/server/metrics"
	"github.com/dmitrijs2005/matchmaker/internal/server/objectstore"
	"github.com/dmitrijs2005/matchmaker/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBrokenManager() *repomanager.StoreRepositoryManager {
	return repomanager.NewStoreRepositoryManager(brokenStore{}, testConfig())
}

func TestUserService_StoreFailuresAreLogged(t *testing.T) {
	ctx := context.Background()
	logger, buf := newBufferLogger()
	s := NewUserService(newBrokenManager(), auth.NewHasher(auth.MinBcryptCost), &fakeVerifier{}, &fakeMailer{},
		metrics.NewRegistry(), logger, testConfig())

	_, err := s.SignIn(ctx, "a@b.com", "pw")
	require.ErrorIs(t, err, common.ErrorStoreUnavailable)
	assert.Contains(t, buf.String(), "user lookup failed")
	assert.Contains(t, buf.String(), "module=users")
	assert.Contains(t, buf.String(), "boom")

	buf.Reset()
	_, err = s.SignUp(ctx, "ann", "a@b.com", "pw")
	require.ErrorIs(t, err, common.ErrorStoreUnavailable)
	assert.Contains(t, buf.String(), "level=ERROR")

	buf.Reset()
	err = s.ResetPassword(ctx, "tok", "new")
	require.ErrorIs(t, err, common.ErrorStoreUnavailable)
	assert.Contains(t, buf.String(), "user lookup failed")
}

func TestUserService_MissingRecordIsNotLogged(t *testing.T) {
	logger, buf := newBufferLogger()
	s := NewUserService(newManager(testConfig()), auth.NewHasher(auth.MinBcryptCost), &fakeVerifier{}, &fakeMailer{},
		metrics.NewRegistry(), logger, testConfig())

	_, err := s.GetUser(context.Background(), "nobody")
	require.ErrorIs(t, err, common.ErrorNotFound)
	assert.Empty(t, buf.String())
}

func TestAdminService_StoreFailuresAreLogged(t *testing.T) {
	ctx := context.Background()
	logger, buf := newBufferLogger()
	s := NewAdminService(newBrokenManager(), auth.NewHasher(auth.MinBcryptCost), nil, logger, testConfig())

	_, err := s.LoginAdmin(ctx, "root", "pw")
	require.ErrorIs(t, err, common.ErrorStoreUnavailable)
	assert.Contains(t, buf.String(), "admin lookup failed")
	assert.Contains(t, buf.String(), "module=admins")

	buf.Reset()
	_, err = s.CreateAdmin(ctx, "root", "pw")
	require.ErrorIs(t, err, common.ErrorStoreUnavailable)
	assert.Contains(t, buf.String(), "admin lookup failed")
}

func TestSearchService_StoreFailureIsLogged(t *testing.T) {
	logger, buf := newBufferLogger()
	s := NewSearchService(newBrokenManager(), objectstore.NewMemoryStore(), nil, logger)

	_, err := s.Search(context.Background(), SearchCriteria{Gender: "female"})
	require.ErrorIs(t, err, common.ErrorStoreUnavailable)
	assert.Contains(t, buf.String(), "application scan failed")
	assert.Contains(t, buf.String(), "module=search")
}

func TestApplicationService_StoreFailureIsLogged(t *testing.T) {
	logger, buf := newBufferLogger()
	s := NewApplicationService(newBrokenManager(), objectstore.NewMemoryStore(), &fakeNotifier{}, nil, logger, testConfig())

	_, err := s.Approve(context.Background(), "app-1", true)
	require.ErrorIs(t, err, common.ErrorStoreUnavailable)
	assert.Contains(t, buf.String(), "application lookup failed")
}
