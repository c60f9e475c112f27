// Package repomanager opens the configured record store backend and vends the
// typed repositories built on top of it.
package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/matchmaker/internal/common"
	"github.com/dmitrijs2005/matchmaker/internal/server/awsx"
	"github.com/dmitrijs2005/matchmaker/internal/server/config"
	"github.com/dmitrijs2005/matchmaker/internal/server/repositories/admins"
	"github.com/dmitrijs2005/matchmaker/internal/server/repositories/applications"
	"github.com/dmitrijs2005/matchmaker/internal/server/repositories/users"
	"github.com/dmitrijs2005/matchmaker/internal/server/store"
	"github.com/dmitrijs2005/matchmaker/internal/server/store/dynamo"
	"github.com/dmitrijs2005/matchmaker/internal/server/store/memory"
	"github.com/dmitrijs2005/matchmaker/internal/server/store/postgres"
)

type RepositoryManager interface {
	Users() users.Repository
	Admins() admins.Repository
	Applications() applications.Repository
	Ping(ctx context.Context) error
	Close() error
}

// Seams for tests.
var (
	openPostgres  = postgres.Open
	runMigrations = postgres.RunMigrations
	loadAWSConfig = awsx.LoadConfig
)

// StoreRepositoryManager binds every repository to one RecordStore.
type StoreRepositoryManager struct {
	db           store.RecordStore
	users        *users.StoreRepository
	admins       *admins.StoreRepository
	applications *applications.StoreRepository
}

func NewStoreRepositoryManager(db store.RecordStore, cfg *config.Config) *StoreRepositoryManager {
	return &StoreRepositoryManager{
		db:           db,
		users:        users.NewStoreRepository(db, cfg.UsersTable),
		admins:       admins.NewStoreRepository(db, cfg.AdminsTable),
		applications: applications.NewStoreRepository(db, cfg.ApplicationsTable),
	}
}

func (m *StoreRepositoryManager) Users() users.Repository               { return m.users }
func (m *StoreRepositoryManager) Admins() admins.Repository             { return m.admins }
func (m *StoreRepositoryManager) Applications() applications.Repository { return m.applications }

func (m *StoreRepositoryManager) Ping(ctx context.Context) error { return m.db.Ping(ctx) }

func (m *StoreRepositoryManager) Close() error { return m.db.Close() }

// Open builds the record store selected by cfg.Storage. For postgres the
// embedded migrations are applied before returning.
func Open(ctx context.Context, cfg *config.Config) (*StoreRepositoryManager, error) {
	db, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewStoreRepositoryManager(db, cfg), nil
}

func openStore(ctx context.Context, cfg *config.Config) (store.RecordStore, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		return memory.New(), nil

	case config.StorageDynamoDB:
		awsCfg, err := loadAWSConfig(ctx, awsx.Options{
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		})
		if err != nil {
			return nil, fmt.Errorf("error loading aws config: %w", err)
		}
		return dynamo.NewFromConfig(awsCfg, cfg.DynamoDBEndpoint), nil

	case config.StoragePostgres:
		db, err := openPostgres(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("error opening database: %w", err)
		}
		if err := runMigrations(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("error running migrations: %w", err)
		}
		return postgres.New(db), nil

	default:
		return nil, fmt.Errorf("%w: unknown storage %q", common.ErrorValidation, cfg.Storage)
	}
}
