// Package server wires the matchmaker server together: storage backends,
// services, the HTTP API and the gRPC health endpoint, plus graceful
// shutdown on SIGINT/SIGTERM/SIGQUIT.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/matchmaker/internal/logging"
	"github.com/dmitrijs2005/matchmaker/internal/server/auth"
	"github.com/dmitrijs2005/matchmaker/internal/server/awsx"
	"github.com/dmitrijs2005/matchmaker/internal/server/config"
	"github.com/dmitrijs2005/matchmaker/internal/server/httpapi"
	"github.com/dmitrijs2005/matchmaker/internal/server/mailer"
	"github.com/dmitrijs2005/matchmaker/internal/server/metrics"
	"github.com/dmitrijs2005/matchmaker/internal/server/notify"
	"github.com/dmitrijs2005/matchmaker/internal/server/objectstore"
	"github.com/dmitrijs2005/matchmaker/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/matchmaker/internal/server/services"

	gs "github.com/dmitrijs2005/matchmaker/internal/server/grpc"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	repos      repomanager.RepositoryManager
	httpServer *httpapi.Server
	grpcServer *gs.GRPCServer
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {

	repos, err := repomanager.Open(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("store init error: %w", err)
	}

	objects, err := newObjectStore(ctx, c)
	if err != nil {
		repos.Close()
		return nil, fmt.Errorf("object store init error: %w", err)
	}

	hasher := auth.NewHasher(c.BcryptCost)
	registry := notify.NewRegistry(logger)
	reg := metrics.NewRegistry()

	svc := httpapi.Services{
		Users:        services.NewUserService(repos, hasher, auth.NewGoogleVerifier(c.GoogleClientID), mailer.New(c, logger), reg, logger, c),
		Admins:       services.NewAdminService(repos, hasher, reg, logger, c),
		Applications: services.NewApplicationService(repos, objects, registry, reg, logger, c),
		Search:       services.NewSearchService(repos, objects, reg, logger),
		Registry:     registry,
		Metrics:      reg,
	}

	return &App{
		config:     c,
		logger:     logger,
		repos:      repos,
		httpServer: httpapi.NewServer(c, svc, logger),
		grpcServer: gs.NewGRPCServer(c.EndpointAddrGRPC, logger, repos),
	}, nil
}

// newObjectStore returns S3 unless the in-memory backend was selected.
func newObjectStore(ctx context.Context, c *config.Config) (objectstore.ObjectStore, error) {
	if c.Storage == config.StorageMemory {
		return objectstore.NewMemoryStore(), nil
	}
	awsCfg, err := awsx.LoadConfig(ctx, awsx.Options{
		Region:          c.AWSRegion,
		AccessKeyID:     c.AWSAccessKeyID,
		SecretAccessKey: c.AWSSecretAccessKey,
	})
	if err != nil {
		return nil, err
	}
	return objectstore.NewS3StoreFromConfig(awsCfg, c.S3BaseEndpoint, c.S3Bucket, c.PresignExpiry), nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// serve runs one server and cancels the whole app if it fails.
func (app *App) serve(ctx context.Context, cancelFunc context.CancelFunc, name string, run func(context.Context) error) {
	if err := run(ctx); err != nil {
		app.logger.Error(ctx, "server failed", "server", name, "error", err)
		cancelFunc()
	}
}

// Run blocks until ctx is cancelled, a signal arrives or a server fails.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.Storage)

	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.serve(ctx, cancelFunc, "http", app.httpServer.Run)
	}()
	go func() {
		defer wg.Done()
		app.serve(ctx, cancelFunc, "grpc", app.grpcServer.Run)
	}()

	wg.Wait()

	if err := app.repos.Close(); err != nil {
		app.logger.Error(ctx, "store close failed", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
