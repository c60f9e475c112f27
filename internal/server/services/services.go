// Package services contains server-side business logic: credentials for
// users and admins, the application workflow and search. Services depend on
// repository and adapter interfaces and return common sentinel errors.
package services

import (
	"context"
	"encoding/base64"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/matchmaker/internal/common"
	"github.com/dmitrijs2005/matchmaker/internal/logging"
	"github.com/dmitrijs2005/matchmaker/internal/server/metrics"
	"github.com/dmitrijs2005/matchmaker/internal/server/models"
	"github.com/dmitrijs2005/matchmaker/internal/server/objectstore"
)

// maxPhotoFetches bounds concurrent object store reads per request.
const maxPhotoFetches = 8

// track records the outcome of an operation. Use it as
// defer track(m, "op", time.Now(), &err).
func track(m *metrics.Registry, op string, start time.Time, err *error) {
	if m == nil {
		return
	}
	m.Op(op).Observe(start, *err)
}

// logFailure logs a collaborator failure and returns err unchanged. A missing
// record is an expected outcome and is not logged.
func logFailure(ctx context.Context, logger logging.Logger, msg string, err error, args ...any) error {
	if err == nil || errors.Is(err, common.ErrorNotFound) {
		return err
	}
	logger.Error(ctx, msg, append(args, "error", err)...)
	return err
}

// photoLoader joins applications with their stored photos.
type photoLoader struct {
	objects objectstore.ObjectStore
	logger  logging.Logger
	limit   int
}

func newPhotoLoader(objects objectstore.ObjectStore, logger logging.Logger) *photoLoader {
	return &photoLoader{objects: objects, logger: logger, limit: maxPhotoFetches}
}

// load returns the base64 encoded photo of an application, or nil when it is
// missing or cannot be fetched.
func (l *photoLoader) load(ctx context.Context, applicationID string) *string {
	data, err := l.objects.GetObject(ctx, applicationID)
	if err != nil {
		l.logger.Warn(ctx, "photo fetch failed", "applicationId", applicationID, "error", err)
		return nil
	}
	if data == nil {
		return nil
	}
	s := base64.StdEncoding.EncodeToString(data)
	return &s
}

// views fetches photos concurrently and keeps the order of apps.
func (l *photoLoader) views(ctx context.Context, apps []models.Application) []models.ApplicationView {
	out := make([]models.ApplicationView, len(apps))
	sem := make(chan struct{}, l.limit)
	var wg sync.WaitGroup

	for i := range apps {
		out[i].Application = apps[i]
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			out[i].Photo = l.load(ctx, apps[i].ApplicationID)
		}(i)
	}
	wg.Wait()

	return out
}
