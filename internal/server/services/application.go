package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/matchmaker/internal/common"
	"github.com/dmitrijs2005/matchmaker/internal/logging"
	"github.com/dmitrijs2005/matchmaker/internal/server/config"
	"github.com/dmitrijs2005/matchmaker/internal/server/metrics"
	"github.com/dmitrijs2005/matchmaker/internal/server/models"
	"github.com/dmitrijs2005/matchmaker/internal/server/notify"
	"github.com/dmitrijs2005/matchmaker/internal/server/objectstore"
	"github.com/dmitrijs2005/matchmaker/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/matchmaker/internal/server/store"
	"github.com/google/uuid"
)

// PhotoInput carries the photo part of a create or amend request: either the
// bytes themselves or a request for a presigned upload URL.
type PhotoInput struct {
	Data          []byte
	WantUploadURL bool
}

// ApplicationService runs the application workflow:
// Unsubmitted -> Pending (approved=false) -> Approved.
//
// Writes are not transactional. The record is stored first and the photo
// second; a photo failure is logged and surfaces as a nil Photo in the result.
type ApplicationService struct {
	repomanager repomanager.RepositoryManager
	objects     objectstore.ObjectStore
	notifier    notify.Notifier
	photos      *photoLoader
	metrics     *metrics.Registry
	logger      logging.Logger
	contentType string
	now         func() time.Time
}

func NewApplicationService(m repomanager.RepositoryManager, objects objectstore.ObjectStore, notifier notify.Notifier,
	reg *metrics.Registry, logger logging.Logger, cfg *config.Config) *ApplicationService {
	logger = logger.With("module", "applications")
	return &ApplicationService{
		repomanager: m,
		objects:     objects,
		notifier:    notifier,
		photos:      newPhotoLoader(objects, logger),
		metrics:     reg,
		logger:      logger,
		contentType: cfg.PhotoContentType,
		now:         time.Now,
	}
}

// Create submits the first application of a user. The one-per-user rule is an
// existence check, so two concurrent submissions may both succeed.
func (s *ApplicationService) Create(ctx context.Context, userID string, attrs models.Application, photo PhotoInput) (view *models.ApplicationView, err error) {
	defer track(s.metrics, "application.create", time.Now(), &err)

	repo := s.repomanager.Applications()

	_, err = repo.GetByUserID(ctx, userID)
	if err == nil {
		return nil, fmt.Errorf("%w: user has already applied", common.ErrorConflict)
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, logFailure(ctx, s.logger, "application lookup failed", err, "userId", userID)
	}

	now := s.now()
	age, err := ComputeAge(attrs.Birthday, now)
	if err != nil {
		return nil, err
	}

	app := attrs
	app.ApplicationID = uuid.NewString()
	app.UserID = userID
	app.Age = age
	app.Approved = false
	app.CreatedAt = now.UTC()
	app.UpdatedAt = now.UTC()
	normalizeApplication(&app)

	if err := repo.Put(ctx, &app); err != nil {
		s.logger.Error(ctx, "application write failed", "userId", userID, "error", err)
		return nil, err
	}

	view = &models.ApplicationView{Application: app}
	s.storePhoto(ctx, view, photo, false)
	return view, nil
}

// Amend overwrites the attributes of the user's application. The approval
// flag and creation time are kept.
func (s *ApplicationService) Amend(ctx context.Context, userID string, attrs models.Application, photo PhotoInput) (view *models.ApplicationView, err error) {
	defer track(s.metrics, "application.amend", time.Now(), &err)

	repo := s.repomanager.Applications()

	existing, err := repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, logFailure(ctx, s.logger, "application lookup failed", err, "userId", userID)
	}

	now := s.now()
	age, err := ComputeAge(attrs.Birthday, now)
	if err != nil {
		return nil, err
	}

	app := attrs
	app.ApplicationID = existing.ApplicationID
	app.UserID = existing.UserID
	app.Age = age
	app.Approved = existing.Approved
	app.CreatedAt = existing.CreatedAt
	app.UpdatedAt = now.UTC()
	normalizeApplication(&app)

	if err := repo.Put(ctx, &app); err != nil {
		s.logger.Error(ctx, "application write failed", "userId", userID, "error", err)
		return nil, err
	}

	view = &models.ApplicationView{Application: app}
	s.storePhoto(ctx, view, photo, true)
	if len(photo.Data) == 0 {
		view.Photo = s.photos.load(ctx, app.ApplicationID)
	}
	return view, nil
}

// storePhoto uploads photo bytes or presigns an upload. With replace set, the
// previous object is deleted first.
func (s *ApplicationService) storePhoto(ctx context.Context, view *models.ApplicationView, photo PhotoInput, replace bool) {
	key := view.ApplicationID

	switch {
	case len(photo.Data) > 0:
		if replace {
			if err := s.objects.DeleteObject(ctx, key); err != nil {
				s.logger.Warn(ctx, "old photo delete failed", "applicationId", key, "error", err)
			}
		}
		if err := s.objects.PutObject(ctx, key, photo.Data, s.contentType); err != nil {
			s.logger.Error(ctx, "photo upload failed", "applicationId", key, "error", err)
			return
		}
		encoded := base64.StdEncoding.EncodeToString(photo.Data)
		view.Photo = &encoded

	case photo.WantUploadURL:
		url, err := s.objects.PresignUpload(ctx, key, s.contentType)
		if err != nil {
			s.logger.Error(ctx, "presign failed", "applicationId", key, "error", err)
			return
		}
		view.UploadURL = url
	}
}

// Approve sets the approval flag. Moving from not approved to approved sends
// an event to the owner's live connections, if any.
func (s *ApplicationService) Approve(ctx context.Context, applicationID string, approved bool) (app *models.Application, err error) {
	defer track(s.metrics, "application.approve", time.Now(), &err)

	repo := s.repomanager.Applications()

	app, err = repo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, logFailure(ctx, s.logger, "application lookup failed", err, "applicationId", applicationID)
	}

	now := s.now().UTC()
	if err := repo.SetApproved(ctx, applicationID, approved, now); err != nil {
		return nil, logFailure(ctx, s.logger, "approval write failed", err, "applicationId", applicationID)
	}

	wasApproved := app.Approved
	app.Approved = approved
	app.UpdatedAt = now

	if approved && !wasApproved {
		delivered := s.notifier.Notify(ctx, app.UserID, notify.Event{
			Type:          notify.EventApplicationApproved,
			UserID:        app.UserID,
			ApplicationID: app.ApplicationID,
			At:            now,
		})
		s.logger.Info(ctx, "application approved", "applicationId", applicationID, "notified", delivered)
	}
	return app, nil
}

func (s *ApplicationService) GetAll(ctx context.Context) ([]models.ApplicationView, error) {
	apps, err := s.repomanager.Applications().List(ctx, store.Predicate{})
	if err != nil {
		return nil, logFailure(ctx, s.logger, "application scan failed", err)
	}
	return s.photos.views(ctx, apps), nil
}

func (s *ApplicationService) GetSingle(ctx context.Context, applicationID string) (*models.ApplicationView, error) {
	app, err := s.repomanager.Applications().GetByID(ctx, applicationID)
	if err != nil {
		return nil, logFailure(ctx, s.logger, "application lookup failed", err, "applicationId", applicationID)
	}
	return &models.ApplicationView{Application: *app, Photo: s.photos.load(ctx, app.ApplicationID)}, nil
}

func (s *ApplicationService) GetByUser(ctx context.Context, userID string) (*models.ApplicationView, error) {
	app, err := s.repomanager.Applications().GetByUserID(ctx, userID)
	if err != nil {
		return nil, logFailure(ctx, s.logger, "application lookup failed", err, "userId", userID)
	}
	return &models.ApplicationView{Application: *app, Photo: s.photos.load(ctx, app.ApplicationID)}, nil
}

// ComputeAge returns full years elapsed between a DD/MM/YYYY birthday and now.
func ComputeAge(birthday string, now time.Time) (int, error) {
	parts := strings.Split(strings.TrimSpace(birthday), "/")
	if len(parts) != 3 {
		return 0, fmt.Errorf("%w: birthday must be DD/MM/YYYY", common.ErrorValidation)
	}

	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, fmt.Errorf("%w: birthday must be DD/MM/YYYY", common.ErrorValidation)
		}
		nums[i] = n
	}
	day, month, year := nums[0], time.Month(nums[1]), nums[2]

	born := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if born.Day() != day || born.Month() != month || born.Year() != year {
		return 0, fmt.Errorf("%w: %q is not a valid date", common.ErrorValidation, birthday)
	}

	age := now.Year() - year
	if now.Month() < month || (now.Month() == month && now.Day() < day) {
		age--
	}
	if age < 0 {
		return 0, fmt.Errorf("%w: birthday is in the future", common.ErrorValidation)
	}
	return age, nil
}

// normalizeApplication lowercases the attributes that search compares.
func normalizeApplication(a *models.Application) {
	for _, f := range []*string{
		&a.Email,
		&a.Gender,
		&a.City,
		&a.Country,
		&a.Religion,
		&a.Ethnicity,
		&a.Profession,
		&a.Education,
		&a.UniversityDegree,
		&a.MaritalStatus,
	} {
		*f = common.Normalize(*f)
	}
}
