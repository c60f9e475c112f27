package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/matchmaker/internal/common"
	"github.com/dmitrijs2005/matchmaker/internal/logging"
	"github.com/dmitrijs2005/matchmaker/internal/server/auth"
	"github.com/dmitrijs2005/matchmaker/internal/server/config"
	"github.com/dmitrijs2005/matchmaker/internal/server/metrics"
	"github.com/dmitrijs2005/matchmaker/internal/server/models"
	"github.com/dmitrijs2005/matchmaker/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

type AdminService struct {
	repomanager   repomanager.RepositoryManager
	hasher        *auth.Hasher
	metrics       *metrics.Registry
	logger        logging.Logger
	jwtSecret     []byte
	tokenValidity time.Duration
	now           func() time.Time
}

func NewAdminService(m repomanager.RepositoryManager, hasher *auth.Hasher, reg *metrics.Registry, logger logging.Logger, cfg *config.Config) *AdminService {
	return &AdminService{
		repomanager:   m,
		hasher:        hasher,
		metrics:       reg,
		logger:        logger.With("module", "admins"),
		jwtSecret:     []byte(cfg.AdminSecretKey),
		tokenValidity: cfg.AdminTokenValidityDuration,
		now:           time.Now,
	}
}

// CreateAdmin registers an admin account. Usernames are unique.
func (s *AdminService) CreateAdmin(ctx context.Context, username, password string) (admin *models.Admin, err error) {
	defer track(s.metrics, "admin.create", time.Now(), &err)

	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", common.ErrorValidation)
	}

	_, err = s.repomanager.Admins().GetByUsername(ctx, username)
	if err == nil {
		return nil, common.ErrorConflict
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, logFailure(ctx, s.logger, "admin lookup failed", err, "username", username)
	}

	hash, err := s.hasher.HashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	admin = &models.Admin{
		AdminID:      uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repomanager.Admins().Create(ctx, admin); err != nil {
		return nil, logFailure(ctx, s.logger, "admin write failed", err, "username", username)
	}
	return admin, nil
}

// LoginAdmin returns an admin token for valid credentials.
func (s *AdminService) LoginAdmin(ctx context.Context, username, password string) (token string, err error) {
	defer track(s.metrics, "admin.login", time.Now(), &err)

	admin, err := s.repomanager.Admins().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", logFailure(ctx, s.logger, "admin lookup failed", err, "username", username)
	}
	if !s.hasher.VerifyPassword(password, admin.PasswordHash) {
		return "", common.ErrorUnauthorized
	}

	token, err = auth.GenerateAdminToken(admin.AdminID, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

// GetUser lets an admin look up any end-user account.
func (s *AdminService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repomanager.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, logFailure(ctx, s.logger, "user lookup failed", err, "userId", userID)
	}
	return user, nil
}
