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
	"github.com/dmitrijs2005/matchmaker/internal/server/mailer"
	"github.com/dmitrijs2005/matchmaker/internal/server/metrics"
	"github.com/dmitrijs2005/matchmaker/internal/server/models"
	"github.com/dmitrijs2005/matchmaker/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

const resetTokenSize = 32

// AuthResult is returned by every successful sign-up or sign-in.
type AuthResult struct {
	Token string
	User  *models.User
}

// UserService handles end-user accounts: password and Google sign-up/sign-in,
// and password reset by email.
type UserService struct {
	repomanager        repomanager.RepositoryManager
	hasher             *auth.Hasher
	federated          auth.FederatedVerifier
	mailer             mailer.Mailer
	metrics            *metrics.Registry
	logger             logging.Logger
	jwtSecret          []byte
	tokenValidity      time.Duration
	resetBaseURL       string
	resetTokenValidity time.Duration
	now                func() time.Time
}

func NewUserService(m repomanager.RepositoryManager, hasher *auth.Hasher, federated auth.FederatedVerifier,
	mail mailer.Mailer, reg *metrics.Registry, logger logging.Logger, cfg *config.Config) *UserService {
	return &UserService{
		repomanager:        m,
		hasher:             hasher,
		federated:          federated,
		mailer:             mail,
		metrics:            reg,
		logger:             logger.With("module", "users"),
		jwtSecret:          []byte(cfg.UserSecretKey),
		tokenValidity:      cfg.UserTokenValidityDuration,
		resetBaseURL:       cfg.ResetBaseURL,
		resetTokenValidity: cfg.ResetTokenValidity,
		now:                time.Now,
	}
}

// SignUp registers a password account. Emails are unique.
func (s *UserService) SignUp(ctx context.Context, username, email, password string) (res *AuthResult, err error) {
	defer track(s.metrics, "user.signup", time.Now(), &err)

	email = common.Normalize(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", common.ErrorValidation)
	}
	if err := s.ensureEmailFree(ctx, email); err != nil {
		return nil, err
	}

	hash, err := s.hasher.HashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		UserID:       uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repomanager.Users().Create(ctx, user); err != nil {
		return nil, logFailure(ctx, s.logger, "user write failed", err, "email", email)
	}
	return s.issue(user)
}

// SignIn checks a password. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *UserService) SignIn(ctx context.Context, email, password string) (res *AuthResult, err error) {
	defer track(s.metrics, "user.signin", time.Now(), &err)

	user, err := s.repomanager.Users().GetByEmail(ctx, common.Normalize(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, logFailure(ctx, s.logger, "user lookup failed", err)
	}
	if user.PasswordHash == "" || !s.hasher.VerifyPassword(password, user.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}
	return s.issue(user)
}

// FederatedSignUp creates an account linked to a verified Google identity.
func (s *UserService) FederatedSignUp(ctx context.Context, idToken, username string) (res *AuthResult, err error) {
	defer track(s.metrics, "user.federated_signup", time.Now(), &err)

	identity, err := s.federated.Verify(ctx, idToken)
	if err != nil {
		s.logger.Warn(ctx, "id token rejected", "error", err)
		return nil, err
	}

	_, err = s.repomanager.Users().GetByGoogleID(ctx, identity.Subject)
	if err == nil {
		return nil, common.ErrorConflict
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, logFailure(ctx, s.logger, "user lookup failed", err)
	}

	email := common.Normalize(identity.Email)
	if err := s.ensureEmailFree(ctx, email); err != nil {
		return nil, err
	}

	if username == "" {
		username = email
	}
	user := &models.User{
		UserID:    uuid.NewString(),
		Username:  username,
		Email:     email,
		GoogleID:  identity.Subject,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repomanager.Users().Create(ctx, user); err != nil {
		return nil, logFailure(ctx, s.logger, "user write failed", err, "email", email)
	}
	return s.issue(user)
}

// FederatedSignIn signs in the account linked to a verified Google identity.
func (s *UserService) FederatedSignIn(ctx context.Context, idToken string) (res *AuthResult, err error) {
	defer track(s.metrics, "user.federated_signin", time.Now(), &err)

	identity, err := s.federated.Verify(ctx, idToken)
	if err != nil {
		s.logger.Warn(ctx, "id token rejected", "error", err)
		return nil, err
	}
	user, err := s.repomanager.Users().GetByGoogleID(ctx, identity.Subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, logFailure(ctx, s.logger, "user lookup failed", err)
	}
	return s.issue(user)
}

func (s *UserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repomanager.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, logFailure(ctx, s.logger, "user lookup failed", err, "userId", userID)
	}
	return user, nil
}

// RequestPasswordReset stores a single-use token on the account and mails a
// link containing it.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) (err error) {
	defer track(s.metrics, "user.reset_request", time.Now(), &err)

	user, err := s.repomanager.Users().GetByEmail(ctx, common.Normalize(email))
	if err != nil {
		return logFailure(ctx, s.logger, "user lookup failed", err)
	}

	token, err := common.MakeRandHexString(resetTokenSize)
	if err != nil {
		return common.ErrorInternal
	}
	expiry := s.now().Add(s.resetTokenValidity).Unix()
	if err := s.repomanager.Users().SetResetToken(ctx, user.UserID, token, expiry); err != nil {
		return logFailure(ctx, s.logger, "reset token write failed", err, "userId", user.UserID)
	}

	link := fmt.Sprintf("%s?token=%s", s.resetBaseURL, token)
	body := fmt.Sprintf("Follow this link to reset your password:\n\n%s\n\nThe link expires in %s.", link, s.resetTokenValidity)
	if err := s.mailer.Send(ctx, user.Email, "Password reset", body); err != nil {
		s.logger.Error(ctx, "reset mail failed", "userId", user.UserID, "error", err)
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return nil
}

// ResetPassword sets a new password for the holder of a valid reset token and
// invalidates the token.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) (err error) {
	defer track(s.metrics, "user.reset_password", time.Now(), &err)

	if token == "" {
		return common.ErrInvalidToken
	}
	if newPassword == "" {
		return fmt.Errorf("%w: password is required", common.ErrorValidation)
	}

	user, err := s.repomanager.Users().GetByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrInvalidToken
		}
		return logFailure(ctx, s.logger, "user lookup failed", err)
	}
	if user.ResetTokenExpiry < s.now().Unix() {
		return common.ErrTokenExpired
	}

	hash, err := s.hasher.HashPassword(newPassword)
	if err != nil {
		return common.ErrorInternal
	}
	if err := s.repomanager.Users().UpdatePassword(ctx, user.UserID, hash); err != nil {
		return logFailure(ctx, s.logger, "password write failed", err, "userId", user.UserID)
	}
	return nil
}

func (s *UserService) ensureEmailFree(ctx context.Context, email string) error {
	_, err := s.repomanager.Users().GetByEmail(ctx, email)
	if err == nil {
		return common.ErrorConflict
	}
	if errors.Is(err, common.ErrorNotFound) {
		return nil
	}
	return logFailure(ctx, s.logger, "user lookup failed", err)
}

func (s *UserService) issue(user *models.User) (*AuthResult, error) {
	token, err := auth.GenerateUserToken(user.UserID, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &AuthResult{Token: token, User: user}, nil
}
