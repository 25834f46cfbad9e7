// Package services contains server-side business logic. This file implements
// AuthService, which drives an account through registration, email
// verification, login, password reset and logout.
package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/dmitrijs2005/authkeeper/internal/server/config"
	"github.com/dmitrijs2005/authkeeper/internal/server/mailer"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/dmitrijs2005/authkeeper/internal/server/otp"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/users"
	"github.com/dmitrijs2005/authkeeper/internal/server/revocation"
	"github.com/dmitrijs2005/authkeeper/internal/server/validation"
)

// AuthService holds only immutable dependencies and is safe for concurrent use.
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	revoked     revocation.Repository
	notifier    mailer.Notifier
	logger      logging.Logger

	jwtSecret           []byte
	accessTokenValidity time.Duration
	resetCodeValidity   time.Duration
	notificationTimeout time.Duration
	bcryptCost          int

	now          func() time.Time
	generateCode func() (string, error)

	dummyHashOnce sync.Once
	dummyHash     string
}

// NewAuthService constructs an AuthService. db may be nil when the repository
// manager does not need a connection.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, revoked revocation.Repository,
	notifier mailer.Notifier, l logging.Logger, cfg *config.Config) *AuthService {
	return &AuthService{
		db:                  db,
		repomanager:         m,
		revoked:             revoked,
		notifier:            notifier,
		logger:              l.With("module", "auth_service"),
		jwtSecret:           []byte(cfg.SecretKey),
		accessTokenValidity: cfg.AccessTokenValidityDuration,
		resetCodeValidity:   cfg.PasswordResetCodeValidityDuration,
		notificationTimeout: cfg.NotificationTimeout,
		bcryptCost:          cfg.BcryptCost,
		now:                 time.Now,
		generateCode:        otp.Generate,
	}
}

func (s *AuthService) users() users.Repository {
	return s.repomanager.Users(s.db)
}

// Register creates an unverified account and mails it a verification code.
func (s *AuthService) Register(ctx context.Context, email, password, confirmation string) (string, error) {
	email = validation.NormalizeEmail(email)
	if email == "" || password == "" || confirmation == "" {
		return "", validationError(msgRegisterRequired)
	}
	if password != confirmation {
		return "", validationError(msgPasswordsMismatch)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return "", validationError(err.Error())
	}
	if !validation.ValidateEmail(email) {
		return "", validationError(msgInvalidEmail)
	}

	repo := s.users()
	_, err := repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return "", conflictError(msgUserExists)
	case !errors.Is(err, common.ErrorNotFound):
		return "", s.internal(ctx, "register: lookup", err, msgRegisterFailed)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return "", s.internal(ctx, "register: hash password", err, msgRegisterFailed)
	}
	code, err := s.generateCode()
	if err != nil {
		return "", s.internal(ctx, "register: generate code", err, msgRegisterFailed)
	}

	u, err := repo.Create(ctx, email, hash, code)
	if err != nil {
		// a concurrent registration won the unique index
		if errors.Is(err, common.ErrorAlreadyExists) {
			return "", conflictError(msgUserExists)
		}
		return "", s.internal(ctx, "register: create", err, msgRegisterFailed)
	}

	s.logger.Info(ctx, "user registered", "user_id", u.ID)
	s.notify(ctx, email, mailer.WelcomeMessage(code))
	return msgRegistered, nil
}

// Verify consumes the verification code and marks the email verified.
func (s *AuthService) Verify(ctx context.Context, email, code string) (string, error) {
	email = validation.NormalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return "", validationError(msgVerifyRequired)
	}

	repo := s.users()
	u, err := repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", notFoundError(msgUserNotFound)
		}
		return "", s.internal(ctx, "verify: lookup", err, msgInternal)
	}

	ok, err := repo.CheckVerificationCode(ctx, email, code)
	if err != nil {
		return "", s.internal(ctx, "verify: check code", err, msgInternal)
	}
	if !ok {
		return "", validationError(msgInvalidCode)
	}

	// the write re-checks the code so a concurrent resend or reset wins
	if err := repo.SetEmailVerified(ctx, u.ID, code); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", validationError(msgInvalidCode)
		}
		return "", s.internal(ctx, "verify: mark verified", err, msgInternal)
	}

	s.logger.Info(ctx, "email verified", "user_id", u.ID)
	return msgVerified, nil
}

// ResendVerification issues a fresh code to an account that is still unverified.
func (s *AuthService) ResendVerification(ctx context.Context, email string) (string, error) {
	email = validation.NormalizeEmail(email)
	if email == "" {
		return "", validationError(msgEmailRequired)
	}

	repo := s.users()
	u, err := repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", notFoundError(msgUserNotFound)
		}
		return "", s.internal(ctx, "resend: lookup", err, msgInternal)
	}
	if u.EmailVerified {
		return "", unauthorizedError(msgAlreadyVerified)
	}

	code, err := s.generateCode()
	if err != nil {
		return "", s.internal(ctx, "resend: generate code", err, msgInternal)
	}
	if err := repo.SetVerificationCode(ctx, email, code); err != nil {
		return "", s.internal(ctx, "resend: store code", err, msgInternal)
	}

	s.notify(ctx, email, mailer.VerificationMessage(code))
	return msgCodeResent, nil
}

// Login checks credentials and returns a signed session token. Unknown
// accounts and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = validation.NormalizeEmail(email)
	if email == "" || password == "" {
		return "", validationError(msgLoginRequired)
	}

	u, err := s.users().FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// burn comparable time so response latency does not reveal the miss
			_, _ = auth.CheckPassword(s.getDummyHash(), password)
			return "", unauthorizedError(msgInvalidCredentials)
		}
		return "", s.internal(ctx, "login: lookup", err, msgInternal)
	}

	ok, err := auth.CheckPassword(u.PasswordHash, password)
	if err != nil {
		return "", s.internal(ctx, "login: compare hash", err, msgInternal)
	}
	if !ok {
		return "", unauthorizedError(msgInvalidCredentials)
	}
	if !u.EmailVerified {
		return "", unauthorizedError(msgEmailNotVerified)
	}

	token, err := auth.GenerateToken(u.ID, u.Email, s.jwtSecret, s.accessTokenValidity)
	if err != nil {
		return "", s.internal(ctx, "login: sign token", err, msgInternal)
	}

	s.logger.Info(ctx, "user logged in", "user_id", u.ID)
	return token, nil
}

// ForgotPassword answers the same way whether or not the account exists.
// Only an existing account gets a reset code and an email.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	email = validation.NormalizeEmail(email)
	if email == "" {
		return "", validationError(msgEmailRequired)
	}

	repo := s.users()
	if _, err := repo.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return msgForgotSent, nil
		}
		return "", s.internal(ctx, "forgot: lookup", err, msgInternal)
	}

	code, err := s.generateCode()
	if err != nil {
		return "", s.internal(ctx, "forgot: generate code", err, msgInternal)
	}
	expiry := s.now().Add(s.resetCodeValidity)
	if err := repo.SetPasswordResetCode(ctx, email, code, expiry); err != nil {
		return "", s.internal(ctx, "forgot: store code", err, msgInternal)
	}

	s.notify(ctx, email, mailer.PasswordResetMessage(code, s.resetCodeValidity))
	return msgForgotSent, nil
}

// ResetPassword replaces the password when code is an unexpired reset code.
// An unknown account gets a neutral message and no error.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword, confirmation string) (string, error) {
	email = validation.NormalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" || newPassword == "" || confirmation == "" {
		return "", validationError(msgResetRequired)
	}
	if newPassword != confirmation {
		return "", validationError(msgPasswordsMismatch)
	}
	if err := validation.ValidatePassword(newPassword); err != nil {
		return "", validationError(err.Error())
	}

	repo := s.users()
	if _, err := repo.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return msgInvalidResetCode, nil
		}
		return "", s.internal(ctx, "reset: lookup", err, msgInternal)
	}

	ok, err := repo.CheckResetCode(ctx, email, code, s.now())
	if err != nil {
		return "", s.internal(ctx, "reset: check code", err, msgInternal)
	}
	if !ok {
		return "", validationError(msgInvalidResetCode)
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return "", s.internal(ctx, "reset: hash password", err, msgInternal)
	}
	// only one request can consume the code; the others see it gone
	if err := repo.UpdatePassword(ctx, email, code, hash, s.now()); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", validationError(msgInvalidResetCode)
		}
		return "", s.internal(ctx, "reset: update password", err, msgInternal)
	}

	s.logger.Info(ctx, "password reset", "email", email)
	return msgPasswordResetDone, nil
}

// Authenticate verifies a bearer token and rejects revoked ones.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, unauthorizedError(msgTokenInvalid).wrap(err)
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, s.internal(ctx, "authenticate: revocation lookup", err, msgInternal)
	}
	if revoked {
		return nil, unauthorizedError(msgTokenRevoked).wrap(common.ErrTokenRevoked)
	}
	return claims, nil
}

// Logout revokes the token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) (string, error) {
	if err := s.revoked.Revoke(ctx, claims.ID, claims.TTL(s.now())); err != nil {
		return "", s.internal(ctx, "logout: revoke", err, msgInternal)
	}
	s.logger.Info(ctx, "user logged out", "user_id", claims.UserID)
	return msgLoggedOut, nil
}

// Me returns the account the token was issued for.
func (s *AuthService) Me(ctx context.Context, claims *auth.Claims) (*models.User, error) {
	u, err := s.users().FindByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, unauthorizedError(msgTokenInvalid)
		}
		return nil, s.internal(ctx, "me: lookup", err, msgInternal)
	}
	if u.ID != claims.UserID {
		return nil, unauthorizedError(msgTokenInvalid)
	}
	return u, nil
}

// notify sends msg after the triggering change has been stored. It waits at
// most notificationTimeout and only logs a failure.
func (s *AuthService) notify(ctx context.Context, to string, msg mailer.Message) {
	ctx = context.WithoutCancel(ctx)
	if s.notificationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.notificationTimeout)
		defer cancel()
	}

	if err := s.notifier.Send(ctx, to, msg.Subject, msg.Body); err != nil {
		s.logger.Error(ctx, "email dispatch failed", "to", to, "subject", msg.Subject, "error", err)
	}
}

func (s *AuthService) internal(ctx context.Context, op string, err error, msg string) *Error {
	s.logger.Error(ctx, op, "error", err)
	return internalError(msg)
}

func (s *AuthService) getDummyHash() string {
	s.dummyHashOnce.Do(func() {
		s.dummyHash, _ = auth.HashPassword("dummy-password", s.bcryptCost)
	})
	return s.dummyHash
}
