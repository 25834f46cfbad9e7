// Package users declares the account store contract and its PostgreSQL and
// in-memory implementations.
package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/server/models"
)

// Repository persists user accounts. Every method is a single-record atomic
// operation. Emails are matched case-insensitively.
type Repository interface {
	// FindByEmail returns common.ErrorNotFound when no account matches.
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// Create inserts an unverified account holding verificationCode.
	// A duplicate email yields common.ErrorAlreadyExists.
	Create(ctx context.Context, email, passwordHash, verificationCode string) (*models.User, error)

	// SetEmailVerified marks the account verified and clears its code, but only
	// while code is still its outstanding verification code. Otherwise nothing
	// changes and common.ErrorNotFound is returned.
	SetEmailVerified(ctx context.Context, id, code string) error

	// SetVerificationCode replaces the outstanding code and drops any reset expiry.
	SetVerificationCode(ctx context.Context, email, code string) error

	// SetPasswordResetCode stores code together with its expiry.
	SetPasswordResetCode(ctx context.Context, email, code string, expiry time.Time) error

	// CheckResetCode is true only if code matches and now is before the expiry.
	CheckResetCode(ctx context.Context, email, code string, now time.Time) (bool, error)

	// CheckVerificationCode ignores codes issued for a password reset.
	CheckVerificationCode(ctx context.Context, email, code string) (bool, error)

	// UpdatePassword replaces the hash and clears the code and expiry, but only
	// while code is an unexpired reset code at now. Otherwise nothing changes
	// and common.ErrorNotFound is returned, so a reset code is consumed once.
	UpdatePassword(ctx context.Context, email, code, passwordHash string, now time.Time) error
}
