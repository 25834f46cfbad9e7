package users

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps accounts in process memory. It is meant for local
// runs without PostgreSQL and for tests; nothing survives a restart.
type MemoryRepository struct {
	mu    sync.Mutex
	byKey map[string]*models.User
	now   func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byKey: make(map[string]*models.User), now: time.Now}
}

func key(email string) string { return strings.ToLower(email) }

func clone(u *models.User) *models.User {
	c := *u
	if u.VerificationCode != nil {
		code := *u.VerificationCode
		c.VerificationCode = &code
	}
	if u.PasswordResetCodeExpiry != nil {
		exp := *u.PasswordResetCodeExpiry
		c.PasswordResetCodeExpiry = &exp
	}
	return &c
}

func (r *MemoryRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byKey[key(email)]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(u), nil
}

func (r *MemoryRepository) Create(_ context.Context, email, passwordHash, verificationCode string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key(email)
	if _, ok := r.byKey[k]; ok {
		return nil, common.ErrorAlreadyExists
	}

	now := r.now()
	code := verificationCode
	u := &models.User{
		ID:               uuid.NewString(),
		Email:            email,
		PasswordHash:     passwordHash,
		VerificationCode: &code,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	r.byKey[k] = u
	return clone(u), nil
}

func (r *MemoryRepository) SetEmailVerified(_ context.Context, id, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byKey {
		if u.ID == id {
			if u.EmailVerified || !u.VerificationCodeValid(code) {
				return common.ErrorNotFound
			}
			u.EmailVerified = true
			u.VerificationCode = nil
			u.UpdatedAt = r.now()
			return nil
		}
	}
	return common.ErrorNotFound
}

func (r *MemoryRepository) SetVerificationCode(_ context.Context, email, code string) error {
	return r.update(email, func(u *models.User) {
		u.VerificationCode = &code
		u.PasswordResetCodeExpiry = nil
	})
}

func (r *MemoryRepository) SetPasswordResetCode(_ context.Context, email, code string, expiry time.Time) error {
	return r.update(email, func(u *models.User) {
		u.VerificationCode = &code
		u.PasswordResetCodeExpiry = &expiry
	})
}

func (r *MemoryRepository) CheckResetCode(_ context.Context, email, code string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byKey[key(email)]
	return ok && u.ResetCodeValid(code, now), nil
}

func (r *MemoryRepository) CheckVerificationCode(_ context.Context, email, code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byKey[key(email)]
	return ok && u.VerificationCodeValid(code), nil
}

func (r *MemoryRepository) UpdatePassword(_ context.Context, email, code, passwordHash string, now time.Time) error {
	return r.updateIf(email, func(u *models.User) bool {
		return u.ResetCodeValid(code, now)
	}, func(u *models.User) {
		u.PasswordHash = passwordHash
		u.VerificationCode = nil
		u.PasswordResetCodeExpiry = nil
	})
}

func (r *MemoryRepository) update(email string, fn func(u *models.User)) error {
	return r.updateIf(email, nil, fn)
}

// updateIf applies fn under the lock when guard is nil or accepts the account.
func (r *MemoryRepository) updateIf(email string, guard func(u *models.User) bool, fn func(u *models.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byKey[key(email)]
	if !ok || (guard != nil && !guard(u)) {
		return common.ErrorNotFound
	}
	fn(u)
	u.UpdatedAt = r.now()
	return nil
}
