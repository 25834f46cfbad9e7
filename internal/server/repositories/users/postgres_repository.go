package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/dbx"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the SQLSTATE PostgreSQL reports for a duplicate key.
const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT id, email, password_hash, email_verified, verification_code, password_reset_code_expiry, created_at, updated_at
		 FROM users
		 WHERE lower(email) = lower($1)
		 `

	var (
		user   models.User
		code   sql.NullString
		expiry sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.EmailVerified,
		&code, &expiry, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if code.Valid {
		user.VerificationCode = &code.String
	}
	if expiry.Valid {
		user.PasswordResetCodeExpiry = &expiry.Time
	}

	return &user, nil
}

func (r *PostgresRepository) Create(ctx context.Context, email, passwordHash, verificationCode string) (*models.User, error) {
	query :=
		`INSERT INTO users (email, password_hash, email_verified, verification_code)
		 VALUES ($1, $2, false, $3)
		 RETURNING id, created_at, updated_at
		 `

	user := &models.User{
		Email:            email,
		PasswordHash:     passwordHash,
		VerificationCode: &verificationCode,
	}
	err := r.db.QueryRowContext(ctx, query, email, passwordHash, verificationCode).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) SetEmailVerified(ctx context.Context, id, code string) error {
	query :=
		`UPDATE users SET email_verified = true, verification_code = NULL, updated_at = now()
		 WHERE id = $1 AND email_verified = false AND verification_code = $2 AND password_reset_code_expiry IS NULL
		 `
	return r.execOne(ctx, query, id, code)
}

func (r *PostgresRepository) SetVerificationCode(ctx context.Context, email, code string) error {
	query :=
		`UPDATE users SET verification_code = $2, password_reset_code_expiry = NULL, updated_at = now()
		 WHERE lower(email) = lower($1)
		 `
	return r.execOne(ctx, query, email, code)
}

func (r *PostgresRepository) SetPasswordResetCode(ctx context.Context, email, code string, expiry time.Time) error {
	query :=
		`UPDATE users SET verification_code = $2, password_reset_code_expiry = $3, updated_at = now()
		 WHERE lower(email) = lower($1)
		 `
	return r.execOne(ctx, query, email, code, expiry)
}

func (r *PostgresRepository) CheckResetCode(ctx context.Context, email, code string, now time.Time) (bool, error) {
	query :=
		`SELECT EXISTS (
		   SELECT 1 FROM users
		   WHERE lower(email) = lower($1) AND verification_code = $2 AND password_reset_code_expiry > $3
		 )
		 `
	return r.exists(ctx, query, email, code, now)
}

func (r *PostgresRepository) CheckVerificationCode(ctx context.Context, email, code string) (bool, error) {
	query :=
		`SELECT EXISTS (
		   SELECT 1 FROM users
		   WHERE lower(email) = lower($1) AND verification_code = $2 AND password_reset_code_expiry IS NULL
		 )
		 `
	return r.exists(ctx, query, email, code)
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, email, code, passwordHash string, now time.Time) error {
	query :=
		`UPDATE users SET password_hash = $2, verification_code = NULL, password_reset_code_expiry = NULL, updated_at = now()
		 WHERE lower(email) = lower($1) AND verification_code = $3 AND password_reset_code_expiry > $4
		 `
	return r.execOne(ctx, query, email, passwordHash, code, now)
}

// execOne runs an UPDATE that must touch exactly one account. Zero rows,
// whether the account is missing or its guard failed, is common.ErrorNotFound.
func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var ok bool
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&ok); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return ok, nil
}
