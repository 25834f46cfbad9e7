package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const (
	qFind       = `(?s)^SELECT\s+id,\s*email,\s*password_hash,\s*email_verified,\s*verification_code,\s*password_reset_code_expiry,\s*created_at,\s*updated_at\s+FROM\s+users\s+WHERE\s+lower\(email\)\s*=\s*lower\(\$1\)\s*$`
	qCreate     = `(?s)^INSERT\s+INTO\s+users\s*\(email,\s*password_hash,\s*email_verified,\s*verification_code\)\s*VALUES\s*\(\$1,\s*\$2,\s*false,\s*\$3\)\s*RETURNING\s+id,\s*created_at,\s*updated_at\s*$`
	qVerified   = `(?s)^UPDATE\s+users\s+SET\s+email_verified\s*=\s*true,\s*verification_code\s*=\s*NULL,\s*updated_at\s*=\s*now\(\)\s+WHERE\s+id\s*=\s*\$1\s+AND\s+email_verified\s*=\s*false\s+AND\s+verification_code\s*=\s*\$2\s+AND\s+password_reset_code_expiry\s+IS\s+NULL\s*$`
	qSetCode    = `(?s)^UPDATE\s+users\s+SET\s+verification_code\s*=\s*\$2,\s*password_reset_code_expiry\s*=\s*NULL,\s*updated_at\s*=\s*now\(\)\s+WHERE\s+lower\(email\)\s*=\s*lower\(\$1\)\s*$`
	qSetReset   = `(?s)^UPDATE\s+users\s+SET\s+verification_code\s*=\s*\$2,\s*password_reset_code_expiry\s*=\s*\$3,\s*updated_at\s*=\s*now\(\)\s+WHERE\s+lower\(email\)\s*=\s*lower\(\$1\)\s*$`
	qCheckReset = `(?s)^SELECT\s+EXISTS\s*\(\s*SELECT\s+1\s+FROM\s+users\s+WHERE\s+lower\(email\)\s*=\s*lower\(\$1\)\s+AND\s+verification_code\s*=\s*\$2\s+AND\s+password_reset_code_expiry\s*>\s*\$3\s*\)\s*$`
	qCheckCode  = `(?s)^SELECT\s+EXISTS\s*\(\s*SELECT\s+1\s+FROM\s+users\s+WHERE\s+lower\(email\)\s*=\s*lower\(\$1\)\s+AND\s+verification_code\s*=\s*\$2\s+AND\s+password_reset_code_expiry\s+IS\s+NULL\s*\)\s*$`
	qPassword   = `(?s)^UPDATE\s+users\s+SET\s+password_hash\s*=\s*\$2,\s*verification_code\s*=\s*NULL,\s*password_reset_code_expiry\s*=\s*NULL,\s*updated_at\s*=\s*now\(\)\s+WHERE\s+lower\(email\)\s*=\s*lower\(\$1\)\s+AND\s+verification_code\s*=\s*\$3\s+AND\s+password_reset_code_expiry\s*>\s*\$4\s*$`
)

var userColumns = []string{"id", "email", "password_hash", "email_verified", "verification_code", "password_reset_code_expiry", "created_at", "updated_at"}

func TestFindByEmail_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	expiry := created.Add(20 * time.Minute)
	rows := sqlmock.NewRows(userColumns).
		AddRow("u-1", "a@b.com", "hash", false, "123456", expiry, created, created)
	mock.ExpectQuery(qFind).WithArgs("a@b.com").WillReturnRows(rows)

	got, err := repo.FindByEmail(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.ID)
	assert.Equal(t, "a@b.com", got.Email)
	assert.Equal(t, "hash", got.PasswordHash)
	assert.False(t, got.EmailVerified)
	require.NotNil(t, got.VerificationCode)
	assert.Equal(t, "123456", *got.VerificationCode)
	require.NotNil(t, got.PasswordResetCodeExpiry)
	assert.True(t, expiry.Equal(*got.PasswordResetCodeExpiry))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByEmail_NullColumns(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows(userColumns).
		AddRow("u-1", "a@b.com", "hash", true, nil, nil, now, now)
	mock.ExpectQuery(qFind).WithArgs("a@b.com").WillReturnRows(rows)

	got, err := repo.FindByEmail(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.True(t, got.EmailVerified)
	assert.Nil(t, got.VerificationCode)
	assert.Nil(t, got.PasswordResetCodeExpiry)
}

func TestFindByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qFind).WithArgs("ghost@b.com").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "ghost@b.com")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestFindByEmail_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qFind).WithArgs("a@b.com").WillReturnError(errors.New("db err"))

	_, err := repo.FindByEmail(context.Background(), "a@b.com")
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("42", now, now)
	mock.ExpectQuery(qCreate).WithArgs("a@b.com", "hash", "123456").WillReturnRows(rows)

	got, err := repo.Create(context.Background(), "a@b.com", "hash", "123456")
	require.NoError(t, err)
	assert.Equal(t, "42", got.ID)
	assert.Equal(t, "a@b.com", got.Email)
	assert.False(t, got.EmailVerified)
	require.NotNil(t, got.VerificationCode)
	assert.Equal(t, "123456", *got.VerificationCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_UniqueViolation(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qCreate).
		WithArgs("a@b.com", "hash", "123456").
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value"})

	_, err := repo.Create(context.Background(), "a@b.com", "hash", "123456")
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("want common.ErrorAlreadyExists, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qCreate).
		WithArgs("a@b.com", "hash", "123456").
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), "a@b.com", "hash", "123456")
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestSetEmailVerified(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(qVerified).WithArgs("u-1", "123456").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.SetEmailVerified(context.Background(), "u-1", "123456"))

	// stale code, reset code or already verified: the guard matches no row
	mock.ExpectExec(qVerified).WithArgs("u-2", "123456").WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.SetEmailVerified(context.Background(), "u-2", "123456")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	mock.ExpectExec(qVerified).WithArgs("u-3", "123456").WillReturnError(errors.New("db err"))
	err = repo.SetEmailVerified(context.Background(), "u-3", "123456")
	assert.Regexp(t, `db error: .*db err`, err.Error())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetVerificationCode(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(qSetCode).WithArgs("a@b.com", "654321").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.SetVerificationCode(context.Background(), "a@b.com", "654321"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetPasswordResetCode(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	expiry := time.Now().Add(20 * time.Minute)
	mock.ExpectExec(qSetReset).WithArgs("a@b.com", "111111", expiry).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.SetPasswordResetCode(context.Background(), "a@b.com", "111111", expiry))

	mock.ExpectExec(qSetReset).WithArgs("ghost@b.com", "111111", expiry).WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.SetPasswordResetCode(context.Background(), "ghost@b.com", "111111", expiry)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckResetCode(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(qCheckReset).WithArgs("a@b.com", "111111", now).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	ok, err := repo.CheckResetCode(context.Background(), "a@b.com", "111111", now)
	require.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectQuery(qCheckReset).WithArgs("a@b.com", "222222", now).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	ok, err = repo.CheckResetCode(context.Background(), "a@b.com", "222222", now)
	require.NoError(t, err)
	assert.False(t, ok)

	mock.ExpectQuery(qCheckReset).WithArgs("a@b.com", "333333", now).WillReturnError(errors.New("db err"))
	_, err = repo.CheckResetCode(context.Background(), "a@b.com", "333333", now)
	assert.Regexp(t, `db error: .*db err`, err.Error())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckVerificationCode(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qCheckCode).WithArgs("a@b.com", "123456").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	ok, err := repo.CheckVerificationCode(context.Background(), "a@b.com", "123456")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePassword(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectExec(qPassword).WithArgs("a@b.com", "newhash", "111111", now).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpdatePassword(context.Background(), "a@b.com", "111111", "newhash", now))

	// code already consumed or expired
	mock.ExpectExec(qPassword).WithArgs("a@b.com", "newhash", "111111", now).WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.UpdatePassword(context.Background(), "a@b.com", "111111", "newhash", now)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	mock.ExpectExec(qPassword).WithArgs("a@b.com", "newhash", "111111", now).
		WillReturnResult(sqlmock.NewErrorResult(errors.New("rows unknown")))
	err = repo.UpdatePassword(context.Background(), "a@b.com", "111111", "newhash", now)
	assert.Regexp(t, `db error: .*rows unknown`, err.Error())

	assert.NoError(t, mock.ExpectationsWereMet())
}
