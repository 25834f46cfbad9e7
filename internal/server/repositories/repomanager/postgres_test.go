package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func TestNewPostgresRepositoryManager_ReturnsInterface(t *testing.T) {
	var _ RepositoryManager = NewPostgresRepositoryManager()
}

func TestFactories_ReturnConcreteRepos(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	m := &PostgresRepositoryManager{}

	u := m.Users(db)
	require.NotNil(t, u)
	_, ok := u.(*users.PostgresRepository)
	assert.True(t, ok, "expected *users.PostgresRepository, got %T", u)
}

func TestInMemoryManager_SharesOneStore(t *testing.T) {
	m := NewInMemoryRepositoryManager()

	require.NoError(t, m.RunMigrations(context.Background(), nil))

	a := m.Users(nil)
	b := m.Users(nil)
	assert.Same(t, a, b)

	_, err := a.Create(context.Background(), "a@b.com", "h", "123456")
	require.NoError(t, err)
	_, err = b.FindByEmail(context.Background(), "a@b.com")
	assert.NoError(t, err)
}

func TestRunMigrations_Success(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if dir != "." {
			return errors.New("unexpected dir")
		}
		if len(opts) != 0 {
			return errors.New("unexpected opts")
		}
		return nil
	}
	defer func() { gooseUpContext = orig }()

	m := &PostgresRepositoryManager{}
	if err := m.RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("RunMigrations error: %v", err)
	}
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	defer func() { gooseUpContext = orig }()

	m := &PostgresRepositoryManager{}
	if err := m.RunMigrations(context.Background(), db); err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestOpenPostgres(t *testing.T) {
	orig := sqlOpen
	defer func() { sqlOpen = orig }()

	t.Run("ping ok", func(t *testing.T) {
		db, mock := newDB(t)
		mock.ExpectPing()
		sqlOpen = func(driver, dsn string) (*sql.DB, error) {
			assert.Equal(t, "pgx", driver)
			assert.Equal(t, "postgres://x", dsn)
			return db, nil
		}

		got, err := OpenPostgres(context.Background(), "postgres://x")
		require.NoError(t, err)
		assert.Same(t, db, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ping fails", func(t *testing.T) {
		db, mock := newDB(t)
		mock.ExpectPing().WillReturnError(errors.New("refused"))
		mock.ExpectClose()
		sqlOpen = func(string, string) (*sql.DB, error) { return db, nil }

		_, err := OpenPostgres(context.Background(), "postgres://x")
		assert.ErrorContains(t, err, "db ping error: refused")
	})

	t.Run("open fails", func(t *testing.T) {
		sqlOpen = func(string, string) (*sql.DB, error) { return nil, errors.New("bad dsn") }

		_, err := OpenPostgres(context.Background(), "::")
		assert.ErrorContains(t, err, "db open error: bad dsn")
	})
}
