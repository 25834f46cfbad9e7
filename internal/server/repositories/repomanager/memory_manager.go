package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/authkeeper/internal/dbx"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/users"
)

// InMemoryRepositoryManager hands out one shared in-memory store regardless
// of the DBTX passed in; there is nothing to migrate.
type InMemoryRepositoryManager struct {
	users *users.MemoryRepository
}

func NewInMemoryRepositoryManager() RepositoryManager {
	return &InMemoryRepositoryManager{users: users.NewMemoryRepository()}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

func (m *InMemoryRepositoryManager) Users(dbx.DBTX) users.Repository {
	return m.users
}
