package repomanager

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dmitrijs2005/smartlearn/internal/dbx"
	"github.com/dmitrijs2005/smartlearn/internal/server/migrations"
	"github.com/dmitrijs2005/smartlearn/internal/server/repositories/actionlogs"
	"github.com/dmitrijs2005/smartlearn/internal/server/repositories/knowledge"
	"github.com/dmitrijs2005/smartlearn/internal/server/repositories/users"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

// SQLiteRepositoryManager vends SQLite-backed repositories.
type SQLiteRepositoryManager struct{}

func (m *SQLiteRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Knowledge(db dbx.DBTX) knowledge.Repository {
	return knowledge.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) ActionLogs(db dbx.DBTX) actionlogs.Repository {
	return actionlogs.NewSQLiteRepository(db)
}

// gooseUpContextSQLite is a seam for testing goose.UpContext.
var gooseUpContextSQLite = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return gooseUpContextSQLite(ctx, db, "sqlite")
}

// SQLiteDSN augments a database path with the connection options the store
// relies on: WAL for concurrent readers, a 5s busy timeout as the bounded
// wait on write contention, and enforced foreign keys for cascade deletes.
// Paths that already carry options are returned unchanged.
func SQLiteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"
}
