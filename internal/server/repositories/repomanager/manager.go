// Package repomanager vends backend-specific repository implementations and
// owns schema migrations. The backend is chosen from the database DSN: a
// postgres:// URL selects PostgreSQL (pgx), anything else is treated as a
// SQLite database path.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/smartlearn/internal/dbx"
	"github.com/dmitrijs2005/smartlearn/internal/server/repositories/actionlogs"
	"github.com/dmitrijs2005/smartlearn/internal/server/repositories/knowledge"
	"github.com/dmitrijs2005/smartlearn/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Knowledge(db dbx.DBTX) knowledge.Repository
	ActionLogs(db dbx.DBTX) actionlogs.Repository
}
