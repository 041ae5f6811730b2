package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/smartlearn/internal/dbx"
	"github.com/dmitrijs2005/smartlearn/internal/server/migrations"
	"github.com/dmitrijs2005/smartlearn/internal/server/repositories/actionlogs"
	"github.com/dmitrijs2005/smartlearn/internal/server/repositories/knowledge"
	"github.com/dmitrijs2005/smartlearn/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories.
type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Knowledge(db dbx.DBTX) knowledge.Repository {
	return knowledge.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) ActionLogs(db dbx.DBTX) actionlogs.Repository {
	return actionlogs.NewPostgresRepository(db)
}

// gooseUpContextPostgres is a seam for testing goose.UpContext.
var gooseUpContextPostgres = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContextPostgres(ctx, db, "postgres")
}
