package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/smartlearn/internal/filex"
)

// Open connects to the store named by dsn, picks the matching
// RepositoryManager, and applies pending migrations.
func Open(ctx context.Context, dsn string) (*sql.DB, RepositoryManager, error) {
	var (
		db  *sql.DB
		m   RepositoryManager
		err error
	)

	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		db, err = sql.Open("pgx", dsn)
		m = &PostgresRepositoryManager{}
	} else {
		if err := filex.EnsureParentDir(dsn); err != nil {
			return nil, nil, err
		}
		db, err = sql.Open("sqlite3", SQLiteDSN(dsn))
		m = &SQLiteRepositoryManager{}
	}
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, m, nil
}
