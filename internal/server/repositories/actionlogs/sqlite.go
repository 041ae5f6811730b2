package actionlogs

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/smartlearn/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Append(ctx context.Context, userID int64, actionType, ipAddress, details string) error {
	query := `INSERT INTO user_logs (user_id, action_type, ip_address, details)
		VALUES (?, ?, ?, ?)`

	var uid any
	if userID > 0 {
		uid = userID
	}
	if _, err := r.db.ExecContext(ctx, query, uid, actionType, ipAddress, details); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
