package actionlogs

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/smartlearn/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, userID int64, actionType, ipAddress, details string) error {
	query := `INSERT INTO user_logs (user_id, action_type, ip_address, details)
		VALUES ($1, $2, $3, $4)`

	var uid any
	if userID > 0 {
		uid = userID
	}
	if _, err := r.db.ExecContext(ctx, query, uid, actionType, ipAddress, details); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
