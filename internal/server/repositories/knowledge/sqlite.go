package knowledge

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

func (r *SQLiteRepository) InsertIfAbsent(ctx context.Context, userID int64, point string) error {
	query := `INSERT INTO user_knowledge (user_id, knowledge_point)
		VALUES (?, ?)
		ON CONFLICT (user_id, knowledge_point) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, userID, point); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Upsert(ctx context.Context, userID int64, point string, mastery float64) error {
	query := `INSERT INTO user_knowledge (user_id, knowledge_point, mastery_level)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id, knowledge_point) DO UPDATE SET mastery_level = excluded.mastery_level`
	if _, err := r.db.ExecContext(ctx, query, userID, point, mastery); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListByUser(ctx context.Context, userID int64) ([]string, error) {
	query := `SELECT knowledge_point FROM user_knowledge
		WHERE user_id = ?
		ORDER BY learned_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var points []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return points, nil
}

func (r *SQLiteRepository) Remove(ctx context.Context, userID int64, point string) error {
	query := `DELETE FROM user_knowledge WHERE user_id = ? AND knowledge_point = ?`
	if _, err := r.db.ExecContext(ctx, query, userID, point); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context, userID int64) error {
	query := `DELETE FROM user_knowledge WHERE user_id = ?`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
