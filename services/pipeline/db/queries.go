package db

import (
	"context"
	"database/sql"
	"time"
)

type Queries struct {
	db *sql.DB
}

func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

// IsCompleted reports whether the row was recorded as processed in a
// previous run of the workflow.
func (q *Queries) IsCompleted(ctx context.Context, workflow, rowKey string) (bool, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM completed WHERE workflow = ? AND row_key = ?`,
		workflow, rowKey,
	)
	var count int
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// MarkCompleted records a row as processed. Re-marking a row updates
// its outcome and timestamp.
func (q *Queries) MarkCompleted(ctx context.Context, workflow, rowKey, outcome string) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO completed (workflow, row_key, outcome, completed_at)
		 VALUES (?, ?, ?, ?)`,
		workflow, rowKey, outcome, time.Now().Unix(),
	)
	return err
}
