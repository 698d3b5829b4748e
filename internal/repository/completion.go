package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/templui/goalwizard/internal/model"
)

type CompletionRepository interface {
	Add(ctx context.Context, completion *model.Completion) (bool, error)
	Recent(ctx context.Context, actionID string, limit int) ([]*model.Completion, error)
}

type completionRepository struct {
	db *sqlx.DB
}

func NewCompletionRepository(db *sqlx.DB) CompletionRepository {
	return &completionRepository{db: db}
}

// Add records a check-in. It reports false when the action already has one for that day.
func (r *completionRepository) Add(ctx context.Context, completion *model.Completion) (bool, error) {
	query := `INSERT INTO completions (id, action_id, user_id, completion_day, completed_at)
	          VALUES ($1, $2, $3, $4, $5)
	          ON CONFLICT (action_id, completion_day) DO NOTHING`

	result, err := r.db.ExecContext(ctx, query,
		completion.ID,
		completion.ActionID,
		completion.UserID,
		completion.Day,
		completion.CompletedAt,
	)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

// Recent returns the newest check-ins first.
func (r *completionRepository) Recent(ctx context.Context, actionID string, limit int) ([]*model.Completion, error) {
	completions := []*model.Completion{}
	query := `SELECT * FROM completions WHERE action_id = $1 ORDER BY completion_day DESC LIMIT $2`

	err := r.db.SelectContext(ctx, &completions, query, actionID, limit)
	if err != nil {
		return nil, err
	}

	return completions, nil
}
