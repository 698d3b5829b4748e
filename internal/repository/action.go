package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/goalwizard/internal/model"
)

var (
	ErrActionNotFound = errors.New("action not found")
)

type ActionRepository interface {
	ByID(ctx context.Context, actionID string) (*model.Action, error)
	Actions(ctx context.Context, userID, targetID string) ([]*model.Action, error)
	UpdateStatus(ctx context.Context, actionID string, status model.ActionStatus) error
	Archive(ctx context.Context, actionID string) error
	Delete(ctx context.Context, actionID string) error
}

type actionRepository struct {
	db *sqlx.DB
}

func NewActionRepository(db *sqlx.DB) ActionRepository {
	return &actionRepository{db: db}
}

func insertAction(ctx context.Context, tx *sqlx.Tx, action *model.Action) error {
	query := `INSERT INTO actions (id, target_id, user_id, title, description, frequency, repeat_config,
	              deadline, completed_dates, is_archived, status, sort_order, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := tx.ExecContext(ctx, query,
		action.ID,
		action.TargetID,
		action.UserID,
		action.Title,
		action.Description,
		action.Frequency,
		action.RepeatConfig,
		action.Deadline,
		action.CompletedDates,
		action.IsArchived,
		action.Status,
		action.Order,
		action.CreatedAt,
		action.UpdatedAt,
	)
	return err
}

func (r *actionRepository) ByID(ctx context.Context, actionID string) (*model.Action, error) {
	action := &model.Action{}
	query := `SELECT * FROM actions WHERE id = $1`

	err := r.db.GetContext(ctx, action, query, actionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrActionNotFound
	}
	if err != nil {
		return nil, err
	}

	return action, nil
}

// Actions lists the user's actions by upcoming deadline, optionally scoped to one target.
func (r *actionRepository) Actions(ctx context.Context, userID, targetID string) ([]*model.Action, error) {
	actions := []*model.Action{}

	query := `SELECT * FROM actions WHERE user_id = $1`
	args := []any{userID}
	if targetID != "" {
		query += ` AND target_id = $2`
		args = append(args, targetID)
	}
	query += ` ORDER BY deadline ASC, sort_order ASC`

	err := r.db.SelectContext(ctx, &actions, query, args...)
	if err != nil {
		return nil, err
	}

	return actions, nil
}

func (r *actionRepository) UpdateStatus(ctx context.Context, actionID string, status model.ActionStatus) error {
	query := `UPDATE actions SET status = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, status, time.Now().UTC(), actionID)
	if err != nil {
		return err
	}

	return expectRows(result, ErrActionNotFound)
}

func (r *actionRepository) Archive(ctx context.Context, actionID string) error {
	query := `UPDATE actions SET is_archived = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, true, time.Now().UTC(), actionID)
	if err != nil {
		return err
	}

	return expectRows(result, ErrActionNotFound)
}

func (r *actionRepository) Delete(ctx context.Context, actionID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `DELETE FROM completions WHERE action_id = $1`, actionID)
	if err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM actions WHERE id = $1`, actionID)
	if err != nil {
		return err
	}
	if err := expectRows(result, ErrActionNotFound); err != nil {
		return err
	}

	return tx.Commit()
}
