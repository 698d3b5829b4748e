package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/templui/goalwizard/internal/model"
)

var (
	ErrTargetNotFound = errors.New("target not found")
)

type TargetRepository interface {
	CreateWithActions(ctx context.Context, target *model.Target, actions []*model.Action) error
	ByID(ctx context.Context, targetID string) (*model.Target, error)
	Targets(ctx context.Context, userID string, includeArchived bool) ([]*model.Target, error)
	Titles(ctx context.Context, targetIDs []string) (map[string]string, error)
	SetArchived(ctx context.Context, targetID string, archived bool) (int64, error)
	Delete(ctx context.Context, targetID string) (int64, error)
}

type targetRepository struct {
	db *sqlx.DB
}

func NewTargetRepository(db *sqlx.DB) TargetRepository {
	return &targetRepository{db: db}
}

// CreateWithActions writes the target and all of its actions in one transaction.
// An action id that is already taken is replaced with a fresh one.
func (r *targetRepository) CreateWithActions(ctx context.Context, target *model.Target, actions []*model.Action) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO targets (id, user_id, title, status, archived, smart, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = tx.ExecContext(ctx, query,
		target.ID,
		target.UserID,
		target.Title,
		target.Status,
		target.Archived,
		target.Smart,
		target.CreatedAt,
		target.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert target: %w", err)
	}

	for i, action := range actions {
		var taken int
		err := tx.GetContext(ctx, &taken, `SELECT COUNT(*) FROM actions WHERE id = $1`, action.ID)
		if err != nil {
			return err
		}
		if taken > 0 {
			action.ID = uuid.New().String()
		}

		if err := insertAction(ctx, tx, action); err != nil {
			return fmt.Errorf("failed to insert action %d: %w", i+1, err)
		}
	}

	return tx.Commit()
}

func (r *targetRepository) ByID(ctx context.Context, targetID string) (*model.Target, error) {
	target := &model.Target{}
	query := `SELECT * FROM targets WHERE id = $1`

	err := r.db.GetContext(ctx, target, query, targetID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTargetNotFound
	}
	if err != nil {
		return nil, err
	}

	return target, nil
}

func (r *targetRepository) Targets(ctx context.Context, userID string, includeArchived bool) ([]*model.Target, error) {
	targets := []*model.Target{}

	query := `SELECT * FROM targets WHERE user_id = $1`
	args := []any{userID}
	if !includeArchived {
		query += ` AND archived = $2`
		args = append(args, false)
	}
	query += ` ORDER BY created_at DESC`

	err := r.db.SelectContext(ctx, &targets, query, args...)
	if err != nil {
		return nil, err
	}

	return targets, nil
}

// Titles resolves target titles for the given ids. Unknown ids are absent from the map.
func (r *targetRepository) Titles(ctx context.Context, targetIDs []string) (map[string]string, error) {
	titles := make(map[string]string, len(targetIDs))
	if len(targetIDs) == 0 {
		return titles, nil
	}

	placeholders := make([]string, len(targetIDs))
	args := make([]any, len(targetIDs))
	for i, id := range targetIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	rows := []struct {
		ID    string `db:"id"`
		Title string `db:"title"`
	}{}
	query := `SELECT id, title FROM targets WHERE id IN (` + strings.Join(placeholders, ", ") + `)`

	err := r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		titles[row.ID] = row.Title
	}
	return titles, nil
}

// SetArchived flips the target and every action under it, returning how many
// actions were touched.
func (r *targetRepository) SetArchived(ctx context.Context, targetID string, archived bool) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	status := model.TargetStatusActive
	if archived {
		status = model.TargetStatusArchived
	}
	now := time.Now().UTC()

	result, err := tx.ExecContext(ctx,
		`UPDATE targets SET archived = $1, status = $2, updated_at = $3 WHERE id = $4`,
		archived, status, now, targetID)
	if err != nil {
		return 0, err
	}
	if err := expectRows(result, ErrTargetNotFound); err != nil {
		return 0, err
	}

	result, err = tx.ExecContext(ctx,
		`UPDATE actions SET is_archived = $1, updated_at = $2 WHERE target_id = $3`,
		archived, now, targetID)
	if err != nil {
		return 0, err
	}
	updated, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	return updated, tx.Commit()
}

// Delete removes the target, its actions and their completions.
func (r *targetRepository) Delete(ctx context.Context, targetID string) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`DELETE FROM completions WHERE action_id IN (SELECT id FROM actions WHERE target_id = $1)`, targetID)
	if err != nil {
		return 0, err
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM actions WHERE target_id = $1`, targetID)
	if err != nil {
		return 0, err
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	result, err = tx.ExecContext(ctx, `DELETE FROM targets WHERE id = $1`, targetID)
	if err != nil {
		return 0, err
	}
	if err := expectRows(result, ErrTargetNotFound); err != nil {
		return 0, err
	}

	return deleted, tx.Commit()
}

func expectRows(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
