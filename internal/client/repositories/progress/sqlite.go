package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cardsync/internal/client/models"
	"github.com/dmitrijs2005/cardsync/internal/common"
	"github.com/dmitrijs2005/cardsync/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, cardID string) (*models.ProgressEntry, error) {
	query := `SELECT status, updated_at FROM progress WHERE card_id = ?`
	row := r.db.QueryRowContext(ctx, query, cardID)

	var status string
	e := &models.ProgressEntry{}
	if err := row.Scan(&status, &e.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to get progress[%s]: %w", cardID, err)
	}

	parsed, err := models.ParseCardStatus(status)
	if err != nil {
		return nil, fmt.Errorf("progress[%s]: %w", cardID, err)
	}
	e.Status = parsed
	return e, nil
}

func (r *SQLiteRepository) Upsert(ctx context.Context, cardID string, e models.ProgressEntry, pending bool) error {
	query := `INSERT INTO progress (card_id, status, updated_at, pending)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(card_id) DO UPDATE SET status = excluded.status,
			updated_at = excluded.updated_at,
			pending = excluded.pending
	`
	p := 0
	if pending {
		p = 1
	}
	if _, err := r.db.ExecContext(ctx, query, cardID, string(e.Status), e.UpdatedAt, p); err != nil {
		return fmt.Errorf("failed to upsert progress[%s]: %w", cardID, err)
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) (models.ProgressLedger, error) {
	return r.selectLedger(ctx, `SELECT card_id, status, updated_at FROM progress`)
}

func (r *SQLiteRepository) GetPending(ctx context.Context) (models.ProgressLedger, error) {
	return r.selectLedger(ctx, `SELECT card_id, status, updated_at FROM progress WHERE pending = 1`)
}

func (r *SQLiteRepository) selectLedger(ctx context.Context, query string) (models.ProgressLedger, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select progress: %w", err)
	}
	defer rows.Close()

	result := models.ProgressLedger{}
	for rows.Next() {
		var id, status string
		var updatedAt int64
		if err := rows.Scan(&id, &status, &updatedAt); err != nil {
			return nil, err
		}
		parsed, err := models.ParseCardStatus(status)
		if err != nil {
			return nil, fmt.Errorf("progress[%s]: %w", id, err)
		}
		result[id] = models.ProgressEntry{Status: parsed, UpdatedAt: updatedAt}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) ClearPending(ctx context.Context, cardID string, upTo int64) error {
	query := `UPDATE progress SET pending = 0 WHERE card_id = ? AND updated_at <= ?`
	if _, err := r.db.ExecContext(ctx, query, cardID, upTo); err != nil {
		return fmt.Errorf("failed to clear pending[%s]: %w", cardID, err)
	}
	return nil
}

func (r *SQLiteRepository) MarkAllPending(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE progress SET pending = 1`); err != nil {
		return fmt.Errorf("failed to mark ledger pending: %w", err)
	}
	return nil
}
