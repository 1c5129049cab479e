package breakdowns

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cardsync/internal/client/models"
	"github.com/dmitrijs2005/cardsync/internal/common"
	"github.com/dmitrijs2005/cardsync/internal/dbx"
)

// SQLiteRepository implements Repository over a local SQLite database.
// Unlike the other repos it is bound to *sql.DB directly because ReplaceAll
// needs its own transaction.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, cardID string) (*models.TermBreakdown, error) {
	query := `SELECT term, parts, literal, notes, updated_at, updated_by FROM breakdowns WHERE card_id = ?`
	row := r.db.QueryRowContext(ctx, query, cardID)

	b := &models.TermBreakdown{CardID: cardID}
	var parts string
	if err := row.Scan(&b.Term, &parts, &b.LiteralTranslation, &b.Notes, &b.UpdatedAt, &b.UpdatedBy); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to get breakdown[%s]: %w", cardID, err)
	}
	if err := json.Unmarshal([]byte(parts), &b.Parts); err != nil {
		return nil, fmt.Errorf("breakdown[%s] parts: %w", cardID, err)
	}
	return b, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) (map[string]models.TermBreakdown, error) {
	query := `SELECT card_id, term, parts, literal, notes, updated_at, updated_by FROM breakdowns`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select breakdowns: %w", err)
	}
	defer rows.Close()

	result := make(map[string]models.TermBreakdown)
	for rows.Next() {
		var b models.TermBreakdown
		var parts string
		if err := rows.Scan(&b.CardID, &b.Term, &parts, &b.LiteralTranslation, &b.Notes, &b.UpdatedAt, &b.UpdatedBy); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(parts), &b.Parts); err != nil {
			return nil, fmt.Errorf("breakdown[%s] parts: %w", b.CardID, err)
		}
		result[b.CardID] = b
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) ReplaceAll(ctx context.Context, all map[string]models.TermBreakdown) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM breakdowns`); err != nil {
			return fmt.Errorf("failed to clear breakdowns: %w", err)
		}
		query := `INSERT INTO breakdowns (card_id, term, parts, literal, notes, updated_at, updated_by)
			VALUES (?, ?, ?, ?, ?, ?, ?)`
		for id, b := range all {
			parts, err := json.Marshal(b.Parts)
			if err != nil {
				return fmt.Errorf("failed to encode parts[%s]: %w", id, err)
			}
			if _, err := tx.ExecContext(ctx, query,
				id, b.Term, string(parts), b.LiteralTranslation, b.Notes, b.UpdatedAt, b.UpdatedBy); err != nil {
				return fmt.Errorf("failed to insert breakdown[%s]: %w", id, err)
			}
		}
		return nil
	})
}
