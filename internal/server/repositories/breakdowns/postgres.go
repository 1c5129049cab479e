package breakdowns

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cardsync/internal/common"
	"github.com/dmitrijs2005/cardsync/internal/dbx"
	"github.com/dmitrijs2005/cardsync/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, cardID string) (*models.Breakdown, error) {
	query :=
		`SELECT card_id, term, parts, literal, notes, updated_at, updated_by FROM breakdowns
		 WHERE card_id = $1
		 `

	row := r.db.QueryRowContext(ctx, query, cardID)
	b, err := scanBreakdown(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return b, nil
}

func (r *PostgresRepository) GetAll(ctx context.Context) (map[string]models.Breakdown, error) {
	query :=
		`SELECT card_id, term, parts, literal, notes, updated_at, updated_by FROM breakdowns`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make(map[string]models.Breakdown)
	for rows.Next() {
		b, err := scanBreakdown(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result[b.CardID] = *b
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, b *models.Breakdown) error {
	parts, err := json.Marshal(b.Parts)
	if err != nil {
		return fmt.Errorf("encoding parts: %w", err)
	}

	query :=
		`INSERT INTO breakdowns (card_id, term, parts, literal, notes, updated_at, updated_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (card_id) DO UPDATE
		 SET term = excluded.term, parts = excluded.parts, literal = excluded.literal,
		     notes = excluded.notes, updated_at = excluded.updated_at, updated_by = excluded.updated_by
		 `

	if _, err := r.db.ExecContext(ctx, query,
		b.CardID, b.Term, parts, b.LiteralTranslation, b.Notes, b.UpdatedAt, b.UpdatedBy); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func scanBreakdown(scan func(...any) error) (*models.Breakdown, error) {
	b := &models.Breakdown{}
	var parts []byte
	if err := scan(&b.CardID, &b.Term, &parts, &b.LiteralTranslation, &b.Notes, &b.UpdatedAt, &b.UpdatedBy); err != nil {
		return nil, err
	}
	if len(parts) > 0 {
		if err := json.Unmarshal(parts, &b.Parts); err != nil {
			return nil, err
		}
	}
	return b, nil
}
