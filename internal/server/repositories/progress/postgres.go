package progress

import (
	"context"
	"database/sql"
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

func (r *PostgresRepository) Get(ctx context.Context, userID, cardID string) (*models.ProgressEntry, error) {
	query :=
		`SELECT status, updated_at FROM progress
		 WHERE user_id = $1 AND card_id = $2
		 `

	e := &models.ProgressEntry{}
	err := r.db.QueryRowContext(ctx, query, userID, cardID).Scan(&e.Status, &e.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return e, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, userID, cardID string, e models.ProgressEntry) error {
	query :=
		`INSERT INTO progress (user_id, card_id, status, updated_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, card_id) DO UPDATE
		 SET status = excluded.status, updated_at = excluded.updated_at
		 `

	if _, err := r.db.ExecContext(ctx, query, userID, cardID, e.Status, e.UpdatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetAll(ctx context.Context, userID string) (map[string]models.ProgressEntry, error) {
	query :=
		`SELECT card_id, status, updated_at FROM progress
		 WHERE user_id = $1
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make(map[string]models.ProgressEntry)
	for rows.Next() {
		var cardID string
		var e models.ProgressEntry
		if err := rows.Scan(&cardID, &e.Status, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result[cardID] = e
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
