package appconfig

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

func (r *PostgresRepository) GetValue(ctx context.Context, key string) (string, error) {
	query := `SELECT value FROM app_config WHERE key = $1`

	var value string
	err := r.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return value, nil
}

func (r *PostgresRepository) SetValue(ctx context.Context, key, value string) error {
	query :=
		`INSERT INTO app_config (key, value)
		 VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value
		 `

	if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListAPIKeys(ctx context.Context) ([]models.APIKey, error) {
	query := `SELECT name, key, model FROM api_keys ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var keys []models.APIKey
	for rows.Next() {
		var k models.APIKey
		if err := rows.Scan(&k.Name, &k.Key, &k.Model); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return keys, nil
}

func (r *PostgresRepository) UpsertAPIKey(ctx context.Context, k models.APIKey) error {
	query :=
		`INSERT INTO api_keys (name, key, model)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (name) DO UPDATE SET key = excluded.key, model = excluded.model
		 `

	if _, err := r.db.ExecContext(ctx, query, k.Name, k.Key, k.Model); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
