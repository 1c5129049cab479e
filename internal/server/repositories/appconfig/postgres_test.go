package appconfig

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/cardsync/internal/common"
	"github.com/dmitrijs2005/cardsync/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestGetValue(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"value"}).AddRow("https://llm.example.com")
	mock.ExpectQuery(`SELECT\s+value\s+FROM\s+app_config`).
		WithArgs("managed_server_url").
		WillReturnRows(rows)

	v, err := repo.GetValue(context.Background(), "managed_server_url")
	if err != nil {
		t.Fatalf("GetValue error: %v", err)
	}
	if v != "https://llm.example.com" {
		t.Fatalf("unexpected value: %q", v)
	}
}

func TestGetValue_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+value\s+FROM\s+app_config`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetValue(context.Background(), "missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestSetValue(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT\s+INTO\s+app_config`).
		WithArgs("managed_server_url", "https://new.example.com").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetValue(context.Background(), "managed_server_url", "https://new.example.com"); err != nil {
		t.Fatalf("SetValue error: %v", err)
	}
}

func TestListAPIKeys(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"name", "key", "model"}).
		AddRow("shared", "sk-1", "m1").
		AddRow("team", "sk-2", "m2")
	mock.ExpectQuery(`SELECT\s+name,\s*key,\s*model\s+FROM\s+api_keys`).WillReturnRows(rows)

	keys, err := repo.ListAPIKeys(context.Background())
	if err != nil {
		t.Fatalf("ListAPIKeys error: %v", err)
	}
	if len(keys) != 2 || keys[1].Model != "m2" {
		t.Fatalf("unexpected keys: %+v", keys)
	}
}

func TestUpsertAPIKey(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT\s+INTO\s+api_keys`).
		WithArgs("shared", "sk-1", "m1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpsertAPIKey(context.Background(), models.APIKey{Name: "shared", Key: "sk-1", Model: "m1"}); err != nil {
		t.Fatalf("UpsertAPIKey error: %v", err)
	}
}
