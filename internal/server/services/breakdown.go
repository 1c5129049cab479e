package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/cardsync/internal/common"
	"github.com/dmitrijs2005/cardsync/internal/server/models"
	"github.com/dmitrijs2005/cardsync/internal/server/repositories/repomanager"
)

// BreakdownService owns the shared term-breakdown dictionary. Anyone may
// create an entry or fill an empty one; replacing an entry that already has
// content is restricted to administrators.
type BreakdownService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager

	// now is a test seam
	now func() int64
}

func NewBreakdownService(db *sql.DB, m repomanager.RepositoryManager) *BreakdownService {
	return &BreakdownService{db: db, repomanager: m, now: func() int64 { return time.Now().Unix() }}
}

// List returns the whole dictionary. It is public: breakdowns are reference
// content, not per-user state.
func (s *BreakdownService) List(ctx context.Context) (map[string]models.Breakdown, error) {
	return s.repomanager.Breakdowns(s.db).GetAll(ctx)
}

// Save stores a breakdown on behalf of user. If the card already has an
// entry with content and the user is not an administrator, the write is
// refused with common.ErrorForbidden.
func (s *BreakdownService) Save(ctx context.Context, user *models.User, b models.Breakdown) error {
	repo := s.repomanager.Breakdowns(s.db)

	existing, err := repo.Get(ctx, b.CardID)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return err
	}

	if existing.HasContent() && !user.IsAdmin {
		return common.ErrorForbidden
	}

	b.UpdatedAt = s.now()
	b.UpdatedBy = user.Username
	return repo.Upsert(ctx, &b)
}
