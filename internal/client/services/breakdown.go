package services

import (
	"context"
	"strings"
	"unicode"

	"github.com/dmitrijs2005/cardsync/internal/client/api"
	"github.com/dmitrijs2005/cardsync/internal/client/models"
	"github.com/dmitrijs2005/cardsync/internal/client/repositories/breakdowns"
	"github.com/dmitrijs2005/cardsync/internal/logging"
)

// BreakdownService distributes the shared term-breakdown dictionary:
// one-way pull from the server (server wins unconditionally) plus
// contribution of new entries, with overwrites of existing content
// restricted to administrators by the server.
type BreakdownService struct {
	client api.Client
	repo   breakdowns.Repository
	logger logging.Logger
}

func NewBreakdownService(client api.Client, repo breakdowns.Repository, logger logging.Logger) *BreakdownService {
	return &BreakdownService{client: client, repo: repo, logger: logger.With("module", "breakdowns")}
}

// PullAll fetches the whole shared dictionary (no session required) and
// replaces the local cache wholesale. Breakdowns are collaborative reference
// content, not per-user state, so there is nothing to merge.
func (s *BreakdownService) PullAll(ctx context.Context) error {
	all, err := s.client.PullBreakdowns(ctx)
	if err != nil {
		return err
	}
	if err := s.repo.ReplaceAll(ctx, all); err != nil {
		return err
	}
	s.logger.Info(ctx, "breakdowns refreshed", "count", len(all))
	return nil
}

// Save submits a breakdown to the server. The server rejects an overwrite of
// existing content from a non-administrator with api.ErrForbidden; the local
// cache is only updated after the server accepts.
func (s *BreakdownService) Save(ctx context.Context, session *models.AuthSession, b models.TermBreakdown) error {
	if !session.Valid() {
		return api.ErrUnauthenticated
	}
	if err := s.client.SaveBreakdown(ctx, session.Token, b); err != nil {
		return err
	}
	// refresh the accepted entry in the cache alongside its siblings
	return s.PullAll(ctx)
}

// Get reads a breakdown from the local cache.
func (s *BreakdownService) Get(ctx context.Context, cardID string) (*models.TermBreakdown, error) {
	return s.repo.Get(ctx, cardID)
}

// List returns the cached dictionary.
func (s *BreakdownService) List(ctx context.Context) (map[string]models.TermBreakdown, error) {
	return s.repo.GetAll(ctx)
}

// AutoFill splits a term into candidate fragments on case, hyphen, space,
// and underscore boundaries. It is a pure local heuristic: no session, no
// network, never fails.
func AutoFill(term string) models.TermBreakdown {
	fragments := splitTerm(term)

	parts := make([]models.BreakdownPart, 0, len(fragments))
	for _, f := range fragments {
		parts = append(parts, models.BreakdownPart{Fragment: f})
	}
	return models.TermBreakdown{Term: term, Parts: parts}
}

func splitTerm(term string) []string {
	var out []string
	var cur strings.Builder

	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}

	runes := []rune(term)
	for i, r := range runes {
		switch {
		case r == '-' || r == ' ' || r == '_':
			flush()
		case unicode.IsUpper(r) && i > 0 && unicode.IsLower(runes[i-1]):
			// lower→upper transition starts a new fragment
			flush()
			cur.WriteRune(r)
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return out
}
