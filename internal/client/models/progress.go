// Package models defines the typed domain model shared by the client
// services: card study status, progress entries, term breakdowns, the auth
// session, and the server-distributed config record.
package models

import "github.com/dmitrijs2005/cardsync/internal/common"

// CardStatus is the study status of a single card. Exactly one status holds
// per card at any time; a card with no explicit entry is StatusActive.
type CardStatus string

const (
	StatusActive  CardStatus = "active"
	StatusUnsure  CardStatus = "unsure"
	StatusLearned CardStatus = "learned"
	StatusDeleted CardStatus = "deleted"
)

// ParseCardStatus converts a wire/storage string into a CardStatus.
// Unknown strings yield common.ErrorInvalidStatus rather than a silent default.
func ParseCardStatus(s string) (CardStatus, error) {
	switch CardStatus(s) {
	case StatusActive, StatusUnsure, StatusLearned, StatusDeleted:
		return CardStatus(s), nil
	default:
		return "", common.ErrorInvalidStatus
	}
}

// ProgressEntry records the status of one card and when it was last changed.
// UpdatedAt is unix seconds and strictly increases on every local mutation;
// it is the merge key for conflict resolution.
type ProgressEntry struct {
	Status    CardStatus `json:"status"`
	UpdatedAt int64      `json:"updated_at"`
}

// ProgressLedger maps card id to its progress entry. Cards absent from the
// map are implicitly {StatusActive, 0}.
type ProgressLedger map[string]ProgressEntry

// DefaultEntry is the implicit entry of an untouched card.
func DefaultEntry() ProgressEntry {
	return ProgressEntry{Status: StatusActive, UpdatedAt: 0}
}

// Newer reports whether e should win over other under last-write-wins.
// Equal timestamps do not count as newer, so ties resolve in favor of the
// entry Newer is compared against (the caller puts the server entry there).
func (e ProgressEntry) Newer(other ProgressEntry) bool {
	return e.UpdatedAt > other.UpdatedAt
}
