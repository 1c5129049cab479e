package models

// ProgressEntry is one card's study state inside a user's ledger.
// UpdatedAt is unix seconds; ordering between devices is decided on it.
type ProgressEntry struct {
	Status    string
	UpdatedAt int64
}

// ValidStatus reports whether s is one of the recognized study statuses.
func ValidStatus(s string) bool {
	switch s {
	case "active", "unsure", "learned", "deleted":
		return true
	}
	return false
}
