package models

// BreakdownPart is one fragment of a compound term with its meaning.
type BreakdownPart struct {
	Fragment string `json:"fragment"`
	Meaning  string `json:"meaning"`
}

// Breakdown is a shared dictionary entry decomposing a card's term.
type Breakdown struct {
	CardID             string
	Term               string
	Parts              []BreakdownPart
	LiteralTranslation string
	Notes              string
	UpdatedAt          int64
	UpdatedBy          string
}

// HasContent reports whether the entry carries anything beyond the bare
// term. Overwriting an entry with content is restricted to administrators.
func (b *Breakdown) HasContent() bool {
	if b == nil {
		return false
	}
	if len(b.Parts) > 0 || b.LiteralTranslation != "" || b.Notes != "" {
		return true
	}
	return false
}
