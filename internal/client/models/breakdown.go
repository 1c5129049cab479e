package models

// BreakdownPart is one labeled fragment of a compound term.
type BreakdownPart struct {
	Fragment string `json:"fragment"`
	Meaning  string `json:"meaning"`
}

// TermBreakdown is a decomposition of a compound term into ordered fragments
// plus a literal translation. Breakdowns are collaborative reference content:
// the server copy is authoritative and the device holds a read cache.
type TermBreakdown struct {
	CardID             string          `json:"id"`
	Term               string          `json:"term"`
	Parts              []BreakdownPart `json:"parts"`
	LiteralTranslation string          `json:"literal"`
	Notes              string          `json:"notes"`
	UpdatedAt          int64           `json:"updated_at"`
	UpdatedBy          string          `json:"updated_by"`
}

// HasContent reports whether the breakdown carries any server-saved content.
// A breakdown with content may only be overwritten by an administrator.
func (b TermBreakdown) HasContent() bool {
	return len(b.Parts) > 0 || b.LiteralTranslation != "" || b.Notes != ""
}
