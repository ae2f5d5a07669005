package models

// ByePlaceholder is the sentinel entry padding a knockout bracket when the
// bracket size exceeds the qualifier count.
const ByePlaceholder = "BYE"

// PreviewPool is one round-robin pool with its assigned placeholder
// participants.
type PreviewPool struct {
	Number       int      `json:"number"`
	Participants []string `json:"participants"`
}

// PreviewPairing is one first-round knockout pairing. A bye pairing has
// exactly one real participant; the other side is the BYE sentinel.
type PreviewPairing struct {
	Slot  int    `json:"slot"`
	Home  string `json:"home"`
	Away  string `json:"away"`
	IsBye bool   `json:"is_bye"`
}

// PreviewStructure is the read-only projection of a category's resolved
// match format over its registered-participant count. It is display data
// only and never feeds back into validation.
type PreviewStructure struct {
	CategoryID   string     `json:"category_id"`
	FormatType   FormatType `json:"format_type"`
	Participants []string   `json:"participants"`

	Pools []PreviewPool `json:"pools,omitempty"`

	BracketSize int              `json:"bracket_size,omitempty"`
	Rounds      int              `json:"rounds,omitempty"`
	Byes        int              `json:"byes,omitempty"`
	Pairings    []PreviewPairing `json:"pairings,omitempty"`
}
