package models

// DiscountType distinguishes how a multi-category discount is expressed.
type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountFixed   DiscountType = "fixed"
)

// RegistrationRules holds the tournament-level registration switches the
// category rules interact with. Enabling a team event forces
// AllowMultiCategory (and the discount flag) off, tournament-wide.
type RegistrationRules struct {
	AllowMultiCategory    bool         `json:"allow_multi_category"`
	MultiCategoryDiscount bool         `json:"multi_category_discount"`
	DiscountType          DiscountType `json:"discount_type,omitempty"`
	DiscountValue         *float64     `json:"discount_value,omitempty"`
}

// ConfigSession is the in-memory configuration state for one tournament:
// the category registry, the per-category match formats and the
// registration rules. The session is owned by a single editing flow; all
// mutating calls against it must be serialized by the caller.
type ConfigSession struct {
	TournamentID int

	// Categories maps category id to entity. CategoryOrder preserves the
	// order divisions were added in, for stable listing.
	Categories    map[string]*Category
	CategoryOrder []string

	// Formats maps category id to its match format. Exactly one entry per
	// category once the configuration is finalized; defaults are injected
	// lazily when a category first needs one.
	Formats map[string]*MatchFormat

	Rules RegistrationRules
}

// NewConfigSession returns an empty session for a tournament.
func NewConfigSession(tournamentID int) *ConfigSession {
	return &ConfigSession{
		TournamentID: tournamentID,
		Categories:   make(map[string]*Category),
		Formats:      make(map[string]*MatchFormat),
	}
}

// TeamCategory returns the team-event container if one is selected.
func (s *ConfigSession) TeamCategory() *Category {
	for _, id := range s.CategoryOrder {
		if c := s.Categories[id]; c != nil && c.IsTeam() {
			return c
		}
	}
	return nil
}

// OrderedCategories returns the selected categories in insertion order.
func (s *ConfigSession) OrderedCategories() []*Category {
	out := make([]*Category, 0, len(s.CategoryOrder))
	for _, id := range s.CategoryOrder {
		if c := s.Categories[id]; c != nil {
			out = append(out, c)
		}
	}
	return out
}

// AddCategory inserts a category and tracks its position. No-op when the
// id is already present.
func (s *ConfigSession) AddCategory(c *Category) {
	if _, exists := s.Categories[c.ID]; exists {
		return
	}
	s.Categories[c.ID] = c
	s.CategoryOrder = append(s.CategoryOrder, c.ID)
}

// RemoveCategory drops a category and its match format. The format dies
// with its owning category.
func (s *ConfigSession) RemoveCategory(id string) {
	if _, exists := s.Categories[id]; !exists {
		return
	}
	delete(s.Categories, id)
	delete(s.Formats, id)
	for i, oid := range s.CategoryOrder {
		if oid == id {
			s.CategoryOrder = append(s.CategoryOrder[:i], s.CategoryOrder[i+1:]...)
			break
		}
	}
}
