package models

// CategoryKind enumerates the competitive divisions a tournament can offer.
type CategoryKind string

const (
	KindSingles CategoryKind = "singles"
	KindDoubles CategoryKind = "doubles"
	KindMixed   CategoryKind = "mixed"
	KindSplit   CategoryKind = "split"
	KindOpen    CategoryKind = "open"
	KindTeam    CategoryKind = "team"
	KindCustom  CategoryKind = "custom"
)

// TeamEventID is the fixed id of the exclusive team-event container category.
const TeamEventID = "team-event"

// Category is one competitive division within a tournament, or the
// team-event container when Kind is KindTeam.
type Category struct {
	ID    string       `json:"id"`
	Label string       `json:"label"`
	Kind  CategoryKind `json:"kind"`

	// Required and non-empty when Kind is KindSplit.
	AgeSplit *string `json:"age_split,omitempty"`

	// Fee is required for every independently registerable category,
	// i.e. everything except the team container.
	Fee *float64 `json:"fee,omitempty"`

	MaxSlotsPerCategory    *int `json:"max_slots_per_category,omitempty"`
	MaxParticipantsPerTeam *int `json:"max_participants_per_team,omitempty"`

	// TeamSubcategories lists the category ids nested under a team
	// container, in selection order. Team kind only.
	TeamSubcategories []string `json:"team_subcategories,omitempty"`

	// Runtime counters consumed by format derivation and preview.
	Registered int `json:"registered"`
	Capacity   int `json:"capacity"`
}

func (c *Category) IsTeam() bool {
	return c.Kind == KindTeam
}

func (c *Category) HasSubcategory(id string) bool {
	for _, sub := range c.TeamSubcategories {
		if sub == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy, so snapshots never alias live session state.
func (c *Category) Clone() *Category {
	if c == nil {
		return nil
	}
	out := *c
	out.AgeSplit = cloneStringPtr(c.AgeSplit)
	out.Fee = cloneFloatPtr(c.Fee)
	out.MaxSlotsPerCategory = cloneIntPtr(c.MaxSlotsPerCategory)
	out.MaxParticipantsPerTeam = cloneIntPtr(c.MaxParticipantsPerTeam)
	if c.TeamSubcategories != nil {
		out.TeamSubcategories = append([]string(nil), c.TeamSubcategories...)
	}
	return &out
}

func cloneStringPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneFloatPtr(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

func cloneIntPtr(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}
