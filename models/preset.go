package models

// CategoryPreset is one of the standard divisions an organizer can toggle
// on without defining it from scratch. Presets materialize into Category
// entities lazily, on first selection or first metadata patch.
type CategoryPreset struct {
	ID    string       `json:"id"`
	Label string       `json:"label"`
	Kind  CategoryKind `json:"kind"`
}

var CategoryPresets = []CategoryPreset{
	{ID: "singles-men", Label: "Singles — Men", Kind: KindSingles},
	{ID: "singles-women", Label: "Singles — Women", Kind: KindSingles},
	{ID: "doubles-men", Label: "Doubles — Men", Kind: KindDoubles},
	{ID: "doubles-women", Label: "Doubles — Women", Kind: KindDoubles},
	{ID: "mixed-doubles", Label: "Mixed Doubles", Kind: KindMixed},
	{ID: "age-split", Label: "Age Split", Kind: KindSplit},
	{ID: "open", Label: "Open", Kind: KindOpen},
}

func PresetByID(id string) (CategoryPreset, bool) {
	for _, p := range CategoryPresets {
		if p.ID == id {
			return p, true
		}
	}
	return CategoryPreset{}, false
}

// Materialize builds the category entity for a preset. Fee and slot limits
// start unset; the organizer fills them in before validation passes.
func (p CategoryPreset) Materialize() *Category {
	return &Category{
		ID:    p.ID,
		Label: p.Label,
		Kind:  p.Kind,
	}
}
