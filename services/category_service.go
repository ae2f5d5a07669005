package services

import (
	"strings"

	"github.com/rs/xid"

	"github.com/matchpoint-app/tournament-config/models"
)

// CategoryPatch carries a partial update for one category. Nil fields are
// left untouched.
type CategoryPatch struct {
	Label                  *string  `json:"label,omitempty"`
	AgeSplit               *string  `json:"age_split,omitempty"`
	Fee                    *float64 `json:"fee,omitempty"`
	MaxSlotsPerCategory    *int     `json:"max_slots_per_category,omitempty"`
	MaxParticipantsPerTeam *int     `json:"max_participants_per_team,omitempty"`
	Registered             *int     `json:"registered,omitempty"`
	Capacity               *int     `json:"capacity,omitempty"`
}

// RulesPatch carries a partial update of the registration rules.
type RulesPatch struct {
	AllowMultiCategory    *bool                `json:"allow_multi_category,omitempty"`
	MultiCategoryDiscount *bool                `json:"multi_category_discount,omitempty"`
	DiscountType          *models.DiscountType `json:"discount_type,omitempty"`
	DiscountValue         *float64             `json:"discount_value,omitempty"`
}

// CategoryService owns the mutation rules of a session's category
// registry: preset toggling, the exclusive team-event mode, custom
// categories and team subcategory membership. All methods mutate only the
// session they are handed and assume the caller serializes access.
// Completeness checks live in CategoryValidator, not here.
type CategoryService interface {
	ToggleCategory(s *models.ConfigSession, presetID string) error
	ToggleTeamEvent(s *models.ConfigSession)
	AddCustomCategory(s *models.ConfigSession, label string) *models.Category
	UpdateCategoryMeta(s *models.ConfigSession, categoryID string, patch CategoryPatch) (*models.Category, error)
	ToggleTeamSubcategory(s *models.ConfigSession, teamID, subcategoryID string) error
	UpdateRules(s *models.ConfigSession, patch RulesPatch)
}

type categoryService struct{}

func NewCategoryService() CategoryService {
	return &categoryService{}
}

// ToggleCategory adds or removes a preset category. While a team event is
// selected the registry is exclusive: toggling any non-team preset is a
// silent no-op, not an error, since the UI may still offer the control.
func (cs *categoryService) ToggleCategory(s *models.ConfigSession, presetID string) error {
	preset, ok := models.PresetByID(presetID)
	if !ok {
		return ErrUnknownPreset
	}
	if s.TeamCategory() != nil && preset.Kind != models.KindTeam {
		return nil
	}
	if _, selected := s.Categories[preset.ID]; selected {
		s.RemoveCategory(preset.ID)
		return nil
	}
	s.AddCategory(preset.Materialize())
	return nil
}

// ToggleTeamEvent switches the exclusive team-event mode. Turning it on is
// destructive: every other selected category is cleared and
// multi-category registration plus its discount are forced off for the
// whole tournament. Turning it off removes only the container; previously
// materialized subcategory entities stay in the map, unreferenced, so
// re-enabling is cheap.
func (cs *categoryService) ToggleTeamEvent(s *models.ConfigSession) {
	if team := s.TeamCategory(); team != nil {
		s.RemoveCategory(team.ID)
		return
	}
	for _, id := range append([]string(nil), s.CategoryOrder...) {
		s.RemoveCategory(id)
	}
	s.AddCategory(&models.Category{
		ID:                models.TeamEventID,
		Label:             "Team Event",
		Kind:              models.KindTeam,
		TeamSubcategories: []string{},
	})
	s.Rules.AllowMultiCategory = false
	s.Rules.MultiCategoryDiscount = false
}

// AddCustomCategory creates a custom division with a generated unique id.
// Blank or whitespace-only labels are a silent no-op and return nil.
func (cs *categoryService) AddCustomCategory(s *models.ConfigSession, label string) *models.Category {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil
	}
	c := &models.Category{
		ID:    "custom-" + xid.New().String(),
		Label: label,
		Kind:  models.KindCustom,
	}
	s.AddCategory(c)
	return c
}

// UpdateCategoryMeta merges a patch into a category. When the id is not in
// the registry yet but names a known preset, the preset is materialized
// first and the patch applied on top, so the first edit of an unselected
// preset behaves like select-then-edit.
func (cs *categoryService) UpdateCategoryMeta(s *models.ConfigSession, categoryID string, patch CategoryPatch) (*models.Category, error) {
	c, ok := s.Categories[categoryID]
	if !ok {
		preset, known := models.PresetByID(categoryID)
		if !known {
			return nil, ErrCategoryNotFound
		}
		c = preset.Materialize()
		s.AddCategory(c)
	}

	if patch.Label != nil {
		c.Label = *patch.Label
	}
	if patch.AgeSplit != nil {
		c.AgeSplit = patch.AgeSplit
	}
	if patch.Fee != nil {
		c.Fee = patch.Fee
	}
	if patch.MaxSlotsPerCategory != nil {
		c.MaxSlotsPerCategory = patch.MaxSlotsPerCategory
	}
	if patch.MaxParticipantsPerTeam != nil {
		c.MaxParticipantsPerTeam = patch.MaxParticipantsPerTeam
	}
	if patch.Registered != nil {
		c.Registered = *patch.Registered
	}
	if patch.Capacity != nil {
		c.Capacity = *patch.Capacity
	}
	return c, nil
}

// ToggleTeamSubcategory adds or removes a subcategory id on the team
// container. Adding an id without an existing entity materializes one,
// from the preset catalog when possible and as a bare custom stub
// otherwise.
func (cs *categoryService) ToggleTeamSubcategory(s *models.ConfigSession, teamID, subcategoryID string) error {
	team, ok := s.Categories[teamID]
	if !ok {
		return ErrCategoryNotFound
	}
	if !team.IsTeam() {
		return ErrNotTeamCategory
	}

	for i, id := range team.TeamSubcategories {
		if id == subcategoryID {
			team.TeamSubcategories = append(team.TeamSubcategories[:i], team.TeamSubcategories[i+1:]...)
			return nil
		}
	}

	if _, exists := s.Categories[subcategoryID]; !exists {
		if preset, known := models.PresetByID(subcategoryID); known {
			s.Categories[subcategoryID] = preset.Materialize()
		} else {
			s.Categories[subcategoryID] = &models.Category{
				ID:    subcategoryID,
				Label: subcategoryID,
				Kind:  models.KindCustom,
			}
		}
	}
	team.TeamSubcategories = append(team.TeamSubcategories, subcategoryID)
	return nil
}

// UpdateRules merges a partial update of the registration rules. While a
// team event is selected, multi-category registration stays forced off.
func (cs *categoryService) UpdateRules(s *models.ConfigSession, patch RulesPatch) {
	if patch.AllowMultiCategory != nil {
		s.Rules.AllowMultiCategory = *patch.AllowMultiCategory
	}
	if patch.MultiCategoryDiscount != nil {
		s.Rules.MultiCategoryDiscount = *patch.MultiCategoryDiscount
	}
	if patch.DiscountType != nil {
		s.Rules.DiscountType = *patch.DiscountType
	}
	if patch.DiscountValue != nil {
		s.Rules.DiscountValue = patch.DiscountValue
	}
	if s.TeamCategory() != nil {
		s.Rules.AllowMultiCategory = false
		s.Rules.MultiCategoryDiscount = false
	}
}
