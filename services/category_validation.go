package services

import (
	"math"
	"strings"

	"github.com/matchpoint-app/tournament-config/models"
)

// kindRule declares which fields a category kind must have filled in
// before the configuration can progress. Dispatching on kind keeps the
// per-kind requirements in one table instead of nested conditionals.
type kindRule struct {
	needsFee      bool
	needsSlots    bool
	needsAgeSplit bool
}

var kindRules = map[models.CategoryKind]kindRule{
	models.KindSingles: {needsFee: true, needsSlots: true},
	models.KindDoubles: {needsFee: true, needsSlots: true},
	models.KindMixed:   {needsFee: true, needsSlots: true},
	models.KindSplit:   {needsFee: true, needsSlots: true, needsAgeSplit: true},
	models.KindOpen:    {needsFee: true, needsSlots: true},
	models.KindCustom:  {needsFee: true, needsSlots: true},
}

// CategoryValidator checks a session snapshot for completeness before a
// stage transition or final submission. It is a pure reader: no mutation,
// no I/O. Checks run in a fixed order and stop at the first failure, whose
// message is returned for the UI to show verbatim.
type CategoryValidator struct{}

func NewCategoryValidator() *CategoryValidator {
	return &CategoryValidator{}
}

func (v *CategoryValidator) Validate(s *models.ConfigSession) *models.ValidationIssue {
	categories := s.OrderedCategories()
	if len(categories) == 0 {
		return models.NewIssue("categories", "select at least one category")
	}

	team := s.TeamCategory()

	if team == nil {
		for _, c := range categories {
			if issue := validateCategoryFields(c); issue != nil {
				return issue
			}
		}
	}

	if issue := validateDiscount(s.Rules); issue != nil {
		return issue
	}

	if team != nil {
		return v.validateTeamEvent(s, team)
	}
	return nil
}

func validateCategoryFields(c *models.Category) *models.ValidationIssue {
	rule := kindRules[c.Kind]
	if rule.needsFee {
		if c.Fee == nil || math.IsNaN(*c.Fee) || math.IsInf(*c.Fee, 0) || *c.Fee < 0 {
			return models.NewIssue("fee", "category %q requires a non-negative entry fee", c.Label)
		}
	}
	if rule.needsSlots {
		if c.MaxSlotsPerCategory == nil || *c.MaxSlotsPerCategory <= 0 {
			return models.NewIssue("max_slots_per_category", "category %q requires a positive participant limit", c.Label)
		}
	}
	if rule.needsAgeSplit {
		if c.AgeSplit == nil || strings.TrimSpace(*c.AgeSplit) == "" {
			return models.NewIssue("age_split", "category %q requires an age split", c.Label)
		}
	}
	return nil
}

func validateDiscount(rules models.RegistrationRules) *models.ValidationIssue {
	if !rules.AllowMultiCategory || !rules.MultiCategoryDiscount {
		return nil
	}
	if rules.DiscountValue == nil {
		return models.NewIssue("discount_value", "multi-category discount requires a discount value")
	}
	value := *rules.DiscountValue
	switch rules.DiscountType {
	case models.DiscountPercent:
		if value <= 0 || value > 100 {
			return models.NewIssue("discount_value", "percentage discount must be between 0 and 100")
		}
	default:
		if value < 0 {
			return models.NewIssue("discount_value", "fixed discount cannot be negative")
		}
	}
	return nil
}

func (v *CategoryValidator) validateTeamEvent(s *models.ConfigSession, team *models.Category) *models.ValidationIssue {
	if len(team.TeamSubcategories) == 0 {
		return models.NewIssue("team_subcategories", "team event requires at least one subcategory")
	}
	if team.MaxParticipantsPerTeam == nil || *team.MaxParticipantsPerTeam <= 0 {
		return models.NewIssue("max_participants_per_team", "team event requires a positive team size limit")
	}
	for _, subID := range team.TeamSubcategories {
		sub := s.Categories[subID]
		if sub == nil {
			return models.NewIssue("team_subcategories", "team subcategory %q is not configured", subID)
		}
		if sub.Fee == nil || math.IsNaN(*sub.Fee) || math.IsInf(*sub.Fee, 0) || *sub.Fee < 0 {
			return models.NewIssue("fee", "team subcategory %q requires a non-negative entry fee", sub.Label)
		}
		if sub.Kind == models.KindSplit {
			if sub.AgeSplit == nil || strings.TrimSpace(*sub.AgeSplit) == "" {
				return models.NewIssue("age_split", "team subcategory %q requires an age split", sub.Label)
			}
		}
		if sub.Kind == models.KindCustom {
			if sub.MaxSlotsPerCategory == nil || *sub.MaxSlotsPerCategory <= 0 {
				return models.NewIssue("max_slots_per_category", "team subcategory %q requires a positive participant limit", sub.Label)
			}
		}
	}
	return nil
}
