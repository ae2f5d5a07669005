package services

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchpoint-app/tournament-config/models"
)

func strPtr(v string) *string     { return &v }
func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func newSession() *models.ConfigSession {
	return models.NewConfigSession(1)
}

func TestToggleCategoryAddsAndRemoves(t *testing.T) {
	cs := NewCategoryService()
	s := newSession()

	require.NoError(t, cs.ToggleCategory(s, "singles-men"))
	require.Contains(t, s.Categories, "singles-men")
	c := s.Categories["singles-men"]
	assert.Equal(t, models.KindSingles, c.Kind)
	assert.Equal(t, "Singles — Men", c.Label)
	assert.Nil(t, c.Fee)
	assert.Nil(t, c.MaxSlotsPerCategory)

	require.NoError(t, cs.ToggleCategory(s, "singles-men"))
	assert.NotContains(t, s.Categories, "singles-men")
	assert.Empty(t, s.CategoryOrder)
}

func TestToggleCategoryUnknownPreset(t *testing.T) {
	cs := NewCategoryService()
	s := newSession()

	err := cs.ToggleCategory(s, "underwater-basket-weaving")
	assert.ErrorIs(t, err, ErrUnknownPreset)
	assert.Empty(t, s.Categories)
}

func TestToggleCategoryRemovesFormatWithCategory(t *testing.T) {
	cs := NewCategoryService()
	fs := NewFormatService()
	s := newSession()

	require.NoError(t, cs.ToggleCategory(s, "open"))
	_, err := fs.Ensure(s, "open")
	require.NoError(t, err)
	require.Contains(t, s.Formats, "open")

	require.NoError(t, cs.ToggleCategory(s, "open"))
	assert.NotContains(t, s.Formats, "open")
}

func TestToggleCategoryNoOpWhileTeamEventActive(t *testing.T) {
	cs := NewCategoryService()
	s := newSession()

	cs.ToggleTeamEvent(s)
	require.NotNil(t, s.TeamCategory())

	require.NoError(t, cs.ToggleCategory(s, "singles-men"))
	assert.NotContains(t, s.Categories, "singles-men")
	assert.Len(t, s.CategoryOrder, 1)
}

func TestToggleTeamEventClearsEverythingElse(t *testing.T) {
	// Scenario: singles-men and doubles-men selected, then the organizer
	// switches to a team event.
	cs := NewCategoryService()
	s := newSession()
	require.NoError(t, cs.ToggleCategory(s, "singles-men"))
	require.NoError(t, cs.ToggleCategory(s, "doubles-men"))
	s.Rules.AllowMultiCategory = true
	s.Rules.MultiCategoryDiscount = true

	cs.ToggleTeamEvent(s)

	require.Len(t, s.CategoryOrder, 1)
	team := s.TeamCategory()
	require.NotNil(t, team)
	assert.Equal(t, models.TeamEventID, team.ID)
	assert.Empty(t, team.TeamSubcategories)
	assert.NotContains(t, s.Categories, "singles-men")
	assert.NotContains(t, s.Categories, "doubles-men")
	assert.False(t, s.Rules.AllowMultiCategory)
	assert.False(t, s.Rules.MultiCategoryDiscount)
}

func TestToggleTeamEventTwiceFromEmpty(t *testing.T) {
	cs := NewCategoryService()
	s := newSession()

	cs.ToggleTeamEvent(s)
	cs.ToggleTeamEvent(s)

	assert.Empty(t, s.Categories)
	assert.Empty(t, s.CategoryOrder)
	assert.Nil(t, s.TeamCategory())
}

func TestToggleTeamEventOffKeepsSubcategoryEntities(t *testing.T) {
	cs := NewCategoryService()
	s := newSession()

	cs.ToggleTeamEvent(s)
	require.NoError(t, cs.ToggleTeamSubcategory(s, models.TeamEventID, "singles-men"))

	cs.ToggleTeamEvent(s)

	// The container is gone; the materialized subcategory entity stays in
	// the map, unreferenced, so re-enabling is cheap.
	assert.Nil(t, s.TeamCategory())
	assert.Contains(t, s.Categories, "singles-men")
	assert.NotContains(t, s.CategoryOrder, "singles-men")
}

func TestTeamExclusivityInvariant(t *testing.T) {
	// After any sequence of toggles the registry never holds a team
	// category alongside a non-subcategory non-team category.
	cs := NewCategoryService()
	s := newSession()
	rng := rand.New(rand.NewSource(42))

	presets := []string{"singles-men", "singles-women", "doubles-men", "mixed-doubles", "open"}
	for i := 0; i < 500; i++ {
		if rng.Intn(4) == 0 {
			cs.ToggleTeamEvent(s)
		} else {
			require.NoError(t, cs.ToggleCategory(s, presets[rng.Intn(len(presets))]))
		}

		team := s.TeamCategory()
		if team == nil {
			continue
		}
		for _, c := range s.OrderedCategories() {
			if c.ID == team.ID {
				continue
			}
			assert.Truef(t, team.HasSubcategory(c.ID),
				"step %d: category %q coexists with the team event", i, c.ID)
		}
	}
}

func TestAddCustomCategory(t *testing.T) {
	cs := NewCategoryService()
	s := newSession()

	created := cs.AddCustomCategory(s, "  Veterans 40+  ")
	require.NotNil(t, created)
	assert.Equal(t, models.KindCustom, created.Kind)
	assert.Equal(t, "Veterans 40+", created.Label)
	assert.NotEmpty(t, created.ID)
	assert.Nil(t, created.Fee)
	assert.Nil(t, created.MaxSlotsPerCategory)

	other := cs.AddCustomCategory(s, "Juniors")
	require.NotNil(t, other)
	assert.NotEqual(t, created.ID, other.ID, "custom ids must be unique")
}

func TestAddCustomCategoryBlankLabelIsNoOp(t *testing.T) {
	cs := NewCategoryService()
	s := newSession()

	assert.Nil(t, cs.AddCustomCategory(s, ""))
	assert.Nil(t, cs.AddCustomCategory(s, "   \t "))
	assert.Empty(t, s.Categories)
}

func TestUpdateCategoryMetaMaterializesPreset(t *testing.T) {
	cs := NewCategoryService()
	s := newSession()

	c, err := cs.UpdateCategoryMeta(s, "doubles-women", CategoryPatch{
		Fee:                 floatPtr(25),
		MaxSlotsPerCategory: intPtr(16),
	})
	require.NoError(t, err)
	assert.Equal(t, "Doubles — Women", c.Label)
	assert.Equal(t, models.KindDoubles, c.Kind)
	require.NotNil(t, c.Fee)
	assert.Equal(t, 25.0, *c.Fee)
	require.NotNil(t, c.MaxSlotsPerCategory)
	assert.Equal(t, 16, *c.MaxSlotsPerCategory)
	assert.Contains(t, s.Categories, "doubles-women")
}

func TestUpdateCategoryMetaUnknownID(t *testing.T) {
	cs := NewCategoryService()
	s := newSession()

	_, err := cs.UpdateCategoryMeta(s, "nope", CategoryPatch{Fee: floatPtr(10)})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestUpdateCategoryMetaMergesPartially(t *testing.T) {
	cs := NewCategoryService()
	s := newSession()
	require.NoError(t, cs.ToggleCategory(s, "age-split"))

	_, err := cs.UpdateCategoryMeta(s, "age-split", CategoryPatch{AgeSplit: strPtr("U17 / O40")})
	require.NoError(t, err)
	_, err = cs.UpdateCategoryMeta(s, "age-split", CategoryPatch{Fee: floatPtr(12.5)})
	require.NoError(t, err)

	c := s.Categories["age-split"]
	require.NotNil(t, c.AgeSplit)
	assert.Equal(t, "U17 / O40", *c.AgeSplit)
	require.NotNil(t, c.Fee)
	assert.Equal(t, 12.5, *c.Fee)
}

func TestToggleTeamSubcategory(t *testing.T) {
	cs := NewCategoryService()
	s := newSession()
	cs.ToggleTeamEvent(s)

	require.NoError(t, cs.ToggleTeamSubcategory(s, models.TeamEventID, "singles-men"))
	team := s.TeamCategory()
	assert.Equal(t, []string{"singles-men"}, team.TeamSubcategories)
	// Materialized from the preset catalog.
	assert.Equal(t, "Singles — Men", s.Categories["singles-men"].Label)

	// Unknown ids materialize as bare custom stubs.
	require.NoError(t, cs.ToggleTeamSubcategory(s, models.TeamEventID, "club-relay"))
	assert.Equal(t, models.KindCustom, s.Categories["club-relay"].Kind)
	assert.Equal(t, []string{"singles-men", "club-relay"}, team.TeamSubcategories)

	// Toggling again detaches without deleting the entity.
	require.NoError(t, cs.ToggleTeamSubcategory(s, models.TeamEventID, "singles-men"))
	assert.Equal(t, []string{"club-relay"}, team.TeamSubcategories)
	assert.Contains(t, s.Categories, "singles-men")
}

func TestToggleTeamSubcategoryErrors(t *testing.T) {
	cs := NewCategoryService()
	s := newSession()

	err := cs.ToggleTeamSubcategory(s, "missing", "singles-men")
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	require.NoError(t, cs.ToggleCategory(s, "open"))
	err = cs.ToggleTeamSubcategory(s, "open", "singles-men")
	assert.ErrorIs(t, err, ErrNotTeamCategory)
}

func TestUpdateRulesForcedOffDuringTeamEvent(t *testing.T) {
	cs := NewCategoryService()
	s := newSession()
	cs.ToggleTeamEvent(s)

	cs.UpdateRules(s, RulesPatch{
		AllowMultiCategory:    boolPtr(true),
		MultiCategoryDiscount: boolPtr(true),
	})

	assert.False(t, s.Rules.AllowMultiCategory)
	assert.False(t, s.Rules.MultiCategoryDiscount)
}

func boolPtr(v bool) *bool { return &v }
