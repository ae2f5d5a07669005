package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchpoint-app/tournament-config/models"
)

func sessionWithCategory(registered int) *models.ConfigSession {
	s := newSession()
	s.AddCategory(&models.Category{
		ID:         "singles-men",
		Label:      "Singles — Men",
		Kind:       models.KindSingles,
		Registered: registered,
	})
	return s
}

func TestDefaultFormat(t *testing.T) {
	fs := NewFormatService()
	f := fs.Default("singles-men")

	assert.Equal(t, "singles-men", f.CategoryID)
	assert.Equal(t, models.FormatRoundRobinKnockout, f.Type)
	assert.Equal(t, 11, f.PointsPerGame)
	assert.Equal(t, 3, f.GamesPerMatch)
	assert.Nil(t, f.TieBreakTo)
	assert.Nil(t, f.Description)
	assert.True(t, f.RRFullRound)
	assert.True(t, f.KOAutoBrackets)
	assert.True(t, f.KOAutoFillByes)
}

func TestEnsureInjectsDefaultLazily(t *testing.T) {
	fs := NewFormatService()
	s := sessionWithCategory(8)

	require.Empty(t, s.Formats)
	f, err := fs.Ensure(s, "singles-men")
	require.NoError(t, err)
	assert.Equal(t, models.FormatRoundRobinKnockout, f.Type)
	assert.Same(t, f, s.Formats["singles-men"])

	// Second access returns the stored entity, not a fresh default.
	f.PointsPerGame = 21
	again, err := fs.Ensure(s, "singles-men")
	require.NoError(t, err)
	assert.Equal(t, 21, again.PointsPerGame)

	_, err = fs.Ensure(s, "ghost")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestSetTypeKeepsStaleParameters(t *testing.T) {
	fs := NewFormatService()
	s := sessionWithCategory(8)

	_, err := fs.Update(s, "singles-men", FormatPatch{RRPools: intPtr(2)})
	require.NoError(t, err)

	f, err := fs.SetType(s, "singles-men", models.FormatKnockout)
	require.NoError(t, err)
	assert.Equal(t, models.FormatKnockout, f.Type)
	// Round-robin parameters stay stored, just ignored by knockout
	// consumers.
	require.NotNil(t, f.RRPools)
	assert.Equal(t, 2, *f.RRPools)

	_, err = fs.SetType(s, "singles-men", "bestest")
	assert.ErrorIs(t, err, ErrInvalidFormatType)
}

func TestValidateFormat(t *testing.T) {
	fs := NewFormatService()

	cases := []struct {
		name      string
		mutate    func(*models.MatchFormat)
		wantField string
	}{
		{"zero points", func(f *models.MatchFormat) { f.PointsPerGame = 0 }, "points_per_game"},
		{"zero games", func(f *models.MatchFormat) { f.GamesPerMatch = 0 }, "games_per_match"},
		{"bad tie break", func(f *models.MatchFormat) { f.TieBreakTo = intPtr(0) }, "tie_break_to"},
		{"negative seeds", func(f *models.MatchFormat) { f.KOSeedCount = -1 }, "ko_seed_count"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := fs.Default("singles-men")
			tc.mutate(f)
			issue := fs.Validate(f)
			require.NotNil(t, issue)
			assert.Equal(t, tc.wantField, issue.Field)
		})
	}

	t.Run("custom requires description", func(t *testing.T) {
		f := fs.Default("singles-men")
		f.Type = models.FormatCustom
		require.NotNil(t, fs.Validate(f))

		f.Description = strPtr("   ")
		require.NotNil(t, fs.Validate(f))

		f.Description = strPtr("Swiss rounds, 5 rounds of best-of-5")
		assert.Nil(t, fs.Validate(f))
	})

	t.Run("default is valid", func(t *testing.T) {
		assert.Nil(t, fs.Validate(fs.Default("singles-men")))
	})
}

func TestRoundRobinPlanRecommendedDefaults(t *testing.T) {
	fs := NewFormatService()
	s := sessionWithCategory(16)
	f, err := fs.Ensure(s, "singles-men")
	require.NoError(t, err)

	plan := fs.RoundRobinPlan(s.Categories["singles-men"], f)
	require.NotNil(t, plan)
	assert.Equal(t, 4, plan.Pools)
	assert.Equal(t, 4, plan.TeamsPerPool)
	assert.Equal(t, 2, plan.QualifiersPerPool)
	assert.Equal(t, 8, plan.TotalQualifiers)
	assert.Nil(t, plan.Issue)
}

func TestRoundRobinPlanLimitedRoundOutOfRange(t *testing.T) {
	// 16 registered in 4 pools gives 4 teams per pool; a cap of 5 exceeds
	// the 3 opponents available.
	fs := NewFormatService()
	s := sessionWithCategory(16)
	_, err := fs.Update(s, "singles-men", FormatPatch{
		RRPools:             intPtr(4),
		RRFullRound:         boolPtr(false),
		RRMaxMatchesPerTeam: intPtr(5),
	})
	require.NoError(t, err)

	plan := fs.RoundRobinPlan(s.Categories["singles-men"], s.Formats["singles-men"])
	require.NotNil(t, plan)
	require.NotNil(t, plan.Issue)
	assert.Contains(t, plan.Issue.Message, "between 1 and 3")

	// The stored value is flagged, not clamped.
	require.NotNil(t, s.Formats["singles-men"].RRMaxMatchesPerTeam)
	assert.Equal(t, 5, *s.Formats["singles-men"].RRMaxMatchesPerTeam)
}

func TestRoundRobinPlanLimitedRoundMissingCap(t *testing.T) {
	fs := NewFormatService()
	s := sessionWithCategory(12)
	_, err := fs.Update(s, "singles-men", FormatPatch{RRFullRound: boolPtr(false)})
	require.NoError(t, err)

	plan := fs.RoundRobinPlan(s.Categories["singles-men"], s.Formats["singles-men"])
	require.NotNil(t, plan)
	require.NotNil(t, plan.Issue)
	assert.Equal(t, "rr_max_matches_per_team", plan.Issue.Field)
}

func TestShrinkingPoolsKeepsStillValidCap(t *testing.T) {
	fs := NewFormatService()
	s := sessionWithCategory(16)
	_, err := fs.Update(s, "singles-men", FormatPatch{
		RRPools:             intPtr(8),
		RRFullRound:         boolPtr(false),
		RRMaxMatchesPerTeam: intPtr(1),
	})
	require.NoError(t, err)

	// Shrinking 8 -> 2 pools grows pools to 8 participants each; the cap
	// of 1 stays within range and survives the shrink.
	_, err = fs.Update(s, "singles-men", FormatPatch{RRPools: intPtr(2)})
	require.NoError(t, err)
	require.NotNil(t, s.Formats["singles-men"].RRMaxMatchesPerTeam)
	assert.Equal(t, 1, *s.Formats["singles-men"].RRMaxMatchesPerTeam)
}

func TestShrinkingPoolsDropsNowInvalidCap(t *testing.T) {
	fs := NewFormatService()
	s := sessionWithCategory(12)
	_, err := fs.Update(s, "singles-men", FormatPatch{
		RRPools:             intPtr(2),
		RRFullRound:         boolPtr(false),
		RRMaxMatchesPerTeam: intPtr(5),
	})
	require.NoError(t, err)
	// 12 in 2 pools = 6 per pool, cap 5 valid.
	require.NotNil(t, s.Formats["singles-men"].RRMaxMatchesPerTeam)

	// Raising the pool count flags the cap but does not auto-correct it.
	_, err = fs.Update(s, "singles-men", FormatPatch{RRPools: intPtr(6)})
	require.NoError(t, err)
	plan := fs.RoundRobinPlan(s.Categories["singles-men"], s.Formats["singles-men"])
	require.NotNil(t, plan.Issue)
	require.NotNil(t, s.Formats["singles-men"].RRMaxMatchesPerTeam)

	// A downward pool change clears a cap that is out of range under the
	// new layout: 12 in 4 pools = 3 per pool, limit 2, cap 5 dropped.
	_, err = fs.Update(s, "singles-men", FormatPatch{RRPools: intPtr(4)})
	require.NoError(t, err)
	assert.Nil(t, s.Formats["singles-men"].RRMaxMatchesPerTeam)
}

func TestKnockoutPlanAutoBrackets(t *testing.T) {
	// 10 entrants, automatic sizing: bracket 16, 6 byes, 4 rounds.
	fs := NewFormatService()
	s := sessionWithCategory(10)
	f, err := fs.SetType(s, "singles-men", models.FormatKnockout)
	require.NoError(t, err)

	plan := fs.KnockoutPlan(s.Categories["singles-men"], f)
	require.NotNil(t, plan)
	assert.Equal(t, 10, plan.Participants)
	assert.Equal(t, 16, plan.BracketSize)
	assert.Equal(t, 6, plan.Byes)
	assert.Equal(t, 4, plan.Rounds)
	assert.Nil(t, plan.Issue)
}

func TestKnockoutPlanHybridQualifiers(t *testing.T) {
	// rr+ko with 3 pools and 2 qualifiers each: 6 entrants, bracket 8,
	// 2 byes.
	fs := NewFormatService()
	s := sessionWithCategory(12)
	_, err := fs.Update(s, "singles-men", FormatPatch{
		RRPools:       intPtr(3),
		RRQualPerPool: intPtr(2),
	})
	require.NoError(t, err)

	plan := fs.KnockoutPlan(s.Categories["singles-men"], s.Formats["singles-men"])
	require.NotNil(t, plan)
	assert.Equal(t, 6, plan.Participants)
	assert.Equal(t, 8, plan.BracketSize)
	assert.Equal(t, 2, plan.Byes)
	assert.Equal(t, 3, plan.Rounds)
}

func TestKnockoutPlanManualBracketTooSmall(t *testing.T) {
	fs := NewFormatService()
	s := sessionWithCategory(10)
	_, err := fs.SetType(s, "singles-men", models.FormatKnockout)
	require.NoError(t, err)
	_, err = fs.Update(s, "singles-men", FormatPatch{
		KOAutoBrackets: boolPtr(false),
		KOBracketSize:  intPtr(8),
	})
	require.NoError(t, err)

	plan := fs.KnockoutPlan(s.Categories["singles-men"], s.Formats["singles-men"])
	require.NotNil(t, plan)
	// Stored as entered, flagged invalid.
	assert.Equal(t, 8, plan.BracketSize)
	require.NotNil(t, plan.Issue)
	assert.Equal(t, "ko_bracket_size", plan.Issue.Field)
}

func TestKnockoutPlanManualNonPowerOfTwo(t *testing.T) {
	fs := NewFormatService()
	s := sessionWithCategory(5)
	_, err := fs.SetType(s, "singles-men", models.FormatKnockout)
	require.NoError(t, err)
	_, err = fs.Update(s, "singles-men", FormatPatch{
		KOAutoBrackets: boolPtr(false),
		KOBracketSize:  intPtr(12),
	})
	require.NoError(t, err)

	plan := fs.KnockoutPlan(s.Categories["singles-men"], s.Formats["singles-men"])
	require.NotNil(t, plan.Issue)
	assert.Contains(t, plan.Issue.Message, "power of two")
}

func TestAutoBracketRefreshOnEveryChange(t *testing.T) {
	fs := NewFormatService()
	s := sessionWithCategory(10)
	_, err := fs.SetType(s, "singles-men", models.FormatKnockout)
	require.NoError(t, err)

	f, err := fs.Update(s, "singles-men", FormatPatch{PointsPerGame: intPtr(15)})
	require.NoError(t, err)
	require.NotNil(t, f.KOBracketSize)
	assert.Equal(t, 16, *f.KOBracketSize)

	// The field grows; the next change tracks the new power of two.
	s.Categories["singles-men"].Registered = 20
	f, err = fs.Update(s, "singles-men", FormatPatch{GamesPerMatch: intPtr(5)})
	require.NoError(t, err)
	assert.Equal(t, 32, *f.KOBracketSize)
}

func TestPlansNilForForeignTypes(t *testing.T) {
	fs := NewFormatService()
	s := sessionWithCategory(10)
	c := s.Categories["singles-men"]

	league, err := fs.SetType(s, "singles-men", models.FormatLeague)
	require.NoError(t, err)
	assert.Nil(t, fs.KnockoutPlan(c, league))
	assert.NotNil(t, fs.RoundRobinPlan(c, league))

	custom, err := fs.SetType(s, "singles-men", models.FormatCustom)
	require.NoError(t, err)
	assert.Nil(t, fs.KnockoutPlan(c, custom))
	assert.Nil(t, fs.RoundRobinPlan(c, custom))
}
