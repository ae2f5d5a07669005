package services

import (
	"strings"

	"github.com/matchpoint-app/tournament-config/brackets"
	"github.com/matchpoint-app/tournament-config/models"
)

// FormatPatch carries a partial update for one match format. Nil fields
// are left untouched; the merge is shallow.
type FormatPatch struct {
	PointsPerGame *int    `json:"points_per_game,omitempty"`
	GamesPerMatch *int    `json:"games_per_match,omitempty"`
	TieBreakTo    *int    `json:"tie_break_to,omitempty"`
	Description   *string `json:"description,omitempty"`

	RRPools             *int  `json:"rr_pools,omitempty"`
	RRQualPerPool       *int  `json:"rr_qualifiers_per_pool,omitempty"`
	RRFullRound         *bool `json:"rr_full_round,omitempty"`
	RRMaxMatchesPerTeam *int  `json:"rr_max_matches_per_team,omitempty"`

	KOBracketSize  *int               `json:"ko_bracket_size,omitempty"`
	KOAutoBrackets *bool              `json:"ko_auto_brackets,omitempty"`
	KOSeedMethod   *models.SeedMethod `json:"ko_seed_method,omitempty"`
	KOSeedCount    *int               `json:"ko_seed_count,omitempty"`
	KOAutoFillByes *bool              `json:"ko_auto_fill_byes,omitempty"`
}

// RoundRobinPlan is the derived pool structure for a league or rr+ko
// format. Issue is set for invalid-but-representable parameter states; the
// stored values are kept as entered so the UI can show value and error
// together.
type RoundRobinPlan struct {
	Pools             int                     `json:"pools"`
	TeamsPerPool      int                     `json:"teams_per_pool"`
	QualifiersPerPool int                     `json:"qualifiers_per_pool"`
	TotalQualifiers   int                     `json:"total_qualifiers"`
	MaxMatchesPerTeam int                     `json:"max_matches_per_team"`
	Issue             *models.ValidationIssue `json:"issue,omitempty"`
}

// KnockoutPlan is the derived elimination structure for a knockout format
// or the knockout tail of rr+ko.
type KnockoutPlan struct {
	Participants int                     `json:"participants"`
	BracketSize  int                     `json:"bracket_size"`
	Rounds       int                     `json:"rounds"`
	Byes         int                     `json:"byes"`
	Issue        *models.ValidationIssue `json:"issue,omitempty"`
}

// FormatService owns per-category match-format configuration: lazy
// defaults, type switching, patch merging, validation and the numeric
// derivations backing the configuration UI. Like the category registry it
// only touches the session it is handed.
type FormatService interface {
	Default(categoryID string) *models.MatchFormat
	Ensure(s *models.ConfigSession, categoryID string) (*models.MatchFormat, error)
	SetType(s *models.ConfigSession, categoryID string, t models.FormatType) (*models.MatchFormat, error)
	Update(s *models.ConfigSession, categoryID string, patch FormatPatch) (*models.MatchFormat, error)
	Validate(f *models.MatchFormat) *models.ValidationIssue
	RoundRobinPlan(c *models.Category, f *models.MatchFormat) *RoundRobinPlan
	KnockoutPlan(c *models.Category, f *models.MatchFormat) *KnockoutPlan
}

type formatService struct{}

func NewFormatService() FormatService {
	return &formatService{}
}

// Default is the format a category starts with before the organizer
// touches anything: hybrid pools-into-knockout, rally scoring to 11, best
// of three, automatic bracket sizing.
func (fs *formatService) Default(categoryID string) *models.MatchFormat {
	return &models.MatchFormat{
		CategoryID:     categoryID,
		Type:           models.FormatRoundRobinKnockout,
		PointsPerGame:  models.DefaultPointsPerGame,
		GamesPerMatch:  models.DefaultGamesPerMatch,
		RRFullRound:    true,
		KOAutoBrackets: true,
		KOSeedMethod:   models.SeedRandom,
		KOAutoFillByes: true,
	}
}

// Ensure returns the category's format, injecting the default on first
// access. The category must exist in the registry.
func (fs *formatService) Ensure(s *models.ConfigSession, categoryID string) (*models.MatchFormat, error) {
	if _, ok := s.Categories[categoryID]; !ok {
		return nil, ErrCategoryNotFound
	}
	if f, ok := s.Formats[categoryID]; ok {
		return f, nil
	}
	f := fs.Default(categoryID)
	s.Formats[categoryID] = f
	return f, nil
}

// SetType switches the format type without resetting type-specific
// parameters: stale values from the previous type stay stored and are
// simply ignored by consumers of the new type.
func (fs *formatService) SetType(s *models.ConfigSession, categoryID string, t models.FormatType) (*models.MatchFormat, error) {
	switch t {
	case models.FormatRoundRobinKnockout, models.FormatLeague, models.FormatKnockout, models.FormatCustom:
	default:
		return nil, ErrInvalidFormatType
	}
	f, err := fs.Ensure(s, categoryID)
	if err != nil {
		return nil, err
	}
	f.Type = t
	return f, nil
}

// Update shallow-merges a patch. Two derived refreshes piggyback on the
// merge, both demanded by the configuration flow: an auto-sized bracket
// tracks the participant count on every change, and shrinking the pool
// count clears a matches-per-team cap that the shrink made invalid.
func (fs *formatService) Update(s *models.ConfigSession, categoryID string, patch FormatPatch) (*models.MatchFormat, error) {
	f, err := fs.Ensure(s, categoryID)
	if err != nil {
		return nil, err
	}
	category := s.Categories[categoryID]

	if patch.PointsPerGame != nil {
		f.PointsPerGame = *patch.PointsPerGame
	}
	if patch.GamesPerMatch != nil {
		f.GamesPerMatch = *patch.GamesPerMatch
	}
	if patch.TieBreakTo != nil {
		f.TieBreakTo = patch.TieBreakTo
	}
	if patch.Description != nil {
		f.Description = patch.Description
	}
	if patch.RRPools != nil {
		previous := f.RRPools
		f.RRPools = patch.RRPools
		if previous != nil && *patch.RRPools < *previous {
			clearInvalidMatchCap(category, f)
		}
	}
	if patch.RRQualPerPool != nil {
		f.RRQualPerPool = patch.RRQualPerPool
	}
	if patch.RRFullRound != nil {
		f.RRFullRound = *patch.RRFullRound
	}
	if patch.RRMaxMatchesPerTeam != nil {
		f.RRMaxMatchesPerTeam = patch.RRMaxMatchesPerTeam
	}
	if patch.KOBracketSize != nil {
		f.KOBracketSize = patch.KOBracketSize
	}
	if patch.KOAutoBrackets != nil {
		f.KOAutoBrackets = *patch.KOAutoBrackets
	}
	if patch.KOSeedMethod != nil {
		f.KOSeedMethod = *patch.KOSeedMethod
	}
	if patch.KOSeedCount != nil {
		f.KOSeedCount = *patch.KOSeedCount
	}
	if patch.KOAutoFillByes != nil {
		f.KOAutoFillByes = *patch.KOAutoFillByes
	}

	if f.KOAutoBrackets && f.HasKnockout() && category != nil {
		size := fs.KnockoutPlan(category, f).BracketSize
		f.KOBracketSize = &size
	}
	return f, nil
}

// clearInvalidMatchCap drops a stored matches-per-team cap that fell out
// of range because the pool count shrank. Other out-of-range causes are
// flagged by derivation, not auto-corrected.
func clearInvalidMatchCap(category *models.Category, f *models.MatchFormat) {
	if category == nil || f.RRMaxMatchesPerTeam == nil {
		return
	}
	teamsPerPool := teamsPerPool(category.Registered, derivePools(category, f))
	if *f.RRMaxMatchesPerTeam > teamsPerPool-1 {
		f.RRMaxMatchesPerTeam = nil
	}
}

// Validate checks the type-independent fields plus the custom-type
// description requirement. Pool and bracket parameter problems surface on
// the derivation plans instead, next to the numbers they affect.
func (fs *formatService) Validate(f *models.MatchFormat) *models.ValidationIssue {
	if f.PointsPerGame <= 0 {
		return models.NewIssue("points_per_game", "points per game must be greater than zero")
	}
	if f.GamesPerMatch <= 0 {
		return models.NewIssue("games_per_match", "games per match must be greater than zero")
	}
	if f.TieBreakTo != nil && *f.TieBreakTo <= 0 {
		return models.NewIssue("tie_break_to", "tie break target must be greater than zero")
	}
	if f.KOSeedCount < 0 {
		return models.NewIssue("ko_seed_count", "seed count cannot be negative")
	}
	if f.Type == models.FormatCustom {
		if f.Description == nil || strings.TrimSpace(*f.Description) == "" {
			return models.NewIssue("description", "custom format requires a description")
		}
	}
	return nil
}

// RoundRobinPlan derives the pool structure for league and rr+ko formats.
// Returns nil for formats without a pool phase.
func (fs *formatService) RoundRobinPlan(c *models.Category, f *models.MatchFormat) *RoundRobinPlan {
	if !f.HasRoundRobin() {
		return nil
	}
	registered := clampNonNegative(c.Registered)
	pools := derivePools(c, f)
	perPool := teamsPerPool(registered, pools)
	qual := deriveQualifiersPerPool(c, f, pools)

	plan := &RoundRobinPlan{
		Pools:             pools,
		TeamsPerPool:      perPool,
		QualifiersPerPool: qual,
		TotalQualifiers:   pools * qual,
		MaxMatchesPerTeam: perPool - 1,
	}
	if plan.MaxMatchesPerTeam < 0 {
		plan.MaxMatchesPerTeam = 0
	}

	if !f.RRFullRound {
		limit := perPool - 1
		switch {
		case f.RRMaxMatchesPerTeam == nil:
			plan.Issue = models.NewIssue("rr_max_matches_per_team",
				"limited round robin requires a matches-per-team cap")
		case *f.RRMaxMatchesPerTeam < 1 || *f.RRMaxMatchesPerTeam > limit:
			plan.Issue = models.NewIssue("rr_max_matches_per_team",
				"matches per team must be between 1 and %d", limit)
		}
	}
	return plan
}

// KnockoutPlan derives the elimination structure for knockout formats and
// the knockout tail of rr+ko, where the entrants are the pool qualifiers.
// Returns nil for formats without an elimination phase.
func (fs *formatService) KnockoutPlan(c *models.Category, f *models.MatchFormat) *KnockoutPlan {
	if !f.HasKnockout() {
		return nil
	}
	participants := clampNonNegative(c.Registered)
	if f.Type == models.FormatRoundRobinKnockout {
		pools := derivePools(c, f)
		participants = pools * deriveQualifiersPerPool(c, f, pools)
	}

	plan := &KnockoutPlan{Participants: participants}
	switch {
	case f.KOAutoBrackets:
		plan.BracketSize = brackets.NextPowerOfTwo(participants)
	case f.KOBracketSize == nil:
		plan.BracketSize = brackets.NextPowerOfTwo(participants)
		plan.Issue = models.NewIssue("ko_bracket_size",
			"manual bracket sizing requires a bracket size")
	default:
		plan.BracketSize = *f.KOBracketSize
		minimum := participants
		if minimum < 1 {
			minimum = 1
		}
		if *f.KOBracketSize < minimum {
			plan.Issue = models.NewIssue("ko_bracket_size",
				"bracket size %d cannot hold %d participants", *f.KOBracketSize, participants)
		} else if brackets.NextPowerOfTwo(*f.KOBracketSize) != *f.KOBracketSize {
			plan.Issue = models.NewIssue("ko_bracket_size",
				"bracket size must be a power of two")
		}
	}

	plan.Byes = brackets.ByesFor(plan.BracketSize, participants)
	plan.Rounds = brackets.RoundsFor(plan.BracketSize)
	return plan
}

func derivePools(c *models.Category, f *models.MatchFormat) int {
	if f.RRPools != nil && *f.RRPools > 0 {
		return *f.RRPools
	}
	return brackets.RecommendedPools(clampNonNegative(c.Registered))
}

func deriveQualifiersPerPool(c *models.Category, f *models.MatchFormat, pools int) int {
	if f.RRQualPerPool != nil && *f.RRQualPerPool > 0 {
		return *f.RRQualPerPool
	}
	return brackets.RecommendedQualifiersPerPool(clampNonNegative(c.Registered), pools)
}

func teamsPerPool(registered, pools int) int {
	if pools < 1 {
		pools = 1
	}
	return (registered + pools - 1) / pools
}

func clampNonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
