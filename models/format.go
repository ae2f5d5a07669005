package models

// FormatType enumerates the competitive structures assignable to a category.
type FormatType string

const (
	FormatRoundRobinKnockout FormatType = "rr+ko"
	FormatLeague             FormatType = "league"
	FormatKnockout           FormatType = "knockout"
	FormatCustom             FormatType = "custom"
)

// SeedMethod controls how qualifiers are ordered into a knockout bracket.
type SeedMethod string

const (
	SeedRandom  SeedMethod = "random"
	SeedRanking SeedMethod = "ranking"
	SeedManual  SeedMethod = "manual"
)

const (
	DefaultPointsPerGame = 11
	DefaultGamesPerMatch = 3
)

// MatchFormat is the match structure configured for exactly one category.
// Type-specific parameters from a previously selected type are kept as-is
// when the type changes; consumers ignore fields foreign to the current type.
type MatchFormat struct {
	CategoryID string     `json:"category_id"`
	Type       FormatType `json:"type"`

	PointsPerGame int  `json:"points_per_game"`
	GamesPerMatch int  `json:"games_per_match"`
	TieBreakTo    *int `json:"tie_break_to,omitempty"`

	// Required non-empty when Type is FormatCustom, ignored otherwise.
	Description *string `json:"description,omitempty"`

	// Round-robin parameters (league and rr+ko).
	RRPools             *int `json:"rr_pools,omitempty"`
	RRQualPerPool       *int `json:"rr_qualifiers_per_pool,omitempty"`
	RRFullRound         bool `json:"rr_full_round"`
	RRMaxMatchesPerTeam *int `json:"rr_max_matches_per_team,omitempty"`

	// Knockout parameters (knockout and the rr+ko tail).
	KOBracketSize  *int       `json:"ko_bracket_size,omitempty"`
	KOAutoBrackets bool       `json:"ko_auto_brackets"`
	KOSeedMethod   SeedMethod `json:"ko_seed_method"`
	KOSeedCount    int        `json:"ko_seed_count"`
	KOAutoFillByes bool       `json:"ko_auto_fill_byes"`
}

// HasRoundRobin reports whether the format contains a pool phase.
func (f *MatchFormat) HasRoundRobin() bool {
	return f.Type == FormatLeague || f.Type == FormatRoundRobinKnockout
}

// HasKnockout reports whether the format contains an elimination phase.
func (f *MatchFormat) HasKnockout() bool {
	return f.Type == FormatKnockout || f.Type == FormatRoundRobinKnockout
}

// Clone returns a deep copy of the format.
func (f *MatchFormat) Clone() *MatchFormat {
	if f == nil {
		return nil
	}
	out := *f
	out.TieBreakTo = cloneIntPtr(f.TieBreakTo)
	out.Description = cloneStringPtr(f.Description)
	out.RRPools = cloneIntPtr(f.RRPools)
	out.RRQualPerPool = cloneIntPtr(f.RRQualPerPool)
	out.RRMaxMatchesPerTeam = cloneIntPtr(f.RRMaxMatchesPerTeam)
	out.KOBracketSize = cloneIntPtr(f.KOBracketSize)
	return &out
}
