package brackets

import (
	"fmt"
	"math/rand"

	"github.com/matchpoint-app/tournament-config/models"
)

// Shuffler returns a permutation of [0, n). It is the single injection
// point for randomness in the whole engine: the projector consults it only
// when a format seeds its bracket randomly, so tests can pin the outcome
// with a fixed permutation.
type Shuffler func(n int) []int

// IdentityShuffler keeps qualifiers in their deterministic order.
func IdentityShuffler(n int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	return perm
}

// RandShuffler adapts a math/rand source into a Shuffler.
func RandShuffler(rng *rand.Rand) Shuffler {
	return rng.Perm
}

// Projector derives a read-only PreviewStructure from a category's
// registered-participant count and its resolved match format. Apart from
// the injected shuffler it is deterministic and side-effect free: it never
// mutates the category, the format or anything reachable from them.
type Projector struct {
	shuffle Shuffler
}

func NewProjector(shuffle Shuffler) *Projector {
	if shuffle == nil {
		shuffle = IdentityShuffler
	}
	return &Projector{shuffle: shuffle}
}

// Project builds the preview for one category. Placeholder identifiers
// stand in for real registrations, so the structure can be rendered before
// the field is known.
func (p *Projector) Project(category *models.Category, format *models.MatchFormat) *models.PreviewStructure {
	registered := category.Registered
	if registered < 0 {
		registered = 0
	}

	participants := make([]string, registered)
	for i := range participants {
		participants[i] = fmt.Sprintf("Participant_%d", i+1)
	}

	preview := &models.PreviewStructure{
		CategoryID:   category.ID,
		FormatType:   format.Type,
		Participants: participants,
	}

	pools := resolvePools(format, registered)
	qualPerPool := resolveQualifiersPerPool(format, registered, pools)

	if format.HasRoundRobin() {
		preview.Pools = distributePools(participants, pools)
	}

	if format.HasKnockout() {
		entrants := participants
		if format.Type == models.FormatRoundRobinKnockout {
			qualifiers := pools * qualPerPool
			if qualifiers < len(entrants) {
				entrants = entrants[:qualifiers]
			}
		}
		seeds := append([]string(nil), entrants...)
		if format.KOSeedMethod == models.SeedRandom {
			perm := p.shuffle(len(seeds))
			shuffled := make([]string, len(seeds))
			for i, j := range perm {
				shuffled[i] = seeds[j]
			}
			seeds = shuffled
		}

		size := effectiveBracketSize(format, len(seeds))
		for len(seeds) < size {
			seeds = append(seeds, models.ByePlaceholder)
		}

		preview.BracketSize = size
		preview.Rounds = RoundsFor(size)
		preview.Byes = ByesFor(size, len(entrants))
		preview.Pairings = pairSeeds(seeds)
	}

	return preview
}

// distributePools assigns participant i to pool i mod pools. The cyclic
// spread keeps existing assignments stable when more participants register.
func distributePools(participants []string, pools int) []models.PreviewPool {
	out := make([]models.PreviewPool, pools)
	for i := range out {
		out[i] = models.PreviewPool{Number: i + 1, Participants: []string{}}
	}
	for i, name := range participants {
		idx := i % pools
		out[idx].Participants = append(out[idx].Participants, name)
	}
	return out
}

// pairSeeds pairs position i against position size-1-i: 1 vs last,
// 2 vs second-last, and so on down the seeded order.
func pairSeeds(seeds []string) []models.PreviewPairing {
	size := len(seeds)
	pairings := make([]models.PreviewPairing, 0, size/2)
	for i := 0; i < size/2; i++ {
		home, away := seeds[i], seeds[size-1-i]
		pairings = append(pairings, models.PreviewPairing{
			Slot:  i + 1,
			Home:  home,
			Away:  away,
			IsBye: home == models.ByePlaceholder || away == models.ByePlaceholder,
		})
	}
	return pairings
}

func resolvePools(format *models.MatchFormat, registered int) int {
	if format.RRPools != nil && *format.RRPools > 0 {
		return *format.RRPools
	}
	return RecommendedPools(registered)
}

func resolveQualifiersPerPool(format *models.MatchFormat, registered, pools int) int {
	if format.RRQualPerPool != nil && *format.RRQualPerPool > 0 {
		return *format.RRQualPerPool
	}
	return RecommendedQualifiersPerPool(registered, pools)
}

// effectiveBracketSize picks the bracket the preview renders. A manually
// entered size is honored only when it can actually hold the field and is
// a power of two; otherwise the projection falls back to the computed
// size. Validation, not the projector, flags the stored value.
func effectiveBracketSize(format *models.MatchFormat, entrants int) int {
	computed := NextPowerOfTwo(entrants)
	if format.KOAutoBrackets || format.KOBracketSize == nil {
		return computed
	}
	manual := *format.KOBracketSize
	if manual >= entrants && NextPowerOfTwo(manual) == manual {
		return manual
	}
	return computed
}
