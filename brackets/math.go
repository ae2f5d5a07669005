package brackets

import "math"

// Pure bracket arithmetic shared by format derivation and preview
// projection. Every function is total: inputs are clamped to non-negative
// and there are no error paths.

// NextPowerOfTwo returns the smallest power of two >= max(1, n).
func NextPowerOfTwo(n int) int {
	if n < 1 {
		n = 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// RoundsFor returns the number of knockout rounds for a bracket size,
// log2(bracketSize) for powers of two and 0 for sizes <= 1.
func RoundsFor(bracketSize int) int {
	rounds := 0
	for size := 1; size < bracketSize; size <<= 1 {
		rounds++
	}
	return rounds
}

// ByesFor returns how many automatic advancements a bracket needs,
// max(0, bracketSize - participants).
func ByesFor(bracketSize, participants int) int {
	if bracketSize < 0 {
		bracketSize = 0
	}
	if participants < 0 {
		participants = 0
	}
	if bracketSize <= participants {
		return 0
	}
	return bracketSize - participants
}

// RecommendedPools suggests a pool count aiming at roughly four
// participants per pool: 1 for fields of four or fewer, otherwise
// round(registered / 4), never below 1.
func RecommendedPools(registered int) int {
	if registered < 0 {
		registered = 0
	}
	if registered <= 4 {
		return 1
	}
	pools := int(math.Round(float64(registered) / 4.0))
	if pools < 1 {
		pools = 1
	}
	return pools
}

// RecommendedQualifiersPerPool suggests how many participants advance from
// each pool: 2 when pools average at least four participants, otherwise 1.
func RecommendedQualifiersPerPool(registered, pools int) int {
	if registered < 0 {
		registered = 0
	}
	if pools < 1 {
		pools = 1
	}
	if registered/pools >= 4 {
		return 2
	}
	return 1
}
