// Package scoring holds the point rules for target hits. Every function is
// pure; callers pass the combo and multiplier current at the time of the hit.
package scoring

import (
	"time"

	"reactiongame/internal/targets"
)

const (
	BombRadius  = 0.3
	ChainRadius = 0.25

	// MaxChainDepth is the deepest cascade tier that still resolves.
	MaxChainDepth = 3
	ChainDelay    = 100 * time.Millisecond

	FreezeDuration     = 5 * time.Second
	MultiplierDuration = 10 * time.Second

	goldenBase = 5
)

// Combo thresholds for the escalating hit bonuses.
const (
	comboTier1 = 2
	comboTier2 = 4
)

// HitPoints scores a direct hit on a single target. Bomb and chain targets
// only return their own flat award here; neighbor awards come from
// NeighborPoints and CascadePoints.
func HitPoints(typ targets.Type, combo, multiplier, basePoints int) int {
	switch typ {
	case targets.Normal:
		return escalate(combo, multiplier, basePoints, basePoints+1, basePoints+2)
	case targets.Golden:
		return escalate(combo, multiplier, goldenBase, 10, 15)
	case targets.Bomb:
		return 3 * multiplier
	case targets.Chain:
		return 0
	case targets.TimeFreeze:
		return 2 * multiplier
	case targets.Multiplier:
		return 3 * multiplier
	}
	return 0
}

func escalate(combo, multiplier, base, tier1, tier2 int) int {
	points := base * multiplier
	if combo >= comboTier1 {
		points += tier1 * multiplier
	}
	if combo >= comboTier2 {
		points += tier2 * multiplier
	}
	return points
}

// ComboGain is how much a direct hit adds to the combo before any
// neighbor destruction.
func ComboGain(typ targets.Type) int {
	switch typ {
	case targets.Bomb, targets.Chain:
		return 0
	}
	return 1
}

// NeighborPoints is the award for each target destroyed by a bomb.
func NeighborPoints(multiplier int) int {
	return 2 * multiplier
}

// CascadePoints is the award for each target destroyed at the given chain depth.
func CascadePoints(depth, multiplier int) int {
	return (2 + depth) * multiplier
}

// Boost doubles a multiplier.
func Boost(multiplier int) int {
	return max(1, multiplier) * 2
}

// Decay halves a multiplier, never below 1.
func Decay(multiplier int) int {
	return max(1, multiplier/2)
}
