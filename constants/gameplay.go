package constants

import "time"

// Catch game scoring
const (
	// WinningScore unlocks the finale
	WinningScore = 10

	// NegativePenalty is subtracted for a broken heart, floored at zero
	NegativePenalty = 2

	// ComboDisplayThreshold is the combo at which the indicator is shown
	ComboDisplayThreshold = 3
)

// Catch game spawning
const (
	// SpawnInterval is the regular token spawn cadence
	SpawnInterval = 800 * time.Millisecond

	// FirstSpawnDelay and SecondSpawnDelay form the opening burst
	FirstSpawnDelay  = 300 * time.Millisecond
	SecondSpawnDelay = 700 * time.Millisecond

	// DoubleSpawnChance is the probability of a follow-up spawn on a regular tick
	DoubleSpawnChance = 0.3

	// DoubleSpawnDelay is the gap before the follow-up spawn
	DoubleSpawnDelay = 200 * time.Millisecond

	// NegativeChance is the probability that a spawned token is a broken heart
	NegativeChance = 0.25
)

// Catch game geometry, in percent of the play field
const (
	LaneMin  = 10.0
	LaneSpan = 75.0

	SpawnY         = -8.0
	BottomBoundary = 105.0

	SpeedMin  = 0.3
	SpeedSpan = 0.4

	PositiveSizeMin  = 28.0
	PositiveSizeSpan = 12.0
	NegativeSize     = 32.0
)

// Catch game feedback
const (
	PositivePulse = 30 * time.Millisecond
	NegativePulse = 50 * time.Millisecond
	WinPulse      = 200 * time.Millisecond

	// FlashDuration is how long the good/bad flash stays on screen
	FlashDuration = 300 * time.Millisecond
)
