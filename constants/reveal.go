package constants

import "time"

// Interaction primitive tuning
const (
	// ScratchIncrement is the progress added by one scratch tap
	ScratchIncrement = 35

	// RevealThreshold is the accumulated progress that reveals a scratch card
	RevealThreshold = 100

	// TapPulse is the haptic pulse for single-tap reveals
	TapPulse = 50 * time.Millisecond

	// ScratchPulse is the haptic pulse for each scratch tap
	ScratchPulse = 30 * time.Millisecond

	// TapRevealDelay lets the tap animation play before the overlay opens
	TapRevealDelay = 400 * time.Millisecond

	// ScratchRevealDelay lets the last scratch settle before the overlay opens
	ScratchRevealDelay = 300 * time.Millisecond
)
