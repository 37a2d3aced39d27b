package constants

import "time"

// Loop timing
const (
	// FrameUpdateInterval is the display frame interval (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond

	// MaxTimerLag bounds how far a repeating timer may fall behind before it is re-anchored
	MaxTimerLag = 2
)
