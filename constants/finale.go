package constants

import "time"

// Finale letter reveal
const (
	// LetterSettleDelay is the wait between unlock and the first typed character
	LetterSettleDelay = 800 * time.Millisecond

	// TypewriterInterval is the per-character reveal cadence
	TypewriterInterval = 30 * time.Millisecond

	// CelebrationDelay follows natural completion of the letter
	CelebrationDelay = 500 * time.Millisecond

	// SkipCelebrationDelay follows a skip
	SkipCelebrationDelay = 300 * time.Millisecond

	// CelebrationParticles is the firework particle count
	CelebrationParticles = 20
)
