package constants

import "time"

// Story sequencer timing
const (
	// FirstFocusDelay is the wait between start and focusing the first memory
	FirstFocusDelay = 100 * time.Millisecond

	// OverlayCloseSettle is the wait after closing a memory overlay before focus moves
	OverlayCloseSettle = 300 * time.Millisecond

	// AllCompleteSettle is the extra wait before announcing that every memory is open
	AllCompleteSettle = 200 * time.Millisecond
)
