package constants

import "time"

// Terminal layout
const (
	// HeaderRows is reserved at the top for the title, progress dots and recording badge
	HeaderRows = 3

	// MaxTextWidth caps the letter and caption column
	MaxTextWidth = 64

	// GateFieldWidth caps the play field width in cells
	GateFieldWidth = 60
)

// Gate keyboard columns: each key taps the lowest token in its slice of the lanes
const (
	GateColumnKeys = "asdfg"
	GateColumns    = len(GateColumnKeys)

	// GateColumnSpan is the lane width covered by one key, in percent
	GateColumnSpan = LaneSpan / GateColumns

	// TapRadius is the mouse hit box half-size, in percent of the field
	TapRadius = 8.0
)

// Camera preview box, in cells; each cell shows two pixel rows
const (
	PreviewWidth  = 16
	PreviewHeight = 6
)

// UI timing
const (
	// NoticeTimeout is how long a save or error notice stays in the footer
	NoticeTimeout = 6 * time.Second
)
