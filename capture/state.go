package capture

// State is the recording lifecycle position
type State int

const (
	StateIdle State = iota
	StateRequesting
	StateReady
	StateRecording
	StateProcessing
	StateComplete
	StateError
	StateUnsupported
)

var stateNames = [...]string{
	StateIdle:        "idle",
	StateRequesting:  "requesting",
	StateReady:       "ready",
	StateRecording:   "recording",
	StateProcessing:  "processing",
	StateComplete:    "complete",
	StateError:       "error",
	StateUnsupported: "unsupported",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}
