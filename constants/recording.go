package constants

import "time"

// Compositing surface (portrait)
const (
	SurfaceWidth  = 720
	SurfaceHeight = 1280

	// LabelBarHeight is the height of the name banner at the top of the frame
	LabelBarHeight = 36
)

// Camera constraints
const (
	CameraIdealWidth  = 640
	CameraIdealHeight = 480
	CameraFacing      = "user"
)

// Encoder settings
const (
	CaptureFPS = 24

	// VideoBitrate is the target encoder bitrate in bits per second
	VideoBitrate = 2_500_000

	// ChunkInterval is the encoder data timeslice
	ChunkInterval = time.Second

	// AudioSampleRate is used by the software microphone and encoder
	AudioSampleRate = 48000
)

// Recording lifecycle
const (
	// AutoStartDelay is the wait between camera ready and recording start
	AutoStartDelay = 500 * time.Millisecond

	// DurationTick is the elapsed-seconds counter period
	DurationTick = time.Second

	// PermissionPromptDelay is the wait after start before asking for the camera
	PermissionPromptDelay = 1500 * time.Millisecond
)

// Artifact naming
const (
	ArtifactPrefix = "lovescroll-reaction-"
	BlobScheme     = "blob:lovescroll/"
)

// PermissionDeniedMessage is shown when the camera cannot be acquired
const PermissionDeniedMessage = "Camera access denied. Please allow camera access to record your reaction."
