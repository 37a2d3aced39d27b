package capture

import (
	"fmt"
	"strings"
)

// MIMEMotionJPEG is the software container: multipart JPEG frames with WAV audio segments
const MIMEMotionJPEG = "video/x-motion-jpeg"

// DefaultPreferences is the container order tried when recording starts
var DefaultPreferences = []string{
	"video/webm;codecs=vp9,opus",
	"video/webm;codecs=vp8,opus",
	"video/mp4",
	"video/webm",
	MIMEMotionJPEG,
}

// SelectMIMEType returns the first preference the platform supports
func SelectMIMEType(caps Capabilities, prefs []string) (string, error) {
	if len(prefs) == 0 {
		prefs = DefaultPreferences
	}
	for _, mime := range prefs {
		if caps.IsTypeSupported(mime) {
			return mime, nil
		}
	}
	return "", fmt.Errorf("select container from %v: %w", prefs, ErrEncoderUnavailable)
}

// Extension maps a container MIME type to a file extension
func Extension(mime string) string {
	base, _, _ := strings.Cut(mime, ";")
	switch strings.TrimSpace(base) {
	case "video/mp4":
		return "mp4"
	case MIMEMotionJPEG:
		return "mjpeg"
	default:
		return "webm"
	}
}
