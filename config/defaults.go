package config

import (
	"github.com/ramedia/lovescroll/capture"
	"github.com/ramedia/lovescroll/constants"
)

const (
	defaultDataDir   = "~/.local/share/lovescroll"
	defaultLogDir    = "~/.local/share/lovescroll/logs"
	defaultOutputDir = "~/Videos/lovescroll"
	defaultBind      = "127.0.0.1:8080"
	defaultBaseURL   = "http://127.0.0.1:8080"
	defaultVolume    = 0.6
)

// Default returns a Config populated with repository defaults
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			LogDir:    defaultLogDir,
			OutputDir: defaultOutputDir,
		},
		Recording: Recording{
			Enabled: true,
			Camera:  CameraSynthetic,
			FPS:     constants.CaptureFPS,
			Bitrate: constants.VideoBitrate,
			Width:   constants.SurfaceWidth,
			Height:  constants.SurfaceHeight,
			Codecs:  append([]string(nil), capture.DefaultPreferences...),
		},
		Audio: Audio{
			Enabled: true,
			Volume:  defaultVolume,
		},
		Server: Server{
			Bind:    defaultBind,
			BaseURL: defaultBaseURL,
		},
	}
}
