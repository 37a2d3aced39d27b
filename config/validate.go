package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateRecording(); err != nil {
		return err
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return errors.New("audio.volume must be between 0 and 1")
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	if c.Paths.OutputDir == "" {
		return errors.New("paths.output_dir must be set")
	}
	return nil
}

func (c *Config) validateRecording() error {
	switch c.Recording.Camera {
	case CameraSynthetic, CameraDenied, CameraNone:
	default:
		return fmt.Errorf("recording.camera must be one of %q, %q or %q, got %q",
			CameraSynthetic, CameraDenied, CameraNone, c.Recording.Camera)
	}
	if c.Recording.FPS <= 0 || c.Recording.FPS > 60 {
		return errors.New("recording.fps must be between 1 and 60")
	}
	if c.Recording.Bitrate <= 0 {
		return errors.New("recording.bitrate must be positive")
	}
	if c.Recording.Width <= 0 || c.Recording.Height <= 0 {
		return errors.New("recording.width and recording.height must be positive")
	}
	if c.Recording.Height%2 != 0 {
		return errors.New("recording.height must be even so the surface splits in half")
	}
	if len(c.Recording.Codecs) == 0 {
		return errors.New("recording.codecs must list at least one container type")
	}
	return nil
}
