// Package config loads lovescroll settings from TOML with environment overrides
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// EnvPrefix prefixes every environment override
const EnvPrefix = "LOVESCROLL_"

// Camera modes
const (
	CameraSynthetic = "synthetic"
	CameraDenied    = "denied"
	CameraNone      = "none"
)

// Paths contains directory configuration
type Paths struct {
	DataDir   string `toml:"data_dir" env:"DATA_DIR"`
	LogDir    string `toml:"log_dir" env:"LOG_DIR"`
	OutputDir string `toml:"output_dir" env:"OUTPUT_DIR"`
}

// Logging contains log output configuration
type Logging struct {
	Debug bool `toml:"debug" env:"DEBUG"`
}

// Recording contains reaction capture configuration
type Recording struct {
	Enabled bool `toml:"enabled" env:"ENABLED"`
	// Camera selects the capture platform: synthetic, denied or none
	Camera  string   `toml:"camera" env:"CAMERA"`
	FPS     int      `toml:"fps" env:"FPS"`
	Bitrate int      `toml:"bitrate" env:"BITRATE"`
	Width   int      `toml:"width" env:"WIDTH"`
	Height  int      `toml:"height" env:"HEIGHT"`
	Codecs  []string `toml:"codecs" env:"CODECS" envSeparator:"|"`
}

// Audio contains sound cue configuration
type Audio struct {
	Enabled bool    `toml:"enabled" env:"ENABLED"`
	Volume  float64 `toml:"volume" env:"VOLUME"`
}

// Server contains the experience API configuration
type Server struct {
	Bind    string `toml:"bind" env:"BIND"`
	BaseURL string `toml:"base_url" env:"BASE_URL"`
}

// Config encapsulates all configuration values for lovescroll
//
// Configuration sections:
//   - Paths: data, log and saved-reaction directories
//   - Logging: debug log switch
//   - Recording: capture platform and encoder settings
//   - Audio: sound cues
//   - Server: experience API bind address and client base URL
type Config struct {
	Paths     Paths     `toml:"paths" envPrefix:"PATHS_"`
	Logging   Logging   `toml:"logging" envPrefix:"LOGGING_"`
	Recording Recording `toml:"recording" envPrefix:"RECORDING_"`
	Audio     Audio     `toml:"audio" envPrefix:"AUDIO_"`
	Server    Server    `toml:"server" envPrefix:"SERVER_"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/lovescroll/config.toml")
}

// Load locates, parses, overrides from the environment and validates a configuration file
// It returns the config, the resolved path and whether that file existed
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := ApplyEnv(&cfg); err != nil {
		return nil, "", false, err
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// ApplyEnv overrides fields from LOVESCROLL_* variables, e.g. LOVESCROLL_RECORDING_FPS
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		var err error
		if path, err = DefaultConfigPath(); err != nil {
			return "", false, err
		}
	}
	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %q is a directory", expanded)
	}
	return expanded, true, nil
}

// EnsureDirectories creates the data, log and output directories
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir, c.Paths.OutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the SQLite store location
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "lovescroll.db")
}

// Encode renders the config as TOML
func (c *Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the path expansion rules for other packages
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
