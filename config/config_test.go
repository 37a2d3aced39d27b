package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/ramedia/lovescroll/config"
)

func TestLoadDefaultsExpandPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if want := filepath.Join(tempHome, ".config", "lovescroll", "config.toml"); resolved != want {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, want)
	}
	if want := filepath.Join(tempHome, ".local", "share", "lovescroll"); cfg.Paths.DataDir != want {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, want)
	}
	if cfg.DatabasePath() != filepath.Join(cfg.Paths.DataDir, "lovescroll.db") {
		t.Fatalf("unexpected database path: %q", cfg.DatabasePath())
	}
	if cfg.Recording.Camera != config.CameraSynthetic {
		t.Fatalf("expected synthetic camera by default, got %q", cfg.Recording.Camera)
	}
	if !cfg.Recording.Enabled || !cfg.Audio.Enabled {
		t.Fatal("expected recording and audio enabled by default")
	}
	if cfg.Logging.Debug {
		t.Fatal("expected debug logging off by default")
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	path := filepath.Join(dir, "lovescroll.toml")
	content := `
[paths]
output_dir = "` + filepath.ToSlash(filepath.Join(dir, "out")) + `"

[recording]
camera = "Denied"
fps = 30

[audio]
enabled = false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected existing config at %q, got %q (exists=%v)", path, resolved, exists)
	}
	if cfg.Recording.Camera != config.CameraDenied {
		t.Fatalf("expected camera normalised to %q, got %q", config.CameraDenied, cfg.Recording.Camera)
	}
	if cfg.Recording.FPS != 30 {
		t.Fatalf("expected fps 30, got %d", cfg.Recording.FPS)
	}
	if cfg.Audio.Enabled {
		t.Fatal("expected audio disabled by file")
	}
	if cfg.Paths.OutputDir != filepath.Join(dir, "out") {
		t.Fatalf("unexpected output dir: %q", cfg.Paths.OutputDir)
	}
	if cfg.Recording.Bitrate != config.Default().Recording.Bitrate {
		t.Fatalf("expected untouched bitrate to keep default, got %d", cfg.Recording.Bitrate)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[recording]\nfps = 30\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("LOVESCROLL_RECORDING_FPS", "12")
	t.Setenv("LOVESCROLL_LOGGING_DEBUG", "true")
	t.Setenv("LOVESCROLL_RECORDING_CODECS", "video/mp4|video/x-motion-jpeg")
	t.Setenv("LOVESCROLL_SERVER_BASE_URL", "http://example.test/")

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Recording.FPS != 12 {
		t.Fatalf("expected env fps 12, got %d", cfg.Recording.FPS)
	}
	if !cfg.Logging.Debug {
		t.Fatal("expected debug enabled from env")
	}
	if len(cfg.Recording.Codecs) != 2 || cfg.Recording.Codecs[1] != "video/x-motion-jpeg" {
		t.Fatalf("unexpected codecs from env: %v", cfg.Recording.Codecs)
	}
	if cfg.Server.BaseURL != "http://example.test" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Server.BaseURL)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[recording]\nframerate = 30\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected unknown key to be rejected")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"defaults", func(*config.Config) {}, ""},
		{"bad camera", func(c *config.Config) { c.Recording.Camera = "webcam" }, "recording.camera"},
		{"zero fps", func(c *config.Config) { c.Recording.FPS = 0 }, "recording.fps"},
		{"odd height", func(c *config.Config) { c.Recording.Height = 1281 }, "even"},
		{"no codecs", func(c *config.Config) { c.Recording.Codecs = nil }, "recording.codecs"},
		{"loud", func(c *config.Config) { c.Audio.Volume = 1.5 }, "audio.volume"},
		{"no data dir", func(c *config.Config) { c.Paths.DataDir = "" }, "paths.data_dir"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected valid config, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCreateSampleParses(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		t.Fatalf("sample is not valid TOML: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load of sample returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if len(cfg.Recording.Codecs) != len(config.Default().Recording.Codecs) {
		t.Fatalf("expected sample codecs to match defaults, got %v", cfg.Recording.Codecs)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "data", "logs")
	cfg.Paths.OutputDir = filepath.Join(base, "videos")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories returned error: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir, cfg.Paths.OutputDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q to exist", dir)
		}
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := config.Default()
	cfg.Recording.FPS = 15
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	var decoded config.Config
	if err := toml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode encoded config: %v", err)
	}
	if decoded.Recording.FPS != 15 || decoded.Server.Bind != cfg.Server.Bind {
		t.Fatalf("unexpected round trip: %+v", decoded)
	}
}
