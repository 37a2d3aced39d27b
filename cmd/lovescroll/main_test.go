package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ramedia/lovescroll/api"
	"github.com/ramedia/lovescroll/capture/soft"
	"github.com/ramedia/lovescroll/config"
	"github.com/ramedia/lovescroll/engine"
	"github.com/ramedia/lovescroll/model"
	"github.com/ramedia/lovescroll/store"
)

type cliTestEnv struct {
	configPath string
	dataDir    string
	outputDir  string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	env := &cliTestEnv{
		configPath: filepath.Join(base, "config.toml"),
		dataDir:    filepath.Join(base, "data"),
		outputDir:  filepath.Join(base, "videos"),
	}
	content := fmt.Sprintf(
		"[paths]\ndata_dir = %q\nlog_dir = %q\noutput_dir = %q\n\n[recording]\ncamera = \"denied\"\n",
		env.dataDir, filepath.Join(base, "logs"), env.outputDir,
	)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "# Config path: "+env.configPath)
	requireContains(t, out, `camera = 'denied'`)

	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, _, _, err := config.Load(target); err != nil {
		t.Fatalf("sample config should load: %v", err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse an existing file")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestSeedListDelete(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"seed", "alex-sam", "--tier", "lite", "--to", "Jo"}, env.configPath)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	requireContains(t, out, `Seeded lite experience "alex-sam" with 3 memories`)

	if _, _, err := runCLI(t, []string{"seed", "forever-demo", "--tier", "forever"}, env.configPath); err != nil {
		t.Fatalf("seed forever: %v", err)
	}

	out, _, err = runCLI(t, []string{"list"}, env.configPath)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	requireContains(t, out, "alex-sam")
	requireContains(t, out, "Alex → Jo")
	requireContains(t, out, "forever-demo")

	out, _, err = runCLI(t, []string{"delete", "alex-sam"}, env.configPath)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	requireContains(t, out, "Deleted alex-sam")

	_, _, err = runCLI(t, []string{"delete", "alex-sam"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestSeedRejectsUnknownTier(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"seed", "--tier", "platinum"}, env.configPath); err == nil {
		t.Fatal("expected unknown tier to fail")
	}
}

func TestListEmpty(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"list"}, env.configPath)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	requireContains(t, out, "No experiences stored")
}

func TestPlayRefusesWithoutTerminal(t *testing.T) {
	env := setupCLITestEnv(t)
	if isTerminal(os.Stdout) {
		t.Skip("stdout is a terminal")
	}
	_, _, err := runCLI(t, []string{"play", "demo"}, env.configPath)
	if !errors.Is(err, errNotTerminal) {
		t.Fatalf("expected errNotTerminal, got %v", err)
	}
}

func TestLoadExperienceSources(t *testing.T) {
	env := setupCLITestEnv(t)
	cfg, _, _, err := config.Load(env.configPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	ctx := context.Background()

	t.Run("file", func(t *testing.T) {
		exp, _ := model.Sample("from-file", model.TierClassic, time.Now())
		path := filepath.Join(t.TempDir(), "exp.toml")
		if err := model.WriteFile(path, exp); err != nil {
			t.Fatalf("write file: %v", err)
		}
		got, err := loadExperience(ctx, cfg, playOptions{file: path}, "")
		if err != nil {
			t.Fatalf("load file: %v", err)
		}
		if got.Slug != "from-file" || len(got.Photos) != 7 {
			t.Errorf("unexpected record %s with %d photos", got.Slug, len(got.Photos))
		}
	})

	t.Run("expired file", func(t *testing.T) {
		exp, _ := model.Sample("old", model.TierLite, time.Now().AddDate(-1, 0, 0))
		path := filepath.Join(t.TempDir(), "old.toml")
		if err := model.WriteFile(path, exp); err != nil {
			t.Fatalf("write file: %v", err)
		}
		_, err := loadExperience(ctx, cfg, playOptions{file: path}, "")
		if err == nil || !strings.Contains(err.Error(), "has expired") {
			t.Errorf("expected expiry error, got %v", err)
		}
	})

	t.Run("missing slug", func(t *testing.T) {
		if _, err := loadExperience(ctx, cfg, playOptions{}, ""); err == nil {
			t.Error("expected error without slug")
		}
	})

	t.Run("store", func(t *testing.T) {
		st, err := store.Open(cfg.DatabasePath())
		if err != nil {
			t.Fatalf("open store: %v", err)
		}
		exp, _ := model.Sample("stored", model.TierLite, time.Now())
		if err := st.Put(ctx, exp); err != nil {
			t.Fatalf("put: %v", err)
		}
		st.Close()

		got, err := loadExperience(ctx, cfg, playOptions{}, "stored")
		if err != nil {
			t.Fatalf("load from store: %v", err)
		}
		if got.ToName != "Sam" {
			t.Errorf("unexpected recipient %q", got.ToName)
		}

		_, err = loadExperience(ctx, cfg, playOptions{}, "nobody")
		if err == nil || !strings.Contains(err.Error(), `"nobody" not found`) {
			t.Errorf("expected not found, got %v", err)
		}
	})
}

func TestServeAndFetchOverHTTP(t *testing.T) {
	env := setupCLITestEnv(t)
	cfg, _, _, err := config.Load(env.configPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure dirs: %v", err)
	}
	st, err := store.Open(cfg.DatabasePath())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()
	exp, _ := model.Sample("remote", model.TierForever, time.Now())
	if err := st.Put(context.Background(), exp); err != nil {
		t.Fatalf("put: %v", err)
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, listener, api.NewServer(st)) }()

	base := "http://" + listener.Addr().String()
	resp, err := http.Get(base + "/ping")
	if err != nil {
		t.Fatalf("ping: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "pong" {
		t.Errorf("unexpected ping body %q", body)
	}

	got, err := loadExperience(context.Background(), cfg, playOptions{url: base}, "remote")
	if err != nil {
		t.Fatalf("remote load: %v", err)
	}
	if len(got.Photos) != 10 || !got.RecordingEnabled() {
		t.Errorf("unexpected remote record: %d photos, recording %v", len(got.Photos), got.RecordingEnabled())
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("serve returned %v", err)
		}
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("serve did not stop")
	}
}

func TestCapturePlatformModes(t *testing.T) {
	sched := engine.NewManual(time.Unix(1700000000, 0))
	cfg := config.Default()

	if capturePlatform(sched, &cfg, true) != nil {
		t.Error("expected --no-record to disable the platform")
	}
	cfg.Recording.Enabled = false
	if capturePlatform(sched, &cfg, false) != nil {
		t.Error("expected disabled recording to disable the platform")
	}

	cfg.Recording.Enabled = true
	cfg.Recording.Camera = config.CameraNone
	p := capturePlatform(sched, &cfg, false)
	if p == nil || p.Probe().Camera {
		t.Error("expected a platform without a camera")
	}

	cfg.Recording.Camera = config.CameraSynthetic
	p = capturePlatform(sched, &cfg, false)
	if _, ok := p.(*soft.Platform); !ok || !p.Probe().Camera {
		t.Error("expected the synthetic camera")
	}
}

func TestExpiryLabel(t *testing.T) {
	now := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		expires time.Time
		want    string
	}{
		{time.Time{}, "never"},
		{now.Add(-time.Hour), "expired"},
		{now.AddDate(0, 1, 0), "2026-03-14"},
	}
	for _, tc := range cases {
		if got := expiryLabel(tc.expires, now); got != tc.want {
			t.Errorf("expiryLabel(%v) = %q, want %q", tc.expires, got, tc.want)
		}
	}
}
