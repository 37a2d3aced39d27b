package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/ramedia/lovescroll/api"
	"github.com/ramedia/lovescroll/capture"
	"github.com/ramedia/lovescroll/capture/soft"
	"github.com/ramedia/lovescroll/config"
	"github.com/ramedia/lovescroll/constants"
	"github.com/ramedia/lovescroll/engine"
	"github.com/ramedia/lovescroll/model"
	"github.com/ramedia/lovescroll/sound"
	"github.com/ramedia/lovescroll/store"
	"github.com/ramedia/lovescroll/tui"
)

var errNotTerminal = errors.New("play needs an interactive terminal")

type playOptions struct {
	file     string
	url      string
	noRecord bool
	noSound  bool
}

func newPlayCommand(ctx *commandContext) *cobra.Command {
	var opts playOptions

	cmd := &cobra.Command{
		Use:   "play [slug]",
		Short: "Play an experience",
		Long: "Play an experience from the local store by slug, from a TOML file with --file, " +
			"or from a remote server with --url.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !isTerminal(os.Stdout) {
				return errNotTerminal
			}

			slug := ""
			if len(args) == 1 {
				slug = strings.TrimSpace(args[0])
			}
			exp, err := loadExperience(cmd.Context(), cfg, opts, slug)
			if err != nil {
				return err
			}
			return play(cmd, cfg, opts, exp)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Play an experience TOML file")
	cmd.Flags().StringVar(&opts.url, "url", "", "Fetch the experience from a lovescroll server")
	cmd.Flags().BoolVar(&opts.noRecord, "no-record", false, "Never offer reaction recording")
	cmd.Flags().BoolVar(&opts.noSound, "no-sound", false, "Disable sound cues")
	return cmd
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// loadExperience resolves the record from a file, a remote server or the local store, in that order
func loadExperience(ctx context.Context, cfg *config.Config, opts playOptions, slug string) (*model.Experience, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	switch {
	case opts.file != "":
		path, err := config.ExpandPath(opts.file)
		if err != nil {
			return nil, fmt.Errorf("resolve file path: %w", err)
		}
		exp, err := model.LoadFile(path)
		if err != nil {
			return nil, err
		}
		if exp.Expired(time.Now()) {
			return nil, describeLoadError(exp.Slug, store.ErrExpired)
		}
		return exp, nil

	case slug == "":
		return nil, errors.New("a slug is required unless --file is given")

	case opts.url != "":
		client := api.NewClient(opts.url, nil)
		exp, err := client.Experience(ctx, slug)
		if err != nil {
			return nil, describeLoadError(slug, err)
		}
		return exp, nil
	}

	st, err := store.Open(cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	exp, err := st.Get(ctx, slug, time.Now())
	if err != nil {
		return nil, describeLoadError(slug, err)
	}
	if err := st.RecordView(ctx, slug); err != nil {
		log.Printf("play: record view: %v", err)
	}
	return exp, nil
}

// capturePlatform maps the configured camera mode onto the software platform
// It returns nil when recording is off
func capturePlatform(sched engine.Scheduler, cfg *config.Config, noRecord bool) capture.Platform {
	if noRecord || !cfg.Recording.Enabled {
		return nil
	}
	var opts soft.Options
	switch cfg.Recording.Camera {
	case config.CameraDenied:
		opts.Deny = true
	case config.CameraNone:
		opts.NoCamera = true
	}
	return soft.New(sched, opts)
}

func soundManager(cfg *config.Config, noSound bool) *sound.Manager {
	if noSound || !cfg.Audio.Enabled {
		return nil
	}
	sc := sound.DefaultConfig()
	sc.MasterVolume = cfg.Audio.Volume
	m := sound.NewManager(sc)
	if err := m.Initialize(); err != nil {
		log.Printf("play: sound unavailable: %v", err)
		return nil
	}
	return m
}

func play(cmd *cobra.Command, cfg *config.Config, opts playOptions, exp *model.Experience) error {
	loop := engine.NewLoop(constants.FrameUpdateInterval)

	snd := soundManager(cfg, opts.noSound)
	if snd != nil {
		defer snd.Cleanup()
	}

	log.Printf("play: %s (%s) for %s", exp.Slug, exp.Tier, exp.ToName)
	saved, err := tui.Run(loop, tui.Options{
		Experience: exp,
		Platform:   capturePlatform(loop, cfg, opts.noRecord),
		Capture: capture.Options{
			FPS:         cfg.Recording.FPS,
			Bitrate:     cfg.Recording.Bitrate,
			Size:        surfaceSize(cfg),
			Preferences: cfg.Recording.Codecs,
		},
		Sound:     snd,
		OutputDir: cfg.Paths.OutputDir,
	})
	if err != nil {
		return err
	}
	if saved != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Your reaction was saved to %s\n", saved)
	}
	return nil
}

func surfaceSize(cfg *config.Config) image.Point {
	return image.Pt(cfg.Recording.Width, cfg.Recording.Height)
}
