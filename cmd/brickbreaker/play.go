package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/gekko3d/brickbreaker"
	"github.com/gekko3d/brickbreaker/audio"
	"github.com/gekko3d/brickbreaker/config"
	"github.com/gekko3d/brickbreaker/gpu"
	"github.com/gekko3d/brickbreaker/logging"
	"github.com/gekko3d/brickbreaker/scores"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in a window",
	Long: `Open a window and play.

Controls:
  A/D, Left/Right  - Move the paddle
  F5               - Save the scene
  F9               - Reload the scene
  Left click       - Select an object
  Esc              - Quit`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	win, err := brickbreaker.NewPlatformWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title)
	if err != nil {
		return err
	}
	defer win.Destroy()

	dev, err := gpu.NewDevice(win.Handle(), logger)
	if err != nil {
		return err
	}
	defer dev.Release()

	b := brickbreaker.NewAppBuilder(cfg).
		WithLogger(logger).
		WithDevice(dev).
		WithWindow(win).
		WithInput(brickbreaker.NewWindowInput(win)).
		WithAudio(openAudio(cfg, logger)).
		WithFrontend("window")
	if store := openScores(cfg, logger); store != nil {
		b.WithScores(store)
	}
	app, err := b.Build()
	if err != nil {
		return err
	}
	defer app.Close()
	win.OnResize(app.Resize)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return errors.WithMessage(app.Run(ctx), "play")
}

// openAudio falls back to silence when the speaker cannot be opened.
func openAudio(cfg *config.Config, logger logging.Logger) audio.Player {
	if !cfg.Audio.Enabled {
		return audio.NewNopPlayer()
	}
	sm := audio.NewSoundManager(cfg.Audio.Volume)
	if err := sm.Initialize(); err != nil {
		logger.Warnf("audio disabled: %v", err)
		return audio.NewNopPlayer()
	}
	return sm
}

// openScores returns nil when history is disabled or the database cannot
// be opened; the game runs either way.
func openScores(cfg *config.Config, logger logging.Logger) *scores.Store {
	if !cfg.Scores.Enabled {
		return nil
	}
	store, err := scores.Open(cfg.Scores.Path)
	if err != nil {
		logger.Warnf("run history disabled: %v", err)
		return nil
	}
	return store
}
