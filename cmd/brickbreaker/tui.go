package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gekko3d/brickbreaker"
	"github.com/gekko3d/brickbreaker/gfx"
	"github.com/gekko3d/brickbreaker/logging"
	"github.com/gekko3d/brickbreaker/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Play in the terminal",
	Long: `Play the same scene and rules in the terminal. Nothing is drawn on
the GPU; the scene is still loaded or generated from the asset files.

Controls:
  A/D, Left/Right, H/L  - Move the paddle
  Q/Esc/Ctrl+C          - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	// Log lines would corrupt the alt screen, so they go to a file in
	// debug mode and nowhere otherwise.
	logger := logging.NewNopLogger()
	if cfg.Log.Debug {
		f, err := os.Create("brickbreaker-tui.log")
		if err != nil {
			return err
		}
		defer f.Close()
		logger = logging.NewWriterLogger(f, cfg.Log.Prefix, true)
	}

	b := brickbreaker.NewAppBuilder(cfg).
		WithLogger(logger).
		WithDevice(gfx.NewRecorder()).
		WithAudio(openAudio(cfg, logger)).
		WithFrontend("terminal")
	if store := openScores(cfg, logger); store != nil {
		b.WithScores(store)
	}
	app, err := b.Build()
	if err != nil {
		return err
	}
	defer app.Close()

	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}

	m := tui.NewModel(app, tui.Options{
		TickRate: cfg.TickRate,
		Width:    width,
		Height:   height - 2,
	})
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(tui.Model); ok {
		if err := fm.Err(); err != nil {
			return err
		}
		fmt.Printf("%s: %d bricks destroyed\n", fm.State().Phase, fm.State().Destroyed)
	}
	return nil
}
