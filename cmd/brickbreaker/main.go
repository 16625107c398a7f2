// brickbreaker runs the brick breaker game and its asset tooling.
//
// Usage:
//
//	brickbreaker play        - Play in a window
//	brickbreaker tui         - Play in the terminal
//	brickbreaker generate    - Write the default manifest and scene
//	brickbreaker validate    - Check the manifest and scene on disk
//	brickbreaker scores      - Show recent runs
//
// Global flags:
//
//	--config <path>  - Config file (default: ./brickbreaker.yaml, then built-in)
//	--debug          - Enable debug logging
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/gekko3d/brickbreaker/config"
	"github.com/gekko3d/brickbreaker/logging"
)

var (
	flagConfig string
	flagDebug  bool
)

func init() {
	// GLFW and the GPU surface must stay on the main thread.
	runtime.LockOSThread()

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(scoresCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "brickbreaker",
	Short: "Brick breaker with a GUID asset registry and live scene editor",
	Long: `Brick breaker bounces a ball off a paddle into five bricks.

Assets are referenced by GUID through a JSON manifest, and the scene is
stored as JSON next to it. The windowed front end doubles as a live editor:
F5 saves the scene, F9 reloads it, and clicking selects an object.

Examples:
  brickbreaker play
  brickbreaker tui
  brickbreaker generate --config ./brickbreaker.yaml
  brickbreaker scores`,
	SilenceUsage: true,
}

// loadConfig reads the config and builds the logger for a command.
func loadConfig() (*config.Config, logging.Logger, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, nil, err
	}
	if flagDebug {
		cfg.Log.Debug = true
	}
	return cfg, logging.NewDefaultLogger(cfg.Log.Prefix, cfg.Log.Debug), nil
}
