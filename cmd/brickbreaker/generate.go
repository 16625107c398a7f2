package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gekko3d/brickbreaker"
	"github.com/gekko3d/brickbreaker/gfx"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write the default manifest and scene",
	Long: `Build the default scene from the resource files and write the asset
manifest and the scene file under the resource root. Existing files are
overwritten and every asset gets a fresh GUID.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the manifest and scene on disk",
	Long: `Load the asset manifest and the scene file exactly as play does, and
check that every role object is present. Nothing is written.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Paths.LoadScene = false

	app, err := brickbreaker.NewAppBuilder(cfg).
		WithLogger(logger).
		WithDevice(gfx.NewRecorder()).
		Build()
	if err != nil {
		return err
	}
	defer app.Close()

	fmt.Printf("wrote %s (%d assets)\n", filepath.Join(cfg.Paths.Root, cfg.Paths.Manifest), app.Assets().Len())
	fmt.Printf("wrote %s (%d objects)\n", filepath.Join(cfg.Paths.Root, cfg.Paths.Scene), len(app.Scene().Objects))
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Paths.LoadScene = true

	app, err := brickbreaker.NewAppBuilder(cfg).
		WithLogger(logger).
		WithDevice(gfx.NewRecorder()).
		Build()
	if err != nil {
		return err
	}
	defer app.Close()

	s := app.Scene()
	fmt.Printf("ok: %d assets, %d materials, %d objects, %d lights, %d bricks bound\n",
		app.Assets().Len(), len(s.Materials), len(s.Objects), len(s.Lights), app.Bindings().BrickCount())
	return nil
}
