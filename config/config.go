// Package config loads brickbreaker settings: YAML over built-in defaults,
// then BRICKBREAKER_* environment overrides.
package config

import (
	"fmt"
	"strings"

	"github.com/gekko3d/brickbreaker/game"
)

type Config struct {
	Window   WindowConfig `yaml:"window"`
	Paths    PathsConfig  `yaml:"paths"`
	TickRate int          `yaml:"tick_rate" split_words:"true"`
	Game     game.Config  `yaml:"game"`
	Roles    game.Roles   `yaml:"roles"`
	Audio    AudioConfig  `yaml:"audio"`
	Scores   ScoresConfig `yaml:"scores"`
	Log      LogConfig    `yaml:"log"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// PathsConfig locates the asset files. Manifest and Scene are relative to
// Root.
type PathsConfig struct {
	Root     string `yaml:"root"`
	Manifest string `yaml:"manifest"`
	Scene    string `yaml:"scene"`
	// LoadScene reads Manifest and Scene instead of building the default
	// scene.
	LoadScene bool `yaml:"load_scene" split_words:"true"`
}

type AudioConfig struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"` // 0..1
}

type ScoresConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type LogConfig struct {
	Prefix string `yaml:"prefix"`
	Debug  bool   `yaml:"debug"`
}

func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  850,
			Height: 850,
			Title:  "Brick Breaker",
		},
		Paths: PathsConfig{
			Root:     "res",
			Manifest: "manifest.json",
			Scene:    "scene.json",
		},
		TickRate: 60,
		Game:     game.DefaultConfig(),
		Roles:    game.DefaultRoles(),
		Audio: AudioConfig{
			Enabled: true,
			Volume:  0.5,
		},
		Scores: ScoresConfig{
			Enabled: true,
			Path:    "~/.brickbreaker/scores.db",
		},
		Log: LogConfig{
			Prefix: "brickbreaker",
		},
	}
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var problems []string
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		problems = append(problems, fmt.Sprintf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.TickRate <= 0 {
		problems = append(problems, fmt.Sprintf("tick_rate %d must be positive", c.TickRate))
	}
	if c.Roles.Ball == "" || c.Roles.Paddle == "" {
		problems = append(problems, "roles.ball and roles.paddle are required")
	}
	if len(c.Roles.Bricks) == 0 {
		problems = append(problems, "roles.bricks must name at least one brick")
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		problems = append(problems, fmt.Sprintf("audio.volume %v must be within [0, 1]", c.Audio.Volume))
	}
	if c.Game.PaddleInner > c.Game.PaddleOuter || c.Game.PaddleOuter > c.Game.PaddleHalfWidth {
		problems = append(problems, "game paddle zones must satisfy inner <= outer <= half width")
	}
	if c.Scores.Enabled && c.Scores.Path == "" {
		problems = append(problems, "scores.path is required when scores are enabled")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}
