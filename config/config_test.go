package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedDefaultMatchesDefault(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestCustomPathOverlaysDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tick_rate: 30\ngame:\n  paddle_step: 0.1\nroles:\n  bricks: [A, B]\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.TickRate)
	assert.Equal(t, float32(0.1), cfg.Game.PaddleStep)
	assert.Equal(t, []string{"A", "B"}, cfg.Roles.Bricks)
	assert.Equal(t, float32(0.3), cfg.Game.BallRadius)
	assert.Equal(t, 850, cfg.Window.Width)
}

func TestLocalFileIsPickedUp(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, LocalFile), []byte("window:\n  width: 640\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 640, cfg.Window.Width)
	assert.Equal(t, 850, cfg.Window.Height)
}

func TestMissingCustomPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BRICKBREAKER_TICK_RATE", "120")
	t.Setenv("BRICKBREAKER_WINDOW_TITLE", "test")
	t.Setenv("BRICKBREAKER_GAME_PADDLE_LIMIT", "5")
	t.Setenv("BRICKBREAKER_ROLES_BRICKS", "x,y,z")
	t.Setenv("BRICKBREAKER_LOG_DEBUG", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.TickRate)
	assert.Equal(t, "test", cfg.Window.Title)
	assert.Equal(t, float32(5), cfg.Game.PaddleLimit)
	assert.Equal(t, []string{"x", "y", "z"}, cfg.Roles.Bricks)
	assert.True(t, cfg.Log.Debug)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.Window.Width = 0
	cfg.TickRate = -1
	cfg.Roles.Bricks = nil
	cfg.Audio.Volume = 2
	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"window size", "tick_rate", "roles.bricks", "audio.volume"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	data, err := Marshal(Default())
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
