package brickbreaker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/brickbreaker/audio"
	"github.com/gekko3d/brickbreaker/config"
	"github.com/gekko3d/brickbreaker/files"
	"github.com/gekko3d/brickbreaker/game"
	"github.com/gekko3d/brickbreaker/gfx"
)

type countingPlayer struct {
	events []game.Event
	closed bool
}

func (p *countingPlayer) Play(events []game.Event) { p.events = append(p.events, events...) }
func (p *countingPlayer) Close()                   { p.closed = true }

var _ audio.Player = (*countingPlayer)(nil)

func TestAppBuilderDefaults(t *testing.T) {
	b := NewAppBuilder(nil)
	assert.Equal(t, config.Default(), b.app.cfg)
	assert.Equal(t, "headless", b.app.frontend)

	app, err := b.WithFiles(resources(t)).Build()
	require.NoError(t, err)
	defer app.Close()

	assert.IsType(t, &gfx.Recorder{}, app.device)
	assert.NotNil(t, app.audio)
	assert.NotNil(t, app.Logger())
	assert.Nil(t, app.store)
}

func TestAppBuilderDefaultFilesUseRoot(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.Root = t.TempDir()
	_, err := NewAppBuilder(cfg).Build()
	require.Error(t, err, "empty root has no shaders")

	mem := resources(t)
	disk := files.OS{Root: cfg.Paths.Root}
	for _, p := range mem.Paths() {
		data, err := mem.ReadAll(p)
		require.NoError(t, err)
		require.NoError(t, disk.WriteAll(p, data))
	}
	app, err := NewAppBuilder(cfg).Build()
	require.NoError(t, err)
	defer app.Close()

	_, err = disk.ReadAll(cfg.Paths.Manifest)
	assert.NoError(t, err)
}

func TestAppBuilderRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.TickRate = 0
	_, err := NewAppBuilder(cfg).WithFiles(resources(t)).Build()
	assert.ErrorContains(t, err, "tick_rate")
}

func TestAppBuilderWiresAudioAndClock(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := start
	player := &countingPlayer{}

	app, err := NewAppBuilder(nil).
		WithFiles(resources(t)).
		WithAudio(player).
		WithClock(func() time.Time { return now }).
		Build()
	require.NoError(t, err)

	now = start.Add(time.Second / 60)
	require.NoError(t, app.Tick())
	assert.Equal(t, time.Second/60, app.time.Dt)

	// walk the ball into the top wall
	ball := app.Scene().FindObjectByName("Ball")
	ball.Position[1] = -7.2
	_, _, err = app.Step(game.Input{})
	require.NoError(t, err)
	assert.Contains(t, player.events, game.Event{Kind: game.EventWallBounce})

	app.Close()
	assert.True(t, player.closed)
}

func TestDefaultSceneDefNeedsFiveBricks(t *testing.T) {
	r := game.DefaultRoles()
	def, err := DefaultSceneDef(r)
	require.NoError(t, err)
	assert.Len(t, def.Objects, 10)
	assert.Equal(t, float32(15), def.Camera.VerticalScale)

	r.Bricks = r.Bricks[:3]
	_, err = DefaultSceneDef(r)
	assert.Error(t, err)
}
