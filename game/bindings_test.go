package game

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/brickbreaker/scene"
)

func rolesScene() *scene.Scene {
	s := scene.New()
	add := func(name string, pos mgl32.Vec3) {
		o := scene.NewRenderObject(name)
		o.Position = pos
		o.RecalcTransform()
		s.AddObject(o)
	}
	add("Ball", mgl32.Vec3{0, 0, 0})
	add("Paddle", mgl32.Vec3{0, 5.8, 0})
	for i, p := range defaultBricks() {
		add(DefaultRoles().Bricks[i], p)
	}
	add("back", mgl32.Vec3{0, 0, -10})
	add("winscreen", mgl32.Vec3{0, 0, -50})
	add("lossscreen", mgl32.Vec3{0, 0, -50})
	return s
}

func TestBindMissingRoles(t *testing.T) {
	s := scene.New()
	s.AddObject(scene.NewRenderObject("Ball"))

	_, err := Bind(s, DefaultRoles())
	var be *BindingError
	require.True(t, errors.As(err, &be))
	assert.Len(t, be.Missing, 8)
	assert.Contains(t, be.Missing, `paddle "Paddle"`)
	assert.Contains(t, err.Error(), `brick "Brick 3"`)
}

func TestBindNoBricks(t *testing.T) {
	r := DefaultRoles()
	r.Bricks = nil
	_, err := Bind(rolesScene(), r)
	var be *BindingError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, []string{"bricks (none configured)"}, be.Missing)
}

func TestPullPushRoundTrip(t *testing.T) {
	s := rolesScene()
	b, err := Bind(s, DefaultRoles())
	require.NoError(t, err)
	assert.Equal(t, 5, b.BrickCount())

	f, err := b.Pull()
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec3{0, 5.8, 0}, f.Paddle)
	assert.Equal(t, defaultBricks(), f.Bricks)
	assert.Equal(t, mgl32.Vec3{0, 0, -50}, f.WinOverlay)

	f.Ball = mgl32.Vec3{1, 2, 0}
	f.Bricks[4] = mgl32.Vec3{-10, 0, 0}
	require.NoError(t, b.Push(f))

	ball := s.FindObjectByName("Ball")
	assert.Equal(t, mgl32.Vec3{1, 2, 0}, ball.Position)
	assert.Equal(t, mgl32.Vec3{1, 2, 0}, ball.Transform.Col(3).Vec3())
	assert.Equal(t, mgl32.Vec3{-10, 0, 0}, s.FindObjectByName("Brick 5").Transform.Col(3).Vec3())
}

func TestStaleHandleAfterSceneEdit(t *testing.T) {
	s := rolesScene()
	b, err := Bind(s, DefaultRoles())
	require.NoError(t, err)

	s.Objects[0] = scene.NewRenderObject("Ball")
	_, err = b.Pull()
	assert.True(t, errors.Is(err, scene.ErrStaleHandle))
	assert.True(t, errors.Is(b.Push(&Frame{Bricks: make([]mgl32.Vec3, 5)}), scene.ErrStaleHandle))
}

func TestPushRejectsWrongBrickCount(t *testing.T) {
	b, err := Bind(rolesScene(), DefaultRoles())
	require.NoError(t, err)
	f, err := b.Pull()
	require.NoError(t, err)
	f.Bricks = f.Bricks[:2]
	assert.Error(t, b.Push(f))
}

func TestStepThroughBindings(t *testing.T) {
	s := rolesScene()
	b, err := Bind(s, DefaultRoles())
	require.NoError(t, err)
	e := NewEngine(DefaultConfig())
	st := e.Config.InitialState()

	for i := 0; i < 3; i++ {
		f, err := b.Pull()
		require.NoError(t, err)
		st, _ = e.Step(st, f, Input{Right: true})
		require.NoError(t, b.Push(f))
	}
	assert.InDelta(t, 0.078, s.FindObjectByName("Ball").Position.Y(), 1e-5)
	assert.InDelta(t, 0.15, s.FindObjectByName("Paddle").Position.X(), 1e-5)
}
