package brickbreaker

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/brickbreaker/config"
	"github.com/gekko3d/brickbreaker/files"
	"github.com/gekko3d/brickbreaker/game"
	"github.com/gekko3d/brickbreaker/gfx"
	"github.com/gekko3d/brickbreaker/logging"
	"github.com/gekko3d/brickbreaker/scores"
)

const quadOBJ = "v -1 0 -1\nv 1 0 -1\nv 1 0 1\nv -1 0 1\nvn 0 1 0\nf 1//1 2//1 3//1\nf 1//1 3//1 4//1\n"

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := 0; i < 4; i++ {
		img.Set(i%2, i/2, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// resources fills a memory FS with every file the built-in scene names.
func resources(t *testing.T) *files.Memory {
	t.Helper()
	fs := files.NewMemory()
	p := DefaultAssetPaths()
	for _, path := range []string{p.VertexShader, p.FragmentShader} {
		require.NoError(t, fs.WriteAll(path, []byte("// "+path)))
	}
	for _, path := range []string{p.SphereMesh, p.PaddleMesh, p.PlaneMesh} {
		require.NoError(t, fs.WriteAll(path, []byte(quadOBJ)))
	}
	png := tinyPNG(t)
	for _, path := range []string{p.BallTexture, p.PaddleTexture, p.BrickTexture, p.BackgroundTexture, p.WinTexture, p.LossTexture} {
		require.NoError(t, fs.WriteAll(path, png))
	}
	return fs
}

type keySource map[Key]bool

func (k keySource) IsKeyPressed(key Key) bool { return k[key] }

type fakeWindow struct {
	closeAfter int
	polls      int
}

func (w *fakeWindow) ShouldClose() bool { return w.polls >= w.closeAfter }
func (w *fakeWindow) PollEvents()       { w.polls++ }
func (w *fakeWindow) Size() (int, int)  { return 850, 850 }

func newTestApp(t *testing.T, fs *files.Memory, cfg *config.Config) (*App, *gfx.Recorder) {
	t.Helper()
	rec := gfx.NewRecorder()
	app, err := NewAppBuilder(cfg).WithFiles(fs).WithDevice(rec).Build()
	require.NoError(t, err)
	t.Cleanup(app.Close)
	return app, rec
}

func TestBootstrapWritesManifestAndScene(t *testing.T) {
	fs := resources(t)
	app, _ := newTestApp(t, fs, nil)

	assert.Contains(t, fs.Paths(), "manifest.json")
	assert.Contains(t, fs.Paths(), "scene.json")
	// one shader, three meshes, six textures
	assert.Equal(t, 10, app.Assets().Len())
	assert.Len(t, app.Scene().Objects, 10)
	assert.Equal(t, 5, app.Bindings().BrickCount())
	assert.Equal(t, game.Playing, app.State().Phase)

	paddle := app.Scene().FindObjectByName("Paddle")
	require.NotNil(t, paddle)
	assert.Equal(t, mgl32.Vec3{0, 5.8, 0}, paddle.Position)
}

func TestBootstrapLoadsSavedScene(t *testing.T) {
	fs := resources(t)
	first, _ := newTestApp(t, fs, nil)
	ball := first.Scene().FindObjectByName("Ball")
	require.NotNil(t, ball)

	cfg := config.Default()
	cfg.Paths.LoadScene = true
	second, _ := newTestApp(t, fs, cfg)

	loaded := second.Scene().FindObjectByName("Ball")
	require.NotNil(t, loaded)
	assert.Equal(t, ball.Guid, loaded.Guid)
	assert.Equal(t, ball.Mesh, loaded.Mesh)
	assert.NotNil(t, second.Assets().GetMesh(loaded.Mesh))
}

func TestBootstrapMissingResource(t *testing.T) {
	fs := files.NewMemory()
	_, err := NewAppBuilder(nil).WithFiles(fs).WithDevice(gfx.NewRecorder()).Build()
	assert.Error(t, err)
}

func TestBootstrapRejectsUnboundRoles(t *testing.T) {
	fs := resources(t)
	newTestApp(t, fs, nil)

	cfg := config.Default()
	cfg.Paths.LoadScene = true
	cfg.Roles.Ball = "Sphere"
	_, err := NewAppBuilder(cfg).WithFiles(fs).WithDevice(gfx.NewRecorder()).Build()
	var be *game.BindingError
	require.ErrorAs(t, err, &be)
	assert.Len(t, be.Missing, 1)
}

func TestStepMovesBallThroughScene(t *testing.T) {
	app, _ := newTestApp(t, resources(t), nil)

	st, events, err := app.Step(game.Input{Right: true})
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, game.Playing, st.Phase)

	ball := app.Scene().FindObjectByName("Ball")
	paddle := app.Scene().FindObjectByName("Paddle")
	assert.InDelta(t, 0.026, ball.Position.Y(), 1e-6)
	assert.InDelta(t, 0.05, paddle.Position.X(), 1e-6)
	assert.Equal(t, ball.Position, app.Frame().Ball)
	assert.Equal(t, 1, app.Tracker().Ticks())
}

func TestLossIsRecorded(t *testing.T) {
	store, err := scores.Open(filepath.Join(t.TempDir(), "scores.db"))
	require.NoError(t, err)

	rec := gfx.NewRecorder()
	app, err := NewAppBuilder(nil).
		WithFiles(resources(t)).
		WithDevice(rec).
		WithScores(store).
		WithFrontend("test").
		Build()
	require.NoError(t, err)

	ball := app.Scene().FindObjectByName("Ball")
	app.Editor().SetPosition(ball, mgl32.Vec3{0, 6.5, 0})
	st, events, err := app.Step(game.Input{})
	require.NoError(t, err)
	assert.Equal(t, game.Lost, st.Phase)
	assert.Contains(t, events, game.Event{Kind: game.EventLost})

	runs, err := store.RecentRuns(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, scores.OutcomeLost, runs[0].Outcome)
	assert.Equal(t, "test", runs[0].Frontend)
	assert.Equal(t, 5, runs[0].Bricks)

	// the loss overlay comes to the front on the ending tick
	assert.Equal(t, mgl32.Vec3{0, 0, 4}, app.Scene().FindObjectByName("lossscreen").Position)
	app.Close()
}

func TestTickPollsInputAndRenders(t *testing.T) {
	app, rec := newTestApp(t, resources(t), nil)
	keys := keySource{KeyLeft: true}
	app.source = keys

	require.NoError(t, app.Tick())
	assert.True(t, app.input.JustPressed[KeyLeft])
	assert.InDelta(t, -0.05, app.Frame().Paddle.X(), 1e-6)
	assert.Equal(t, 1, rec.Frames())
	assert.Len(t, rec.CallsOf("draw"), 10)

	require.NoError(t, app.Tick())
	assert.False(t, app.input.JustPressed[KeyLeft])
	assert.True(t, app.input.Pressed[KeyLeft])
}

func TestTickEditorKeysSaveAndLoad(t *testing.T) {
	fs := resources(t)
	app, _ := newTestApp(t, fs, nil)
	keys := keySource{}
	app.source = keys

	ball := app.Scene().FindObjectByName("Ball")
	app.Editor().SetPosition(ball, mgl32.Vec3{1, 1, 0})
	keys[KeyF5] = true
	require.NoError(t, app.Tick())
	delete(keys, KeyF5)

	app.Editor().SetPosition(app.Scene().FindObjectByName("Ball"), mgl32.Vec3{-3, 2, 0})
	keys[KeyF9] = true
	require.NoError(t, app.Tick())

	// the reloaded scene is bound and stepped once
	loaded := app.Scene().FindObjectByName("Ball")
	assert.NotSame(t, ball, loaded)
	assert.InDelta(t, 1, loaded.Position.X(), 1e-6)
	assert.Equal(t, 1, app.Tracker().Ticks())
}

func TestRunStopsWhenWindowCloses(t *testing.T) {
	cfg := config.Default()
	cfg.TickRate = 1000
	fs := resources(t)
	win := &fakeWindow{closeAfter: 3}
	rec := gfx.NewRecorder()
	app, err := NewAppBuilder(cfg).WithFiles(fs).WithDevice(rec).WithWindow(win).Build()
	require.NoError(t, err)
	defer app.Close()

	require.NoError(t, app.Run(context.Background()))
	assert.Equal(t, 3, rec.Frames())
}

func TestRunStopsOnContext(t *testing.T) {
	app, _ := newTestApp(t, resources(t), nil)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.NoError(t, app.Run(ctx))
}

func TestInputPollEdges(t *testing.T) {
	var in Input
	src := keySource{KeyD: true}
	in.Poll(src)
	assert.True(t, in.Right())
	assert.True(t, in.JustPressed[KeyD])

	delete(src, KeyD)
	in.Poll(src)
	assert.False(t, in.Right())
	assert.True(t, in.JustReleased[KeyD])
	assert.False(t, in.Left())
}

func TestReloadKeepsDestroyedBricks(t *testing.T) {
	app, _ := newTestApp(t, resources(t), nil)
	ed := app.Editor()
	sentinel := app.Config().Sentinel
	for _, name := range []string{"Brick 1", "Brick 2"} {
		ed.SetPosition(app.Scene().FindObjectByName(name), sentinel)
	}
	require.NoError(t, ed.Save())
	require.NoError(t, ed.Load())
	assert.Equal(t, 2, app.State().Destroyed)

	var st game.State
	for _, name := range []string{"Brick 3", "Brick 4", "Brick 5"} {
		s := app.Scene()
		ed.SetPosition(s.FindObjectByName("Ball"), s.FindObjectByName(name).Position)
		var err error
		st, _, err = app.Step(game.Input{})
		require.NoError(t, err)
	}
	assert.Equal(t, game.Won, st.Phase)
	assert.Equal(t, 5, st.Destroyed)
	assert.Equal(t, 5, app.Tracker().Run(time.Now()).Destroyed)
}

func TestTickLogsSlowFrames(t *testing.T) {
	var buf bytes.Buffer
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := start
	app, err := NewAppBuilder(nil).
		WithFiles(resources(t)).
		WithLogger(logging.NewWriterLogger(&buf, "", true)).
		WithClock(func() time.Time { return now }).
		Build()
	require.NoError(t, err)
	defer app.Close()

	now = start.Add(time.Second / 60)
	require.NoError(t, app.Tick())
	assert.NotContains(t, buf.String(), "slow frame")

	now = now.Add(time.Second)
	require.NoError(t, app.Tick())
	assert.Contains(t, buf.String(), "slow frame")
}
