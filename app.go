// Package brickbreaker wires the asset registry, scene, collision engine,
// editor, audio, and run history into one tick loop.
package brickbreaker

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/gekko3d/brickbreaker/assets"
	"github.com/gekko3d/brickbreaker/audio"
	"github.com/gekko3d/brickbreaker/config"
	"github.com/gekko3d/brickbreaker/editor"
	"github.com/gekko3d/brickbreaker/files"
	"github.com/gekko3d/brickbreaker/game"
	"github.com/gekko3d/brickbreaker/gfx"
	"github.com/gekko3d/brickbreaker/logging"
	"github.com/gekko3d/brickbreaker/scene"
	"github.com/gekko3d/brickbreaker/scores"
)

// resizer is implemented by devices that own a swapchain.
type resizer interface {
	Resize(width, height int) error
}

type App struct {
	cfg      *config.Config
	logger   logging.Logger
	fs       files.FS
	device   gfx.Device
	assets   *assets.Registry
	editor   *editor.Editor
	renderer *scene.Renderer

	engine   *game.Engine
	bindings *game.Bindings
	state    game.State
	frame    *game.Frame

	audio    audio.Player
	store    *scores.Store
	tracker  *scores.Tracker
	frontend string

	source InputSource
	input  Input
	window Window
	time   *Time
	now    func() time.Time
}

func (a *App) Config() game.Config      { return a.cfg.Game }
func (a *App) Scene() *scene.Scene      { return a.editor.Scene() }
func (a *App) Assets() *assets.Registry { return a.assets }
func (a *App) Editor() *editor.Editor   { return a.editor }
func (a *App) State() game.State        { return a.state }
func (a *App) Logger() logging.Logger   { return a.logger }
func (a *App) Bindings() *game.Bindings { return a.bindings }
func (a *App) Tracker() *scores.Tracker { return a.tracker }

// Frame is the position snapshot of the last tick, or of the scene before
// the first one.
func (a *App) Frame() *game.Frame { return a.frame }

// bootstrap fills the registry and the scene: from the manifest and scene
// files when configured, otherwise from the built-in layout, which is then
// written out.
func (a *App) bootstrap() error {
	a.assets = assets.NewRegistry(a.device, a.fs, a.logger)
	paths := a.cfg.Paths

	var s *scene.Scene
	if paths.LoadScene {
		if err := a.assets.LoadManifest(paths.Manifest); err != nil {
			return errors.WithMessage(err, "load manifest")
		}
		loaded, err := scene.Load(a.fs, paths.Scene, a.assets, a.logger)
		if err != nil {
			a.assets.Release()
			return errors.WithMessage(err, "load scene")
		}
		s = loaded
		a.logger.Infof("loaded %s (%d assets) and %s (%d objects)", paths.Manifest, a.assets.Len(), paths.Scene, len(s.Objects))
	} else {
		def, err := DefaultSceneDef(a.cfg.Roles)
		if err != nil {
			return err
		}
		built, err := SpawnScene(def, a.assets, DefaultAssetPaths())
		if err != nil {
			a.assets.Release()
			return errors.WithMessage(err, "build default scene")
		}
		s = built
		if err := a.assets.SaveManifest(paths.Manifest); err != nil {
			return errors.WithMessage(err, "save manifest")
		}
		if err := s.Save(a.fs, paths.Scene); err != nil {
			return errors.WithMessage(err, "save scene")
		}
		a.logger.Infof("built default scene; wrote %s and %s", paths.Manifest, paths.Scene)
	}

	s.RecalcTransforms()
	if a.window != nil {
		s.Camera.SetAspect(a.window.Size())
	}

	a.editor = editor.New(s, a.assets, a.fs, a.logger)
	a.editor.Path = paths.Scene
	a.editor.OnLoad(a.rebind)
	if err := a.rebind(s); err != nil {
		return err
	}
	if sh := a.assets.GetShader(s.DefaultShader); sh != nil {
		s.SetupShaderAndLights(sh)
	}
	return nil
}

// rebind binds the engine roles to s and restarts the run.
func (a *App) rebind(s *scene.Scene) error {
	b, err := game.Bind(s, a.cfg.Roles)
	if err != nil {
		return err
	}
	frame, err := b.Pull()
	if err != nil {
		return err
	}
	if a.tracker != nil && a.tracker.Ticks() > 0 {
		a.finishRun()
	}
	a.bindings = b
	a.frame = frame
	a.state = a.cfg.Game.InitialState()
	a.state.Destroyed = a.cfg.Game.DestroyedIn(frame)
	a.tracker = scores.NewTracker(a.frontend, b.BrickCount(), a.now())
	a.tracker.StartFrom(a.state.Destroyed)
	return nil
}

// Step advances the game by one tick without drawing.
func (a *App) Step(in game.Input) (game.State, []game.Event, error) {
	f, err := a.bindings.Pull()
	if err != nil {
		return a.state, nil, err
	}
	st, events := a.engine.Step(a.state, f, in)
	if err := a.bindings.Push(f); err != nil {
		return a.state, nil, err
	}
	a.state = st
	a.frame = f

	for _, ev := range events {
		switch ev.Kind {
		case game.EventWon, game.EventLost:
			a.logger.Infof("game over: %s after %d bricks", ev, st.Destroyed)
		default:
			a.logger.Debugf("event %s", ev)
		}
	}
	a.audio.Play(events)
	if a.tracker.Observe(events) {
		a.finishRun()
	}
	return st, events, nil
}

func (a *App) Render() error {
	return a.renderer.Draw(a.device, a.Scene(), a.assets)
}

// Tick polls input, handles editor keys, steps, and renders.
func (a *App) Tick() error {
	a.time.Advance(a.now())
	if period := time.Second / time.Duration(a.cfg.TickRate); a.time.Dt > 2*period {
		a.logger.Debugf("slow frame: %v since the last tick (target %v)", a.time.Dt, period)
	}
	if a.source != nil {
		a.input.Poll(a.source)
	}
	a.handleEditorKeys()

	if _, _, err := a.Step(game.Input{Left: a.input.Left(), Right: a.input.Right()}); err != nil {
		return err
	}
	return a.Render()
}

func (a *App) handleEditorKeys() {
	in := &a.input
	for k := Key1; k <= Key5; k++ {
		if in.JustPressed[k] {
			a.logger.Infof("lighting mode %d selected; shading is fixed", int(k-Key1)+1)
		}
	}
	if in.JustPressed[KeyF5] {
		if err := a.editor.Save(); err != nil {
			a.logger.Errorf("%v", err)
		}
	}
	if in.JustPressed[KeyF9] {
		if err := a.editor.Load(); err != nil {
			a.logger.Errorf("%v", err)
		}
	}
	if in.JustPressed[MouseButtonLeft] && a.window != nil {
		w, h := a.window.Size()
		if o := a.editor.SelectAt(in.MouseX, in.MouseY, w, h); o != nil {
			a.logger.Infof("selected %q at %v", o.Name, o.Position)
		}
	}
}

// Resize keeps the camera aspect and the swapchain in step with the window.
func (a *App) Resize(width, height int) {
	a.Scene().Camera.SetAspect(width, height)
	if r, ok := a.device.(resizer); ok {
		if err := r.Resize(width, height); err != nil {
			a.logger.Errorf("resize: %v", err)
		}
	}
}

// Run ticks at the configured rate until the window closes, Escape is
// pressed, or ctx is done.
func (a *App) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(a.cfg.TickRate))
	defer ticker.Stop()

	for {
		if a.window != nil {
			if a.window.ShouldClose() {
				return nil
			}
			a.window.PollEvents()
		}
		if a.input.Pressed[KeyEscape] {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		if err := a.Tick(); err != nil {
			return err
		}
	}
}

func (a *App) finishRun() {
	run := a.tracker.Run(a.now())
	a.logger.Infof("run %s: %d/%d bricks in %d ticks", run.Outcome, run.Destroyed, run.Bricks, run.Ticks)
	if a.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := a.store.SaveRun(ctx, run); err != nil {
		a.logger.Warnf("save run: %v", err)
	}
}

// Close records an unfinished run as quit and releases every asset.
func (a *App) Close() {
	if a.tracker != nil && !a.tracker.Done() && a.tracker.Ticks() > 0 {
		a.finishRun()
	}
	a.audio.Close()
	if a.assets != nil {
		a.assets.Release()
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warnf("close scores: %v", err)
		}
	}
}
