package brickbreaker

import (
	"time"

	"github.com/pkg/errors"

	"github.com/gekko3d/brickbreaker/audio"
	"github.com/gekko3d/brickbreaker/config"
	"github.com/gekko3d/brickbreaker/files"
	"github.com/gekko3d/brickbreaker/game"
	"github.com/gekko3d/brickbreaker/gfx"
	"github.com/gekko3d/brickbreaker/logging"
	"github.com/gekko3d/brickbreaker/scene"
	"github.com/gekko3d/brickbreaker/scores"
)

type AppBuilder struct {
	app *App
}

// NewAppBuilder starts from cfg, or config.Default when cfg is nil. Without
// further options the app is headless: a Recorder device, the OS file
// system rooted at cfg.Paths.Root, and no audio or run history.
func NewAppBuilder(cfg *config.Config) *AppBuilder {
	if cfg == nil {
		cfg = config.Default()
	}
	return &AppBuilder{app: &App{
		cfg:      cfg,
		frontend: "headless",
		now:      time.Now,
	}}
}

func (b *AppBuilder) WithLogger(l logging.Logger) *AppBuilder {
	b.app.logger = l
	return b
}

func (b *AppBuilder) WithFiles(fs files.FS) *AppBuilder {
	b.app.fs = fs
	return b
}

func (b *AppBuilder) WithDevice(d gfx.Device) *AppBuilder {
	b.app.device = d
	return b
}

func (b *AppBuilder) WithAudio(p audio.Player) *AppBuilder {
	b.app.audio = p
	return b
}

func (b *AppBuilder) WithInput(src InputSource) *AppBuilder {
	b.app.source = src
	return b
}

func (b *AppBuilder) WithWindow(w Window) *AppBuilder {
	b.app.window = w
	return b
}

// WithScores records finished runs in store. The app closes it.
func (b *AppBuilder) WithScores(store *scores.Store) *AppBuilder {
	b.app.store = store
	return b
}

// WithFrontend names the front end in recorded runs.
func (b *AppBuilder) WithFrontend(name string) *AppBuilder {
	b.app.frontend = name
	return b
}

func (b *AppBuilder) WithClock(now func() time.Time) *AppBuilder {
	b.app.now = now
	return b
}

// Build loads or creates the scene and binds the game roles to it.
func (b *AppBuilder) Build() (*App, error) {
	app := b.app
	if err := app.cfg.Validate(); err != nil {
		return nil, err
	}
	app.logger = logging.OrNop(app.logger)
	if app.fs == nil {
		app.fs = files.OS{Root: app.cfg.Paths.Root}
	}
	if app.device == nil {
		app.device = gfx.NewRecorder()
	}
	if app.audio == nil {
		app.audio = audio.NewNopPlayer()
	}
	app.engine = game.NewEngine(app.cfg.Game)
	app.renderer = scene.NewRenderer(app.logger)
	app.time = NewTime(app.now())

	if err := app.bootstrap(); err != nil {
		app.audio.Close()
		return nil, errors.WithMessage(err, "brickbreaker")
	}
	return app, nil
}
