// Package editor is the live-edit surface over a running scene. Every edit
// keeps derived state current: transforms are recomputed and lights are
// re-uploaded to the default shader.
package editor

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/gekko3d/brickbreaker/files"
	"github.com/gekko3d/brickbreaker/logging"
	"github.com/gekko3d/brickbreaker/scene"
)

// LoadHook runs against a freshly loaded scene before it goes live.
// Returning an error keeps the current scene.
type LoadHook func(*scene.Scene) error

type Editor struct {
	Path     string
	Selected *scene.RenderObject

	scene  *scene.Scene
	assets scene.Assets
	fs     files.FS
	logger logging.Logger
	onLoad LoadHook
}

func New(s *scene.Scene, a scene.Assets, fs files.FS, logger logging.Logger) *Editor {
	return &Editor{
		Path:   "scene.json",
		scene:  s,
		assets: a,
		fs:     fs,
		logger: logging.OrNop(logger),
	}
}

func (e *Editor) Scene() *scene.Scene { return e.scene }

func (e *Editor) OnLoad(h LoadHook) { e.onLoad = h }

func (e *Editor) Select(name string) *scene.RenderObject {
	e.Selected = e.scene.FindObjectByName(name)
	return e.Selected
}

func (e *Editor) SetPosition(o *scene.RenderObject, p mgl32.Vec3) {
	o.Position = p
	o.RecalcTransform()
}

func (e *Editor) SetRotation(o *scene.RenderObject, r mgl32.Vec3) {
	o.Rotation = r
	o.RecalcTransform()
}

func (e *Editor) SetScale(o *scene.RenderObject, s mgl32.Vec3) {
	o.Scale = s
	o.RecalcTransform()
}

func (e *Editor) light(i int) (*scene.Light, error) {
	if i < 0 || i >= len(e.scene.Lights) {
		return nil, fmt.Errorf("light %d out of range (scene has %d)", i, len(e.scene.Lights))
	}
	return &e.scene.Lights[i], nil
}

func (e *Editor) SetLight(i int, position, color mgl32.Vec3) error {
	l, err := e.light(i)
	if err != nil {
		return err
	}
	l.Position = position
	l.Color = color
	e.uploadLight(i)
	return nil
}

// SetLightRange also recomputes the light's attenuation.
func (e *Editor) SetLightRange(i int, r float32) error {
	l, err := e.light(i)
	if err != nil {
		return err
	}
	if r < 0 {
		return fmt.Errorf("light %d: negative range %v", i, r)
	}
	l.SetRange(r)
	e.uploadLight(i)
	return nil
}

func (e *Editor) uploadLight(i int) {
	sh := e.assets.GetShader(e.scene.DefaultShader)
	if sh == nil {
		e.logger.Warnf("light %d edited but default shader %s does not resolve", i, e.scene.DefaultShader)
		return
	}
	e.scene.UploadLight(sh, i)
}

func (e *Editor) SetCamera(position, target mgl32.Vec3) {
	e.scene.Camera.SetPosition(position)
	e.scene.Camera.LookAt(target)
}

func (e *Editor) Save() error {
	if err := e.scene.Save(e.fs, e.Path); err != nil {
		return errors.WithMessage(err, "editor save")
	}
	e.logger.Infof("scene saved to %s", e.Path)
	return nil
}

// Load replaces the live scene with the one at Path. On any failure,
// including a failing load hook, the current scene is kept.
func (e *Editor) Load() error {
	// Procedural meshes reuse their stored GUIDs, which the live scene may
	// be drawing, so they are uploaded only after the hook accepts.
	next, err := scene.LoadStaged(e.fs, e.Path, e.assets, e.logger)
	if err != nil {
		return errors.WithMessage(err, "editor load")
	}
	if e.onLoad != nil {
		if err := e.onLoad(next); err != nil {
			return errors.WithMessagef(err, "editor load %s", e.Path)
		}
	}
	if err := next.CommitMeshes(e.assets); err != nil {
		// Hand the hook the live scene again so it does not keep next.
		if e.onLoad != nil {
			if rerr := e.onLoad(e.scene); rerr != nil {
				e.logger.Errorf("editor load: restore live scene: %v", rerr)
			}
		}
		return errors.WithMessagef(err, "editor load %s", e.Path)
	}
	e.scene = next
	e.Selected = nil
	if sh := e.assets.GetShader(next.DefaultShader); sh != nil {
		next.SetupShaderAndLights(sh)
	}
	e.logger.Infof("scene loaded from %s (%d objects)", e.Path, len(next.Objects))
	return nil
}

type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// PickRay maps a window position to a world ray through the scene camera.
func (e *Editor) PickRay(mouseX, mouseY float64, width, height int) Ray {
	cam := e.scene.Camera
	nx := (2.0*float32(mouseX))/float32(width) - 1.0
	ny := 1.0 - (2.0*float32(mouseY))/float32(height)
	if cam.YDown {
		ny = -ny
	}

	forward := cam.Forward.Normalize()
	right := forward.Cross(cam.Up).Normalize()
	up := right.Cross(forward)
	aspect := float32(width) / float32(height)

	if cam.OrthoEnabled {
		h := cam.OrthoVerticalScale / 2
		origin := cam.Position.Add(right.Mul(nx * h * aspect)).Add(up.Mul(ny * h))
		return Ray{origin, forward}
	}

	tanHalfFov := float32(math.Tan(float64(mgl32.DegToRad(cam.FovDegrees)) / 2))
	dir := forward.Add(right.Mul(nx * aspect * tanHalfFov)).Add(up.Mul(ny * tanHalfFov))
	return Ray{cam.Position, dir.Normalize()}
}

// Pick returns the nearest object whose bounding sphere the ray enters.
// The sphere radius is the largest scale component.
func (e *Editor) Pick(ray Ray) *scene.RenderObject {
	closest := float32(math.MaxFloat32)
	var best *scene.RenderObject
	for _, o := range e.scene.Objects {
		r := maxAbs(o.Scale)
		t, ok := intersectSphere(ray, o.Position, r)
		if ok && t < closest {
			closest = t
			best = o
		}
	}
	return best
}

func (e *Editor) SelectAt(mouseX, mouseY float64, width, height int) *scene.RenderObject {
	e.Selected = e.Pick(e.PickRay(mouseX, mouseY, width, height))
	return e.Selected
}

func intersectSphere(ray Ray, center mgl32.Vec3, radius float32) (float32, bool) {
	oc := ray.Origin.Sub(center)
	b := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := float32(math.Sqrt(float64(disc)))
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

func maxAbs(v mgl32.Vec3) float32 {
	m := float32(0)
	for _, c := range v {
		if c < 0 {
			c = -c
		}
		if c > m {
			m = c
		}
	}
	return m
}
