package game

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/brickbreaker/scene"
)

// Roles names the scene objects the engine drives.
type Roles struct {
	Ball        string   `yaml:"ball"`
	Paddle      string   `yaml:"paddle"`
	Bricks      []string `yaml:"bricks"`
	WinOverlay  string   `yaml:"win_overlay" split_words:"true"`
	LossOverlay string   `yaml:"loss_overlay" split_words:"true"`
}

func DefaultRoles() Roles {
	return Roles{
		Ball:        "Ball",
		Paddle:      "Paddle",
		Bricks:      []string{"Brick 1", "Brick 2", "Brick 3", "Brick 4", "Brick 5"},
		WinOverlay:  "winscreen",
		LossOverlay: "lossscreen",
	}
}

// BindingError lists every role whose object is absent from the scene.
type BindingError struct {
	Missing []string
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("scene is missing role objects: %s", strings.Join(e.Missing, ", "))
}

// Bindings ties engine roles to scene handles. Handles are checked against
// the scene on every Pull and Push.
type Bindings struct {
	scene  *scene.Scene
	ball   scene.Handle
	paddle scene.Handle
	bricks []scene.Handle
	win    scene.Handle
	loss   scene.Handle
}

func Bind(s *scene.Scene, r Roles) (*Bindings, error) {
	b := &Bindings{scene: s}
	var missing []string
	find := func(role, name string) scene.Handle {
		h, ok := s.FindHandle(name)
		if !ok {
			missing = append(missing, fmt.Sprintf("%s %q", role, name))
		}
		return h
	}

	b.ball = find("ball", r.Ball)
	b.paddle = find("paddle", r.Paddle)
	for _, name := range r.Bricks {
		b.bricks = append(b.bricks, find("brick", name))
	}
	b.win = find("win overlay", r.WinOverlay)
	b.loss = find("loss overlay", r.LossOverlay)

	if len(r.Bricks) == 0 {
		missing = append(missing, "bricks (none configured)")
	}
	if len(missing) > 0 {
		return nil, &BindingError{Missing: missing}
	}
	return b, nil
}

func (b *Bindings) Scene() *scene.Scene { return b.scene }

func (b *Bindings) BrickCount() int { return len(b.bricks) }

func (b *Bindings) all() []scene.Handle {
	hs := make([]scene.Handle, 0, len(b.bricks)+4)
	hs = append(hs, b.ball, b.paddle)
	hs = append(hs, b.bricks...)
	return append(hs, b.win, b.loss)
}

func (b *Bindings) resolve() ([]*scene.RenderObject, error) {
	hs := b.all()
	objs := make([]*scene.RenderObject, len(hs))
	for i, h := range hs {
		o, err := b.scene.Resolve(h)
		if err != nil {
			return nil, err
		}
		objs[i] = o
	}
	return objs, nil
}

// Pull copies the bound positions out of the scene.
func (b *Bindings) Pull() (*Frame, error) {
	objs, err := b.resolve()
	if err != nil {
		return nil, err
	}
	n := len(b.bricks)
	f := &Frame{
		Ball:        objs[0].Position,
		Paddle:      objs[1].Position,
		Bricks:      make([]mgl32.Vec3, n),
		WinOverlay:  objs[2+n].Position,
		LossOverlay: objs[3+n].Position,
	}
	for i := 0; i < n; i++ {
		f.Bricks[i] = objs[2+i].Position
	}
	return f, nil
}

// Push writes frame positions back and recomputes the transform of every
// object that moved.
func (b *Bindings) Push(f *Frame) error {
	objs, err := b.resolve()
	if err != nil {
		return err
	}
	n := len(b.bricks)
	if len(f.Bricks) != n {
		return fmt.Errorf("frame has %d bricks, bindings have %d", len(f.Bricks), n)
	}
	positions := make([]mgl32.Vec3, 0, len(objs))
	positions = append(positions, f.Ball, f.Paddle)
	positions = append(positions, f.Bricks...)
	positions = append(positions, f.WinOverlay, f.LossOverlay)
	for i, o := range objs {
		if o.Position != positions[i] {
			o.Position = positions[i]
			o.RecalcTransform()
		}
	}
	return nil
}
