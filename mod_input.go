package brickbreaker

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

type Key int

const (
	KeyA Key = iota
	KeyD
	KeyLeft
	KeyRight
	Key1
	Key2
	Key3
	Key4
	Key5
	KeyF5
	KeyF9
	KeyEscape
	MouseButtonLeft

	keyCount
)

// InputSource is polled once per tick.
type InputSource interface {
	IsKeyPressed(key Key) bool
}

// Pointer is implemented by sources that also report the cursor.
type Pointer interface {
	CursorPos() (x, y float64)
}

// Input is the key state for the current tick.
type Input struct {
	Pressed      [keyCount]bool
	JustPressed  [keyCount]bool
	JustReleased [keyCount]bool

	MouseX, MouseY float64
}

// Poll samples src for every key.
func (in *Input) Poll(src InputSource) {
	for k := Key(0); k < keyCount; k++ {
		down := src.IsKeyPressed(k)
		in.JustPressed[k] = down && !in.Pressed[k]
		in.JustReleased[k] = !down && in.Pressed[k]
		in.Pressed[k] = down
	}
	if p, ok := src.(Pointer); ok {
		in.MouseX, in.MouseY = p.CursorPos()
	}
}

// Left and Right report the paddle keys: A/D or the arrow keys.
func (in *Input) Left() bool  { return in.Pressed[KeyA] || in.Pressed[KeyLeft] }
func (in *Input) Right() bool { return in.Pressed[KeyD] || in.Pressed[KeyRight] }

// WindowInput reads keys from a GLFW window. Events must be pumped by the
// window's PollEvents.
type WindowInput struct {
	win *glfw.Window
}

func NewWindowInput(w *PlatformWindow) *WindowInput {
	return &WindowInput{win: w.Handle()}
}

func (wi *WindowInput) IsKeyPressed(key Key) bool {
	if key == MouseButtonLeft {
		return wi.win.GetMouseButton(glfw.MouseButtonLeft) == glfw.Press
	}
	g, ok := keyToGlfw[key]
	if !ok {
		return false
	}
	return wi.win.GetKey(g) == glfw.Press
}

func (wi *WindowInput) CursorPos() (float64, float64) {
	return wi.win.GetCursorPos()
}

var keyToGlfw = map[Key]glfw.Key{
	KeyA:      glfw.KeyA,
	KeyD:      glfw.KeyD,
	KeyLeft:   glfw.KeyLeft,
	KeyRight:  glfw.KeyRight,
	Key1:      glfw.Key1,
	Key2:      glfw.Key2,
	Key3:      glfw.Key3,
	Key4:      glfw.Key4,
	Key5:      glfw.Key5,
	KeyF5:     glfw.KeyF5,
	KeyF9:     glfw.KeyF9,
	KeyEscape: glfw.KeyEscape,
}
