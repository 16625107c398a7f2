package brickbreaker

import (
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
)

// Window is what the tick loop needs from the platform window.
type Window interface {
	ShouldClose() bool
	PollEvents()
	Size() (width, height int)
}

// PlatformWindow is a GLFW window without a client API; the WebGPU
// device draws into it.
type PlatformWindow struct {
	win      *glfw.Window
	title    string
	width    int
	height   int
	onResize func(width, height int)
}

// NewPlatformWindow creates the window on the calling goroutine, which
// stays locked to its OS thread. Zero sizes fall back to 850x850.
func NewPlatformWindow(width, height int, title string) (*PlatformWindow, error) {
	if width <= 0 {
		width = 850
	}
	if height <= 0 {
		height = 850
	}
	if title == "" {
		title = "Brick Breaker"
	}

	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, errors.Wrap(err, "init glfw")
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, errors.Wrap(err, "create window")
	}

	w := &PlatformWindow{win: win, title: title}
	w.width, w.height = win.GetFramebufferSize()
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.width, w.height = width, height
		if w.onResize != nil {
			w.onResize(width, height)
		}
	})
	return w, nil
}

func (w *PlatformWindow) Handle() *glfw.Window { return w.win }

func (w *PlatformWindow) OnResize(fn func(width, height int)) { w.onResize = fn }

func (w *PlatformWindow) ShouldClose() bool { return w.win.ShouldClose() }

func (w *PlatformWindow) Close() { w.win.SetShouldClose(true) }

func (w *PlatformWindow) PollEvents() { glfw.PollEvents() }

// Size is the framebuffer size in pixels.
func (w *PlatformWindow) Size() (int, int) { return w.width, w.height }

func (w *PlatformWindow) Destroy() {
	w.win.Destroy()
	glfw.Terminate()
}
