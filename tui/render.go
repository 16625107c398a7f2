package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gekko3d/brickbreaker/game"
)

// WorldHalfExtent is half the visible world span on each axis. The game
// camera is orthographic with a vertical scale of 15.
const WorldHalfExtent = 7.5

type tone int

const (
	toneNone tone = iota
	toneWall
	tonePaddle
	toneBall
	toneBanner
	toneBrick
)

var toneStyles = map[tone]lipgloss.Style{
	toneNone:   lipgloss.NewStyle(),
	toneWall:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	tonePaddle: lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	toneBall:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	toneBanner: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
}

var brickColors = []lipgloss.Color{"9", "208", "11", "10", "12", "13"}

func styleFor(t tone) lipgloss.Style {
	if t >= toneBrick {
		return lipgloss.NewStyle().Foreground(brickColors[int(t-toneBrick)%len(brickColors)])
	}
	return toneStyles[t]
}

type cell struct {
	r rune
	t tone
}

type canvas struct {
	w, h  int
	cells []cell
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, cells: make([]cell, w*h)}
	for i := range c.cells {
		c.cells[i] = cell{r: ' '}
	}
	return c
}

func (c *canvas) set(col, row int, r rune, t tone) {
	if col < 0 || col >= c.w || row < 0 || row >= c.h {
		return
	}
	c.cells[row*c.w+col] = cell{r: r, t: t}
}

func (c *canvas) at(col, row int) cell {
	return c.cells[row*c.w+col]
}

func (c *canvas) text(col, row int, s string, t tone) {
	for i, r := range []rune(s) {
		c.set(col+i, row, r, t)
	}
}

// String joins runs of equally styled cells so each run costs one escape
// sequence.
func (c *canvas) String() string {
	var sb strings.Builder
	sb.Grow(c.w*c.h*2 + c.h)
	for row := 0; row < c.h; row++ {
		if row > 0 {
			sb.WriteRune('\n')
		}
		col := 0
		for col < c.w {
			start := c.at(col, row).t
			var run strings.Builder
			for col < c.w && c.at(col, row).t == start {
				run.WriteRune(c.at(col, row).r)
				col++
			}
			if start == toneNone {
				sb.WriteString(run.String())
				continue
			}
			sb.WriteString(styleFor(start).Render(run.String()))
		}
	}
	return sb.String()
}

// project maps world x/y onto a w by h grid. +Y is screen-down. Points
// outside the visible span are reported as not ok.
func project(x, y float32, w, h int) (col, row int, ok bool) {
	const e = WorldHalfExtent
	if x < -e || x > e || y < -e || y > e {
		return 0, 0, false
	}
	col = int((x + e) * float32(w) / (2 * e))
	row = int((y + e) * float32(h) / (2 * e))
	if col >= w {
		col = w - 1
	}
	if row >= h {
		row = h - 1
	}
	return col, row, true
}

// span projects the horizontal extent [x-half, x+half] at height y.
func span(x, y, half float32, w, h int) (from, to, row int, ok bool) {
	from, row, okL := project(clampExtent(x-half), y, w, h)
	to, _, okR := project(clampExtent(x+half), y, w, h)
	if !okL || !okR || x+half < -WorldHalfExtent || x-half > WorldHalfExtent {
		return 0, 0, 0, false
	}
	return from, to, row, true
}

func clampExtent(v float32) float32 {
	if v < -WorldHalfExtent {
		return -WorldHalfExtent
	}
	if v > WorldHalfExtent {
		return WorldHalfExtent
	}
	return v
}

// Render draws one frame as a w by h block of text.
func Render(f *game.Frame, st game.State, cfg game.Config, w, h int) string {
	if w <= 0 || h <= 0 {
		return ""
	}
	c := newCanvas(w, h)
	if f == nil {
		return c.String()
	}

	left, top, okL := project(-cfg.WallX, cfg.WallTop, w, h)
	right, _, okR := project(cfg.WallX, cfg.WallTop, w, h)
	if okL && okR {
		for col := left; col <= right; col++ {
			c.set(col, top, '─', toneWall)
		}
		for row := top + 1; row < h; row++ {
			c.set(left, row, '│', toneWall)
			c.set(right, row, '│', toneWall)
		}
		c.set(left, top, '┌', toneWall)
		c.set(right, top, '┐', toneWall)
	}

	for i, b := range f.Bricks {
		if b == cfg.Sentinel {
			continue
		}
		from, to, row, ok := span(b.X(), b.Y(), cfg.BrickRadius, w, h)
		if !ok {
			continue
		}
		for col := from; col <= to; col++ {
			c.set(col, row, '█', toneBrick+tone(i))
		}
	}

	if from, to, row, ok := span(f.Paddle.X(), f.Paddle.Y(), cfg.PaddleHalfWidth, w, h); ok {
		for col := from; col <= to; col++ {
			c.set(col, row, '▀', tonePaddle)
		}
	}

	if col, row, ok := project(f.Ball.X(), f.Ball.Y(), w, h); ok {
		c.set(col, row, '●', toneBall)
	}

	if banner := bannerFor(st.Phase); banner != "" {
		n := len([]rune(banner))
		c.text((w-n)/2, h/2, banner, toneBanner)
	}
	return c.String()
}

func bannerFor(p game.Phase) string {
	switch p {
	case game.Won:
		return " YOU WIN "
	case game.Lost:
		return " GAME OVER "
	default:
		return ""
	}
}
