package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Left  key.Binding
	Right key.Binding
	Quit  key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Left, k.Right}, {k.Quit}}
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left: key.NewBinding(
			key.WithKeys("a", "left", "h"),
			key.WithHelp("a/←", "move left"),
		),
		Right: key.NewBinding(
			key.WithKeys("d", "right", "l"),
			key.WithHelp("d/→", "move right"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}

// hold turns key presses into a held state. Terminals only report presses
// (and auto-repeat), so a key counts as down for a few ticks after each
// press.
type hold struct {
	ticks int
	left  int
	right int
}

func newHold(ticks int) hold {
	if ticks <= 0 {
		ticks = 1
	}
	return hold{ticks: ticks}
}

func (h *hold) pressLeft() {
	h.left = h.ticks
	h.right = 0
}

func (h *hold) pressRight() {
	h.right = h.ticks
	h.left = 0
}

// next reports which keys are down this tick and ages both.
func (h *hold) next() (left, right bool) {
	left, right = h.left > 0, h.right > 0
	if h.left > 0 {
		h.left--
	}
	if h.right > 0 {
		h.right--
	}
	return left, right
}
