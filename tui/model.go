package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gekko3d/brickbreaker/game"
)

// Game is the slice of the app the terminal front-end drives.
type Game interface {
	Step(in game.Input) (game.State, []game.Event, error)
	Frame() *game.Frame
	Config() game.Config
}

type Options struct {
	TickRate  int
	// HoldTicks is how long a key counts as down after a press.
	HoldTicks int
	Width     int
	Height    int
}

var statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

// Model is the Bubble Tea model for one run.
type Model struct {
	game      Game
	opts      Options
	keys      KeyMap
	help      help.Model
	hold      hold
	state     game.State
	bricks    int
	destroyed int
	err       error
	quitting  bool
}

func NewModel(g Game, opts Options) Model {
	if opts.TickRate <= 0 {
		opts.TickRate = 60
	}
	if opts.HoldTicks <= 0 {
		opts.HoldTicks = opts.TickRate / 6
	}
	if opts.Width <= 0 {
		opts.Width = 60
	}
	if opts.Height <= 0 {
		opts.Height = 30
	}
	m := Model{
		game:  g,
		opts:  opts,
		keys:  DefaultKeyMap(),
		help:  help.New(),
		hold:  newHold(opts.HoldTicks),
		state: g.Config().InitialState(),
	}
	if f := g.Frame(); f != nil {
		m.bricks = len(f.Bricks)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tickCmd(m.opts.TickRate)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.opts.Width = msg.Width
		// Two rows for the status line and help.
		m.opts.Height = msg.Height - 2
		if m.opts.Height < 1 {
			m.opts.Height = 1
		}
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Left):
		m.hold.pressLeft()
	case key.Matches(msg, m.keys.Right):
		m.hold.pressRight()
	}
	return m, nil
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}
	left, right := m.hold.next()
	st, _, err := m.game.Step(game.Input{Left: left, Right: right})
	if err != nil {
		m.err = err
		m.quitting = true
		return m, tea.Quit
	}
	m.state = st
	m.destroyed = st.Destroyed
	return m, tickCmd(m.opts.TickRate)
}

func (m Model) View() string {
	if m.quitting {
		if m.err != nil {
			return fmt.Sprintf("error: %v\n", m.err)
		}
		return ""
	}
	var sb strings.Builder
	sb.WriteString(Render(m.game.Frame(), m.state, m.game.Config(), m.opts.Width, m.opts.Height))
	sb.WriteRune('\n')
	sb.WriteString(statusStyle.Render(fmt.Sprintf("bricks %d/%d  %s", m.destroyed, m.bricks, m.state.Phase)))
	sb.WriteRune('\n')
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

func (m Model) State() game.State { return m.state }

// Err is the step error that ended the run, if any.
func (m Model) Err() error { return m.err }
