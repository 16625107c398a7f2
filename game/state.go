package game

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

type Phase int

const (
	Playing Phase = iota
	Won
	Lost
)

func (p Phase) String() string {
	switch p {
	case Playing:
		return "playing"
	case Won:
		return "won"
	case Lost:
		return "lost"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

func (p Phase) Terminal() bool { return p == Won || p == Lost }

// State is the ball's motion plus progress. It is passed into and returned
// from Engine.Step; nothing else holds it.
type State struct {
	DirX, DirY     float32
	SpeedX, SpeedY float32
	Destroyed      int
	Phase          Phase
}

func (c Config) InitialState() State {
	return State{
		DirX:   c.InitialDirX,
		DirY:   c.InitialDirY,
		SpeedX: c.InitialSpeedX,
		SpeedY: c.InitialSpeedY,
		Phase:  Playing,
	}
}

// DestroyedIn counts the bricks of f already parked at the sentinel, as in
// a scene saved mid-run.
func (c Config) DestroyedIn(f *Frame) int {
	n := 0
	for _, b := range f.Bricks {
		if b == c.Sentinel {
			n++
		}
	}
	return n
}

// Frame is the set of positions one tick reads and writes.
type Frame struct {
	Ball        mgl32.Vec3
	Paddle      mgl32.Vec3
	Bricks      []mgl32.Vec3
	WinOverlay  mgl32.Vec3
	LossOverlay mgl32.Vec3
}

type Input struct {
	Left  bool
	Right bool
}

type ZoneID int

const (
	ZoneFarLeft ZoneID = iota
	ZoneLeft
	ZoneCenter
	ZoneRight
	ZoneFarRight
)

func (z ZoneID) String() string {
	switch z {
	case ZoneFarLeft:
		return "far-left"
	case ZoneLeft:
		return "left"
	case ZoneCenter:
		return "center"
	case ZoneRight:
		return "right"
	case ZoneFarRight:
		return "far-right"
	}
	return fmt.Sprintf("zone(%d)", int(z))
}

type EventKind int

const (
	EventWallBounce EventKind = iota
	EventBrickHit
	EventPaddleBounce
	EventWon
	EventLost
)

func (k EventKind) String() string {
	switch k {
	case EventWallBounce:
		return "wall_bounce"
	case EventBrickHit:
		return "brick_hit"
	case EventPaddleBounce:
		return "paddle_bounce"
	case EventWon:
		return "won"
	case EventLost:
		return "lost"
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// Event reports something that happened during a tick. Index is set for
// brick hits, Zone for paddle bounces.
type Event struct {
	Kind  EventKind
	Index int
	Zone  ZoneID
}

func (e Event) String() string {
	switch e.Kind {
	case EventBrickHit:
		return fmt.Sprintf("%s[%d]", e.Kind, e.Index)
	case EventPaddleBounce:
		return fmt.Sprintf("%s[%s]", e.Kind, e.Zone)
	}
	return e.Kind.String()
}
