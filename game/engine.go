package game

import "math"

// Engine advances the game one tick at a time. It holds no state of its
// own; every Step is a pure function of its arguments plus Config.
type Engine struct {
	Config Config
}

func NewEngine(cfg Config) *Engine {
	return &Engine{Config: cfg}
}

// Step runs one tick against frame, mutating frame positions in place, and
// returns the next state with the events the tick produced.
func (e *Engine) Step(st State, frame *Frame, in Input) (State, []Event) {
	if st.Phase.Terminal() {
		e.showOverlays(st.Phase, frame)
		return st, nil
	}

	var events []Event
	ball := frame.Ball

	if ball.X() >= e.Config.WallX || ball.X() <= -e.Config.WallX {
		st.DirX = -st.DirX
		events = append(events, Event{Kind: EventWallBounce})
	}
	if ball.Y() <= e.Config.WallTop {
		st.DirY = -st.DirY
		events = append(events, Event{Kind: EventWallBounce})
	}

	for i := range frame.Bricks {
		if e.hitBrick(&st, frame, i) {
			events = append(events, Event{Kind: EventBrickHit, Index: i})
		}
	}

	if zone, ok := e.paddleZone(ball.X(), ball.Y(), frame.Paddle.X()); ok {
		z := e.Config.Zones.At(zone)
		st.DirY = -1
		st.DirX = z.DirX
		st.SpeedX = z.SpeedX
		st.SpeedY = z.SpeedY
		events = append(events, Event{Kind: EventPaddleBounce, Zone: zone})
	}

	// Crossing the loss line on the tick the last brick falls is a loss,
	// even though both conditions hold.
	if ball.Y() > e.Config.LossY {
		st.SpeedX = 0
		st.SpeedY = 0
		st.Phase = Lost
		events = append(events, Event{Kind: EventLost})
	} else if len(frame.Bricks) > 0 && st.Destroyed >= len(frame.Bricks) {
		st.Phase = Won
		events = append(events, Event{Kind: EventWon})
	}

	if st.Phase.Terminal() {
		e.showOverlays(st.Phase, frame)
		return st, events
	}

	frame.Ball[0] += st.SpeedX * st.DirX
	frame.Ball[1] += st.SpeedY * st.DirY * 2
	frame.Paddle[0] = e.movePaddle(frame.Paddle.X(), in)

	return st, events
}

// Hits reports whether ball and brick centers are within hit distance.
// The boundary counts as a hit.
func (e *Engine) Hits(ballX, ballY, brickX, brickY float32) bool {
	d := math.Hypot(float64(ballX)-float64(brickX), float64(ballY)-float64(brickY))
	return d <= float64(e.Config.HitDistance())
}

func (e *Engine) hitBrick(st *State, frame *Frame, i int) bool {
	brick := frame.Bricks[i]
	if brick == e.Config.Sentinel {
		return false
	}
	ball := frame.Ball
	if !e.Hits(ball.X(), ball.Y(), brick.X(), brick.Y()) {
		return false
	}

	st.Destroyed++

	// Keep the speed magnitude and split it along the impact axes. The
	// magnitude is taken once, before either axis changes.
	r := e.Config.HitDistance()
	speed := float32(math.Hypot(float64(st.SpeedX), float64(st.SpeedY)))
	st.SpeedX = abs32(ball.X()-brick.X()) / (r / speed)
	st.SpeedY = abs32(ball.Y()-brick.Y()) / (r / speed)

	if brick.X() > ball.X() {
		st.DirX = -1
	}
	if brick.X() < ball.X() {
		st.DirX = 1
	}
	if brick.Y() > ball.Y() {
		st.DirY = -1
	}
	if brick.Y() < ball.Y() {
		st.DirY = 1
	}

	frame.Bricks[i] = e.Config.Sentinel
	return true
}

// paddleZone returns the zone under the ball, or false when the ball is not
// in the paddle band or outside its half width.
func (e *Engine) paddleZone(x, y, px float32) (ZoneID, bool) {
	c := e.Config
	if y < c.PaddleBandY || x < px-c.PaddleHalfWidth || x > px+c.PaddleHalfWidth {
		return 0, false
	}
	switch {
	case x < px-c.PaddleOuter:
		return ZoneFarLeft, true
	case x < px-c.PaddleInner:
		return ZoneLeft, true
	case x <= px+c.PaddleInner:
		return ZoneCenter, true
	case x <= px+c.PaddleOuter:
		return ZoneRight, true
	default:
		return ZoneFarRight, true
	}
}

func (e *Engine) movePaddle(x float32, in Input) float32 {
	if in.Left {
		x -= e.Config.PaddleStep
	}
	if in.Right {
		x += e.Config.PaddleStep
	}
	return clamp32(x, -e.Config.PaddleLimit, e.Config.PaddleLimit)
}

func (e *Engine) showOverlays(p Phase, frame *Frame) {
	switch p {
	case Won:
		frame.WinOverlay = e.Config.OverlayShown
		frame.LossOverlay = e.Config.OverlayHidden
	case Lost:
		frame.LossOverlay = e.Config.OverlayShown
		frame.WinOverlay = e.Config.OverlayHidden
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func clamp32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
