package scores

import (
	"time"

	"github.com/gekko3d/brickbreaker/game"
)

// Tracker turns the engine's per-tick events into a Run.
type Tracker struct {
	Frontend string
	Bricks   int

	started   time.Time
	ticks     int
	destroyed int
	outcome   Outcome
}

func NewTracker(frontend string, bricks int, now time.Time) *Tracker {
	return &Tracker{Frontend: frontend, Bricks: bricks, started: now}
}

// Observe records one tick. It reports true on the tick the run ends.
func (t *Tracker) Observe(events []game.Event) bool {
	if t.outcome != "" {
		return false
	}
	t.ticks++
	for _, ev := range events {
		switch ev.Kind {
		case game.EventBrickHit:
			t.destroyed++
		case game.EventWon:
			t.outcome = OutcomeWon
		case game.EventLost:
			t.outcome = OutcomeLost
		}
	}
	return t.outcome != ""
}

// StartFrom counts bricks destroyed before the run began.
func (t *Tracker) StartFrom(destroyed int) { t.destroyed = destroyed }

func (t *Tracker) Done() bool { return t.outcome != "" }
func (t *Tracker) Ticks() int  { return t.ticks }

// Run snapshots the tracker. An unfinished run is reported as quit.
func (t *Tracker) Run(now time.Time) Run {
	outcome := t.outcome
	if outcome == "" {
		outcome = OutcomeQuit
	}
	return Run{
		Frontend:  t.Frontend,
		Outcome:   outcome,
		Destroyed: t.destroyed,
		Bricks:    t.Bricks,
		Ticks:     t.ticks,
		Duration:  now.Sub(t.started),
		CreatedAt: now,
	}
}
