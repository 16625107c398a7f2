package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/gekko3d/brickbreaker/game"
)

const (
	sampleRate = beep.SampleRate(48000)
)

// Player reacts to engine events with sound.
type Player interface {
	Play(events []game.Event)
	Close()
}

type nopPlayer struct{}

func (nopPlayer) Play([]game.Event) {}
func (nopPlayer) Close()            {}

func NewNopPlayer() Player { return nopPlayer{} }

// SoundManager mixes one short generated sound per event onto the speaker.
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	initialized bool
}

func NewSoundManager(volume float64) *SoundManager {
	return &SoundManager{
		mixer:  &beep.Mixer{},
		volume: volume,
	}
}

// Initialize opens the speaker. Calling it twice is a no-op.
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return err
	}
	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

func (sm *SoundManager) Close() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	// beep has no speaker close; clearing the mixer silences it.
	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	sm.initialized = false
}

func (sm *SoundManager) Play(events []game.Event) {
	for _, ev := range events {
		sm.PlayEvent(ev)
	}
}

// PlayEvent is safe to call before Initialize; it does nothing then.
func (sm *SoundManager) PlayEvent(ev game.Event) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	s := StreamerFor(ev, sm.volume)
	if s == nil {
		return
	}
	speaker.Lock()
	sm.mixer.Add(s)
	speaker.Unlock()
}

// StreamerFor builds the finite sound for ev.
func StreamerFor(ev game.Event, volume float64) beep.Streamer {
	switch ev.Kind {
	case game.EventWallBounce:
		return tone(220, 40*time.Millisecond, volume*0.5)
	case game.EventBrickHit:
		return tone(660+float64(ev.Index)*40, 90*time.Millisecond, volume)
	case game.EventPaddleBounce:
		// outer zones sound higher
		z := float64(ev.Zone) - float64(game.ZoneCenter)
		if z < 0 {
			z = -z
		}
		return tone(330+z*55, 60*time.Millisecond, volume*0.8)
	case game.EventWon:
		return beep.Seq(
			tone(523.25, 120*time.Millisecond, volume),
			tone(659.25, 120*time.Millisecond, volume),
			tone(783.99, 240*time.Millisecond, volume),
		)
	case game.EventLost:
		return beep.Take(sampleRate.N(600*time.Millisecond),
			NewSweepGenerator(sampleRate, 330, 110, 600*time.Millisecond, volume))
	}
	return nil
}

func tone(freq float64, d time.Duration, volume float64) beep.Streamer {
	return beep.Take(sampleRate.N(d), NewToneGenerator(sampleRate, freq, d, volume))
}
