package audio

import (
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/brickbreaker/game"
)

// drain reads s to the end and returns the sample count and peak level.
func drain(t *testing.T, s beep.Streamer) (int, float64) {
	t.Helper()
	buf := make([][2]float64, 512)
	total, peak := 0, 0.0
	for i := 0; i < 10000; i++ {
		n, ok := s.Stream(buf)
		for _, smp := range buf[:n] {
			for _, v := range smp {
				if v < 0 {
					v = -v
				}
				if v > peak {
					peak = v
				}
			}
		}
		total += n
		if !ok {
			return total, peak
		}
	}
	t.Fatal("streamer never ended")
	return 0, 0
}

func TestStreamerForEveryEvent(t *testing.T) {
	cases := []struct {
		ev  game.Event
		dur time.Duration
	}{
		{game.Event{Kind: game.EventWallBounce}, 40 * time.Millisecond},
		{game.Event{Kind: game.EventBrickHit, Index: 2}, 90 * time.Millisecond},
		{game.Event{Kind: game.EventPaddleBounce, Zone: game.ZoneFarLeft}, 60 * time.Millisecond},
		{game.Event{Kind: game.EventWon}, 480 * time.Millisecond},
		{game.Event{Kind: game.EventLost}, 600 * time.Millisecond},
	}
	for _, tc := range cases {
		t.Run(tc.ev.String(), func(t *testing.T) {
			s := StreamerFor(tc.ev, 1)
			require.NotNil(t, s)
			n, peak := drain(t, s)
			assert.Equal(t, sampleRate.N(tc.dur), n)
			assert.LessOrEqual(t, peak, 1.0)
			assert.Greater(t, peak, 0.0)
		})
	}
}

func TestVolumeScalesAndClamps(t *testing.T) {
	_, quiet := drain(t, StreamerFor(game.Event{Kind: game.EventBrickHit}, 0.1))
	_, loud := drain(t, StreamerFor(game.Event{Kind: game.EventBrickHit}, 5))
	assert.LessOrEqual(t, quiet, 0.1)
	assert.LessOrEqual(t, loud, 1.0)
	assert.Greater(t, loud, quiet)
}

func TestToneDecays(t *testing.T) {
	g := NewToneGenerator(sampleRate, 440, 100*time.Millisecond, 1)
	buf := make([][2]float64, sampleRate.N(100*time.Millisecond))
	n, ok := g.Stream(buf)
	require.True(t, ok)
	require.Equal(t, len(buf), n)

	peak := func(part [][2]float64) float64 {
		m := 0.0
		for _, s := range part {
			if s[0] > m {
				m = s[0]
			}
		}
		return m
	}
	q := len(buf) / 4
	assert.Greater(t, peak(buf[:q]), peak(buf[3*q:]))
	assert.NoError(t, g.Err())
}

func TestSoundManagerWithoutInit(t *testing.T) {
	sm := NewSoundManager(0.5)
	assert.NotPanics(t, func() {
		sm.Play([]game.Event{{Kind: game.EventWon}, {Kind: game.EventLost}})
		sm.Close()
	})
}

func TestNopPlayer(t *testing.T) {
	p := NewNopPlayer()
	assert.NotPanics(t, func() {
		p.Play([]game.Event{{Kind: game.EventBrickHit}})
		p.Close()
	})
}
