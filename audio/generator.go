// Package audio plays short synthesized effects for game events.
package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// ToneGenerator is a sine with a linear decay over its length.
type ToneGenerator struct {
	sr        beep.SampleRate
	freq      float64
	amplitude float64
	pos       int
	samples   int
}

func NewToneGenerator(sr beep.SampleRate, freq float64, d time.Duration, amplitude float64) *ToneGenerator {
	return &ToneGenerator{
		sr:        sr,
		freq:      freq,
		amplitude: clampAmp(amplitude),
		samples:   sr.N(d),
	}
}

func (g *ToneGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		env := 1.0
		if g.samples > 0 {
			env = 1 - float64(g.pos)/float64(g.samples)
			if env < 0 {
				env = 0
			}
		}
		v := g.amplitude * env * math.Sin(2*math.Pi*g.freq*t)
		samples[i][0] = v
		samples[i][1] = v
		g.pos++
	}
	return len(samples), true
}

func (g *ToneGenerator) Err() error { return nil }

// SweepGenerator glides linearly from one frequency to another.
type SweepGenerator struct {
	sr        beep.SampleRate
	from, to  float64
	amplitude float64
	phase     float64
	pos       int
	samples   int
}

func NewSweepGenerator(sr beep.SampleRate, from, to float64, d time.Duration, amplitude float64) *SweepGenerator {
	return &SweepGenerator{
		sr:        sr,
		from:      from,
		to:        to,
		amplitude: clampAmp(amplitude),
		samples:   sr.N(d),
	}
}

func (g *SweepGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		progress := 1.0
		if g.samples > 0 {
			progress = math.Min(float64(g.pos)/float64(g.samples), 1)
		}
		freq := g.from + (g.to-g.from)*progress
		g.phase += 2 * math.Pi * freq / float64(g.sr)
		v := g.amplitude * (1 - progress) * math.Sin(g.phase)
		samples[i][0] = v
		samples[i][1] = v
		g.pos++
	}
	return len(samples), true
}

func (g *SweepGenerator) Err() error { return nil }

func clampAmp(a float64) float64 {
	return math.Max(0, math.Min(a, 1))
}
