// Package audio synthesizes the game's sounds and plays them through the
// system speaker. Nothing is loaded from disk: every effect is built from
// oscillators and envelopes at the configured sample rate.
package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"

	"github.com/vovakirdan/bounce/internal/assets"
)

// Wave is an oscillator shape.
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveTriangle
	WaveNoise
)

type oscillator struct {
	freq  float64
	phase float64
	left  int
	wave  Wave
	rate  beep.SampleRate
	rng   *rand.Rand
}

// Tone returns a finite streamer of one wave at freq.
// Noise is seeded so the same sound renders identically every time.
func Tone(freq float64, d time.Duration, wave Wave, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq: freq,
		left: rate.N(d),
		wave: wave,
		rate: rate,
		rng:  rand.New(rand.NewSource(int64(freq*1000) + 1)),
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.left <= 0 {
			return i, i > 0
		}

		var v float64
		switch o.wave {
		case WaveSine:
			v = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			v = 1
			if o.phase >= 0.5 {
				v = -1
			}
		case WaveTriangle:
			v = 4*math.Abs(o.phase-0.5) - 1
		case WaveNoise:
			v = o.rng.Float64()*2 - 1
		}
		samples[i][0] = v
		samples[i][1] = v

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.left--
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope fades a streamer in over attack samples and out over the last
// release samples of total.
type envelope struct {
	s       beep.Streamer
	pos     int
	attack  int
	release int
	total   int
}

// Shape applies a linear attack/release envelope to s, cutting it at d.
func Shape(s beep.Streamer, d, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		s:       s,
		attack:  rate.N(attack),
		release: rate.N(release),
		total:   rate.N(d),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	if e.pos >= e.total {
		return 0, false
	}
	if left := e.total - e.pos; len(samples) > left {
		samples = samples[:left]
	}
	n, ok = e.s.Stream(samples)

	for i := 0; i < n; i++ {
		level := 1.0
		if e.attack > 0 && e.pos < e.attack {
			level = float64(e.pos) / float64(e.attack)
		}
		if rest := e.total - e.pos; e.release > 0 && rest < e.release {
			level = float64(rest) / float64(e.release)
		}
		samples[i][0] *= level
		samples[i][1] *= level
		e.pos++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.s.Err() }

// gain scales s linearly. Zero or less mutes it.
func gain(s beep.Streamer, v float64) beep.Streamer {
	if v <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(v)}
}

// Coin is a rising two-note chime.
func Coin(rate beep.SampleRate, volume float64) beep.Streamer {
	first := Shape(Tone(987.77, 70*time.Millisecond, WaveSquare, rate),
		70*time.Millisecond, 2*time.Millisecond, 20*time.Millisecond, rate)
	second := Shape(Tone(1318.51, 180*time.Millisecond, WaveSquare, rate),
		180*time.Millisecond, 2*time.Millisecond, 140*time.Millisecond, rate)
	return gain(beep.Seq(first, second), 0.4*volume)
}

// Explosion is a noise burst over a low sine thump.
func Explosion(rate beep.SampleRate, volume float64) beep.Streamer {
	const d = 600 * time.Millisecond
	noise := Shape(Tone(1, d, WaveNoise, rate), d, 5*time.Millisecond, 500*time.Millisecond, rate)

	layers := []beep.Streamer{gain(noise, 0.7)}
	if sine, err := generators.SineTone(rate, 55); err == nil {
		thump := Shape(beep.Take(rate.N(d), sine), d, 5*time.Millisecond, 400*time.Millisecond, rate)
		layers = append(layers, gain(thump, 0.5))
	}
	// Take bounds the mix to the effect length.
	return gain(beep.Take(rate.N(d), beep.Mix(layers...)), volume)
}

// melody is the background loop: a triangle-wave arpeggio over a square
// bass note, repeated forever.
var melody = []struct {
	lead, bass float64
}{
	{523.25, 130.81}, {659.25, 130.81}, {783.99, 130.81}, {659.25, 130.81},
	{440.00, 110.00}, {523.25, 110.00}, {659.25, 110.00}, {523.25, 110.00},
	{349.23, 87.31}, {440.00, 87.31}, {523.25, 87.31}, {440.00, 87.31},
	{392.00, 98.00}, {493.88, 98.00}, {587.33, 98.00}, {493.88, 98.00},
}

const noteLength = 180 * time.Millisecond

type music struct {
	rate beep.SampleRate
	note int
	cur  beep.Streamer
}

// Music returns the endless background loop.
func Music(rate beep.SampleRate, volume float64) beep.Streamer {
	return gain(&music{rate: rate}, 0.25*volume)
}

func (m *music) Stream(samples [][2]float64) (n int, ok bool) {
	for n < len(samples) {
		if m.cur == nil {
			m.cur = m.next()
		}
		k, ok := m.cur.Stream(samples[n:])
		n += k
		if !ok || k == 0 {
			m.cur = nil
		}
	}
	return n, true
}

func (m *music) next() beep.Streamer {
	step := melody[m.note%len(melody)]
	m.note++
	lead := Shape(Tone(step.lead, noteLength, WaveTriangle, m.rate),
		noteLength, 5*time.Millisecond, 60*time.Millisecond, m.rate)
	bass := Shape(Tone(step.bass, noteLength, WaveSquare, m.rate),
		noteLength, 5*time.Millisecond, 30*time.Millisecond, m.rate)
	return beep.Take(m.rate.N(noteLength), beep.Mix(lead, gain(bass, 0.3)))
}

func (m *music) Err() error { return nil }

// Sound returns a fresh streamer for a sound asset, or nil if id is not a
// sound this package can synthesize.
func Sound(id assets.ID, rate beep.SampleRate, volume float64) beep.Streamer {
	switch id {
	case assets.CoinSound:
		return Coin(rate, volume)
	case assets.ExplosionSound:
		return Explosion(rate, volume)
	case assets.Music:
		return Music(rate, volume)
	default:
		return nil
	}
}
