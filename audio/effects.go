package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/lixenwraith/kart-pilot/vmath"
)

// WaveType selects the waveform of a glide
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// at returns the wave value at phase in [0, 1), noise ignores the phase
func (w WaveType) at(phase float64, rng *vmath.FastRand) float64 {
	switch w {
	case WaveSquare:
		if phase < 0.5 {
			return 1
		}
		return -1
	case WaveSaw:
		return 2*phase - 1
	case WaveNoise:
		return 2*rng.Float64() - 1
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}

// glide is a finite mono tone whose pitch moves linearly between two frequencies
type glide struct {
	wave     WaveType
	from, to float64
	rate     float64
	length   int // Samples
	pos      int
	phase    float64
	rng      *vmath.FastRand
}

// NewOscillator creates a fixed-pitch tone lasting duration
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return NewSlide(freq, freq, duration, wave, rate)
}

// NewSlide creates a tone gliding from freq to freqEnd over duration
// Noise is seeded from freq so a cue sounds the same every time
func NewSlide(freq, freqEnd float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &glide{
		wave:   wave,
		from:   freq,
		to:     freqEnd,
		rate:   float64(rate),
		length: rate.N(duration),
		rng:    vmath.NewFastRand(uint64(freq*1000) + 1),
	}
}

func (g *glide) Stream(samples [][2]float64) (n int, ok bool) {
	n = min(len(samples), g.length-g.pos)
	if n <= 0 {
		return 0, false
	}
	for i := 0; i < n; i++ {
		v := g.wave.at(g.phase, g.rng)
		samples[i] = [2]float64{v, v}

		freq := g.from + (g.to-g.from)*float64(g.pos)/float64(g.length)
		_, g.phase = math.Modf(g.phase + freq/g.rate)
		g.pos++
	}
	return n, true
}

func (g *glide) Err() error { return nil }

// shaper cuts a stream to a fixed length and applies a linear attack and release ramp
type shaper struct {
	src             beep.Streamer
	attack, release int
	length, pos     int
}

// NewEnvelope shapes s with attack and release ramps and ends it after duration
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	length := rate.N(duration)
	att := rate.N(attack)
	return &shaper{
		src:     s,
		attack:  att,
		release: min(rate.N(release), max(0, length-att)),
		length:  length,
	}
}

// gain is the ramp value at sample pos
func (e *shaper) gain(pos int) float64 {
	if left := e.length - pos; e.release > 0 && left <= e.release {
		return float64(left) / float64(e.release)
	}
	if e.attack > 0 && pos < e.attack {
		return float64(pos) / float64(e.attack)
	}
	return 1
}

func (e *shaper) Stream(samples [][2]float64) (n int, ok bool) {
	want := min(len(samples), e.length-e.pos)
	if want <= 0 {
		return 0, false
	}
	n, ok = e.src.Stream(samples[:want])
	for i := 0; i < n; i++ {
		g := e.gain(e.pos)
		samples[i][0] *= g
		samples[i][1] *= g
		e.pos++
	}
	return n, ok
}

func (e *shaper) Err() error { return e.src.Err() }

// newVolume scales s linearly, vol <= 0 is silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
