package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
)

func TestOscillatorWaveRange(t *testing.T) {
	rate := beep.SampleRate(44100)
	for _, wave := range []WaveType{WaveSine, WaveSquare, WaveSaw, WaveNoise} {
		osc := NewOscillator(220, 50*time.Millisecond, wave, rate)

		samples := make([][2]float64, 50)
		n, ok := osc.Stream(samples)
		if !ok || n != 50 {
			t.Fatalf("wave %d: expected 50 samples, got %d (ok=%v)", wave, n, ok)
		}
		for i := 0; i < n; i++ {
			if samples[i][0] < -1.0 || samples[i][0] > 1.0 {
				t.Errorf("wave %d: sample %d out of range: %f", wave, i, samples[i][0])
			}
			if wave == WaveSquare && math.Abs(samples[i][0]) != 1.0 {
				t.Errorf("Square wave sample %d should be -1.0 or 1.0, got %f", i, samples[i][0])
			}
		}
	}
}

func TestOscillatorNoiseVaries(t *testing.T) {
	osc := NewOscillator(0, 50*time.Millisecond, WaveNoise, beep.SampleRate(44100))
	samples := make([][2]float64, 50)
	n, _ := osc.Stream(samples)

	for i := 1; i < n; i++ {
		if samples[i][0] != samples[0][0] {
			return
		}
	}
	t.Error("Expected noise samples to vary, but all were the same")
}

func TestOscillatorDuration(t *testing.T) {
	rate := beep.SampleRate(44100)
	duration := 10 * time.Millisecond
	expected := rate.N(duration)

	osc := NewOscillator(440.0, duration, WaveSine, rate)
	samples := make([][2]float64, expected*2)
	if n, _ := osc.Stream(samples); n != expected {
		t.Errorf("Expected %d samples, got %d", expected, n)
	}

	n, ok := osc.Stream(samples)
	if ok || n != 0 {
		t.Errorf("Expected finished stream, got n=%d ok=%v", n, ok)
	}
}

func TestSlideRaisesPitch(t *testing.T) {
	rate := beep.SampleRate(1000)
	// Count zero crossings in each half of an upward glide
	osc := NewSlide(20, 200, time.Second, WaveSquare, rate)
	samples := make([][2]float64, 1000)
	n, _ := osc.Stream(samples)

	crossings := func(from, to int) int {
		c := 0
		for i := from + 1; i < to; i++ {
			if samples[i][0] != samples[i-1][0] {
				c++
			}
		}
		return c
	}
	if first, second := crossings(0, n/2), crossings(n/2, n); second <= first {
		t.Errorf("Expected more crossings late in the slide, got %d then %d", first, second)
	}
}

func TestZeroVolumeIsSilent(t *testing.T) {
	rate := beep.SampleRate(44100)
	s := newVolume(NewOscillator(440, 10*time.Millisecond, WaveSquare, rate), 0)

	samples := make([][2]float64, 100)
	n, _ := s.Stream(samples)
	for i := 0; i < n; i++ {
		if samples[i][0] != 0 {
			t.Fatalf("Expected silence, sample %d is %f", i, samples[i][0])
		}
	}
}
