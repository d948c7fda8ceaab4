package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/kart-pilot/parameter"
)

// drain streams s to the end and returns the sample count and peak amplitude
func drain(s beep.Streamer) (int, float64) {
	buf := make([][2]float64, 512)
	total, peak := 0, 0.0
	for {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			peak = math.Max(peak, math.Abs(buf[i][0]))
		}
		total += n
		if !ok {
			return total, peak
		}
	}
}

func TestOscillatorLength(t *testing.T) {
	rate := beep.SampleRate(1000)
	n, peak := drain(NewOscillator(50, 100*time.Millisecond, WaveSquare, rate))
	if n != 100 {
		t.Errorf("Expected 100 samples, got %d", n)
	}
	if peak != 1 {
		t.Errorf("Expected square peak 1, got %v", peak)
	}
}

func TestEnvelopeShapesEdges(t *testing.T) {
	rate := beep.SampleRate(1000)
	osc := NewOscillator(0, 100*time.Millisecond, WaveSquare, rate) // phase stays 0, constant 1
	env := NewEnvelope(osc, 100*time.Millisecond, 10*time.Millisecond, 10*time.Millisecond, rate)

	buf := make([][2]float64, 100)
	n, _ := env.Stream(buf)
	if n != 100 {
		t.Fatalf("Expected 100 samples, got %d", n)
	}
	if buf[0][0] != 0 {
		t.Errorf("Expected silent first sample, got %v", buf[0][0])
	}
	if buf[50][0] != 1 {
		t.Errorf("Expected full sustain, got %v", buf[50][0])
	}
	if buf[99][0] >= buf[90][0] {
		t.Errorf("Expected release to fade, got %v then %v", buf[90][0], buf[99][0])
	}
}

func TestEveryCueRenders(t *testing.T) {
	cfg := DefaultConfig()
	for c := Cue(0); c < cueCount; c++ {
		s, err := NewCue(c, cfg)
		if err != nil {
			t.Fatalf("cue %v: %v", c, err)
		}
		n, peak := drain(s)
		if n == 0 {
			t.Errorf("cue %v: no samples", c)
		}
		if peak == 0 || peak > 1.01 {
			t.Errorf("cue %v: peak %v out of range", c, peak)
		}
	}

	if _, err := NewCue(cueCount, cfg); err == nil {
		t.Error("Expected error for unknown cue")
	}
}

func TestFinishCueLength(t *testing.T) {
	cfg := DefaultConfig()
	s, _ := NewCue(CueFinish, cfg)
	n, _ := drain(s)
	want := 3 * beep.SampleRate(cfg.SampleRate).N(parameter.FinishCueNoteDuration)
	if n != want {
		t.Errorf("Expected %d samples, got %d", want, n)
	}
}

func TestManagerRateLimit(t *testing.T) {
	m := NewManager(DefaultConfig())
	if m.Play(CueCrash) {
		t.Error("Expected no playback before Initialize")
	}

	// Mixer only, no speaker
	m.initialized = true
	now := time.Unix(100, 0)
	m.now = func() time.Time { return now }

	if !m.Play(CueCrash) {
		t.Fatal("Expected first crash cue to play")
	}
	if m.Play(CueCrash) {
		t.Error("Expected repeated crash cue to be dropped")
	}
	if !m.Play(CueRescue) {
		t.Error("Expected a different cue to play")
	}

	now = now.Add(parameter.MinCueGap)
	if !m.Play(CueCrash) {
		t.Error("Expected crash cue after the gap")
	}
	if m.mixer.Len() != 3 {
		t.Errorf("Expected 3 streamers, got %d", m.mixer.Len())
	}

	m.SetEngine(0.5)
	if m.mixer.Len() != 4 {
		t.Errorf("Expected engine drone in mixer, got %d", m.mixer.Len())
	}
	m.Cleanup()
	if m.mixer.Len() != 0 {
		t.Errorf("Expected empty mixer, got %d", m.mixer.Len())
	}
}

func TestEngineFrequency(t *testing.T) {
	g := newEngineGenerator(beep.SampleRate(1000))
	g.setLevel(2)
	if g.frequency() != 220 {
		t.Errorf("Expected clamped frequency 220, got %v", g.frequency())
	}
	g.setLevel(0)
	if g.frequency() != 55 {
		t.Errorf("Expected idle frequency 55, got %v", g.frequency())
	}
}
