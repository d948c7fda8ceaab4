package audio

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/kart-pilot/parameter"
)

// Manager plays race cues and a looping engine drone through one mixer
type Manager struct {
	mu    sync.Mutex
	cfg   Config
	mixer *beep.Mixer

	engine     *engineGenerator
	engineCtrl *beep.Ctrl

	lastPlayed [cueCount]time.Time
	now        func() time.Time

	initialized bool
	speakerOn   bool // Mixer is being read by the speaker goroutine
}

func NewManager(cfg Config) *Manager {
	return &Manager{
		cfg:    cfg,
		mixer:  &beep.Mixer{},
		engine: newEngineGenerator(beep.SampleRate(cfg.SampleRate)),
		now:    time.Now,
	}
}

// Initialize opens the speaker and starts the mixer
func (m *Manager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}
	rate := beep.SampleRate(m.cfg.SampleRate)
	if err := speaker.Init(rate, rate.N(parameter.AudioBufferDuration)); err != nil {
		return fmt.Errorf("speaker init: %w", err)
	}
	speaker.Play(m.mixer)
	m.initialized = true
	m.speakerOn = true
	return nil
}

// withMixer runs fn holding the speaker lock when the speaker is running
func (m *Manager) withMixer(fn func()) {
	if m.speakerOn {
		speaker.Lock()
		defer speaker.Unlock()
	}
	fn()
}

// Play queues cue c, returns false when audio is off or the same cue played within MinCueGap
func (m *Manager) Play(c Cue) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized || c < 0 || c >= cueCount {
		return false
	}
	now := m.now()
	if last := m.lastPlayed[c]; !last.IsZero() && now.Sub(last) < parameter.MinCueGap {
		return false
	}

	s, err := NewCue(c, m.cfg)
	if err != nil {
		return false
	}
	m.lastPlayed[c] = now
	m.withMixer(func() { m.mixer.Add(s) })
	return true
}

// SetEngine sets the drone pitch from the speed fraction in [0, 1] and starts it on first use
func (m *Manager) SetEngine(fraction float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	m.engine.setLevel(fraction)
	if m.engineCtrl == nil {
		m.engineCtrl = &beep.Ctrl{Streamer: newVolume(m.engine, 0.3*m.cfg.MasterVolume)}
		m.withMixer(func() { m.mixer.Add(m.engineCtrl) })
	}
}

// StopEngine pauses the drone
func (m *Manager) StopEngine() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.engineCtrl != nil {
		m.withMixer(func() { m.engineCtrl.Paused = true })
	}
}

// Cleanup stops all sounds
func (m *Manager) Cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	m.withMixer(func() { m.mixer.Clear() })
	m.engineCtrl = nil
	m.initialized = false
}

// engineGenerator is an endless saw drone whose pitch follows the speed level
type engineGenerator struct {
	rate  beep.SampleRate
	phase float64
	level atomic.Uint64 // float64 bits, written by the game loop and read by the speaker goroutine
}

func newEngineGenerator(rate beep.SampleRate) *engineGenerator {
	return &engineGenerator{rate: rate}
}

func (g *engineGenerator) setLevel(f float64) {
	g.level.Store(math.Float64bits(math.Max(0, math.Min(1, f))))
}

func (g *engineGenerator) frequency() float64 {
	return 55 + 165*math.Float64frombits(g.level.Load())
}

func (g *engineGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	freq := g.frequency()
	for i := range samples {
		val := 2.0 * (g.phase - 0.5)
		samples[i][0] = val
		samples[i][1] = val
		g.phase += freq / float64(g.rate)
		g.phase -= math.Floor(g.phase)
	}
	return len(samples), true
}

func (g *engineGenerator) Err() error { return nil }
