package audio

import (
	"fmt"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/kart-pilot/parameter"
)

// Cue is a short race sound
type Cue int

const (
	CueStart Cue = iota
	CueLap
	CueFinish
	CueCrash
	CueRescue
	CueZipper
	CueSkidBonus
	cueCount
)

var cueNames = [cueCount]string{"start", "lap", "finish", "crash", "rescue", "zipper", "skid-bonus"}

func (c Cue) String() string {
	if c < 0 || c >= cueCount {
		return fmt.Sprintf("cue(%d)", int(c))
	}
	return cueNames[c]
}

// Config holds output rate and volumes, all volumes in [0, 1]
type Config struct {
	SampleRate   int
	MasterVolume float64
	CueVolumes   [cueCount]float64
}

func DefaultConfig() Config {
	cfg := Config{
		SampleRate:   parameter.AudioSampleRate,
		MasterVolume: 0.5,
	}
	for i := range cfg.CueVolumes {
		cfg.CueVolumes[i] = 1.0
	}
	cfg.CueVolumes[CueCrash] = 0.6
	return cfg
}

// NewCue builds the streamer for c
func NewCue(c Cue, cfg Config) (beep.Streamer, error) {
	if c < 0 || c >= cueCount {
		return nil, fmt.Errorf("audio: unknown cue %d", int(c))
	}
	rate := beep.SampleRate(cfg.SampleRate)

	var s beep.Streamer
	switch c {
	case CueStart:
		s = tone(880, rate)
	case CueLap:
		s = tone(660, rate)
	case CueFinish:
		// Rising three-note arpeggio
		s = beep.Seq(
			note(523.25, rate),
			note(659.25, rate),
			note(783.99, rate),
		)
	case CueCrash:
		noise := NewOscillator(0, parameter.CrashCueDuration, WaveNoise, rate)
		thud := NewOscillator(70, parameter.CrashCueDuration, WaveSine, rate)
		s = NewEnvelope(beep.Mix(newVolume(noise, 0.4), newVolume(thud, 0.6)),
			parameter.CrashCueDuration, parameter.CrashCueAttack, parameter.CrashCueRelease, rate)
	case CueRescue:
		osc := NewSlide(440, 1320, parameter.RescueCueDuration, WaveSquare, rate)
		s = NewEnvelope(newVolume(osc, 0.4), parameter.RescueCueDuration, parameter.RescueCueAttack, parameter.RescueCueRelease, rate)
	case CueZipper:
		noise := NewOscillator(0, parameter.ZipperCueDuration, WaveNoise, rate)
		saw := NewSlide(200, 800, parameter.ZipperCueDuration, WaveSaw, rate)
		s = NewEnvelope(beep.Mix(newVolume(noise, 0.5), newVolume(saw, 0.3)),
			parameter.ZipperCueDuration, parameter.ZipperCueAttack, parameter.ZipperCueRelease, rate)
	case CueSkidBonus:
		osc := NewSlide(600, 900, parameter.BeepCueDuration, WaveSine, rate)
		s = NewEnvelope(osc, parameter.BeepCueDuration, parameter.BeepCueAttack, parameter.BeepCueRelease, rate)
	}

	return newVolume(s, cfg.CueVolumes[c]*cfg.MasterVolume), nil
}

func tone(freq float64, rate beep.SampleRate) beep.Streamer {
	osc := NewOscillator(freq, parameter.BeepCueDuration, WaveSine, rate)
	return NewEnvelope(osc, parameter.BeepCueDuration, parameter.BeepCueAttack, parameter.BeepCueRelease, rate)
}

func note(freq float64, rate beep.SampleRate) beep.Streamer {
	osc := NewOscillator(freq, parameter.FinishCueNoteDuration, WaveSine, rate)
	return NewEnvelope(osc, parameter.FinishCueNoteDuration, parameter.BeepCueAttack, parameter.BeepCueRelease, rate)
}
