package parameter

import "time"

// Audio output
const (
	AudioSampleRate = 44100

	// AudioBufferDuration determines speaker latency
	AudioBufferDuration = 100 * time.Millisecond

	// MinCueGap drops a cue that repeats sooner than this, wall scrapes report every tick
	MinCueGap = 150 * time.Millisecond
)

// Crash thud
const (
	CrashCueDuration = 120 * time.Millisecond
	CrashCueAttack   = 5 * time.Millisecond
	CrashCueRelease  = 80 * time.Millisecond
)

// Rescue chirp
const (
	RescueCueDuration = 250 * time.Millisecond
	RescueCueAttack   = 10 * time.Millisecond
	RescueCueRelease  = 100 * time.Millisecond
)

// Zipper whoosh
const (
	ZipperCueDuration = 300 * time.Millisecond
	ZipperCueAttack   = 100 * time.Millisecond
	ZipperCueRelease  = 150 * time.Millisecond
)

// Start, lap and finish beeps
const (
	BeepCueDuration = 150 * time.Millisecond
	BeepCueAttack   = 5 * time.Millisecond
	BeepCueRelease  = 60 * time.Millisecond

	FinishCueNoteDuration = 180 * time.Millisecond
)
