package parameter

// Terrain slowdown
const (
	TerrainSlowdownFraction = 0.5
	TerrainSlowdownFadeIn   = 1.0
)

// Zipper boost
const (
	ZipperAddSpeed    = 10.0
	ZipperSpeedBoost  = 8.0
	ZipperEngineForce = 800.0
	ZipperDuration    = 1.0
	ZipperFadeOut     = 1.0
)

// Nitro
const (
	NitroAddSpeed    = 5.0
	NitroEngineForce = 500.0
	NitroDuration    = 0.1
	NitroFadeOut     = 1.0

	// NitroConsumption is nitro spent per second while held
	NitroConsumption = 1.0
)

// Skid release bonus
const (
	// SkidBonusTime is the minimum continuous skid time that earns a release bonus (seconds)
	SkidBonusTime     = 1.0
	SkidBonusSpeed    = 3.0
	SkidBonusDuration = 1.0
	SkidBonusFadeOut  = 0.5

	// SkidRedBonusTime earns the larger red-skid bonus
	SkidRedBonusTime  = 2.0
	SkidRedBonusSpeed = 6.0
)
