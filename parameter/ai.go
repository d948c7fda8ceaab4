package parameter

// AI - Path planning
const (
	// AILookaheadNodes is the length of the per-node lookahead window
	// Too long and the AI skips over loops in the graph, too short and it finds no good driveline
	AILookaheadNodes = 10
)

// AI - Stuck detection
const (
	// StuckNumCollision is the number of terrain collisions within StuckCollisionTime that flags a kart as stuck
	// Typically it takes ~0.5s for a kart to hit the same wall again
	StuckNumCollision = 3

	// StuckCollisionTime is the detection window in seconds
	StuckCollisionTime = 1.5

	// StuckDebounce discards repeated reports of one physical contact (seconds)
	StuckDebounce = 0.2

	// StuckRetentionSlack is added to StuckCollisionTime to get the retention horizon
	StuckRetentionSlack = 1.0
)

// AI - Steering
const (
	// SkidSteerMargin is added to the skid-level steer when a point lies inside the turning circle (radians)
	SkidSteerMargin = 0.1

	// SteerOvershoot multiplies the exact circle steer angle to compensate per-tick correction lag
	SteerOvershoot = 2.0

	// ObstructedExtraAngleScale scales the extra steer angle while vision is obstructed
	ObstructedExtraAngleScale = 0.2

	// ObstructedSteerLimit clamps steering fraction while vision is obstructed
	ObstructedSteerLimit = 0.5

	// AICentringGain converts lateral offset from the node centre line into extra steer angle (rad per unit)
	AICentringGain = 0.05

	// AIVisibilityStep is the sampling distance used when testing straight-line visibility to an aim point
	AIVisibilityStep = 1.0

	// AIBrakeSteerFraction is the steering fraction above which the AI lifts off the throttle
	AIBrakeSteerFraction = 0.9
)

// Difficulty defaults
const (
	EasySkiddingThreshold   = 4.0
	EasyTimeFullSteer       = 0.3
	EasySpeedCap            = 0.85
	MediumSkiddingThreshold = 2.0
	MediumTimeFullSteer     = 0.15
	MediumSpeedCap          = 0.92
	HardSkiddingThreshold   = 1.3
	HardTimeFullSteer       = 0.1
	HardSpeedCap            = 1.0

	// EndSpeedCap caps karts driven by the end-of-race controller
	EndSpeedCap = 0.6
)
