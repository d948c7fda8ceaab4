package parameter

// Kart geometry and engine
const (
	// KartWheelBase is the distance between front and rear axle (units)
	KartWheelBase = 1.2

	// KartMaxSteerAngle is the front wheel steer angle at full steering (radians)
	KartMaxSteerAngle = 0.6

	// KartEngineMaxSpeed is the base maximum speed before any category applies (units/s)
	KartEngineMaxSpeed = 25.0

	// KartEngineAccel is acceleration at full throttle (units/s²)
	KartEngineAccel = 12.0

	// KartBrakeDecel is deceleration at full brake (units/s²)
	KartBrakeDecel = 20.0

	// KartMass converts additional engine force to acceleration
	KartMass = 225.0

	// KartDrag is linear drag coefficient (1/s)
	KartDrag = 0.15

	// KartSkidTurnGain multiplies the turn rate while skidding
	KartSkidTurnGain = 1.6

	// KartSkidDrag is extra speed loss while skidding (1/s)
	KartSkidDrag = 0.3
)
