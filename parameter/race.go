package parameter

// Race flow
const (
	// RaceCountdown is the ready-set-go duration before karts may move (seconds)
	RaceCountdown = 3.0

	// RaceDefaultLaps is used when configuration omits the lap count
	RaceDefaultLaps = 3

	// RaceTickRate is the simulation rate of the commands (Hz)
	RaceTickRate = 60

	// RaceWallMargin is how far past the road edge a wall stands (units)
	RaceWallMargin = 1.5

	// RaceWallBounce is the fraction of speed kept after hitting a wall
	RaceWallBounce = 0.3

	// RaceObstructionTime is how long a vision obstruction lasts (seconds)
	RaceObstructionTime = 4.0

	// RaceNitroStart is the nitro each kart starts with
	RaceNitroStart = 2.0
)

// Starting grid and contacts
const (
	// RaceGridLateral is the sideways offset of the two karts sharing a grid row (units)
	RaceGridLateral = 2.0

	// RaceKartRadius is the contact radius of a kart (units)
	RaceKartRadius = 0.8
)
