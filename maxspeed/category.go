package maxspeed

import "fmt"

// DecreaseCategory is an independent source of fractional slowdown
type DecreaseCategory int

const (
	DecreaseTerrain DecreaseCategory = iota
	DecreaseAI
	DecreaseBubblegum
	DecreaseSquash
	decreaseCount
)

var decreaseNames = [decreaseCount]string{"terrain", "ai", "bubblegum", "squash"}

func (c DecreaseCategory) String() string {
	if c < 0 || c >= decreaseCount {
		return fmt.Sprintf("decrease(%d)", int(c))
	}
	return decreaseNames[c]
}

// IncreaseCategory is an independent source of additive speed-up
type IncreaseCategory int

const (
	IncreaseZipper IncreaseCategory = iota
	IncreaseSlipstream
	IncreaseNitro
	IncreaseRubber
	IncreaseSkidding
	IncreaseRedSkidding
	increaseCount
)

var increaseNames = [increaseCount]string{"zipper", "slipstream", "nitro", "rubber", "skidding", "red-skidding"}

func (c IncreaseCategory) String() string {
	if c < 0 || c >= increaseCount {
		return fmt.Sprintf("increase(%d)", int(c))
	}
	return increaseNames[c]
}
