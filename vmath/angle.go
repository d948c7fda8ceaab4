package vmath

import (
	"fmt"
	"math"
)

const (
	TwoPi  = 2 * math.Pi
	FourPi = 4 * math.Pi
)

// Heading convention: 0 faces +Z, increasing heading turns toward +X (right)

// Forward returns the unit forward vector on the driving plane for heading h
func Forward(h float64) Vec3F {
	return Vec3F{X: math.Sin(h), Z: math.Cos(h)}
}

// Right returns the unit right vector on the driving plane for heading h
func Right(h float64) Vec3F {
	return Vec3F{X: math.Cos(h), Z: -math.Sin(h)}
}

// HeadingOf returns the heading of direction d projected onto XZ
func HeadingOf(d Vec3F) float64 {
	return math.Atan2(d.X, d.Z)
}

// ToLocal transforms world point p into the frame of an observer at origin with heading h
// Returns lateral offset x (positive right) and forward offset z
func ToLocal(p, origin Vec3F, h float64) (x, z float64) {
	d := V3FSub(p, origin)
	d.Y = 0
	return V3FDot(d, Right(h)), V3FDot(d, Forward(h))
}

// NormalizeAngle maps a into [-π, π]
// Panics if a lies outside [-4π, 4π]; an angle that large means heading accumulated unbounded drift upstream
func NormalizeAngle(a float64) float64 {
	if !(a >= -FourPi && a <= FourPi) {
		panic(fmt.Sprintf("vmath: NormalizeAngle input %v outside [-4π, 4π]", a))
	}
	for a > TwoPi {
		a -= TwoPi
	}
	for a < -TwoPi {
		a += TwoPi
	}
	if a > math.Pi {
		a -= TwoPi
	} else if a < -math.Pi {
		a += TwoPi
	}
	return a
}

// WrapHeading keeps an integrated heading within [-π, π] so it stays a valid NormalizeAngle input
func WrapHeading(h float64) float64 {
	return math.Remainder(h, TwoPi)
}
