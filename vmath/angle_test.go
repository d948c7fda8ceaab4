package vmath

import (
	"math"
	"testing"
)

func TestNormalizeAngleRangeAndIdempotence(t *testing.T) {
	for i := -400; i <= 400; i++ {
		a := FourPi * float64(i) / 400
		n := NormalizeAngle(a)
		if n < -math.Pi || n > math.Pi {
			t.Fatalf("NormalizeAngle(%v) = %v outside [-π, π]", a, n)
		}
		if nn := NormalizeAngle(n); nn != n {
			t.Errorf("NormalizeAngle not idempotent at %v: %v then %v", a, n, nn)
		}
		// Same direction
		if d := math.Abs(math.Remainder(a-n, TwoPi)); d > 1e-9 {
			t.Errorf("NormalizeAngle(%v) = %v changes direction by %v", a, n, d)
		}
	}
}

func TestNormalizeAngleKnownValues(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi / 2, math.Pi / 2},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-3 * math.Pi / 2, math.Pi / 2},
		{FourPi, 0},
		{-FourPi, 0},
	}
	for _, tt := range tests {
		if got := NormalizeAngle(tt.in); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("NormalizeAngle(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeAnglePanicsOutOfRange(t *testing.T) {
	for _, a := range []float64{FourPi + 0.01, -FourPi - 0.01, math.NaN(), math.Inf(1)} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Expected panic for %v", a)
				}
			}()
			NormalizeAngle(a)
		}()
	}
}

func TestToLocal(t *testing.T) {
	// Facing +X: world +X is forward, world -Z is right
	x, z := ToLocal(Vec3F{X: 5, Z: -2}, Vec3F{}, math.Pi/2)
	if math.Abs(x-2) > 1e-12 || math.Abs(z-5) > 1e-12 {
		t.Errorf("ToLocal = (%v, %v), want (2, 5)", x, z)
	}

	// Heading 0 is the identity on XZ
	x, z = ToLocal(Vec3F{X: 1, Y: 7, Z: 3}, Vec3F{}, 0)
	if x != 1 || z != 3 {
		t.Errorf("ToLocal = (%v, %v), want (1, 3)", x, z)
	}
}

func TestWrapHeading(t *testing.T) {
	h := WrapHeading(3*math.Pi + 0.5)
	if math.Abs(h-(-math.Pi+0.5)) > 1e-12 {
		t.Errorf("WrapHeading = %v", h)
	}
	if math.Abs(HeadingOf(Forward(1.0))-1.0) > 1e-12 {
		t.Errorf("HeadingOf(Forward(1)) = %v", HeadingOf(Forward(1.0)))
	}
}

func TestFastRandIntnRange(t *testing.T) {
	r := NewFastRand(0)
	for i := 0; i < 1000; i++ {
		if v := r.Intn(7); v < 0 || v >= 7 {
			t.Fatalf("Intn(7) = %d", v)
		}
		if f := r.Float64(); f < 0 || f >= 1 {
			t.Fatalf("Float64() = %v", f)
		}
	}
	if r.Intn(0) != 0 {
		t.Error("Expected Intn(0) = 0")
	}
}
