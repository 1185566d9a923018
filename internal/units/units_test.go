package units

import (
	"math"
	"testing"
)

func TestDegrees(t *testing.T) {
	tests := []struct {
		radians float64
		want    float64
	}{
		{0, 0},
		{math.Pi, 180},
		{math.Pi / 2, 90},
		{-math.Pi, -180},
		{2 * math.Pi, 360},
	}
	for _, tc := range tests {
		if got := Degrees(tc.radians); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("Degrees(%v) = %v, want %v", tc.radians, got, tc.want)
		}
	}
}

func TestRadiansRoundTrip(t *testing.T) {
	for _, deg := range []float64{-180, -90, 0, 45, 90, 180, 270} {
		if got := Degrees(Radians(deg)); math.Abs(got-deg) > 1e-9 {
			t.Errorf("Degrees(Radians(%v)) = %v", deg, got)
		}
	}
}
