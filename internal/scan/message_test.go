package scan

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSampleCount_DerivedFromTiming(t *testing.T) {
	m := &Message{
		ScanTime:      0.1,
		TimeIncrement: 0.001,
		Ranges:        make([]float64, 200),
	}
	assert.Equal(t, 100, m.SampleCount())
}

func TestSampleCount_FallsBackToRangesLength(t *testing.T) {
	tests := []struct {
		name          string
		scanTime      float64
		timeIncrement float64
	}{
		{"zero scan time", 0, 1},
		{"zero time increment", 0.1, 0},
		{"both zero", 0, 0},
		{"negative result", -0.1, 0.001},
		{"nan scan time", math.NaN(), 0.001},
		{"nan time increment", 0.1, math.NaN()},
		{"inf time increment", 0.1, math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Message{
				ScanTime:      tt.scanTime,
				TimeIncrement: tt.timeIncrement,
				Ranges:        make([]float64, 42),
			}
			assert.Equal(t, 42, m.SampleCount(), "fallback to len(Ranges)")
		})
	}
}

// A derived count larger than the measurement array must be clamped: the
// timing fields and the array can disagree and iterating past the array is
// never safe.
func TestSampleCount_ClampsToRangesLength(t *testing.T) {
	m := &Message{
		ScanTime:      1.0,
		TimeIncrement: 0.001, // derives 1000
		Ranges:        make([]float64, 360),
	}
	assert.Equal(t, 360, m.SampleCount())
}

func TestSampleCount_EmptyRanges(t *testing.T) {
	m := &Message{ScanTime: 0.1, TimeIncrement: 0.001}
	assert.Equal(t, 0, m.SampleCount())
}

func TestAngle(t *testing.T) {
	m := &Message{AngleMin: -math.Pi, AngleIncrement: math.Pi / 4}
	assert.Equal(t, -math.Pi, m.Angle(0))
	assert.Equal(t, 0.0, m.Angle(4))
}
