// Package scan defines the planar laser scan message model and its wire codec.
package scan

import "math"

// Message is one reading cycle from a rotating range sensor: an ordered
// sequence of distance measurements spanning an angular sweep. Angles are
// radians, ranges are metres. The field layout mirrors the LaserScan message
// family so captures from existing sensors decode directly.
type Message struct {
	FrameID        string    `cbor:"frame_id"`
	AngleMin       float64   `cbor:"angle_min"`
	AngleMax       float64   `cbor:"angle_max"`
	AngleIncrement float64   `cbor:"angle_increment"`
	TimeIncrement  float64   `cbor:"time_increment"`
	ScanTime       float64   `cbor:"scan_time"`
	RangeMin       float64   `cbor:"range_min"`
	RangeMax       float64   `cbor:"range_max"`
	Ranges         []float64 `cbor:"ranges"`
	Intensities    []float64 `cbor:"intensities,omitempty"`
}

// SampleCount returns the number of samples to process for this message.
//
// The primary source is scan_time / time_increment truncated to an integer;
// some sensors report zero or garbage in either field, so a non-positive (or
// non-finite) result falls back to the length of Ranges. The result is always
// clamped to len(Ranges): the derived count and the actual measurement array
// can disagree, and iterating past the array is never safe.
func (m *Message) SampleCount() int {
	count := 0
	if m.TimeIncrement != 0 && !math.IsNaN(m.TimeIncrement) && !math.IsInf(m.TimeIncrement, 0) {
		derived := m.ScanTime / m.TimeIncrement
		if !math.IsNaN(derived) && !math.IsInf(derived, 0) {
			count = int(derived)
		}
	}
	if count <= 0 {
		count = len(m.Ranges)
	}
	if count > len(m.Ranges) {
		count = len(m.Ranges)
	}
	return count
}

// Angle returns the beam angle in radians for sample index i.
func (m *Message) Angle(i int) float64 {
	return m.AngleMin + float64(i)*m.AngleIncrement
}
