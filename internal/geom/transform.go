// Package geom converts polar scan samples into raster pixel coordinates.
package geom

import (
	"image"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// ViewConfig fixes the pixel/metric mapping for the lifetime of the process.
// It is immutable after construction so the mapping is stable across frames,
// which a coherent video recording depends on.
type ViewConfig struct {
	ImageSize      int     // side of the square raster, pixels
	MetersPerPixel float64 // ground distance covered by one pixel
}

// DefaultViewConfig returns the standard 500px / 2cm-per-pixel view,
// a 10 metre wide field of view.
func DefaultViewConfig() ViewConfig {
	return ViewConfig{
		ImageSize:      500,
		MetersPerPixel: 0.02,
	}
}

// Center returns the pixel at the sensor origin.
func (vc ViewConfig) Center() image.Point {
	return image.Pt(vc.ImageSize/2, vc.ImageSize/2)
}

// sensorToImage is the fixed rotation aligning the sensor frame with the
// image frame: a 90° clockwise turn, (x, y) → (y, −x). Row-major 2×2.
// The sensor frame has x forward and y left; after this rotation the pixel-y
// inversion in Project puts the sweep where the display convention expects it.
var sensorToImage = [4]float64{
	0, 1,
	-1, 0,
}

// Rejection explains why a sample was not plotted.
type Rejection int

const (
	// RejectNone means the sample produced a pixel coordinate.
	RejectNone Rejection = iota
	// RejectNotANumber means the range was NaN.
	RejectNotANumber
	// RejectOutOfRange means the range fell outside the sensor's declared limits.
	RejectOutOfRange
)

func (r Rejection) String() string {
	switch r {
	case RejectNone:
		return "none"
	case RejectNotANumber:
		return "invalid-measurement"
	case RejectOutOfRange:
		return "out-of-sensor-range"
	default:
		return "unknown"
	}
}

// Projector maps (angle, range) samples to pixel coordinates under a fixed
// ViewConfig. It is stateless beyond the config and safe for reuse across
// frames.
type Projector struct {
	cfg    ViewConfig
	center image.Point
}

// NewProjector creates a Projector for the given view.
func NewProjector(cfg ViewConfig) *Projector {
	return &Projector{cfg: cfg, center: cfg.Center()}
}

// Config returns the view configuration the projector was built with.
func (p *Projector) Config() ViewConfig { return p.cfg }

// Project validates one sample against the message's declared range limits and
// converts it to a pixel coordinate. Validation failures return a Rejection;
// they never abort the frame. The returned coordinate may lie outside the
// image: clipping is a separate policy applied at rasterisation time via
// InBounds.
//
// Conversion: polar → Cartesian in the sensor frame (x = forward, y = left),
// the fixed sensorToImage rotation, then metric → pixel with the pixel y-axis
// growing downward. Pixel coordinates truncate toward zero.
func (p *Projector) Project(angle, rng, rangeMin, rangeMax float64) (image.Point, Rejection) {
	if math.IsNaN(rng) {
		return image.Point{}, RejectNotANumber
	}
	if rng < rangeMin || rng > rangeMax {
		return image.Point{}, RejectOutOfRange
	}

	v := r2.Vec{X: rng * math.Cos(angle), Y: rng * math.Sin(angle)}
	rot := r2.Vec{
		X: sensorToImage[0]*v.X + sensorToImage[1]*v.Y,
		Y: sensorToImage[2]*v.X + sensorToImage[3]*v.Y,
	}

	px := int(float64(p.center.X) + rot.X/p.cfg.MetersPerPixel)
	py := int(float64(p.center.Y) - rot.Y/p.cfg.MetersPerPixel)
	return image.Pt(px, py), RejectNone
}

// InBounds reports whether a pixel coordinate lies inside the raster.
// Out-of-bounds coordinates are dropped silently; this is clipping, not an
// error.
func (p *Projector) InBounds(pt image.Point) bool {
	return pt.X >= 0 && pt.X < p.cfg.ImageSize && pt.Y >= 0 && pt.Y < p.cfg.ImageSize
}
