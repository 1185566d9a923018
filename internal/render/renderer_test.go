package render

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/banshee-data/scanview/internal/geom"
	"github.com/banshee-data/scanview/internal/scan"
)

func testView() geom.ViewConfig {
	return geom.ViewConfig{ImageSize: 500, MetersPerPixel: 0.02}
}

func countColor(img *image.RGBA, c color.RGBA) int {
	n := 0
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if img.RGBAAt(x, y) == c {
				n++
			}
		}
	}
	return n
}

// discPixels is the area of a radius-2 filled disc under the integer
// dx²+dy²≤r² rasterisation: 13 pixels.
const discPixels = 13

func TestRender_EndToEnd(t *testing.T) {
	r := NewRenderer(testView())

	msg := &scan.Message{
		FrameID:        "laser",
		AngleMin:       0,
		AngleMax:       math.Pi,
		AngleIncrement: math.Pi / 4,
		RangeMin:       0.1,
		RangeMax:       10,
		Ranges:         []float64{1, 1, 1, 1, 1},
	}

	frame := r.Render(msg, 0)

	if frame.Stats.Samples != 5 {
		t.Fatalf("Samples = %d, want 5", frame.Stats.Samples)
	}
	if frame.Stats.Plotted != 5 {
		t.Fatalf("Plotted = %d, want 5", frame.Stats.Plotted)
	}
	if rej := frame.Stats.Rejected(); rej != 0 {
		t.Fatalf("Rejected = %d, want 0", rej)
	}

	// Disc centres computed from the transform: polar→Cartesian, the fixed
	// (x,y)→(y,−x) rotation, metric→pixel with y inversion, truncation.
	// Range 1m at 0.02 m/px is 50 pixels from centre (250,250).
	wantCenters := []image.Point{
		{250, 300}, // angle 0: straight ahead maps to +pixel-y
		{285, 285}, // angle π/4
		{300, 250}, // angle π/2: sensor-left maps to +pixel-x
		{285, 214}, // angle 3π/4
		{250, 200}, // angle π: behind maps to −pixel-y
	}
	for _, pt := range wantCenters {
		if got := frame.Image.RGBAAt(pt.X, pt.Y); got != markerColor {
			t.Errorf("pixel at %v = %v, want marker colour", pt, got)
		}
	}

	// Five non-overlapping discs and nothing else.
	if got := countColor(frame.Image, markerColor); got != 5*discPixels {
		t.Errorf("marker pixel count = %d, want %d", got, 5*discPixels)
	}

	// The fixed crosshair: two 11×2 segments overlapping in a 2×2 square.
	if got := countColor(frame.Image, crosshairColor); got != 40 {
		t.Errorf("crosshair pixel count = %d, want 40", got)
	}
	if got := frame.Image.RGBAAt(250, 250); got != crosshairColor {
		t.Errorf("centre pixel = %v, want crosshair colour", got)
	}
}

func TestRender_CountFallbackZeroScanTime(t *testing.T) {
	r := NewRenderer(testView())
	msg := &scan.Message{
		ScanTime:      0,
		TimeIncrement: 1,
		RangeMin:      0.1,
		RangeMax:      10,
		Ranges:        []float64{1, 1, 1, 1, 1, 1, 1},
	}

	frame := r.Render(msg, 0)
	if frame.Stats.Samples != 7 {
		t.Errorf("Samples = %d, want 7 (fallback to ranges length)", frame.Stats.Samples)
	}
}

func TestRender_CountFallbackZeroTimeIncrement(t *testing.T) {
	r := NewRenderer(testView())
	msg := &scan.Message{
		ScanTime:      0.1,
		TimeIncrement: 0, // would divide by zero without the guard
		RangeMin:      0.1,
		RangeMax:      10,
		Ranges:        []float64{1, 1, 1},
	}

	frame := r.Render(msg, 0)
	if frame.Stats.Samples != 3 {
		t.Errorf("Samples = %d, want 3 (fallback to ranges length)", frame.Stats.Samples)
	}
}

func TestRender_InvalidSamplesSkipped(t *testing.T) {
	r := NewRenderer(testView())
	msg := &scan.Message{
		AngleIncrement: math.Pi / 8,
		RangeMin:       0.5,
		RangeMax:       5,
		Ranges:         []float64{1, math.NaN(), 0.1, 7.5, 2},
	}

	frame := r.Render(msg, 0)
	if frame.Stats.Plotted != 2 {
		t.Errorf("Plotted = %d, want 2", frame.Stats.Plotted)
	}
	if frame.Stats.RejectedNaN != 1 {
		t.Errorf("RejectedNaN = %d, want 1", frame.Stats.RejectedNaN)
	}
	if frame.Stats.RejectedRange != 2 {
		t.Errorf("RejectedRange = %d, want 2", frame.Stats.RejectedRange)
	}
}

func TestRender_BoundaryPixelDrawn(t *testing.T) {
	cfg := geom.ViewConfig{ImageSize: 500, MetersPerPixel: 0.25}
	r := NewRenderer(cfg)

	// 249 pixels forward of centre lands exactly on the last row (499).
	msg := &scan.Message{
		RangeMin: 0.1,
		RangeMax: 100,
		Ranges:   []float64{0.25 * 249},
	}
	frame := r.Render(msg, 0)
	if frame.Stats.Plotted != 1 {
		t.Fatalf("Plotted = %d, want 1", frame.Stats.Plotted)
	}
	if got := frame.Image.RGBAAt(250, 499); got != markerColor {
		t.Errorf("pixel at (250,499) = %v, want marker colour", got)
	}
}

func TestRender_OutOfBoundsPixelDropped(t *testing.T) {
	cfg := geom.ViewConfig{ImageSize: 500, MetersPerPixel: 0.25}
	r := NewRenderer(cfg)

	msg := &scan.Message{
		AngleMin:       0,
		AngleIncrement: math.Pi, // second sample points backward
		RangeMin:       0.1,
		RangeMax:       100,
		Ranges: []float64{
			0.25 * 250, // row 500: one past the bottom edge
			0.25 * 251, // row −1: one past the top edge
		},
	}
	frame := r.Render(msg, 0)
	if frame.Stats.Plotted != 0 {
		t.Errorf("Plotted = %d, want 0", frame.Stats.Plotted)
	}
	if frame.Stats.Clipped != 2 {
		t.Errorf("Clipped = %d, want 2", frame.Stats.Clipped)
	}
	if got := countColor(frame.Image, markerColor); got != 0 {
		t.Errorf("marker pixel count = %d, want 0", got)
	}
}

// Every frame starts from a clean background: a point plotted in one frame
// must not survive into the next.
func TestRender_FreshBackgroundPerFrame(t *testing.T) {
	r := NewRenderer(testView())

	withPoint := &scan.Message{RangeMin: 0.1, RangeMax: 10, Ranges: []float64{1}}
	empty := &scan.Message{RangeMin: 0.1, RangeMax: 10, Ranges: []float64{math.NaN()}}

	first := r.Render(withPoint, 0)
	if got := countColor(first.Image, markerColor); got == 0 {
		t.Fatal("expected marker pixels in first frame")
	}

	second := r.Render(empty, 0)
	if got := countColor(second.Image, markerColor); got != 0 {
		t.Errorf("marker pixel count in empty frame = %d, want 0", got)
	}
	if first.Image == second.Image {
		t.Error("frames must not share image buffers")
	}
}

func TestRender_SequenceNumbers(t *testing.T) {
	r := NewRenderer(testView())
	msg := &scan.Message{RangeMin: 0.1, RangeMax: 10, Ranges: []float64{1}}

	if f := r.Render(msg, 0); f.Seq != 1 {
		t.Errorf("first Seq = %d, want 1", f.Seq)
	}
	if f := r.Render(msg, 0); f.Seq != 2 {
		t.Errorf("second Seq = %d, want 2", f.Seq)
	}
}

func TestRender_HUDOverlay(t *testing.T) {
	r := NewRenderer(testView())
	r.SetHUD(true)

	msg := &scan.Message{FrameID: "laser", RangeMin: 0.1, RangeMax: 10, Ranges: []float64{1}}
	frame := r.Render(msg, 0)

	// The overlay text draws dark pixels in the top-left corner, well away
	// from the crosshair and any plotted point.
	found := false
	for y := 0; y < 40 && !found; y++ {
		for x := 0; x < 200 && !found; x++ {
			if frame.Image.RGBAAt(x, y) == crosshairColor {
				found = true
			}
		}
	}
	if !found {
		t.Error("expected HUD text pixels in the top-left corner")
	}
}
