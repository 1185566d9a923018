// Package render builds one raster frame per incoming scan message.
package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/banshee-data/scanview/internal/geom"
	"github.com/banshee-data/scanview/internal/scan"
)

var (
	backgroundColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	crosshairColor  = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	markerColor     = color.RGBA{R: 255, G: 0, B: 0, A: 255}
)

const (
	crosshairArm       = 5 // half-length of each crosshair segment, pixels
	crosshairThickness = 2
	markerRadius       = 2
)

// Stats summarises what happened to the samples of one rendered frame.
type Stats struct {
	Samples       int // samples processed (after count clamping)
	Plotted       int // discs drawn
	RejectedNaN   int // NaN range values
	RejectedRange int // outside the sensor's declared min/max
	Clipped       int // valid but outside the image bounds
}

// Rejected returns the total number of samples rejected by validation.
func (s Stats) Rejected() int { return s.RejectedNaN + s.RejectedRange }

// Frame is one completed raster image plus its provenance. The image is
// mutable only during construction inside Render; consumers treat it as
// read-only.
type Frame struct {
	Image     *image.RGBA
	Seq       uint64
	FrameID   string
	Stats     Stats
	UnixNanos int64
}

// Renderer converts scan messages into raster frames under a fixed view.
// It holds no per-frame state beyond a sequence counter; every frame starts
// from a clean background.
type Renderer struct {
	projector *geom.Projector
	hud       bool
	seq       uint64
}

// NewRenderer creates a renderer for the given view configuration.
func NewRenderer(cfg geom.ViewConfig) *Renderer {
	return &Renderer{projector: geom.NewProjector(cfg)}
}

// SetHUD enables or disables the frame-info overlay. Call before the first
// frame; the renderer is single-threaded by contract.
func (r *Renderer) SetHUD(enabled bool) { r.hud = enabled }

// Config returns the renderer's view configuration.
func (r *Renderer) Config() geom.ViewConfig { return r.projector.Config() }

// Render produces one frame from a scan message. A malformed sample never
// stops the frame: invalid measurements are skipped and counted, and
// coordinates outside the raster are clipped silently.
func (r *Renderer) Render(msg *scan.Message, unixNanos int64) *Frame {
	cfg := r.projector.Config()
	img := image.NewRGBA(image.Rect(0, 0, cfg.ImageSize, cfg.ImageSize))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: backgroundColor}, image.Point{}, draw.Src)

	drawCrosshair(img, cfg.Center())

	var stats Stats
	stats.Samples = msg.SampleCount()
	for i := 0; i < stats.Samples; i++ {
		pt, rej := r.projector.Project(msg.Angle(i), msg.Ranges[i], msg.RangeMin, msg.RangeMax)
		switch rej {
		case geom.RejectNotANumber:
			stats.RejectedNaN++
			continue
		case geom.RejectOutOfRange:
			stats.RejectedRange++
			continue
		}
		if !r.projector.InBounds(pt) {
			stats.Clipped++
			continue
		}
		drawDisc(img, pt, markerRadius, markerColor)
		stats.Plotted++
	}

	r.seq++
	f := &Frame{
		Image:     img,
		Seq:       r.seq,
		FrameID:   msg.FrameID,
		Stats:     stats,
		UnixNanos: unixNanos,
	}
	if r.hud {
		drawHUD(img, f)
	}
	return f
}

// drawCrosshair draws the fixed centre marker: two short perpendicular
// segments, independent of sensor data.
func drawCrosshair(img *image.RGBA, center image.Point) {
	horizontal := image.Rect(
		center.X-crosshairArm, center.Y-crosshairThickness/2,
		center.X+crosshairArm+1, center.Y-crosshairThickness/2+crosshairThickness,
	)
	vertical := image.Rect(
		center.X-crosshairThickness/2, center.Y-crosshairArm,
		center.X-crosshairThickness/2+crosshairThickness, center.Y+crosshairArm+1,
	)
	draw.Draw(img, horizontal.Intersect(img.Bounds()), &image.Uniform{C: crosshairColor}, image.Point{}, draw.Src)
	draw.Draw(img, vertical.Intersect(img.Bounds()), &image.Uniform{C: crosshairColor}, image.Point{}, draw.Src)
}

// drawDisc rasterises a small filled disc centred on pt, clipped to the image.
func drawDisc(img *image.RGBA, pt image.Point, radius int, c color.RGBA) {
	bounds := img.Bounds()
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > radius*radius {
				continue
			}
			x, y := pt.X+dx, pt.Y+dy
			if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
				continue
			}
			img.SetRGBA(x, y, c)
		}
	}
}
