// Package sink delivers completed raster frames to their terminal consumers:
// the interactive display, the session video recording, and the web live view.
package sink

import (
	"image"

	"github.com/banshee-data/scanview/internal/render"
)

// Sink is a terminal consumer of rendered frames. Consume is called once per
// frame from the single pipeline goroutine, in arrival order; the frame is
// read-only after handoff. Close releases any underlying resources.
type Sink interface {
	Consume(f *render.Frame) error
	Close() error
}

// Multi fans each frame out to an ordered list of sinks. A failing sink does
// not prevent the remaining sinks from receiving the frame; the first error
// is returned for logging.
type Multi struct {
	sinks []Sink
}

// NewMulti creates a fan-out sink. Nil entries are skipped.
func NewMulti(sinks ...Sink) *Multi {
	m := &Multi{}
	for _, s := range sinks {
		if s != nil {
			m.sinks = append(m.sinks, s)
		}
	}
	return m
}

// Consume delivers the frame to every sink in order.
func (m *Multi) Consume(f *render.Frame) error {
	var first error
	for _, s := range m.sinks {
		if err := s.Consume(f); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Close closes every sink, returning the first error.
func (m *Multi) Close() error {
	var first error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// rgb24Bytes packs an RGBA image into the raw rgb24 layout the ffmpeg family
// expects on stdin: three bytes per pixel, row-major, no padding.
func rgb24Bytes(img *image.RGBA) []byte {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := make([]byte, 0, w*h*3)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := img.Pix[(y-bounds.Min.Y)*img.Stride : (y-bounds.Min.Y)*img.Stride+w*4]
		for x := 0; x < w; x++ {
			out = append(out, row[x*4], row[x*4+1], row[x*4+2])
		}
	}
	return out
}
