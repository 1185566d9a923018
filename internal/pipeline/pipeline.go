// Package pipeline wires the renderer, sinks and session store into the
// per-message path: one scan message in, one frame out.
package pipeline

import (
	"log"
	"time"

	"github.com/banshee-data/scanview/internal/render"
	"github.com/banshee-data/scanview/internal/scan"
	"github.com/banshee-data/scanview/internal/sink"
	"github.com/banshee-data/scanview/internal/units"
)

// FrameEvent is the structured record of one processed frame. Observers log or
// export it; the render and geometry code never logs directly.
type FrameEvent struct {
	Seq       uint64
	FrameID   string
	AngleMin  float64
	AngleMax  float64
	Stats     render.Stats
	UnixNanos int64
}

// Observer receives one event per rendered frame.
type Observer interface {
	FrameRendered(ev FrameEvent)
}

// LogObserver writes frame events to the standard logger.
type LogObserver struct{}

// FrameRendered logs the frame summary in the sensor's units: counts plus the
// angular sweep in degrees.
func (LogObserver) FrameRendered(ev FrameEvent) {
	log.Printf("Rendered scan %s [%d samples]: %d plotted, %d rejected, %d clipped, angle range [%.1f°, %.1f°]",
		ev.FrameID, ev.Stats.Samples, ev.Stats.Plotted, ev.Stats.Rejected(), ev.Stats.Clipped,
		units.Degrees(ev.AngleMin), units.Degrees(ev.AngleMax))
}

// MultiObserver fans each event out to several observers in order.
type MultiObserver []Observer

// FrameRendered delivers the event to every observer.
func (m MultiObserver) FrameRendered(ev FrameEvent) {
	for _, o := range m {
		o.FrameRendered(ev)
	}
}

// FrameStore persists per-frame statistics. Implemented by the stats package;
// declared here to avoid a dependency cycle and to keep storage optional.
type FrameStore interface {
	RecordFrame(ev FrameEvent) error
}

// Pipeline processes scan messages synchronously and serially: the ingestion
// adapter calls HandleScan once per arriving message from a single goroutine,
// and no new message is processed until the previous frame's render and sink
// sequence completes. It holds no state across messages beyond the renderer's
// sequence counter.
type Pipeline struct {
	renderer *render.Renderer
	sinks    sink.Sink
	observer Observer
	store    FrameStore
}

// Config assembles a Pipeline. Observer and Store may be nil; Sinks must not.
type Config struct {
	Renderer *render.Renderer
	Sinks    sink.Sink
	Observer Observer
	Store    FrameStore
}

// New creates a pipeline. A nil Observer defaults to LogObserver.
func New(cfg Config) *Pipeline {
	obs := cfg.Observer
	if obs == nil {
		obs = LogObserver{}
	}
	return &Pipeline{
		renderer: cfg.Renderer,
		sinks:    cfg.Sinks,
		observer: obs,
		store:    cfg.Store,
	}
}

// HandleScan renders one frame and delivers it to the sinks. Nothing in this
// path terminates the process or the subscription: sink and store failures are
// logged and the next message proceeds normally.
func (p *Pipeline) HandleScan(msg *scan.Message) {
	now := time.Now().UnixNano()
	frame := p.renderer.Render(msg, now)

	if err := p.sinks.Consume(frame); err != nil {
		log.Printf("Frame sink error: %v", err)
	}

	ev := FrameEvent{
		Seq:       frame.Seq,
		FrameID:   frame.FrameID,
		AngleMin:  msg.AngleMin,
		AngleMax:  msg.AngleMax,
		Stats:     frame.Stats,
		UnixNanos: now,
	}
	p.observer.FrameRendered(ev)

	if p.store != nil {
		if err := p.store.RecordFrame(ev); err != nil {
			log.Printf("Failed to record frame stats: %v", err)
		}
	}
}
