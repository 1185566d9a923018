package sink

import (
	"bytes"
	"fmt"
	"image/png"
	"sync"

	"github.com/banshee-data/scanview/internal/render"
)

// WebSink keeps the latest frame PNG-encoded and notifies waiters when a new
// one arrives. The web server's websocket handler reads from it; the pipeline
// writes to it. Encoding happens on the pipeline goroutine, which keeps the
// single-writer contract, but the read side is safe from any goroutine.
type WebSink struct {
	mu     sync.RWMutex
	latest []byte
	seq    uint64
	notify chan struct{}
}

// NewWebSink creates an empty web sink.
func NewWebSink() *WebSink {
	return &WebSink{notify: make(chan struct{})}
}

// Consume encodes the frame as PNG and publishes it as the latest.
func (w *WebSink) Consume(f *render.Frame) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, f.Image); err != nil {
		return fmt.Errorf("failed to encode frame PNG: %w", err)
	}

	w.mu.Lock()
	w.latest = buf.Bytes()
	w.seq = f.Seq
	close(w.notify)
	w.notify = make(chan struct{})
	w.mu.Unlock()
	return nil
}

// Latest returns the most recent PNG and its sequence number, or nil if no
// frame has arrived yet.
func (w *WebSink) Latest() ([]byte, uint64) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.latest, w.seq
}

// Wait returns a channel closed when a frame newer than the current one is
// published.
func (w *WebSink) Wait() <-chan struct{} {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.notify
}

// Close is a no-op; the web sink holds no external resources.
func (w *WebSink) Close() error { return nil }
