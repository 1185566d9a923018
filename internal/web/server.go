// Package web serves the status endpoints: health, session counters, a chart
// of per-frame statistics, and a websocket live view of rendered frames.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/banshee-data/scanview/internal/pipeline"
	"github.com/banshee-data/scanview/internal/sink"
	"github.com/banshee-data/scanview/internal/version"
)

// maxChartFrames bounds the in-memory event ring backing /chart and /stats.
const maxChartFrames = 2000

// Server exposes status endpoints over HTTP. It observes frame events from
// the pipeline and keeps a bounded in-memory ring for the chart.
type Server struct {
	websink *sink.WebSink

	mu          sync.Mutex
	events      []pipeline.FrameEvent
	totalFrames uint64

	upgrader websocket.Upgrader
}

// NewServer creates a status server. websink may be nil to disable /live.
func NewServer(websink *sink.WebSink) *Server {
	return &Server{
		websink: websink,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// FrameRendered records an event into the chart ring. Implements
// pipeline.Observer.
func (s *Server) FrameRendered(ev pipeline.FrameEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalFrames++
	s.events = append(s.events, ev)
	if len(s.events) > maxChartFrames {
		s.events = s.events[len(s.events)-maxChartFrames:]
	}
}

// ServeMux returns the handler with all status routes mounted.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/stats", s.handleStats)
	mux.HandleFunc("/chart", s.handleChart)
	mux.HandleFunc("/live", s.handleLive)
	mux.HandleFunc("/", s.handleIndex)
	return mux
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.ServeMux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}
	}()

	log.Printf("Status server listening on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status": "ok", "service": "scanview", "version": "%s", "timestamp": "%s"}`,
		version.Version, time.Now().UTC().Format(time.RFC3339))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := struct {
		TotalFrames uint64                `json:"total_frames"`
		Latest      *pipeline.FrameEvent  `json:"latest,omitempty"`
		Recent      []pipeline.FrameEvent `json:"recent"`
	}{
		TotalFrames: s.totalFrames,
		Recent:      append([]pipeline.FrameEvent(nil), s.events...),
	}
	if n := len(s.events); n > 0 {
		latest := s.events[n-1]
		out.Latest = &latest
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		log.Printf("Failed to encode stats response: %v", err)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, `
<!DOCTYPE html>
<html>
<head><title>scanview</title></head>
<body>
	<h1>scanview</h1>
	<ul>
		<li><a href="/healthz">Health check</a></li>
		<li><a href="/stats">Session statistics (JSON)</a></li>
		<li><a href="/chart">Points per frame chart</a></li>
	</ul>
	<img id="frame" alt="waiting for frames..." />
	<script>
		const img = document.getElementById("frame");
		const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/live");
		ws.binaryType = "blob";
		ws.onmessage = (ev) => { img.src = URL.createObjectURL(ev.data); };
	</script>
</body>
</html>`)
}

// handleLive upgrades to a websocket and streams PNG frames as they render.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	if s.websink == nil {
		http.Error(w, "live view disabled", http.StatusNotFound)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	var lastSeq uint64
	for {
		frame, seq := s.websink.Latest()
		if frame != nil && seq != lastSeq {
			lastSeq = seq
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				return
			}
		}

		select {
		case <-r.Context().Done():
			return
		case <-s.websink.Wait():
		}
	}
}
