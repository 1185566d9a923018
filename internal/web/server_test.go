package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/banshee-data/scanview/internal/pipeline"
	"github.com/banshee-data/scanview/internal/render"
	"github.com/banshee-data/scanview/internal/testutil"
)

func event(seq uint64, plotted int) pipeline.FrameEvent {
	return pipeline.FrameEvent{
		Seq:     seq,
		FrameID: "laser",
		Stats:   render.Stats{Samples: 360, Plotted: plotted, RejectedNaN: 1, Clipped: 2},
	}
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.ServeMux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHandleHealth(t *testing.T) {
	rec := get(t, NewServer(nil), "/healthz")
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)

	var body struct {
		Status  string `json:"status"`
		Service string `json:"service"`
	}
	testutil.DecodeJSON(t, rec, &body)
	if body.Status != "ok" || body.Service != "scanview" {
		t.Errorf("health body = %+v, want ok/scanview", body)
	}
}

func TestHandleStats(t *testing.T) {
	s := NewServer(nil)
	for seq := uint64(1); seq <= 3; seq++ {
		s.FrameRendered(event(seq, 300+int(seq)))
	}

	rec := get(t, s, "/stats")
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)

	var body struct {
		TotalFrames uint64                `json:"total_frames"`
		Latest      *pipeline.FrameEvent  `json:"latest"`
		Recent      []pipeline.FrameEvent `json:"recent"`
	}
	testutil.DecodeJSON(t, rec, &body)

	if body.TotalFrames != 3 {
		t.Errorf("total_frames = %d, want 3", body.TotalFrames)
	}
	if body.Latest == nil || body.Latest.Seq != 3 {
		t.Errorf("latest = %+v, want seq 3", body.Latest)
	}
	if len(body.Recent) != 3 {
		t.Errorf("recent has %d events, want 3", len(body.Recent))
	}
}

func TestHandleChart(t *testing.T) {
	s := NewServer(nil)

	// No frames yet: nothing to chart.
	rec := get(t, s, "/chart")
	testutil.AssertStatusCode(t, rec.Code, http.StatusNotFound)

	s.FrameRendered(event(1, 300))
	rec = get(t, s, "/chart")
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "Points per Frame") {
		t.Error("chart page missing title")
	}
}

func TestHandleIndex(t *testing.T) {
	s := NewServer(nil)

	rec := get(t, s, "/")
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "scanview") {
		t.Error("index page missing service name")
	}

	rec = get(t, s, "/nope")
	testutil.AssertStatusCode(t, rec.Code, http.StatusNotFound)
}

func TestHandleLive_DisabledWithoutWebSink(t *testing.T) {
	rec := get(t, NewServer(nil), "/live")
	testutil.AssertStatusCode(t, rec.Code, http.StatusNotFound)
}

// The event ring backing /chart is bounded; old frames fall off but the
// total counter keeps the true number.
func TestEventRingBounded(t *testing.T) {
	s := NewServer(nil)
	total := maxChartFrames + 50
	for seq := 1; seq <= total; seq++ {
		s.FrameRendered(event(uint64(seq), 300))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.events) != maxChartFrames {
		t.Errorf("ring holds %d events, want %d", len(s.events), maxChartFrames)
	}
	if s.events[0].Seq != uint64(total-maxChartFrames+1) {
		t.Errorf("oldest ring seq = %d, want %d", s.events[0].Seq, total-maxChartFrames+1)
	}
	if s.totalFrames != uint64(total) {
		t.Errorf("totalFrames = %d, want %d", s.totalFrames, total)
	}
}
