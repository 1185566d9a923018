package web

import (
	"fmt"
	"log"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/scanview/internal/pipeline"
)

// handleChart renders a line chart (HTML) of per-frame plotted and rejected
// counts using go-echarts. Debugging aid; the ring holds at most
// maxChartFrames recent frames.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	events := append([]pipeline.FrameEvent(nil), s.events...)
	s.mu.Unlock()

	if len(events) == 0 {
		http.Error(w, "no frames rendered yet", http.StatusNotFound)
		return
	}

	xAxis := make([]string, len(events))
	plotted := make([]opts.LineData, len(events))
	rejected := make([]opts.LineData, len(events))
	clipped := make([]opts.LineData, len(events))
	for i, ev := range events {
		xAxis[i] = fmt.Sprintf("%d", ev.Seq)
		plotted[i] = opts.LineData{Value: ev.Stats.Plotted}
		rejected[i] = opts.LineData{Value: ev.Stats.Rejected()}
		clipped[i] = opts.LineData{Value: ev.Stats.Clipped}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Points per Frame"}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
	)
	line.SetXAxis(xAxis).
		AddSeries("plotted", plotted).
		AddSeries("rejected", rejected).
		AddSeries("clipped", clipped)

	w.Header().Set("Content-Type", "text/html")
	if err := line.Render(w); err != nil {
		log.Printf("Failed to render chart: %v", err)
	}
}
