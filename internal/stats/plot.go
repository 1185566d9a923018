package stats

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// GenerateSummaryPlots writes PNG line plots of the session's per-frame
// counts (plotted, rejected, clipped) to outputDir. Returns the number of
// plots generated. Call after the pipeline has stopped.
func (s *Store) GenerateSummaryPlots(outputDir string) (int, error) {
	frames, err := s.SessionFrames()
	if err != nil {
		return 0, err
	}
	if len(frames) == 0 {
		return 0, nil
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create output dir: %w", err)
	}

	plottedPts := make(plotter.XYs, len(frames))
	rejectedPts := make(plotter.XYs, len(frames))
	clippedPts := make(plotter.XYs, len(frames))
	for i, f := range frames {
		x := float64(f.Seq)
		plottedPts[i] = plotter.XY{X: x, Y: float64(f.Plotted)}
		rejectedPts[i] = plotter.XY{X: x, Y: float64(f.RejectedNaN + f.RejectedRange)}
		clippedPts[i] = plotter.XY{X: x, Y: float64(f.Clipped)}
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Session %s - Points per Frame", s.sessionID)
	p.X.Label.Text = "Frame"
	p.Y.Label.Text = "Points"

	series := []struct {
		name string
		pts  plotter.XYs
		col  color.RGBA
	}{
		{"plotted", plottedPts, color.RGBA{R: 200, A: 255}},
		{"rejected", rejectedPts, color.RGBA{B: 200, A: 255}},
		{"clipped", clippedPts, color.RGBA{G: 150, A: 255}},
	}
	for _, sr := range series {
		line, err := plotter.NewLine(sr.pts)
		if err != nil {
			return 0, err
		}
		line.Color = sr.col
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(sr.name, line)
	}
	p.Legend.Top = true

	outFile := filepath.Join(outputDir, fmt.Sprintf("session_%s_points.png", s.sessionID))
	if err := p.Save(14*vg.Inch, 6*vg.Inch, outFile); err != nil {
		return 0, fmt.Errorf("save summary plot: %w", err)
	}

	return 1, nil
}
