// Package monitor renders pipeline diagnostics: PNG plots of a reconstructed
// cycle via gonum/plot and an HTML report of a run's cycle history via
// go-echarts. It consumes pipeline results read-only and is safe to leave
// out of headless deployments.
package monitor

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/Neil-Crago/curvature/internal/pipeline"
)

// SaveCyclePlots writes two PNGs for one cycle under outputDir:
// cycle_NNN_signal.png (dense signal, threshold line, hotspot markers) and
// cycle_NNN_confidence.png (per-grid-point reconstruction confidence).
func SaveCyclePlots(res *pipeline.CycleResult, outputDir string) error {
	if res == nil || res.Reconstruction == nil {
		return fmt.Errorf("nil cycle result")
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	if err := saveSignalPlot(res, filepath.Join(outputDir, fmt.Sprintf("cycle_%03d_signal.png", res.Cycle))); err != nil {
		return err
	}
	return saveConfidencePlot(res, filepath.Join(outputDir, fmt.Sprintf("cycle_%03d_confidence.png", res.Cycle)))
}

func saveSignalPlot(res *pipeline.CycleResult, path string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Cycle %d - Reconstructed Curvature", res.Cycle)
	p.X.Label.Text = "Grid Index"
	p.Y.Label.Text = "Curvature"

	signal := res.Reconstruction.Signal
	sigPts := make(plotter.XYs, len(signal))
	for i, v := range signal {
		sigPts[i] = plotter.XY{X: float64(i), Y: v}
	}
	sigLine, err := plotter.NewLine(sigPts)
	if err != nil {
		return err
	}
	sigLine.Color = color.RGBA{B: 255, A: 255}
	sigLine.Width = vg.Points(1)
	p.Add(sigLine)
	p.Legend.Add("signal", sigLine)

	thrPts := plotter.XYs{
		{X: 0, Y: res.Threshold},
		{X: float64(len(signal) - 1), Y: res.Threshold},
	}
	thrLine, err := plotter.NewLine(thrPts)
	if err != nil {
		return err
	}
	thrLine.Color = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	thrLine.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(thrLine)
	p.Legend.Add("threshold", thrLine)

	if len(res.Hotspots) > 0 {
		hotPts := make(plotter.XYs, 0, len(res.Hotspots))
		for _, idx := range res.Hotspots {
			if idx >= 0 && idx < len(signal) {
				hotPts = append(hotPts, plotter.XY{X: float64(idx), Y: signal[idx]})
			}
		}
		scatter, err := plotter.NewScatter(hotPts)
		if err != nil {
			return err
		}
		scatter.Color = color.RGBA{R: 255, A: 255}
		scatter.Radius = vg.Points(3)
		p.Add(scatter)
		p.Legend.Add("hotspots", scatter)
	}

	p.Legend.Top = true
	p.Legend.Left = false

	return p.Save(10*vg.Inch, 5*vg.Inch, path)
}

func saveConfidencePlot(res *pipeline.CycleResult, path string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Cycle %d - Reconstruction Confidence", res.Cycle)
	p.X.Label.Text = "Grid Index"
	p.Y.Label.Text = "Confidence"
	p.Y.Min = 0
	p.Y.Max = 1.05

	pts := make(plotter.XYs, len(res.Reconstruction.Confidence))
	for i, v := range res.Reconstruction.Confidence {
		pts[i] = plotter.XY{X: float64(i), Y: v}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Color = color.RGBA{G: 160, A: 255}
	line.Width = vg.Points(1)
	p.Add(line)

	return p.Save(10*vg.Inch, 5*vg.Inch, path)
}
