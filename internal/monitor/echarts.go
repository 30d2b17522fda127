package monitor

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Neil-Crago/curvature/internal/pipeline"
)

// WriteRunReport renders an HTML report of a run's cycle history: the
// threshold trajectory with its belief mean, hotspot counts per cycle and
// the final cycle's periodogram.
func WriteRunReport(w io.Writer, results []*pipeline.CycleResult) error {
	if len(results) == 0 {
		return fmt.Errorf("no cycle results to report")
	}

	x := make([]string, len(results))
	thresholds := make([]opts.LineData, len(results))
	means := make([]opts.LineData, len(results))
	counts := make([]opts.BarData, len(results))
	for i, res := range results {
		x[i] = fmt.Sprintf("cycle %d", res.Cycle)
		thresholds[i] = opts.LineData{Value: res.Threshold}
		means[i] = opts.LineData{Value: res.Belief.ThresholdMean}
		counts[i] = opts.BarData{Value: len(res.Hotspots)}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{Title: "Threshold Trajectory", Subtitle: "active threshold vs. belief mean"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	line.SetXAxis(x).
		AddSeries("threshold", thresholds).
		AddSeries("belief mean", means)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{Title: "Hotspots per Cycle"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(x).
		AddSeries("hotspots", counts,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)

	last := results[len(results)-1]
	specX := make([]string, len(last.Reconstruction.Spectrum))
	specY := make([]opts.LineData, len(last.Reconstruction.Spectrum))
	for i, fe := range last.Reconstruction.Spectrum {
		specX[i] = fmt.Sprintf("%.3f", fe.Frequency)
		specY[i] = opts.LineData{Value: fe.Power}
	}
	spectrum := charts.NewLine()
	spectrum.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Periodogram (final cycle)",
			Subtitle: fmt.Sprintf("residual variance %.4g", last.Reconstruction.ResidualVariance),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	spectrum.SetXAxis(specX).AddSeries("power", specY)

	page := components.NewPage()
	page.AddCharts(line, bar, spectrum)
	return page.Render(w)
}
