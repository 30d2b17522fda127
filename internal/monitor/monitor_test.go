package monitor

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Neil-Crago/curvature/internal/belief"
	"github.com/Neil-Crago/curvature/internal/curvature"
	"github.com/Neil-Crago/curvature/internal/path"
	"github.com/Neil-Crago/curvature/internal/pipeline"
)

func testResult(cycle int) *pipeline.CycleResult {
	return &pipeline.CycleResult{
		Cycle: cycle,
		Reconstruction: &curvature.Reconstruction{
			Signal:     curvature.DenseSignal{0.2, 0.9, -0.4, 0.7},
			Confidence: []float64{1, 0.6, 0.6, 1},
			Spectrum: []curvature.FrequencyEstimate{
				{Frequency: 0.2, Power: 0.1},
				{Frequency: 0.5, Power: 0.9},
				{Frequency: 0.8, Power: 0.2},
			},
			Dominant: []curvature.FrequencyEstimate{
				{Frequency: 0.5, Power: 0.9},
			},
			ResidualVariance: 0.02,
		},
		Threshold: 0.6,
		Hotspots:  []int{1, 3},
		Metrics:   path.Metrics{CurvaturePathLength: 3.5, ManhattanLength: 3, ZBiasContribution: 0.5},
		Belief:    belief.State{ThresholdMean: 0.55, ThresholdVariance: 0.1},
	}
}

func TestSaveCyclePlots_WritesBothFiles(t *testing.T) {
	dir := t.TempDir()
	if err := SaveCyclePlots(testResult(3), dir); err != nil {
		t.Fatalf("SaveCyclePlots failed: %v", err)
	}

	for _, name := range []string{"cycle_003_signal.png", "cycle_003_confidence.png"} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("expected %s to exist: %v", name, err)
		}
		if info.Size() == 0 {
			t.Fatalf("expected %s to be non-empty", name)
		}
	}
}

func TestSaveCyclePlots_NilResult(t *testing.T) {
	if err := SaveCyclePlots(nil, t.TempDir()); err == nil {
		t.Fatal("expected error for nil result")
	}
}

func TestSaveCyclePlots_NoHotspots(t *testing.T) {
	res := testResult(1)
	res.Hotspots = nil
	if err := SaveCyclePlots(res, t.TempDir()); err != nil {
		t.Fatalf("SaveCyclePlots failed without hotspots: %v", err)
	}
}

func TestWriteRunReport_RendersCharts(t *testing.T) {
	var buf bytes.Buffer
	results := []*pipeline.CycleResult{testResult(1), testResult(2), testResult(3)}
	if err := WriteRunReport(&buf, results); err != nil {
		t.Fatalf("WriteRunReport failed: %v", err)
	}

	html := buf.String()
	if len(html) == 0 {
		t.Fatal("expected non-empty report")
	}
	for _, want := range []string{"Threshold Trajectory", "Hotspots per Cycle", "Periodogram"} {
		if !strings.Contains(html, want) {
			t.Fatalf("report missing %q section", want)
		}
	}
}

func TestWriteRunReport_EmptyResults(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRunReport(&buf, nil); err == nil {
		t.Fatal("expected error for empty results")
	}
}
