// Package pipeline wires reconstruction, hotspot detection, path evaluation
// and the belief update into one stateful cycle. Each Runner owns a single
// belief tensor: the threshold believed after cycle n is what detection uses
// in cycle n+1, so sensitivity adapts as evidence and priors accumulate.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/Neil-Crago/curvature/internal/belief"
	"github.com/Neil-Crago/curvature/internal/curvature"
	"github.com/Neil-Crago/curvature/internal/hotspot"
	"github.com/Neil-Crago/curvature/internal/monitoring"
	"github.com/Neil-Crago/curvature/internal/path"
)

// ErrInvalidConfiguration indicates a pipeline parameter out of acceptable
// range.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// ThresholdMode selects how the detector's threshold is sourced.
type ThresholdMode int

const (
	// ModeBelief uses the belief state's posterior mean as the threshold
	// (confidence-adjusted mode). This is the adaptive feedback loop.
	ModeBelief ThresholdMode = iota

	// ModePercentile cuts at a fixed percentile of each reconstructed
	// signal, independent of the belief state.
	ModePercentile
)

// Config provides a configuration builder for a Runner.
type Config struct {
	Reconstructor *curvature.ReconstructorConfig
	Belief        *belief.TensorConfig

	Mode ThresholdMode

	// HotspotPercentile is the detection percentile in ModePercentile
	// (default: 90).
	HotspotPercentile float64

	// CalibrationPercentile maps each reconstruction to the threshold
	// estimate fed to the belief update as evidence (default: 90).
	CalibrationPercentile float64

	// ZBiasFactor controls curvature's path inflation (default: 1).
	ZBiasFactor float64
}

// DefaultConfig returns a Config with documented defaults, belief-mode
// thresholding and the default reconstructor and tensor configurations.
func DefaultConfig() *Config {
	return &Config{
		Reconstructor:         curvature.DefaultReconstructorConfig(),
		Belief:                belief.DefaultTensorConfig(),
		Mode:                  ModeBelief,
		HotspotPercentile:     90,
		CalibrationPercentile: 90,
		ZBiasFactor:           1,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Mode != ModeBelief && c.Mode != ModePercentile {
		return fmt.Errorf("%w: unknown threshold mode %d", ErrInvalidConfiguration, c.Mode)
	}
	if c.HotspotPercentile < 0 || c.HotspotPercentile > 100 {
		return fmt.Errorf("%w: HotspotPercentile must be in [0, 100], got %f", ErrInvalidConfiguration, c.HotspotPercentile)
	}
	if c.CalibrationPercentile < 0 || c.CalibrationPercentile > 100 {
		return fmt.Errorf("%w: CalibrationPercentile must be in [0, 100], got %f", ErrInvalidConfiguration, c.CalibrationPercentile)
	}
	if c.ZBiasFactor < 0 {
		return fmt.Errorf("%w: ZBiasFactor must be non-negative, got %f", ErrInvalidConfiguration, c.ZBiasFactor)
	}
	return nil
}

// CycleResult is one full pass of the pipeline.
type CycleResult struct {
	Cycle          int
	Reconstruction *curvature.Reconstruction
	Threshold      float64
	Hotspots       []int
	Metrics        path.Metrics
	Belief         belief.State
}

// Runner executes successive pipeline cycles against one belief tensor.
// It is not safe for concurrent use; independent sample batches need
// independent Runners.
type Runner struct {
	cfg           Config
	reconstructor *curvature.Reconstructor
	evaluator     *path.Evaluator
	tensor        *belief.Tensor
	cycle         int
}

// NewRunner validates the configuration and builds a Runner with a freshly
// initialized belief tensor.
func NewRunner(cfg *Config) (*Runner, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rec, err := curvature.NewReconstructor(cfg.Reconstructor)
	if err != nil {
		return nil, err
	}
	tensor, err := belief.NewTensor(cfg.Belief)
	if err != nil {
		return nil, err
	}
	return &Runner{
		cfg:           *cfg,
		reconstructor: rec,
		evaluator:     &path.Evaluator{ZBiasFactor: cfg.ZBiasFactor},
		tensor:        tensor,
	}, nil
}

// Belief returns a copy of the current belief state.
func (r *Runner) Belief() belief.State { return r.tensor.State() }

// Tensor exposes the runner's belief tensor for diagnostics such as
// credible intervals and confidence entropy.
func (r *Runner) Tensor() *belief.Tensor { return r.tensor }

// RunCycle executes reconstruct, detect, evaluate and the belief update for
// one sample batch. A failed cycle returns an error and leaves the belief
// state from earlier cycles intact.
func (r *Runner) RunCycle(samples []curvature.SparseSample, priors []belief.PriorConstraint) (*CycleResult, error) {
	rec, err := r.reconstructor.Reconstruct(samples, r.cfg.Reconstructor.GridSize)
	if err != nil {
		return nil, err
	}

	source := r.thresholdSource()
	threshold, err := source.Threshold(rec.Signal)
	if err != nil {
		return nil, err
	}
	hotspots, err := hotspot.Detect(rec.Signal, source)
	if err != nil {
		return nil, err
	}

	metrics, err := r.evaluator.Evaluate(rec.Signal)
	if err != nil {
		return nil, err
	}

	estimate, err := hotspot.PercentileThreshold{Percentile: r.cfg.CalibrationPercentile}.Threshold(rec.Signal)
	if err != nil {
		return nil, err
	}
	state, err := r.tensor.Update(belief.Evidence{
		ThresholdEstimate: estimate,
		Variance:          rec.ResidualVariance,
		Confidence:        rec.Confidence,
	}, priors)
	if err != nil {
		return nil, err
	}

	r.cycle++
	monitoring.Logf("pipeline: cycle %d threshold=%.4f hotspots=%d belief=(%.4f, %.4g)",
		r.cycle, threshold, len(hotspots), state.ThresholdMean, state.ThresholdVariance)
	return &CycleResult{
		Cycle:          r.cycle,
		Reconstruction: rec,
		Threshold:      threshold,
		Hotspots:       hotspots,
		Metrics:        metrics,
		Belief:         state,
	}, nil
}

func (r *Runner) thresholdSource() hotspot.ThresholdSource {
	if r.cfg.Mode == ModePercentile {
		return hotspot.PercentileThreshold{Percentile: r.cfg.HotspotPercentile}
	}
	return hotspot.BeliefThreshold{Value: r.tensor.State().ThresholdMean}
}
