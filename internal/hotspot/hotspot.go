// Package hotspot identifies high-curvature zones in a dense signal. A grid
// point is a hotspot when its value strictly exceeds the active threshold;
// points exactly at the threshold are excluded so borderline noise is never
// classified.
package hotspot

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

var (
	// ErrEmptySignal indicates detection was attempted on an empty signal.
	ErrEmptySignal = errors.New("empty signal")

	// ErrInvalidConfiguration indicates a malformed threshold source.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// ThresholdSource yields the active detection threshold for a signal. The
// two modes are distinct types rather than a flag: PercentileThreshold
// derives the cut from the signal's own distribution, BeliefThreshold
// carries a confidence-adjusted value supplied by the belief state.
type ThresholdSource interface {
	Threshold(signal []float64) (float64, error)
}

// PercentileThreshold cuts at the requested percentile of the signal
// distribution (e.g. 90 flags the top decile).
type PercentileThreshold struct {
	Percentile float64
}

// Threshold returns the signal value at the configured percentile.
func (p PercentileThreshold) Threshold(signal []float64) (float64, error) {
	if p.Percentile < 0 || p.Percentile > 100 {
		return 0, fmt.Errorf("%w: percentile must be in [0, 100], got %f", ErrInvalidConfiguration, p.Percentile)
	}
	if len(signal) == 0 {
		return 0, ErrEmptySignal
	}
	sorted := append([]float64(nil), signal...)
	sort.Float64s(sorted)
	// LinInterp keeps the cut below the maximum for percentiles under 100,
	// so the strict inequality can still flag the top of the distribution.
	return stat.Quantile(p.Percentile/100, stat.LinInterp, sorted, nil), nil
}

// BeliefThreshold is a direct threshold value, typically the posterior mean
// of the belief state.
type BeliefThreshold struct {
	Value float64
}

// Threshold returns the carried value unchanged.
func (b BeliefThreshold) Threshold([]float64) (float64, error) {
	return b.Value, nil
}

// Detect returns the indices of grid points whose value strictly exceeds the
// threshold produced by source, in ascending order. A constant signal yields
// no hotspots: the threshold equals every value and the strict inequality
// fails everywhere.
func Detect(signal []float64, source ThresholdSource) ([]int, error) {
	if len(signal) == 0 {
		return nil, ErrEmptySignal
	}
	if source == nil {
		return nil, fmt.Errorf("%w: nil threshold source", ErrInvalidConfiguration)
	}
	threshold, err := source.Threshold(signal)
	if err != nil {
		return nil, err
	}

	// A flat signal has no hotspots under any threshold: there is no
	// anomalously high point to single out.
	if constant(signal) {
		return nil, nil
	}

	var indices []int
	for i, v := range signal {
		if v > threshold {
			indices = append(indices, i)
		}
	}
	return indices, nil
}

func constant(signal []float64) bool {
	for _, v := range signal[1:] {
		if v != signal[0] {
			return false
		}
	}
	return true
}
