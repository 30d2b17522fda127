// Package path computes curvature-weighted trajectory lengths over a dense
// signal. Curvature is treated as a height-like z displacement: each unit
// grid step of curvature k contributes sqrt(1 + (z*k)^2) to the path, so a
// flat signal reduces to the Manhattan baseline and high curvature inflates
// the path superlinearly.
package path

import (
	"errors"
	"fmt"
	"math"
)

// ErrDegenerateSignal indicates path evaluation on a signal shorter than two
// points; a single point has no path.
var ErrDegenerateSignal = errors.New("degenerate signal")

// Metrics is the result of a path evaluation.
type Metrics struct {
	// CurvaturePathLength is the z-bias trajectory length.
	CurvaturePathLength float64
	// ManhattanLength is the flat baseline: the path length if curvature
	// were zero, i.e. gridSize - 1 unit steps.
	ManhattanLength float64
	// ZBiasContribution is the curvature-induced excess,
	// CurvaturePathLength - ManhattanLength.
	ZBiasContribution float64
}

// Evaluator computes path metrics. ZBiasFactor controls how strongly
// curvature inflates the path; the neutral default is 1.
type Evaluator struct {
	ZBiasFactor float64
}

// NewEvaluator returns an Evaluator with the default z-bias factor of 1.
func NewEvaluator() *Evaluator {
	return &Evaluator{ZBiasFactor: 1}
}

// Evaluate walks the signal one grid step at a time. Step i (from point i to
// i+1) has length sqrt(1 + (ZBiasFactor*signal[i])^2), using the curvature
// at the leading point.
func (e *Evaluator) Evaluate(signal []float64) (Metrics, error) {
	if len(signal) < 2 {
		return Metrics{}, fmt.Errorf("%w: need at least 2 points, got %d", ErrDegenerateSignal, len(signal))
	}

	manhattan := float64(len(signal) - 1)

	var length float64
	for i := 0; i < len(signal)-1; i++ {
		z := e.ZBiasFactor * signal[i]
		length += math.Sqrt(1 + z*z)
	}

	return Metrics{
		CurvaturePathLength: length,
		ManhattanLength:     manhattan,
		ZBiasContribution:   length - manhattan,
	}, nil
}
