package path

import (
	"errors"
	"math"
	"testing"
)

func TestEvaluate_ConstantZeroReducesToManhattan(t *testing.T) {
	const n = 10
	e := NewEvaluator()
	m, err := e.Evaluate(make([]float64, n))
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if m.CurvaturePathLength != n-1 {
		t.Fatalf("expected curvature path length %d, got %f", n-1, m.CurvaturePathLength)
	}
	if m.ManhattanLength != n-1 {
		t.Fatalf("expected manhattan length %d, got %f", n-1, m.ManhattanLength)
	}
	if m.ZBiasContribution != 0 {
		t.Fatalf("expected zero z-bias contribution, got %f", m.ZBiasContribution)
	}
}

func TestEvaluate_DegenerateSignal(t *testing.T) {
	e := NewEvaluator()
	for _, signal := range [][]float64{nil, {}, {1.5}} {
		if _, err := e.Evaluate(signal); !errors.Is(err, ErrDegenerateSignal) {
			t.Fatalf("signal %v: expected ErrDegenerateSignal, got %v", signal, err)
		}
	}
}

func TestEvaluate_KnownStepLengths(t *testing.T) {
	// Steps use the leading point's curvature: two steps with curvature
	// 0 and 1 give 1 + sqrt(2).
	e := NewEvaluator()
	m, err := e.Evaluate([]float64{0, 1, 0})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	want := 1 + math.Sqrt2
	if math.Abs(m.CurvaturePathLength-want) > 1e-12 {
		t.Fatalf("expected path length %f, got %f", want, m.CurvaturePathLength)
	}
	if math.Abs(m.ZBiasContribution-(want-2)) > 1e-12 {
		t.Fatalf("expected contribution %f, got %f", want-2, m.ZBiasContribution)
	}
}

func TestEvaluate_MonotonicInZBiasFactor(t *testing.T) {
	signal := []float64{0.5, -1.2, 2.0, 0.1, -0.4}
	var prev float64
	for i, z := range []float64{0, 0.5, 1, 2, 5} {
		m, err := (&Evaluator{ZBiasFactor: z}).Evaluate(signal)
		if err != nil {
			t.Fatalf("Evaluate failed at factor %f: %v", z, err)
		}
		if i > 0 && m.CurvaturePathLength < prev {
			t.Fatalf("path length decreased from %f to %f when factor rose to %f", prev, m.CurvaturePathLength, z)
		}
		prev = m.CurvaturePathLength
	}
}

func TestEvaluate_ZeroFactorIgnoresCurvature(t *testing.T) {
	m, err := (&Evaluator{ZBiasFactor: 0}).Evaluate([]float64{3, -7, 11, 2})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if m.CurvaturePathLength != 3 || m.ZBiasContribution != 0 {
		t.Fatalf("expected flat metrics with zero factor, got %+v", m)
	}
}
