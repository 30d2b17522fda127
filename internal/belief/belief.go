// Package belief tracks a Bayesian state over the hotspot detection
// threshold and per-grid-point signal confidence. The threshold belief is a
// Gaussian updated by conjugate precision-weighted fusion with reconstruction
// evidence, then softly clamped toward externally supplied prior constraints.
// The updated mean is what the detector uses as its threshold in the next
// cycle, closing the feedback loop.
package belief

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

var (
	// ErrInvalidPrior indicates a constraint with lower bound above its
	// upper bound.
	ErrInvalidPrior = errors.New("invalid prior")

	// ErrInvalidConfiguration indicates a tensor or constraint parameter
	// out of acceptable range.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// residualVarianceFloor guards the evidence precision when a reconstruction
// fits its samples almost exactly.
const residualVarianceFloor = 1e-12

// State is the belief over the active threshold and the per-grid-point
// signal confidence. It is mutated only by Tensor.Update.
type State struct {
	ThresholdMean     float64
	ThresholdVariance float64
	SignalConfidence  []float64
}

// PriorConstraint is an externally supplied soft bound on the believed
// threshold. Weight controls its influence: 1 fully enforces the nearest
// bound, 0 ignores the constraint.
type PriorConstraint struct {
	Lower  float64
	Upper  float64
	Weight float64
}

// Validate checks the constraint bounds and weight.
func (p PriorConstraint) Validate() error {
	if p.Lower > p.Upper {
		return fmt.Errorf("%w: lower %f exceeds upper %f", ErrInvalidPrior, p.Lower, p.Upper)
	}
	if p.Weight < 0 {
		return fmt.Errorf("%w: weight must be non-negative, got %f", ErrInvalidConfiguration, p.Weight)
	}
	return nil
}

// Evidence is one reconstruction cycle's contribution to the belief.
// ThresholdEstimate is the threshold implied by the reconstructed signal
// (its calibration percentile), Variance the reconstruction residual
// variance, and Confidence the per-grid-point reconstruction confidence.
type Evidence struct {
	ThresholdEstimate float64
	Variance          float64
	Confidence        []float64
}

// TensorConfig provides a configuration builder for a Tensor.
type TensorConfig struct {
	InitialMean              float64 // Prior threshold mean
	InitialVariance          float64 // Prior threshold variance (default: 1.0)
	MinVariance              float64 // Variance floor against overconfidence (default: 1e-6)
	ConfidenceUpdateFraction float64 // EMA alpha for blending confidence evidence (default: 0.5)
}

// DefaultTensorConfig returns a TensorConfig with documented defaults.
func DefaultTensorConfig() *TensorConfig {
	return &TensorConfig{
		InitialVariance:          1.0,
		MinVariance:              1e-6,
		ConfidenceUpdateFraction: 0.5,
	}
}

// Validate checks if the configuration is valid.
func (c *TensorConfig) Validate() error {
	if c.InitialVariance <= 0 {
		return fmt.Errorf("%w: InitialVariance must be positive, got %f", ErrInvalidConfiguration, c.InitialVariance)
	}
	if c.MinVariance <= 0 {
		return fmt.Errorf("%w: MinVariance must be positive, got %f", ErrInvalidConfiguration, c.MinVariance)
	}
	if c.MinVariance > c.InitialVariance {
		return fmt.Errorf("%w: MinVariance %f exceeds InitialVariance %f", ErrInvalidConfiguration, c.MinVariance, c.InitialVariance)
	}
	if c.ConfidenceUpdateFraction <= 0 || c.ConfidenceUpdateFraction > 1 {
		return fmt.Errorf("%w: ConfidenceUpdateFraction must be in (0, 1], got %f", ErrInvalidConfiguration, c.ConfidenceUpdateFraction)
	}
	return nil
}

// Tensor owns one pipeline run's belief state. It is not safe for concurrent
// mutation; independent runs must use independent tensors.
type Tensor struct {
	cfg   TensorConfig
	state State
}

// NewTensor validates the configuration and returns a Tensor initialized to
// the configured prior with uniform full confidence.
func NewTensor(cfg *TensorConfig) (*Tensor, error) {
	if cfg == nil {
		cfg = DefaultTensorConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Tensor{
		cfg: *cfg,
		state: State{
			ThresholdMean:     cfg.InitialMean,
			ThresholdVariance: cfg.InitialVariance,
		},
	}, nil
}

// State returns a copy of the current belief state.
func (t *Tensor) State() State {
	s := t.state
	s.SignalConfidence = append([]float64(nil), t.state.SignalConfidence...)
	return s
}

// Update fuses one cycle of reconstruction evidence and prior constraints
// into the belief and returns the new state.
//
// The threshold belief takes a Gaussian conjugate step: precisions add, the
// mean is the precision-weighted average of old mean and evidence estimate.
// Each out-of-bound constraint then pulls the mean toward its nearest bound
// in proportion to its weight; multiple pulls combine by weighted average.
// Variance never increases from evidence and is floored at MinVariance.
// Malformed constraints fail the whole update and leave the state untouched.
func (t *Tensor) Update(ev Evidence, priors []PriorConstraint) (State, error) {
	for _, p := range priors {
		if err := p.Validate(); err != nil {
			return State{}, err
		}
	}

	mean := t.state.ThresholdMean
	variance := t.state.ThresholdVariance

	evVariance := ev.Variance
	if evVariance < residualVarianceFloor {
		evVariance = residualVarianceFloor
	}
	oldPrec := 1 / variance
	evPrec := 1 / evVariance
	newPrec := oldPrec + evPrec
	mean = (oldPrec*mean + evPrec*ev.ThresholdEstimate) / newPrec
	variance = 1 / newPrec
	if variance < t.cfg.MinVariance {
		variance = t.cfg.MinVariance
	}

	mean += combinedPull(mean, priors)

	t.state.ThresholdMean = mean
	t.state.ThresholdVariance = variance
	t.state.SignalConfidence = t.blendConfidence(ev.Confidence)

	return t.State(), nil
}

// combinedPull computes the soft-clamp adjustment for a mean that falls
// outside any constraint interval. Each violated constraint pulls the mean
// toward its nearest bound in proportion to its weight; pulls combine by
// weighted average once total weight exceeds 1, so a single weight-1
// constraint lands exactly on its bound and no combination overshoots.
// In-bound constraints contribute a zero pull at their full weight and so
// dampen the pull of a violated one.
func combinedPull(mean float64, priors []PriorConstraint) float64 {
	var pullSum, weightSum float64
	for _, p := range priors {
		if p.Weight == 0 {
			continue
		}
		var pull float64
		if mean < p.Lower {
			pull = p.Lower - mean
		} else if mean > p.Upper {
			pull = p.Upper - mean
		}
		pullSum += p.Weight * pull
		weightSum += p.Weight
	}
	if weightSum <= 1 {
		return pullSum
	}
	return pullSum / weightSum
}

// blendConfidence folds new per-point confidence evidence into the state by
// exponential moving average. The first evidence vector seeds the state.
func (t *Tensor) blendConfidence(confidence []float64) []float64 {
	if len(confidence) == 0 {
		return t.state.SignalConfidence
	}
	if len(t.state.SignalConfidence) != len(confidence) {
		return append([]float64(nil), confidence...)
	}
	alpha := t.cfg.ConfidenceUpdateFraction
	out := make([]float64, len(confidence))
	for i, c := range confidence {
		out[i] = (1-alpha)*t.state.SignalConfidence[i] + alpha*c
	}
	return out
}

// CredibleInterval returns the central credible interval of the threshold
// belief at probability p (e.g. 0.95).
func (t *Tensor) CredibleInterval(p float64) (lo, hi float64) {
	dist := distuv.Normal{
		Mu:    t.state.ThresholdMean,
		Sigma: math.Sqrt(t.state.ThresholdVariance),
	}
	tail := (1 - p) / 2
	return dist.Quantile(tail), dist.Quantile(1 - tail)
}

// ConfidenceEntropy returns the Shannon entropy of the normalized signal
// confidence vector, in bits. Low entropy means confidence is concentrated
// in few grid points; a uniform vector maximizes it.
func (t *Tensor) ConfidenceEntropy() float64 {
	var norm float64
	for _, c := range t.state.SignalConfidence {
		norm += math.Abs(c)
	}
	if norm == 0 {
		return 0
	}
	var entropy float64
	for _, c := range t.state.SignalConfidence {
		p := math.Abs(c) / norm
		if p > 0 {
			entropy -= p * math.Log2(p)
		}
	}
	return entropy
}
