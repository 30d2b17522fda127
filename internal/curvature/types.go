// Package curvature reconstructs a dense curvature signal from sparse,
// irregularly spaced measurements. Reconstruction runs a Lomb-Scargle style
// periodogram over the raw samples, selects the dominant frequency
// components, and synthesizes the signal on a uniform grid with optional
// kernel smoothing.
package curvature

// SparseSample is a single irregular measurement of the curvature signal.
// Position is in domain units, Value is the measured curvature and
// Uncertainty is the measurement standard deviation.
type SparseSample struct {
	Position    float64
	Value       float64
	Uncertainty float64
}

// DenseSignal is the reconstructed curvature signal sampled on a uniform
// grid over the domain. Its length equals the configured grid size.
type DenseSignal []float64

// FrequencyEstimate is one periodogram bin: a candidate frequency and its
// normalized spectral power.
type FrequencyEstimate struct {
	Frequency float64
	Power     float64
}

// Reconstruction bundles the dense signal with its diagnostics: per-grid-point
// confidence, the scanned spectrum, the components chosen for synthesis and
// the residual variance measured back at the sample positions.
//
// Confidence has the same length as Signal. ResidualVariance is the sample
// variance of (observed - synthesized) at the input positions and is the
// evidence precision fed to the belief update.
type Reconstruction struct {
	Signal           DenseSignal
	Confidence       []float64
	Spectrum         []FrequencyEstimate
	Dominant         []FrequencyEstimate
	ResidualVariance float64
}

// component is one synthesized sinusoid: value(t) = A*cos(2*pi*f*t) + B*sin(2*pi*f*t).
type component struct {
	freq float64
	a    float64
	b    float64
}
