package curvature

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Reconstructor turns sparse curvature samples into a dense signal on a
// uniform grid. It is a pure function of its inputs and configuration and is
// safe for concurrent use.
type Reconstructor struct {
	cfg ReconstructorConfig
}

// NewReconstructor validates the configuration and returns a Reconstructor.
func NewReconstructor(cfg *ReconstructorConfig) (*Reconstructor, error) {
	if cfg == nil {
		cfg = DefaultReconstructorConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Reconstructor{cfg: *cfg}, nil
}

// Config returns a copy of the active configuration.
func (r *Reconstructor) Config() ReconstructorConfig { return r.cfg }

// Reconstruct estimates the dense curvature signal from sparse samples on a
// uniform grid of gridSize points.
//
// The periodogram is evaluated over the scanned frequency ladder, the
// dominant components are fitted by weighted least squares (weights from the
// sample uncertainties) and summed on the grid, then the optional smoothing
// kernel is applied. Per-grid-point confidence is the inverse interpolation
// distance to the nearest real sample.
func (r *Reconstructor) Reconstruct(samples []SparseSample, gridSize int) (*Reconstruction, error) {
	if gridSize < 2 {
		return nil, fmt.Errorf("%w: grid size must be >= 2, got %d", ErrInvalidConfiguration, gridSize)
	}
	if len(samples) < r.cfg.MinSamples {
		return nil, fmt.Errorf("%w: need at least %d samples, got %d", ErrInsufficientData, r.cfg.MinSamples, len(samples))
	}
	for _, s := range samples {
		if s.Position < 0 {
			return nil, fmt.Errorf("%w: sample position %f outside domain", ErrInsufficientData, s.Position)
		}
	}

	freqs := r.cfg.scanFrequencies(samples)
	if len(freqs) == 0 {
		return nil, fmt.Errorf("%w: samples span zero width, cannot resolve a frequency", ErrInsufficientData)
	}

	spectrum := Periodogram(samples, freqs, r.cfg.ScanWorkers)
	dominant := selectDominant(spectrum, r.cfg.Components)

	mean, components, residuals := fitComponents(samples, dominant)

	domain := r.cfg.DomainLength
	if domain <= 0 {
		domain = maxPosition(samples)
	}

	signal := synthesize(mean, components, gridSize, domain)
	if r.cfg.SmoothingKernelWidth > 0 {
		signal = smoothGaussian(signal, r.cfg.SmoothingKernelWidth)
	}

	return &Reconstruction{
		Signal:           signal,
		Confidence:       gridConfidence(samples, gridSize, domain),
		Spectrum:         spectrum,
		Dominant:         dominant,
		ResidualVariance: stat.Variance(residuals, nil),
	}, nil
}

// fitComponents fits each dominant frequency in turn against the running
// residual (matching pursuit): the strongest component is fitted first, its
// contribution subtracted, and the next fitted to what remains. Returns the
// weighted sample mean, the fitted components and the final residuals at the
// sample positions.
func fitComponents(samples []SparseSample, dominant []FrequencyEstimate) (float64, []component, []float64) {
	n := len(samples)
	weights := make([]float64, n)
	for i, s := range samples {
		if s.Uncertainty > 0 {
			weights[i] = 1 / (s.Uncertainty * s.Uncertainty)
		} else {
			weights[i] = 1
		}
	}

	var wSum, mean float64
	for i, s := range samples {
		wSum += weights[i]
		mean += weights[i] * s.Value
	}
	mean /= wSum

	residual := make([]float64, n)
	for i, s := range samples {
		residual[i] = s.Value - mean
	}

	components := make([]component, 0, len(dominant))
	for _, fe := range dominant {
		if fe.Frequency <= 0 {
			continue
		}
		omega := 2 * math.Pi * fe.Frequency

		// Weighted normal equations for y ~ a*cos(w t) + b*sin(w t).
		var cc, cs, ss, yc, ys float64
		for i, s := range samples {
			c := math.Cos(omega * s.Position)
			sn := math.Sin(omega * s.Position)
			w := weights[i]
			cc += w * c * c
			cs += w * c * sn
			ss += w * sn * sn
			yc += w * residual[i] * c
			ys += w * residual[i] * sn
		}
		det := cc*ss - cs*cs
		if math.Abs(det) < 1e-12 {
			continue
		}
		a := (yc*ss - ys*cs) / det
		b := (ys*cc - yc*cs) / det
		components = append(components, component{freq: fe.Frequency, a: a, b: b})

		for i, s := range samples {
			residual[i] -= a*math.Cos(omega*s.Position) + b*math.Sin(omega*s.Position)
		}
	}

	return mean, components, residual
}

// synthesize sums the fitted components on a uniform grid spanning [0, domain].
func synthesize(mean float64, components []component, gridSize int, domain float64) DenseSignal {
	signal := make(DenseSignal, gridSize)
	step := domain / float64(gridSize-1)
	for i := range signal {
		t := float64(i) * step
		v := mean
		for _, c := range components {
			omega := 2 * math.Pi * c.freq
			v += c.a*math.Cos(omega*t) + c.b*math.Sin(omega*t)
		}
		signal[i] = v
	}
	return signal
}

// smoothGaussian convolves the signal with a Gaussian kernel of the given
// sigma (in grid cells), clamping at the edges. Support is truncated at
// three sigma.
func smoothGaussian(signal DenseSignal, sigma float64) DenseSignal {
	radius := int(math.Ceil(3 * sigma))
	if radius < 1 {
		return signal
	}
	kernel := make([]float64, 2*radius+1)
	for k := -radius; k <= radius; k++ {
		kernel[k+radius] = math.Exp(-float64(k*k) / (2 * sigma * sigma))
	}
	floats.Scale(1/floats.Sum(kernel), kernel)

	out := make(DenseSignal, len(signal))
	for i := range signal {
		var v float64
		for k := -radius; k <= radius; k++ {
			j := i + k
			if j < 0 {
				j = 0
			} else if j >= len(signal) {
				j = len(signal) - 1
			}
			v += kernel[k+radius] * signal[j]
		}
		out[i] = v
	}
	return out
}

// gridConfidence scores each grid point by proximity to the nearest real
// sample, normalized by the mean sample spacing: 1 at a sample position,
// falling toward 0 as interpolation distance grows.
func gridConfidence(samples []SparseSample, gridSize int, domain float64) []float64 {
	spacing := sampleSpan(samples) / float64(len(samples)-1)
	if spacing <= 0 {
		spacing = 1
	}

	conf := make([]float64, gridSize)
	step := domain / float64(gridSize-1)
	for i := range conf {
		t := float64(i) * step
		nearest := math.Inf(1)
		for _, s := range samples {
			d := math.Abs(s.Position - t)
			if d < nearest {
				nearest = d
			}
		}
		conf[i] = 1 / (1 + nearest/spacing)
	}
	return conf
}

func maxPosition(samples []SparseSample) float64 {
	var m float64
	for _, s := range samples {
		if s.Position > m {
			m = s.Position
		}
	}
	return m
}
