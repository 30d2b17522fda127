// Package simulate generates synthetic sparse curvature samples for demos
// and tests. Generation is deterministic for a fixed seed: positions are
// jittered off a uniform ladder and values are a sinusoid plus Gaussian
// noise, mimicking an irregular field survey of a periodic curvature field.
package simulate

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/Neil-Crago/curvature/internal/curvature"
)

// Config describes the simulated curvature field and sampling process.
type Config struct {
	Samples   int     // Number of sparse samples (default: 24)
	Domain    float64 // Domain length L; positions land in [0, L) (default: 10)
	Frequency float64 // True sinusoid frequency in cycles per domain unit (default: 0.5)
	Amplitude float64 // Sinusoid amplitude (default: 1)
	Offset    float64 // Constant curvature offset (default: 0)
	Noise     float64 // Gaussian noise sigma added to each value (default: 0.1)
	Jitter    float64 // Position jitter as a fraction of the ladder step (default: 0.3)
	Seed      int64   // RNG seed; fixed seed gives identical batches
}

// DefaultConfig returns a Config with documented defaults.
func DefaultConfig() *Config {
	return &Config{
		Samples:   24,
		Domain:    10,
		Frequency: 0.5,
		Amplitude: 1,
		Noise:     0.1,
		Jitter:    0.3,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Samples < 2 {
		return fmt.Errorf("Samples must be >= 2, got %d", c.Samples)
	}
	if c.Domain <= 0 {
		return fmt.Errorf("Domain must be positive, got %f", c.Domain)
	}
	if c.Frequency <= 0 {
		return fmt.Errorf("Frequency must be positive, got %f", c.Frequency)
	}
	if c.Noise < 0 {
		return fmt.Errorf("Noise must be non-negative, got %f", c.Noise)
	}
	if c.Jitter < 0 || c.Jitter >= 0.5 {
		return fmt.Errorf("Jitter must be in [0, 0.5), got %f", c.Jitter)
	}
	return nil
}

// Batch generates one batch of sparse samples in ascending position order.
// Each sample's Uncertainty is the configured noise sigma.
func Batch(cfg *Config) ([]curvature.SparseSample, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	step := cfg.Domain / float64(cfg.Samples)

	samples := make([]curvature.SparseSample, cfg.Samples)
	for i := range samples {
		pos := (float64(i) + 0.5 + cfg.Jitter*(2*rng.Float64()-1)) * step
		value := cfg.Offset + cfg.Amplitude*math.Sin(2*math.Pi*cfg.Frequency*pos)
		if cfg.Noise > 0 {
			value += cfg.Noise * rng.NormFloat64()
		}
		uncertainty := cfg.Noise
		if uncertainty == 0 {
			uncertainty = 1e-3
		}
		samples[i] = curvature.SparseSample{
			Position:    pos,
			Value:       value,
			Uncertainty: uncertainty,
		}
	}
	return samples, nil
}
