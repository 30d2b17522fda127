package curvature

import (
	"errors"
	"fmt"
)

// Errors returned by reconstruction.
var (
	// ErrInsufficientData indicates fewer samples than the configured
	// minimum were supplied; a periodogram needs enough points to resolve
	// at least one frequency.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrInvalidConfiguration indicates a configuration parameter is out
	// of its acceptable range.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// ReconstructorConfig provides a configuration builder for a Reconstructor.
// It allows setting parameters with defaults and validation before creating
// a Reconstructor.
type ReconstructorConfig struct {
	// Core reconstruction parameters
	GridSize     int     // Number of uniform grid points (default: 128)
	DomainLength float64 // Domain upper bound L; samples live in [0, L). 0 means derive from sample span.
	MinSamples   int     // Min samples required to reconstruct (default: 3)

	// Frequency scan
	FrequencyScanSteps int     // Number of scanned frequencies (default: 200)
	MinFrequency       float64 // Lowest scanned frequency; 0 derives 1/span
	MaxFrequency       float64 // Highest scanned frequency; 0 derives n/(2*span)
	Components         int     // Dominant components synthesized (default: 1)

	// Synthesis smoothing
	SmoothingKernelWidth float64 // Gaussian kernel sigma in grid cells; 0 disables smoothing

	// Parallelism for the frequency scan; 0 means GOMAXPROCS
	ScanWorkers int
}

// DefaultReconstructorConfig returns a ReconstructorConfig with documented
// defaults. The frequency scan range is derived from the sample span at
// reconstruction time unless set explicitly.
func DefaultReconstructorConfig() *ReconstructorConfig {
	return &ReconstructorConfig{
		GridSize:           128,
		MinSamples:         3,
		FrequencyScanSteps: 200,
		Components:         1,
	}
}

// Validate checks if the configuration is valid.
// Returns an error wrapping ErrInvalidConfiguration if any parameter is out
// of acceptable range.
func (c *ReconstructorConfig) Validate() error {
	if c.GridSize < 2 {
		return fmt.Errorf("%w: GridSize must be >= 2, got %d", ErrInvalidConfiguration, c.GridSize)
	}
	if c.DomainLength < 0 {
		return fmt.Errorf("%w: DomainLength must be non-negative, got %f", ErrInvalidConfiguration, c.DomainLength)
	}
	if c.MinSamples < 2 {
		return fmt.Errorf("%w: MinSamples must be >= 2, got %d", ErrInvalidConfiguration, c.MinSamples)
	}
	if c.FrequencyScanSteps < 1 {
		return fmt.Errorf("%w: FrequencyScanSteps must be positive, got %d", ErrInvalidConfiguration, c.FrequencyScanSteps)
	}
	if c.MinFrequency < 0 {
		return fmt.Errorf("%w: MinFrequency must be non-negative, got %f", ErrInvalidConfiguration, c.MinFrequency)
	}
	if c.MaxFrequency < 0 {
		return fmt.Errorf("%w: MaxFrequency must be non-negative, got %f", ErrInvalidConfiguration, c.MaxFrequency)
	}
	if c.MaxFrequency > 0 && c.MinFrequency > c.MaxFrequency {
		return fmt.Errorf("%w: MinFrequency %f exceeds MaxFrequency %f", ErrInvalidConfiguration, c.MinFrequency, c.MaxFrequency)
	}
	if c.Components < 1 {
		return fmt.Errorf("%w: Components must be positive, got %d", ErrInvalidConfiguration, c.Components)
	}
	if c.SmoothingKernelWidth < 0 {
		return fmt.Errorf("%w: SmoothingKernelWidth must be non-negative, got %f", ErrInvalidConfiguration, c.SmoothingKernelWidth)
	}
	if c.ScanWorkers < 0 {
		return fmt.Errorf("%w: ScanWorkers must be non-negative, got %d", ErrInvalidConfiguration, c.ScanWorkers)
	}
	return nil
}
