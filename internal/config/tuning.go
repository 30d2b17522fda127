// Package config loads tuning defaults for the curvature pipeline from a
// canonical JSON file. Fields are pointers so partial configs are safe:
// anything omitted from the JSON falls back to the documented default via
// the Get* accessors.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
// This is the single source of truth for all default tuning values.
const DefaultConfigPath = "config/tuning.defaults.json"

// TuningConfig represents the root configuration for tuning parameters.
type TuningConfig struct {
	// Reconstruction params
	GridSize             *int     `json:"grid_size,omitempty"`
	MinSamples           *int     `json:"min_samples,omitempty"`
	FrequencyScanSteps   *int     `json:"frequency_scan_steps,omitempty"`
	MinFrequency         *float64 `json:"min_frequency,omitempty"`
	MaxFrequency         *float64 `json:"max_frequency,omitempty"`
	Components           *int     `json:"components,omitempty"`
	SmoothingKernelWidth *float64 `json:"smoothing_kernel_width,omitempty"`

	// Detection params
	ThresholdMode         *string  `json:"threshold_mode,omitempty"` // "belief" or "percentile"
	HotspotPercentile     *float64 `json:"hotspot_percentile,omitempty"`
	CalibrationPercentile *float64 `json:"calibration_percentile,omitempty"`

	// Path params
	ZBiasFactor *float64 `json:"z_bias_factor,omitempty"`

	// Belief params
	InitialThresholdPriorMean     *float64 `json:"initial_threshold_prior_mean,omitempty"`
	InitialThresholdPriorVariance *float64 `json:"initial_threshold_prior_variance,omitempty"`
	MinThresholdVariance          *float64 `json:"min_threshold_variance,omitempty"`
	ConfidenceUpdateFraction      *float64 `json:"confidence_update_fraction,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
// Use LoadTuningConfig to load actual values from the defaults file.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the
// max file size. Fields omitted from the JSON file retain their default
// values, so partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical tuning defaults from
// DefaultConfigPath. It searches for the file in the current directory and
// common parent directories. Panics if the file cannot be loaded, intended
// for test setup.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *TuningConfig) Validate() error {
	if c.GridSize != nil && *c.GridSize < 2 {
		return fmt.Errorf("grid_size must be >= 2, got %d", *c.GridSize)
	}
	if c.MinSamples != nil && *c.MinSamples < 2 {
		return fmt.Errorf("min_samples must be >= 2, got %d", *c.MinSamples)
	}
	if c.FrequencyScanSteps != nil && *c.FrequencyScanSteps < 1 {
		return fmt.Errorf("frequency_scan_steps must be positive, got %d", *c.FrequencyScanSteps)
	}
	if c.ThresholdMode != nil {
		if *c.ThresholdMode != "belief" && *c.ThresholdMode != "percentile" {
			return fmt.Errorf("threshold_mode must be 'belief' or 'percentile', got %q", *c.ThresholdMode)
		}
	}
	if c.HotspotPercentile != nil {
		if *c.HotspotPercentile < 0 || *c.HotspotPercentile > 100 {
			return fmt.Errorf("hotspot_percentile must be between 0 and 100, got %f", *c.HotspotPercentile)
		}
	}
	if c.CalibrationPercentile != nil {
		if *c.CalibrationPercentile < 0 || *c.CalibrationPercentile > 100 {
			return fmt.Errorf("calibration_percentile must be between 0 and 100, got %f", *c.CalibrationPercentile)
		}
	}
	if c.ZBiasFactor != nil && *c.ZBiasFactor < 0 {
		return fmt.Errorf("z_bias_factor must be non-negative, got %f", *c.ZBiasFactor)
	}
	if c.InitialThresholdPriorVariance != nil && *c.InitialThresholdPriorVariance <= 0 {
		return fmt.Errorf("initial_threshold_prior_variance must be positive, got %f", *c.InitialThresholdPriorVariance)
	}
	if c.MinThresholdVariance != nil && *c.MinThresholdVariance <= 0 {
		return fmt.Errorf("min_threshold_variance must be positive, got %f", *c.MinThresholdVariance)
	}
	if c.ConfidenceUpdateFraction != nil {
		if *c.ConfidenceUpdateFraction <= 0 || *c.ConfidenceUpdateFraction > 1 {
			return fmt.Errorf("confidence_update_fraction must be in (0, 1], got %f", *c.ConfidenceUpdateFraction)
		}
	}
	return nil
}

// GetGridSize returns the grid_size value or the default.
func (c *TuningConfig) GetGridSize() int {
	if c.GridSize == nil {
		return 128
	}
	return *c.GridSize
}

// GetMinSamples returns the min_samples value or the default.
func (c *TuningConfig) GetMinSamples() int {
	if c.MinSamples == nil {
		return 3
	}
	return *c.MinSamples
}

// GetFrequencyScanSteps returns the frequency_scan_steps value or the default.
func (c *TuningConfig) GetFrequencyScanSteps() int {
	if c.FrequencyScanSteps == nil {
		return 200
	}
	return *c.FrequencyScanSteps
}

// GetMinFrequency returns the min_frequency value or 0, meaning derive from
// the sample span.
func (c *TuningConfig) GetMinFrequency() float64 {
	if c.MinFrequency == nil {
		return 0
	}
	return *c.MinFrequency
}

// GetMaxFrequency returns the max_frequency value or 0, meaning derive from
// the sample span.
func (c *TuningConfig) GetMaxFrequency() float64 {
	if c.MaxFrequency == nil {
		return 0
	}
	return *c.MaxFrequency
}

// GetComponents returns the components value or the default.
func (c *TuningConfig) GetComponents() int {
	if c.Components == nil {
		return 1
	}
	return *c.Components
}

// GetSmoothingKernelWidth returns the smoothing_kernel_width value or the default.
func (c *TuningConfig) GetSmoothingKernelWidth() float64 {
	if c.SmoothingKernelWidth == nil {
		return 0
	}
	return *c.SmoothingKernelWidth
}

// GetThresholdMode returns the threshold_mode value or the default.
func (c *TuningConfig) GetThresholdMode() string {
	if c.ThresholdMode == nil {
		return "belief"
	}
	return *c.ThresholdMode
}

// GetHotspotPercentile returns the hotspot_percentile value or the default.
func (c *TuningConfig) GetHotspotPercentile() float64 {
	if c.HotspotPercentile == nil {
		return 90
	}
	return *c.HotspotPercentile
}

// GetCalibrationPercentile returns the calibration_percentile value or the default.
func (c *TuningConfig) GetCalibrationPercentile() float64 {
	if c.CalibrationPercentile == nil {
		return 90
	}
	return *c.CalibrationPercentile
}

// GetZBiasFactor returns the z_bias_factor value or the default.
func (c *TuningConfig) GetZBiasFactor() float64 {
	if c.ZBiasFactor == nil {
		return 1.0
	}
	return *c.ZBiasFactor
}

// GetInitialThresholdPriorMean returns the initial_threshold_prior_mean value or the default.
func (c *TuningConfig) GetInitialThresholdPriorMean() float64 {
	if c.InitialThresholdPriorMean == nil {
		return 0
	}
	return *c.InitialThresholdPriorMean
}

// GetInitialThresholdPriorVariance returns the initial_threshold_prior_variance value or the default.
func (c *TuningConfig) GetInitialThresholdPriorVariance() float64 {
	if c.InitialThresholdPriorVariance == nil {
		return 1.0
	}
	return *c.InitialThresholdPriorVariance
}

// GetMinThresholdVariance returns the min_threshold_variance value or the default.
func (c *TuningConfig) GetMinThresholdVariance() float64 {
	if c.MinThresholdVariance == nil {
		return 1e-6
	}
	return *c.MinThresholdVariance
}

// GetConfidenceUpdateFraction returns the confidence_update_fraction value or the default.
func (c *TuningConfig) GetConfidenceUpdateFraction() float64 {
	if c.ConfidenceUpdateFraction == nil {
		return 0.5
	}
	return *c.ConfidenceUpdateFraction
}
