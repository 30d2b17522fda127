package pipeline

import (
	"github.com/Neil-Crago/curvature/internal/belief"
	"github.com/Neil-Crago/curvature/internal/config"
	"github.com/Neil-Crago/curvature/internal/curvature"
)

// ConfigFromTuning builds a pipeline Config from a loaded TuningConfig.
// Use this where the TuningConfig is already loaded; fields not present in
// the JSON take their documented defaults through the Get* accessors.
func ConfigFromTuning(cfg *config.TuningConfig) *Config {
	mode := ModeBelief
	if cfg.GetThresholdMode() == "percentile" {
		mode = ModePercentile
	}
	return &Config{
		Reconstructor: &curvature.ReconstructorConfig{
			GridSize:             cfg.GetGridSize(),
			MinSamples:           cfg.GetMinSamples(),
			FrequencyScanSteps:   cfg.GetFrequencyScanSteps(),
			MinFrequency:         cfg.GetMinFrequency(),
			MaxFrequency:         cfg.GetMaxFrequency(),
			Components:           cfg.GetComponents(),
			SmoothingKernelWidth: cfg.GetSmoothingKernelWidth(),
		},
		Belief: &belief.TensorConfig{
			InitialMean:              cfg.GetInitialThresholdPriorMean(),
			InitialVariance:          cfg.GetInitialThresholdPriorVariance(),
			MinVariance:              cfg.GetMinThresholdVariance(),
			ConfidenceUpdateFraction: cfg.GetConfidenceUpdateFraction(),
		},
		Mode:                  mode,
		HotspotPercentile:     cfg.GetHotspotPercentile(),
		CalibrationPercentile: cfg.GetCalibrationPercentile(),
		ZBiasFactor:           cfg.GetZBiasFactor(),
	}
}
