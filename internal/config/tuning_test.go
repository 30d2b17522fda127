package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadTuningConfig_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "tuning.json", `{"grid_size": 64, "threshold_mode": "percentile"}`)

	cfg, err := LoadTuningConfig(path)
	if err != nil {
		t.Fatalf("LoadTuningConfig failed: %v", err)
	}
	if got := cfg.GetGridSize(); got != 64 {
		t.Fatalf("expected grid size 64 from file, got %d", got)
	}
	if got := cfg.GetThresholdMode(); got != "percentile" {
		t.Fatalf("expected threshold mode from file, got %q", got)
	}
	// Everything omitted falls back to the documented default.
	if got := cfg.GetFrequencyScanSteps(); got != 200 {
		t.Fatalf("expected default scan steps 200, got %d", got)
	}
	if got := cfg.GetHotspotPercentile(); got != 90 {
		t.Fatalf("expected default hotspot percentile 90, got %f", got)
	}
	if got := cfg.GetInitialThresholdPriorVariance(); got != 1.0 {
		t.Fatalf("expected default prior variance 1.0, got %f", got)
	}
}

func TestLoadTuningConfig_RejectsNonJSONExtension(t *testing.T) {
	path := writeConfig(t, "tuning.yaml", `{}`)
	if _, err := LoadTuningConfig(path); err == nil {
		t.Fatal("expected extension error for .yaml file")
	}
}

func TestLoadTuningConfig_RejectsMalformedJSON(t *testing.T) {
	path := writeConfig(t, "tuning.json", `{"grid_size": `)
	if _, err := LoadTuningConfig(path); err == nil {
		t.Fatal("expected parse error for truncated JSON")
	}
}

func TestLoadTuningConfig_MissingFile(t *testing.T) {
	if _, err := LoadTuningConfig(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestTuningConfig_Validate(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"grid too small", `{"grid_size": 1}`},
		{"min samples too small", `{"min_samples": 1}`},
		{"zero scan steps", `{"frequency_scan_steps": 0}`},
		{"unknown mode", `{"threshold_mode": "adaptive"}`},
		{"percentile too high", `{"hotspot_percentile": 101}`},
		{"negative calibration percentile", `{"calibration_percentile": -1}`},
		{"negative z-bias", `{"z_bias_factor": -0.5}`},
		{"zero prior variance", `{"initial_threshold_prior_variance": 0}`},
		{"zero variance floor", `{"min_threshold_variance": 0}`},
		{"update fraction above one", `{"confidence_update_fraction": 1.1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, "tuning.json", tt.body)
			if _, err := LoadTuningConfig(path); err == nil {
				t.Fatalf("expected validation error for %s", tt.body)
			}
		})
	}
}

func TestMustLoadDefaultConfig_MatchesAccessors(t *testing.T) {
	cfg := MustLoadDefaultConfig()
	if got := cfg.GetGridSize(); got != 128 {
		t.Fatalf("expected canonical grid size 128, got %d", got)
	}
	if got := cfg.GetThresholdMode(); got != "belief" {
		t.Fatalf("expected canonical mode belief, got %q", got)
	}
	if got := cfg.GetZBiasFactor(); got != 1.0 {
		t.Fatalf("expected canonical z-bias factor 1, got %f", got)
	}
}
