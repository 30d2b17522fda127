package simulate

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBatch_DeterministicForSeed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 17

	first, err := Batch(cfg)
	if err != nil {
		t.Fatalf("first batch failed: %v", err)
	}
	second, err := Batch(cfg)
	if err != nil {
		t.Fatalf("second batch failed: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("same seed produced different batches (-first +second):\n%s", diff)
	}

	cfg.Seed = 18
	other, err := Batch(cfg)
	if err != nil {
		t.Fatalf("reseeded batch failed: %v", err)
	}
	if diff := cmp.Diff(first, other); diff == "" {
		t.Fatal("different seeds produced identical batches")
	}
}

func TestBatch_PositionsOrderedWithinDomain(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Samples = 50
	cfg.Seed = 3

	batch, err := Batch(cfg)
	if err != nil {
		t.Fatalf("Batch failed: %v", err)
	}
	if len(batch) != cfg.Samples {
		t.Fatalf("expected %d samples, got %d", cfg.Samples, len(batch))
	}
	for i, s := range batch {
		if s.Position < 0 || s.Position >= cfg.Domain {
			t.Fatalf("sample %d position %f outside [0, %f)", i, s.Position, cfg.Domain)
		}
		if i > 0 && s.Position <= batch[i-1].Position {
			t.Fatalf("positions not strictly ascending at %d: %f then %f", i, batch[i-1].Position, s.Position)
		}
	}
}

func TestBatch_NoiselessValuesOnSinusoid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Noise = 0
	cfg.Offset = 0.25
	cfg.Seed = 7

	batch, err := Batch(cfg)
	if err != nil {
		t.Fatalf("Batch failed: %v", err)
	}
	for i, s := range batch {
		want := cfg.Offset + cfg.Amplitude*math.Sin(2*math.Pi*cfg.Frequency*s.Position)
		if math.Abs(s.Value-want) > 1e-12 {
			t.Fatalf("sample %d: expected %f on the sinusoid, got %f", i, want, s.Value)
		}
		if s.Uncertainty <= 0 {
			t.Fatalf("sample %d: expected a positive uncertainty floor, got %f", i, s.Uncertainty)
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"one sample", func(c *Config) { c.Samples = 1 }},
		{"zero domain", func(c *Config) { c.Domain = 0 }},
		{"zero frequency", func(c *Config) { c.Frequency = 0 }},
		{"negative noise", func(c *Config) { c.Noise = -0.1 }},
		{"jitter too large", func(c *Config) { c.Jitter = 0.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config must validate, got %v", err)
	}
}
