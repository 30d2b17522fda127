package main

import (
	"testing"
)

func TestParsePriors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"empty", "", 0, false},
		{"single", "0:1:0.5", 1, false},
		{"multiple", "0:1:0.5, -2:2:1", 2, false},
		{"trailing comma", "0:1:0.5,", 1, false},
		{"missing field", "0:1", 0, true},
		{"bad float", "a:1:0.5", 0, true},
		{"inverted bounds", "2:1:0.5", 0, true},
		{"negative weight", "0:1:-0.5", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePriors(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("parsePriors(%q) failed: %v", tt.input, err)
			}
			if len(got) != tt.want {
				t.Fatalf("expected %d constraints, got %d", tt.want, len(got))
			}
		})
	}
}

func TestParsePriors_FieldOrder(t *testing.T) {
	got, err := parsePriors("-1.5:2.5:0.75")
	if err != nil {
		t.Fatalf("parsePriors failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one constraint, got %d", len(got))
	}
	c := got[0]
	if c.Lower != -1.5 || c.Upper != 2.5 || c.Weight != 0.75 {
		t.Fatalf("fields mis-assigned: %+v", c)
	}
}
