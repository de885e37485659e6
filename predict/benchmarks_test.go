// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package predict

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeBenchmarks(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "benchmarks.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write benchmarks: %v", err)
	}
	return path
}

func TestLoadBenchmarksEmptyPath(t *testing.T) {
	b, err := LoadBenchmarks("")
	if err != nil {
		t.Fatalf("LoadBenchmarks: %v", err)
	}
	if diff := cmp.Diff(DefaultRates, b.Lookup("Brand", "GB")); diff != "" {
		t.Errorf("default lookup mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadBenchmarksOverrides(t *testing.T) {
	path := writeBenchmarks(t, `
default:
  cpm: 10
types:
  LeadGen:
    cpl: 30
    countries:
      in:
        cpm: 4.2
        frequency: 1.5
`)

	b, err := LoadBenchmarks(path)
	if err != nil {
		t.Fatalf("LoadBenchmarks: %v", err)
	}

	tests := []struct {
		name    string
		ctype   string
		country string
		want    Rates
	}{
		{"partial default", "Brand", "GB", Rates{CPM: 10, CPC: 1.5, CPL: 25, Frequency: 1.2}},
		{"type override", "LeadGen", "GB", Rates{CPM: 10, CPC: 1.5, CPL: 30, Frequency: 1.2}},
		{"country override", "LeadGen", "IN", Rates{CPM: 4.2, CPC: 1.5, CPL: 30, Frequency: 1.5}},
		{"country code case", "LeadGen", "in", Rates{CPM: 4.2, CPC: 1.5, CPL: 30, Frequency: 1.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, b.Lookup(tt.ctype, tt.country)); diff != "" {
				t.Errorf("Lookup mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadBenchmarksErrors(t *testing.T) {
	if _, err := LoadBenchmarks(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := LoadBenchmarks(writeBenchmarks(t, "default: [1, 2")); err == nil {
		t.Error("expected error for malformed YAML")
	}
}
