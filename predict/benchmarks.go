// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package predict

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rates are the delivery benchmarks a prediction is built from.
type Rates struct {
	CPM       float64 `yaml:"cpm"`
	CPC       float64 `yaml:"cpc"`
	CPL       float64 `yaml:"cpl"`
	Frequency float64 `yaml:"frequency"`
}

// TypeRates overrides the defaults for one campaign type, optionally per country.
type TypeRates struct {
	Rates     `yaml:",inline"`
	Countries map[string]Rates `yaml:"countries"`
}

// Benchmarks holds default rates plus overrides keyed by campaign type.
// Zero fields in an override inherit from the level above.
type Benchmarks struct {
	Default Rates                `yaml:"default"`
	Types   map[string]TypeRates `yaml:"types"`
}

// DefaultRates are the account-wide averages used when nothing else is known.
var DefaultRates = Rates{CPM: 12.50, CPC: 1.50, CPL: 25.0, Frequency: 1.2}

// DefaultBenchmarks returns benchmarks with no overrides.
func DefaultBenchmarks() Benchmarks {
	return Benchmarks{Default: DefaultRates}
}

// LoadBenchmarks reads a YAML benchmarks file. An empty path yields the
// defaults. Missing default fields are filled from DefaultRates.
//
//	default:
//	  cpm: 12.5
//	types:
//	  LeadGen:
//	    cpl: 30
//	    countries:
//	      IN: {cpm: 4.2, cpl: 11}
func LoadBenchmarks(path string) (Benchmarks, error) {
	if path == "" {
		return DefaultBenchmarks(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Benchmarks{}, fmt.Errorf("failed to read benchmarks: %w", err)
	}

	var b Benchmarks
	if err := yaml.Unmarshal(data, &b); err != nil {
		return Benchmarks{}, fmt.Errorf("failed to parse benchmarks %s: %w", path, err)
	}
	b.Default = overlay(DefaultRates, b.Default)

	// Country codes are matched case-insensitively.
	for name, tr := range b.Types {
		if len(tr.Countries) == 0 {
			continue
		}
		upper := make(map[string]Rates, len(tr.Countries))
		for code, r := range tr.Countries {
			upper[strings.ToUpper(code)] = r
		}
		tr.Countries = upper
		b.Types[name] = tr
	}

	return b, nil
}

// Lookup resolves the rates for a campaign type in a country.
func (b Benchmarks) Lookup(campaignType, country string) Rates {
	r := overlay(DefaultRates, b.Default)
	tr, ok := b.Types[campaignType]
	if !ok {
		return r
	}
	r = overlay(r, tr.Rates)
	if cr, ok := tr.Countries[strings.ToUpper(country)]; ok {
		r = overlay(r, cr)
	}
	return r
}

func overlay(base, over Rates) Rates {
	if over.CPM > 0 {
		base.CPM = over.CPM
	}
	if over.CPC > 0 {
		base.CPC = over.CPC
	}
	if over.CPL > 0 {
		base.CPL = over.CPL
	}
	if over.Frequency > 0 {
		base.Frequency = over.Frequency
	}
	return base
}
