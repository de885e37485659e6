// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package predict

import (
	"math"

	"github.com/danielhkuo/keystone-adops/models"
)

// Monthly client spend by campaign type. Media spend is a fixed share of it.
const (
	BrandMonthlySpend   = 3000.0
	LeadGenMonthlySpend = 3900.0
	MediaShare          = 0.25
)

// EvenSplit gives every country the same share of 100 percent.
func EvenSplit(countries []string) map[string]float64 {
	out := make(map[string]float64, len(countries))
	if len(countries) == 0 {
		return out
	}
	share := 100 / float64(len(countries))
	for _, c := range countries {
		out[c] = share
	}
	return out
}

// ClientSpend is the total the client pays over the campaign.
func ClientSpend(campaignType string, months int) float64 {
	base := BrandMonthlySpend
	if campaignType == models.CampaignTypeLeadGen {
		base = LeadGenMonthlySpend
	}
	return base * float64(months)
}

// Calculate projects delivery per country from the media budget and the
// benchmark rates. When no allocations are supplied the budget is split
// evenly; a country missing from a supplied allocation map gets nothing.
func Calculate(req models.PredictionRequest, b Benchmarks) models.PredictionResult {
	clientSpend := ClientSpend(req.CampaignType, req.Duration)
	mediaSpend := clientSpend * MediaShare

	allocations := req.Allocations
	if len(allocations) == 0 {
		allocations = EvenSplit(req.Countries)
	}

	result := models.PredictionResult{
		Summary: models.PredictionSummary{
			ClientSpend:    clientSpend,
			MediaSpend:     mediaSpend,
			DurationMonths: req.Duration,
			CampaignType:   req.CampaignType,
		},
		Breakdown: make([]models.CountryPrediction, 0, len(req.Countries)),
	}

	for _, country := range req.Countries {
		rates := b.Lookup(req.CampaignType, country)
		alloc := allocations[country]
		budget := mediaSpend * alloc / 100

		impressions := per(budget, rates.CPM) * 1000
		reach := per(impressions, rates.Frequency)

		var clicks, leads float64
		switch req.CampaignType {
		case models.CampaignTypeBrand:
			clicks = per(budget, rates.CPC)
		case models.CampaignTypeLeadGen:
			leads = per(budget, rates.CPL)
			clicks = per(budget, rates.CPC)
		}

		row := models.CountryPrediction{
			Country:     country,
			Allocation:  round2(alloc),
			Budget:      round2(budget),
			Impressions: int64(impressions),
			Reach:       int64(reach),
			LinkClicks:  int64(clicks),
			Leads:       int64(leads),
			CPM:         round2(rates.CPM),
			CPC:         round2(rates.CPC),
			CPL:         round2(rates.CPL),
			Frequency:   round2(rates.Frequency),
		}
		result.Breakdown = append(result.Breakdown, row)

		result.Totals.Impressions += row.Impressions
		result.Totals.Reach += row.Reach
		result.Totals.LinkClicks += row.LinkClicks
		result.Totals.Leads += row.Leads
	}

	return result
}

// per divides, treating a non-positive rate as "no delivery".
func per(amount, rate float64) float64 {
	if rate <= 0 {
		return 0
	}
	return amount / rate
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
