// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package campaigns

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/keystone-adops/models"
)

// Performance flag labels
const (
	FlagHighCPM        = "High CPM"
	FlagLowImpressions = "Low impressions"
	FlagNoImpressions  = "No impressions"
)

// Thresholds in account currency (GBP). The education sector average CPM is
// around 8.19, so anything above 12 is called out.
const (
	HighCPMThreshold       = 12.0
	LowImpressionsCeiling  = 1000
	LowImpressionsMinSpend = 100.0
	NoImpressionsMinSpend  = 500.0
)

// Filter selects which campaign types a listing shows.
type Filter string

const (
	FilterAll     Filter = "all"
	FilterBrand   Filter = models.CampaignTypeBrand
	FilterLeadGen Filter = models.CampaignTypeLeadGen
	FilterEvent   Filter = models.CampaignTypeEvent
)

// ParseFilter accepts the dashboard's toggle values. Empty means all.
func ParseFilter(s string) (Filter, error) {
	switch Filter(s) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterBrand, FilterLeadGen, FilterEvent:
		return Filter(s), nil
	default:
		return "", fmt.Errorf("unknown campaign filter %q (want all, Brand, LeadGen or Event)", s)
	}
}

// CPM is cost per thousand impressions, 0 when nothing was served.
func CPM(spend float64, impressions int64) float64 {
	if impressions <= 0 {
		return 0
	}
	return spend / float64(impressions) * 1000
}

// Evaluate returns the performance flags for a campaign. Each check is
// independent, so a campaign can carry more than one flag.
func Evaluate(c models.Campaign) []string {
	flags := []string{}
	if CPM(c.TotalSpend, c.TotalImpressions) > HighCPMThreshold {
		flags = append(flags, FlagHighCPM)
	}
	if c.TotalImpressions < LowImpressionsCeiling && c.TotalSpend > LowImpressionsMinSpend {
		flags = append(flags, FlagLowImpressions)
	}
	if c.TotalSpend > NoImpressionsMinSpend && c.TotalImpressions == 0 {
		flags = append(flags, FlagNoImpressions)
	}
	return flags
}

// Decorate fills the derived CPM and Flags fields in place.
func Decorate(list []models.Campaign) {
	for i := range list {
		list[i].CPM = round2(CPM(list[i].TotalSpend, list[i].TotalImpressions))
		list[i].Flags = Evaluate(list[i])
	}
}

// Apply keeps only campaigns matching the filter.
func Apply(list []models.Campaign, f Filter) []models.Campaign {
	if f == FilterAll || f == "" {
		return list
	}
	out := make([]models.Campaign, 0, len(list))
	for _, c := range list {
		if c.CampaignType == string(f) {
			out = append(out, c)
		}
	}
	return out
}

// Group splits campaigns into the two dashboard tabs. Event campaigns sit
// with Brand; rows with an unknown type are dropped.
func Group(list []models.Campaign, updated time.Time) models.CampaignList {
	out := models.CampaignList{
		Brand:       []models.Campaign{},
		LeadGen:     []models.Campaign{},
		LastUpdated: updated.Format(time.RFC3339),
	}
	for _, c := range list {
		switch c.CampaignType {
		case models.CampaignTypeBrand, models.CampaignTypeEvent:
			out.Brand = append(out.Brand, c)
		case models.CampaignTypeLeadGen:
			out.LeadGen = append(out.LeadGen, c)
		}
	}
	sortByName(out.Brand)
	sortByName(out.LeadGen)
	return out
}

// Summarize computes the header cards shown above the campaign table.
func Summarize(list []models.Campaign) models.CampaignSummary {
	var s models.CampaignSummary
	for _, c := range list {
		s.Total++
		if c.EffectiveStatus == models.EffectiveStatusActive {
			s.Active++
		}
		if len(Evaluate(c)) > 0 {
			s.Flagged++
		}
		s.TotalSpend += c.TotalSpend
		s.TotalImpressions += c.TotalImpressions
	}
	s.TotalSpend = round2(s.TotalSpend)
	s.AverageCPM = round2(CPM(s.TotalSpend, s.TotalImpressions))
	s.TotalSpendDisplay = "£" + humanize.CommafWithDigits(s.TotalSpend, 2)
	s.TotalImpressionsDisplay = humanize.Comma(s.TotalImpressions)
	return s
}

func sortByName(list []models.Campaign) {
	sort.SliceStable(list, func(i, j int) bool { return list[i].Name < list[j].Name })
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
