// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Campaign type constants
const (
	CampaignTypeBrand   = "Brand"
	CampaignTypeLeadGen = "LeadGen"
	CampaignTypeEvent   = "Event"
)

// Brand constants
const (
	BrandFAM = "FAM"
	BrandFAP = "FAP"
	BrandFAU = "FAU"
)

const (
	EffectiveStatusActive = "ACTIVE"
	PlatformMeta          = "Meta"
)

type CountryInsight struct {
	Country     string  `json:"country"`
	Spend       float64 `json:"spend"`
	Impressions int64   `json:"impressions"`
	Reach       int64   `json:"reach"`
	CPM         float64 `json:"cpm"`
	Frequency   float64 `json:"frequency"`
	LinkClicks  int64   `json:"link_clicks"`
	CTR         float64 `json:"ctr"`
	CPC         float64 `json:"cpc"`
	Leads       int64   `json:"leads"`
	CPL         float64 `json:"cpl"`
	Conversions int64   `json:"conversions"`
	CVR         float64 `json:"cvr"`
	IsTargeted  bool    `json:"is_targeted"`
	Recent7dCPM float64 `json:"recent_7d_cpm"`
}

// Campaign is a Meta campaign with lifetime totals and derived display fields.
// CPM and Flags are computed when the campaign is served, never stored.
type Campaign struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	Objective         string           `json:"objective,omitempty"`
	Status            string           `json:"status"`
	EffectiveStatus   string           `json:"effective_status"`
	DailyBudget       float64          `json:"daily_budget"`
	StopTime          string           `json:"stop_time,omitempty"`
	TargetedCountries []string         `json:"targeted_countries"`
	Countries         []CountryInsight `json:"countries"`
	TotalSpend        float64          `json:"total_spend"`
	TotalImpressions  int64            `json:"total_impressions"`
	CountryCount      int              `json:"country_count"`
	CampaignType      string           `json:"campaign_type,omitempty"`
	Brand             string           `json:"brand,omitempty"`
	Platform          string           `json:"platform"`
	CampaignDate      string           `json:"campaign_date,omitempty"`
	CPM               float64          `json:"cpm"`
	Flags             []string         `json:"flags"`
	UpdatedAt         time.Time        `json:"-"`
}

// CampaignList groups campaigns the way the dashboard tabs show them:
// Brand holds Brand and Event campaigns, LeadGen holds lead generation.
type CampaignList struct {
	Brand       []Campaign       `json:"Brand"`
	LeadGen     []Campaign       `json:"LeadGen"`
	LastUpdated string           `json:"last_updated"`
	Summary     *CampaignSummary `json:"summary,omitempty"`
}

// All returns every campaign in the list, Brand tab first.
func (l CampaignList) All() []Campaign {
	out := make([]Campaign, 0, len(l.Brand)+len(l.LeadGen))
	out = append(out, l.Brand...)
	return append(out, l.LeadGen...)
}

type CampaignSummary struct {
	Total                   int     `json:"total"`
	Active                  int     `json:"active"`
	Flagged                 int     `json:"flagged"`
	TotalSpend              float64 `json:"total_spend"`
	TotalImpressions        int64   `json:"total_impressions"`
	AverageCPM              float64 `json:"average_cpm"`
	TotalSpendDisplay       string  `json:"total_spend_display"`
	TotalImpressionsDisplay string  `json:"total_impressions_display"`
}

// Prediction types

type PredictionRequest struct {
	CampaignType string             `json:"campaign_type" validate:"required,oneof=Brand LeadGen"`
	Countries    []string           `json:"countries" validate:"required,min=1,dive,len=2,alpha"`
	Allocations  map[string]float64 `json:"allocations" validate:"omitempty,dive,min=0,max=100"`
	Duration     int                `json:"duration" validate:"required,min=1,max=36"`
}

type PredictionSummary struct {
	ClientSpend    float64 `json:"client_spend"`
	MediaSpend     float64 `json:"media_spend"`
	DurationMonths int     `json:"duration_months"`
	CampaignType   string  `json:"campaign_type"`
}

type CountryPrediction struct {
	Country     string  `json:"country"`
	Allocation  float64 `json:"allocation"`
	Budget      float64 `json:"budget"`
	Impressions int64   `json:"impressions"`
	Reach       int64   `json:"reach"`
	LinkClicks  int64   `json:"link_clicks"`
	Leads       int64   `json:"leads"`
	CPM         float64 `json:"cpm"`
	CPC         float64 `json:"cpc"`
	CPL         float64 `json:"cpl"`
	Frequency   float64 `json:"frequency"`
}

type PredictionTotals struct {
	Impressions int64 `json:"impressions"`
	Reach       int64 `json:"reach"`
	LinkClicks  int64 `json:"link_clicks"`
	Leads       int64 `json:"leads"`
}

type PredictionResult struct {
	Summary   PredictionSummary   `json:"summary"`
	Breakdown []CountryPrediction `json:"breakdown"`
	Totals    PredictionTotals    `json:"totals"`
}
