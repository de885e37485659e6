// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/keystone-adops/campaigns"
	"github.com/danielhkuo/keystone-adops/middleware"
	"github.com/danielhkuo/keystone-adops/models"
	"github.com/danielhkuo/keystone-adops/predict"
)

type CampaignHandler struct {
	campaigns  CampaignService
	benchmarks predict.Benchmarks
}

func NewCampaignHandler(svc CampaignService, benchmarks predict.Benchmarks) *CampaignHandler {
	return &CampaignHandler{campaigns: svc, benchmarks: benchmarks}
}

// ListCampaigns handles GET /api/v1/campaigns/
//
// Every campaign carries its CPM and performance flags. ?type narrows both
// tabs to one campaign type; the summary describes what is returned.
func (h *CampaignHandler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	filter, err := campaigns.ParseFilter(r.URL.Query().Get("type"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	list, err := h.campaigns.Campaigns(r.Context())
	if err != nil {
		slog.Error("failed to load campaigns", "error", err)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Failed to load campaigns")
		return
	}

	list.Brand = campaigns.Apply(list.Brand, filter)
	list.LeadGen = campaigns.Apply(list.LeadGen, filter)
	campaigns.Decorate(list.Brand)
	campaigns.Decorate(list.LeadGen)

	summary := campaigns.Summarize(list.All())
	list.Summary = &summary

	middleware.JSONResponse(w, http.StatusOK, list)
}

// Predict handles POST /api/v1/campaigns/predict and POST /api/v1/predict
func (h *CampaignHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var req models.PredictionRequest
	if !decode(w, r, &req) {
		return
	}

	for i, c := range req.Countries {
		req.Countries[i] = strings.ToUpper(c)
	}
	if len(req.Allocations) > 0 {
		upper := make(map[string]float64, len(req.Allocations))
		for c, pct := range req.Allocations {
			upper[strings.ToUpper(c)] += pct
		}
		req.Allocations = upper
	}

	result := predict.Calculate(req, h.benchmarks)
	slog.Info("prediction calculated",
		"campaign_type", req.CampaignType,
		"countries", len(req.Countries),
		"months", req.Duration,
	)
	middleware.JSONResponse(w, http.StatusOK, result)
}
