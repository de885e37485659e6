// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/danielhkuo/keystone-adops/auth"
	"github.com/danielhkuo/keystone-adops/middleware"
	"github.com/danielhkuo/keystone-adops/models"
	"github.com/danielhkuo/keystone-adops/store"
)

type AnalyticsHandler struct {
	store *store.Store
}

func NewAnalyticsHandler(st *store.Store) *AnalyticsHandler {
	return &AnalyticsHandler{store: st}
}

// SitewideBenchmarks handles GET /api/v1/analytics/benchmarks/sitewide
func (h *AnalyticsHandler) SitewideBenchmarks(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("collection_id")
	if raw == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "collection_id is required")
		return
	}
	collectionID, err := strconv.Atoi(raw)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "collection_id must be an integer")
		return
	}

	aggs, err := h.store.SitewideBenchmarks(r.Context(), collectionID)
	if err != nil {
		dbError(w, err, "benchmarks")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, aggs)
}

// CreateBenchmarkStat handles POST /api/v1/analytics/benchmarks/
func (h *AnalyticsHandler) CreateBenchmarkStat(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBenchmarkStatRequest
	if !decode(w, r, &req) {
		return
	}

	stat := models.BenchmarkStat{
		ID:           auth.NewID(),
		DeptID:       req.DeptID,
		Month:        req.Month.UTC(),
		CollectionID: req.CollectionID,
		StatTotal:    int64(req.StatTotal),
		ProgTotal:    int64(req.ProgTotal),
	}
	if err := h.store.CreateBenchmarkStat(r.Context(), stat); err != nil {
		dbError(w, err, "benchmark stat")
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, stat)
}
