// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/keystone-adops/cache"
	"github.com/danielhkuo/keystone-adops/middleware"
	"github.com/danielhkuo/keystone-adops/models"
	"github.com/danielhkuo/keystone-adops/store"
)

// SystemHandler serves the root, health and debug endpoints.
type SystemHandler struct {
	store     *store.Store
	snapshots cache.Snapshots
}

func NewSystemHandler(st *store.Store, snaps cache.Snapshots) *SystemHandler {
	if snaps == nil {
		snaps = cache.None{}
	}
	return &SystemHandler{store: st, snapshots: snaps}
}

// Root handles GET /
func (h *SystemHandler) Root(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{
		Message: "Welcome to Keystone Ad Ops API",
	})
}

// Health handles GET /health. The database must answer a ping.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.DB().PingContext(ctx); err != nil {
		slog.Error("health check failed", "error", err)
		middleware.JSONResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}
	middleware.JSONResponse(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// Debug handles GET /api/v1/debug
func (h *SystemHandler) Debug(w http.ResponseWriter, r *http.Request) {
	count, err := h.store.CountCampaigns(r.Context())
	if err != nil {
		dbError(w, err, "campaigns")
		return
	}

	_, err = h.snapshots.Load(r.Context())
	if err != nil && !errors.Is(err, cache.ErrNoSnapshot) {
		slog.Warn("snapshot unreadable", "backend", h.snapshots.Kind(), "error", err)
	}

	middleware.JSONResponse(w, http.StatusOK, models.DebugInfo{
		DatabaseType:   h.store.DriverName(),
		CampaignCount:  count,
		SnapshotKind:   h.snapshots.Kind(),
		SnapshotExists: err == nil,
	})
}
