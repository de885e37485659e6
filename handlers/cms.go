// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/keystone-adops/auth"
	"github.com/danielhkuo/keystone-adops/legacyevents"
	"github.com/danielhkuo/keystone-adops/middleware"
	"github.com/danielhkuo/keystone-adops/models"
	"github.com/danielhkuo/keystone-adops/store"
)

// CMSHandler serves orders, managed events and geo locations.
type CMSHandler struct {
	store *store.Store
	feed  EventsFeed
}

func NewCMSHandler(st *store.Store, feed EventsFeed) *CMSHandler {
	return &CMSHandler{store: st, feed: feed}
}

// ListOrders handles GET /api/v1/orders/
func (h *CMSHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := skipLimit(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var statusID int
	switch r.URL.Query().Get("status") {
	case "", "all":
	case "committed":
		statusID = models.OrderStatusCommitted
	case "cancelled":
		statusID = models.OrderStatusCancelled
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "status must be one of: committed cancelled")
		return
	}

	orders, err := h.store.ListOrders(r.Context(), statusID, skip, limit)
	if err != nil {
		dbError(w, err, "orders")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, orders)
}

// CreateOrder handles POST /api/v1/orders/
func (h *CMSHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req models.CreateOrderRequest
	if !decode(w, r, &req) {
		return
	}

	order := models.Order{
		ID:              auth.NewID(),
		PurchaserID:     req.PurchaserID,
		PurchaserTypeID: req.PurchaserTypeID,
		OrderTotal:      req.OrderTotal,
		Timestamp:       time.Now().UTC(),
		StatusID:        req.StatusID,
		StatusLabel:     models.OrderStatusLabel(req.StatusID),
	}
	if err := h.store.CreateOrder(r.Context(), order); err != nil {
		dbError(w, err, "order")
		return
	}

	slog.Info("order created", "order_id", order.ID, "status", order.StatusLabel)
	middleware.JSONResponse(w, http.StatusCreated, order)
}

// ListEvents handles GET /api/v1/events/
func (h *CMSHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := skipLimit(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	events, err := h.store.ListEvents(r.Context(), skip, limit)
	if err != nil {
		dbError(w, err, "events")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, events)
}

// GetEvent handles GET /api/v1/events/{id}
func (h *CMSHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.store.GetEvent(r.Context(), r.PathValue("id"))
	if err != nil {
		dbError(w, err, "Event")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, event)
}

// CreateEvent handles POST /api/v1/events/
func (h *CMSHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req models.CreateEventRequest
	if !decode(w, r, &req) {
		return
	}

	now := time.Now().UTC()
	event := models.Event{
		ID:               auth.NewID(),
		Name:             req.Name,
		StartDate:        req.StartDate.UTC(),
		EndDate:          req.EndDate.UTC(),
		LocationBuilding: req.LocationBuilding,
		City:             req.City,
		Address:          req.Address,
		TypeID:           req.TypeID,
		StatusID:         req.StatusID,
		StandardPrice:    req.StandardPrice,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := h.store.CreateEvent(r.Context(), event); err != nil {
		dbError(w, err, "event")
		return
	}

	slog.Info("event created", "event_id", event.ID, "name", event.Name)
	middleware.JSONResponse(w, http.StatusCreated, event)
}

// LegacyStats handles GET /api/v1/events/stats/legacy
func (h *CMSHandler) LegacyStats(w http.ResponseWriter, r *http.Request) {
	if h.feed == nil {
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Events feed not configured")
		return
	}

	events, err := h.feed.Fetch(r.Context())
	if errors.Is(err, legacyevents.ErrNotConfigured) {
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Events feed not configured")
		return
	}
	if err != nil {
		slog.Error("failed to fetch legacy events", "error", err)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Failed to fetch event stats")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, events)
}

// ListLocations handles GET /api/v1/locations/
//
// Without ?parent_id only top-level locations are returned.
func (h *CMSHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	var parentID *string
	if p := r.URL.Query().Get("parent_id"); p != "" {
		parentID = &p
	}

	locs, err := h.store.ListLocations(r.Context(), parentID)
	if err != nil {
		dbError(w, err, "locations")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, locs)
}

// LocationTree handles GET /api/v1/locations/tree
func (h *CMSHandler) LocationTree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.store.LocationTree(r.Context())
	if err != nil {
		dbError(w, err, "locations")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, tree)
}

// CreateLocation handles POST /api/v1/locations/
func (h *CMSHandler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var req models.CreateLocationRequest
	if !decode(w, r, &req) {
		return
	}
	if req.ParentID != nil && *req.ParentID == "" {
		req.ParentID = nil
	}

	loc := models.GeoLocation{
		ID:             auth.NewID(),
		Name:           req.Name,
		ParentID:       req.ParentID,
		FriendlyName:   req.FriendlyName,
		LocationTypeID: req.LocationTypeID,
		LocationCode:   req.LocationCode,
		Nationality:    req.Nationality,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		Archived:       req.Archived,
	}
	err := h.store.CreateLocation(r.Context(), loc)
	if errors.Is(err, store.ErrParentNotFound) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Parent location not found")
		return
	}
	if err != nil {
		dbError(w, err, "location")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, loc)
}
