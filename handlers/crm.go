// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/danielhkuo/keystone-adops/hubspot"
	"github.com/danielhkuo/keystone-adops/middleware"
	"github.com/danielhkuo/keystone-adops/models"
	"github.com/danielhkuo/keystone-adops/store"
)

// Page sizes for the CRM listings.
const (
	DefaultContactPageSize = 100
	DefaultDealPageSize    = 50
)

type CRMHandler struct {
	store    *store.Store
	crm      CRMService
	portalID string
}

func NewCRMHandler(st *store.Store, crm CRMService, portalID string) *CRMHandler {
	return &CRMHandler{store: st, crm: crm, portalID: portalID}
}

// Contacts handles GET /api/v1/hubspot/contacts
//
// Pages are numbered from 0. The mirrored table is returned straight away
// and a background sync is scheduled if the last one is old enough.
func (h *CRMHandler) Contacts(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 0)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	pageSize, err := queryInt(r, "pageSize", DefaultContactPageSize)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if pageSize == 0 {
		pageSize = DefaultContactPageSize
	}
	pageSize = min(pageSize, MaxLimit)
	offset, err := pageOffset(page, pageSize)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	filter := r.URL.Query().Get("filter")
	switch filter {
	case "", models.ContactFilterAll, models.ContactFilterWithEmail, models.ContactFilterWithPhone:
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "filter must be one of: all with_email with_phone")
		return
	}

	h.crm.ScheduleContacts(r.Context())

	result, err := h.store.ContactPage(r.Context(), filter, offset, pageSize)
	if err != nil {
		dbError(w, err, "contacts")
		return
	}
	for i := range result.Items {
		result.Items[i].HubSpotURL = hubspot.ContactURL(h.portalID, result.Items[i].ID)
	}

	middleware.JSONResponse(w, http.StatusOK, result)
}

// HubSpotDeals handles GET /api/v1/hubspot/deals. It is the /deals listing
// plus a scheduled deal sync.
func (h *CRMHandler) HubSpotDeals(w http.ResponseWriter, r *http.Request) {
	h.crm.ScheduleDeals(r.Context())
	h.Deals(w, r)
}

// Deals handles GET /deals
//
// Pages are numbered from 1. status is one of all, paid, pending, overdue.
func (h *CRMHandler) Deals(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	page = max(page, 1)
	limit, err := queryInt(r, "limit", DefaultDealPageSize)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if limit == 0 {
		limit = DefaultDealPageSize
	}
	limit = min(limit, MaxLimit)
	offset, err := pageOffset(page-1, limit)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	status := r.URL.Query().Get("status")
	switch status {
	case "", models.DealFilterAll, models.DealFilterPaid, models.DealFilterPending, models.DealFilterOverdue:
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "status must be one of: all paid pending overdue")
		return
	}

	deals, total, err := h.store.DealsPage(r.Context(), status, offset, limit)
	if err != nil {
		dbError(w, err, "deals")
		return
	}

	resp := models.DealsResponse{
		Results: make([]models.DealResult, 0, len(deals)),
		Pagination: models.Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: max((total+limit-1)/limit, 1),
		},
	}
	for _, d := range deals {
		resp.Results = append(resp.Results, dealResult(d))
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// dealResult renders a deal in HubSpot's object shape, amounts as strings.
func dealResult(d models.Deal) models.DealResult {
	return models.DealResult{
		ID: d.ID,
		Properties: models.DealProperties{
			DealName:   d.DealName,
			Amount:     strconv.FormatFloat(d.Amount, 'f', -1, 64),
			DealStage:  d.DealStage,
			CreateDate: isoTime(d.CreateDate),
			CloseDate:  isoTime(d.CloseDate),
			Pipeline:   d.Pipeline,
		},
	}
}

func isoTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

// SyncAll handles POST /api/v1/hubspot/sync-all
func (h *CRMHandler) SyncAll(w http.ResponseWriter, r *http.Request) {
	h.crm.SyncAllInBackground()
	middleware.JSONResponse(w, http.StatusAccepted, models.SyncStartedResponse{
		Message: "Full HubSpot sync started in background",
		Status:  "syncing",
		Items:   []string{store.SyncDeals, store.SyncContacts},
	})
}

// SyncStatus handles GET /api/v1/hubspot/sync-status
func (h *CRMHandler) SyncStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.crm.Status(r.Context())
	if err != nil {
		dbError(w, err, "sync status")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, status)
}
