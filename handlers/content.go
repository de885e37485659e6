// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/keystone-adops/auth"
	"github.com/danielhkuo/keystone-adops/middleware"
	"github.com/danielhkuo/keystone-adops/models"
	"github.com/danielhkuo/keystone-adops/store"
	"github.com/danielhkuo/keystone-adops/syncer"
)

// ContentHandler serves marketing popups and banners, mailshots and page
// templates.
type ContentHandler struct {
	store  *store.Store
	mailer MailshotSender
}

func NewContentHandler(st *store.Store, mailer MailshotSender) *ContentHandler {
	return &ContentHandler{store: st, mailer: mailer}
}

// ListPopups handles GET /api/v1/marketing/popups/
func (h *ContentHandler) ListPopups(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := skipLimit(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	activeOnly, err := queryBool(r, "active_only")
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	popups, err := h.store.ListPopups(r.Context(), activeOnly, skip, limit)
	if err != nil {
		dbError(w, err, "popups")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, popups)
}

// CreatePopup handles POST /api/v1/marketing/popups/
func (h *ContentHandler) CreatePopup(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePopupRequest
	if !decode(w, r, &req) {
		return
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "end_date must not be before start_date")
		return
	}

	popup := models.MarketingPopup{
		ID:              auth.NewID(),
		Title:           req.Title,
		Content:         req.Content,
		ImageURL:        req.ImageURL,
		TargetURL:       req.TargetURL,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		IsActive:        req.IsActive == nil || *req.IsActive,
		TargetDomains:   req.TargetDomains,
		TargetCountries: req.TargetCountries,
	}
	if err := h.store.CreatePopup(r.Context(), popup); err != nil {
		dbError(w, err, "popup")
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, popup)
}

// ListBanners handles GET /api/v1/marketing/banners/
func (h *ContentHandler) ListBanners(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := skipLimit(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	activeOnly, err := queryBool(r, "active_only")
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	banners, err := h.store.ListBanners(r.Context(), activeOnly, skip, limit)
	if err != nil {
		dbError(w, err, "banners")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, banners)
}

// CreateBanner handles POST /api/v1/marketing/banners/
func (h *ContentHandler) CreateBanner(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBannerRequest
	if !decode(w, r, &req) {
		return
	}

	banner := models.SplashBanner{
		ID:        auth.NewID(),
		Name:      req.Name,
		ImageURL:  req.ImageURL,
		TargetURL: req.TargetURL,
		Weight:    req.Weight,
		IsActive:  req.IsActive == nil || *req.IsActive,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.store.CreateBanner(r.Context(), banner); err != nil {
		dbError(w, err, "banner")
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, banner)
}

// ListMailshots handles GET /api/v1/email/mailshots/
func (h *ContentHandler) ListMailshots(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := skipLimit(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	shots, err := h.store.ListMailshots(r.Context(), skip, limit)
	if err != nil {
		dbError(w, err, "mailshots")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, shots)
}

// CreateMailshot handles POST /api/v1/email/mailshots/. New mailshots start
// as drafts.
func (h *ContentHandler) CreateMailshot(w http.ResponseWriter, r *http.Request) {
	var req models.CreateMailshotRequest
	if !decode(w, r, &req) {
		return
	}

	shot := models.Mailshot{
		ID:        auth.NewID(),
		Title:     req.Title,
		Subject:   req.Subject,
		Content:   req.Content,
		Status:    models.MailshotDraft,
		SendDate:  req.SendDate,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.store.CreateMailshot(r.Context(), shot); err != nil {
		dbError(w, err, "mailshot")
		return
	}

	slog.Info("mailshot created", "mailshot_id", shot.ID)
	middleware.JSONResponse(w, http.StatusCreated, shot)
}

// SendMailshot handles POST /api/v1/email/mailshots/{id}/send
func (h *ContentHandler) SendMailshot(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	err := h.mailer.SendMailshot(r.Context(), id)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrInvalidState):
		middleware.ErrorResponse(w, http.StatusConflict, "Mailshot is already sending or sent")
		return
	case errors.Is(err, syncer.ErrClosed):
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Server is shutting down")
		return
	default:
		dbError(w, err, "Mailshot")
		return
	}

	slog.Info("mailshot send started", "mailshot_id", id)
	middleware.JSONResponse(w, http.StatusAccepted, models.MessageResponse{
		Message: "Email sending started",
		Status:  models.MailshotSending,
	})
}

// ListTemplates handles GET /api/v1/content/templates/
func (h *ContentHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := skipLimit(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	includeArchived, err := queryBool(r, "include_archived")
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	templates, err := h.store.ListTemplates(r.Context(), includeArchived, skip, limit)
	if err != nil {
		dbError(w, err, "templates")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, templates)
}

// CreateTemplate handles POST /api/v1/content/templates/
func (h *ContentHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTemplateRequest
	if !decode(w, r, &req) {
		return
	}

	createdBy, _ := middleware.UserID(r.Context())
	now := time.Now().UTC()
	tmpl := models.PageTemplate{
		ID:         auth.NewID(),
		Title:      req.Title,
		Content:    req.Content,
		Mode:       req.Mode,
		Domains:    req.Domains,
		CreatedBy:  createdBy,
		CreatedOn:  now,
		ModifiedOn: now,
	}
	if err := h.store.CreateTemplate(r.Context(), tmpl); err != nil {
		dbError(w, err, "template")
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, tmpl)
}
