// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/danielhkuo/keystone-adops/middleware"
	"github.com/danielhkuo/keystone-adops/models"
	"github.com/danielhkuo/keystone-adops/store"
)

// Page size limits for skip/limit list endpoints.
const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// CampaignService serves the grouped campaign listing.
type CampaignService interface {
	Campaigns(ctx context.Context) (models.CampaignList, error)
}

// CRMService schedules and reports HubSpot mirror syncs.
type CRMService interface {
	ScheduleContacts(ctx context.Context) bool
	ScheduleDeals(ctx context.Context) bool
	SyncAllInBackground()
	Status(ctx context.Context) (models.SyncStatus, error)
}

// MailshotSender starts a mailshot send.
type MailshotSender interface {
	SendMailshot(ctx context.Context, id string) error
}

// EventsFeed is the legacy event signup feed.
type EventsFeed interface {
	Fetch(ctx context.Context) ([]models.LegacyEvent, error)
}

// MaxOffset bounds the row offset derived from a page number.
const MaxOffset = math.MaxInt32

// pageOffset returns page*size, rejecting pages whose offset would pass
// MaxOffset. size must be positive.
func pageOffset(page, size int) (int, error) {
	if last := MaxOffset / size; page > last {
		return 0, fmt.Errorf("page must be at most %d", last)
	}
	return page * size, nil
}

// queryInt reads a non-negative integer query parameter, def when absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return n, nil
}

// queryBool reads a boolean query parameter, false when absent.
func queryBool(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be true or false", name)
	}
	return v, nil
}

// skipLimit reads the skip/limit pair used by list endpoints. A zero limit
// means the default; larger than MaxLimit is capped.
func skipLimit(r *http.Request) (skip, limit int, err error) {
	if skip, err = queryInt(r, "skip", 0); err != nil {
		return 0, 0, err
	}
	if limit, err = queryInt(r, "limit", DefaultLimit); err != nil {
		return 0, 0, err
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	return skip, min(limit, MaxLimit), nil
}

// decode parses and validates a JSON body, writing a 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := middleware.DecodeAndValidate(r, v); err != nil {
		if errors.Is(err, middleware.ErrInvalidJSON) {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
			return false
		}
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// dbError logs err and writes a 500, or a 404 naming what for ErrNotFound.
func dbError(w http.ResponseWriter, err error, what string) {
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, what+" not found")
		return
	}
	slog.Error("database error", "resource", what, "error", err)
	middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
}
