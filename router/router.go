// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"strings"

	"github.com/danielhkuo/keystone-adops/cliparse"
	"github.com/danielhkuo/keystone-adops/handlers"
	"github.com/danielhkuo/keystone-adops/metrics"
	"github.com/danielhkuo/keystone-adops/middleware"
	"github.com/danielhkuo/keystone-adops/predict"
	"github.com/danielhkuo/keystone-adops/store"
	"github.com/danielhkuo/keystone-adops/syncer"
)

// Deps are the long-lived services the routes are built over.
type Deps struct {
	Store      *store.Store
	Syncer     *syncer.Service
	Config     cliparse.Config
	Benchmarks predict.Benchmarks
	Events     handlers.EventsFeed
}

// handle registers h for method and path with request logging. Paths ending
// in "/" are also served without the slash.
func handle(mux *http.ServeMux, method, path string, h http.HandlerFunc) {
	h = middleware.WithLogging(h)
	if strings.HasSuffix(path, "/") {
		mux.HandleFunc(method+" "+path+"{$}", h)
		path = strings.TrimSuffix(path, "/")
	}
	mux.HandleFunc(method+" "+path, h)
}

func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()
	cfg := d.Config

	// Writes need a session when REQUIRE_AUTH is on; /auth/me always does.
	guard := middleware.RequireAuth(cfg.JWTSecret, cfg.RequireAuth)
	session := middleware.RequireAuth(cfg.JWTSecret, true)

	// Initialize handlers
	systemHandler := handlers.NewSystemHandler(d.Store, d.Syncer.Snapshots())
	userHandler := handlers.NewUserHandler(d.Store, cfg)
	campaignHandler := handlers.NewCampaignHandler(d.Syncer, d.Benchmarks)
	crmHandler := handlers.NewCRMHandler(d.Store, d.Syncer, cfg.HubSpotAccountID)
	cmsHandler := handlers.NewCMSHandler(d.Store, d.Events)
	contentHandler := handlers.NewContentHandler(d.Store, d.Syncer)
	analyticsHandler := handlers.NewAnalyticsHandler(d.Store)

	// System
	mux.HandleFunc("GET /{$}", middleware.WithLogging(systemHandler.Root))
	handle(mux, "GET", "/health", systemHandler.Health)
	mux.Handle("GET /metrics", metrics.Handler())
	handle(mux, "GET", "/api/v1/debug", systemHandler.Debug)

	// Auth and users
	handle(mux, "POST", "/api/v1/auth/login", userHandler.Login)
	handle(mux, "GET", "/api/v1/auth/me", session(userHandler.Me))
	handle(mux, "GET", "/api/v1/users/", userHandler.ListUsers)
	handle(mux, "POST", "/api/v1/users/", guard(userHandler.CreateUser))

	// Campaigns
	handle(mux, "GET", "/api/v1/campaigns/", campaignHandler.ListCampaigns)
	handle(mux, "POST", "/api/v1/campaigns/predict", guard(campaignHandler.Predict))
	handle(mux, "POST", "/api/v1/predict", guard(campaignHandler.Predict))

	// HubSpot CRM
	handle(mux, "GET", "/api/v1/hubspot/contacts", crmHandler.Contacts)
	handle(mux, "GET", "/api/v1/hubspot/deals", crmHandler.HubSpotDeals)
	handle(mux, "POST", "/api/v1/hubspot/sync-all", guard(crmHandler.SyncAll))
	handle(mux, "GET", "/api/v1/hubspot/sync-status", crmHandler.SyncStatus)
	handle(mux, "GET", "/deals", crmHandler.Deals)

	// CMS
	handle(mux, "GET", "/api/v1/orders/", cmsHandler.ListOrders)
	handle(mux, "POST", "/api/v1/orders/", guard(cmsHandler.CreateOrder))
	handle(mux, "GET", "/api/v1/events/", cmsHandler.ListEvents)
	handle(mux, "POST", "/api/v1/events/", guard(cmsHandler.CreateEvent))
	handle(mux, "GET", "/api/v1/events/stats/legacy", cmsHandler.LegacyStats)
	handle(mux, "GET", "/api/v1/events/{id}", cmsHandler.GetEvent)
	handle(mux, "GET", "/api/v1/locations/", cmsHandler.ListLocations)
	handle(mux, "POST", "/api/v1/locations/", guard(cmsHandler.CreateLocation))
	handle(mux, "GET", "/api/v1/locations/tree", cmsHandler.LocationTree)

	// Marketing and content
	handle(mux, "GET", "/api/v1/marketing/popups/", contentHandler.ListPopups)
	handle(mux, "POST", "/api/v1/marketing/popups/", guard(contentHandler.CreatePopup))
	handle(mux, "GET", "/api/v1/marketing/banners/", contentHandler.ListBanners)
	handle(mux, "POST", "/api/v1/marketing/banners/", guard(contentHandler.CreateBanner))
	handle(mux, "GET", "/api/v1/email/mailshots/", contentHandler.ListMailshots)
	handle(mux, "POST", "/api/v1/email/mailshots/", guard(contentHandler.CreateMailshot))
	handle(mux, "POST", "/api/v1/email/mailshots/{id}/send", guard(contentHandler.SendMailshot))
	handle(mux, "GET", "/api/v1/content/templates/", contentHandler.ListTemplates)
	handle(mux, "POST", "/api/v1/content/templates/", guard(contentHandler.CreateTemplate))

	// Analytics
	handle(mux, "GET", "/api/v1/analytics/benchmarks/sitewide", analyticsHandler.SitewideBenchmarks)
	handle(mux, "POST", "/api/v1/analytics/benchmarks/", guard(analyticsHandler.CreateBenchmarkStat))

	return middleware.CORS(cfg.CORSOrigins)(mux)
}
