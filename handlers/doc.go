// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Keystone Ad Ops API.

# Handler Types

Each handler is a struct over the store and whatever background services it
needs:

  - CampaignHandler: Meta campaign listing and budget predictions
  - CRMHandler: mirrored HubSpot contacts and deals, sync control
  - UserHandler: login, session user, user management
  - CMSHandler: orders, managed events, legacy event stats, locations
  - ContentHandler: popups, banners, mailshots, page templates
  - AnalyticsHandler: monthly benchmark stats
  - SystemHandler: root, health and debug

Handlers are created via constructor functions:

	crmHandler := handlers.NewCRMHandler(st, svc, cfg.HubSpotAccountID)

Background work goes through small interfaces (CampaignService, CRMService,
MailshotSender, EventsFeed) that *syncer.Service and *legacyevents.Feed
satisfy, so tests can pass fakes.

# Campaigns

	GET  /api/v1/campaigns/?type=all|Brand|LeadGen|Event → ListCampaigns
	POST /api/v1/campaigns/predict                       → Predict

Listings are served from the database; a stale or empty table schedules a
refresh from Meta. Upstream failures on a cold start return 502.

# CRM

	GET  /api/v1/hubspot/contacts    → Contacts (0-based page, pageSize)
	GET  /api/v1/hubspot/deals       → HubSpotDeals
	GET  /deals                      → Deals (1-based page, limit, status)
	POST /api/v1/hubspot/sync-all    → SyncAll (202)
	GET  /api/v1/hubspot/sync-status → SyncStatus

Reads never wait on HubSpot. They return the mirror and schedule a sync when
the last one is older than the configured interval.

# Mailshots

Mailshots move Draft → Sending → Sent, or Failed when delivery breaks. A
failed mailshot may be sent again; any other repeat send is a 409.

# Errors

All errors are JSON bodies of the form {"error": "..."}. Store lookups that
find nothing become 404s; other store failures are logged and become 500s.
*/
package handlers
