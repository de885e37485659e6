// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Keystone Ad Ops API.

# Route Registration

NewRouter builds a ServeMux over the store and background services and wraps
it in CORS:

	handler := router.NewRouter(router.Deps{
		Store:      st,
		Syncer:     svc,
		Config:     cfg,
		Benchmarks: benchmarks,
		Events:     feed,
	})

Collection routes are registered with and without their trailing slash, so
/api/v1/orders and /api/v1/orders/ reach the same handler. Every route except
/metrics goes through middleware.WithLogging.

# Endpoints

System:

	GET /                 - Welcome message
	GET /health           - Database ping
	GET /metrics          - Prometheus exposition
	GET /api/v1/debug     - Database type, campaign count, snapshot state

Auth and users:

	POST /api/v1/auth/login - Email and password for a session token
	GET  /api/v1/auth/me    - Session user (always needs a token)
	GET  /api/v1/users/     - List users
	POST /api/v1/users/     - Create user

Campaigns and CRM:

	GET  /api/v1/campaigns/            - Grouped Meta campaigns
	POST /api/v1/campaigns/predict     - Budget prediction (also /api/v1/predict)
	GET  /api/v1/hubspot/contacts      - Mirrored contacts
	GET  /api/v1/hubspot/deals         - Mirrored deals
	POST /api/v1/hubspot/sync-all      - Force a CRM sync
	GET  /api/v1/hubspot/sync-status   - Mirror counts
	GET  /deals                        - Paginated deals for the orders screen

CMS, content and analytics:

	GET/POST /api/v1/orders/, /api/v1/events/, /api/v1/locations/
	GET      /api/v1/events/{id}, /api/v1/events/stats/legacy, /api/v1/locations/tree
	GET/POST /api/v1/marketing/popups/, /api/v1/marketing/banners/
	GET/POST /api/v1/email/mailshots/, POST /api/v1/email/mailshots/{id}/send
	GET/POST /api/v1/content/templates/
	GET      /api/v1/analytics/benchmarks/sitewide, POST /api/v1/analytics/benchmarks/

# Authentication

With Config.RequireAuth set, every POST except login needs a bearer token.
Reads stay open.
*/
package router
