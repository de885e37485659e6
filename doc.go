// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Keystone Ad Ops API server.

Keystone Ad Ops backs the marketing dashboard: Meta campaign performance with
flags for overspending campaigns, a spend predictor, a local mirror of HubSpot
contacts and deals, and the small CMS the marketing team edits (orders,
events, locations, popups, banners, mailshots, page templates).

# Starting the Server

With no subcommand the HTTP API runs:

	JWT_SECRET=dev go run .

Or with flags:

	go run . serve -p 8000 -t postgres -d "postgres://..."

# Commands

  - serve: run the HTTP API (default)
  - migrate: create missing tables and exit
  - sync campaigns|contacts|deals|all: run a sync in the foreground
  - seed-user --email --password: create a dashboard user

# Configuration

Every flag has an environment fallback, and a .env file is loaded first
(--env-file). Explicit flags win over the environment.

Required settings:

  - JWT_SECRET (--jwt-secret): session token signing secret (serve only)
  - DATABASE_URL (-d): required for postgres; sqlite defaults to file:keystone.db

Optional settings:

  - PORT (-p): server port (default: 8000)
  - META_ACCESS_TOKEN, AD_ACCOUNT_ID: Meta Graph API access
  - HUBSPOT_ACCESS_TOKEN, HUBSPOT_ACCOUNT_ID: HubSpot access
  - EVENTS_FEED_URL: legacy events stats feed
  - SNAPSHOT_BACKEND (file, redis, none), SNAPSHOT_FILE, REDIS_URL
  - BENCHMARKS_FILE: prediction benchmarks YAML
  - LOG_LEVEL, LOG_FILE, CORS_ORIGINS, REQUIRE_AUTH

# Architecture

  - handlers: HTTP request handlers
  - router: route definitions using Go 1.22+ routing
  - middleware: CORS, logging, auth guard, JSON helpers
  - syncer: background campaign refreshes, CRM syncs and mailshot sends
  - store: SQL persistence over sqlx
  - meta, hubspot, legacyevents: upstream clients
  - campaigns, predict: campaign naming, flags and spend predictions
  - cache: campaign snapshot backup (file or redis)
  - models: request, response and domain types
  - auth, cliparse, db, logging, metrics: supporting packages

See package documentation for each component.
*/
package main
