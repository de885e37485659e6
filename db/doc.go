// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Connecting

Open picks the driver from the configured type: lib/pq for "postgres",
modernc.org/sqlite for "sqlite" (the default, handy for local runs and
tests). Queries elsewhere use "?" placeholders and sqlx Rebind, so the same
SQL runs on both.

	conn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - campaigns: Meta campaigns with lifetime spend and impressions
  - contacts, deals: HubSpot mirror
  - sync_state: last successful sync per kind
  - users: dashboard accounts (bcrypt hashes)
  - orders, events, geo_locations: CMS records
  - marketing_popups, splash_banners, mailshots, page_templates: content
  - benchmark_stats: legacy sitewide benchmark counts

List columns on campaigns (countries, targeted_countries) hold JSON text.
geo_locations.parent_id points back into the same table to form the
location tree.
*/
package db
