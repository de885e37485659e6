// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sqlx.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Tables lists every table in creation order.
var Tables = []string{
	"campaigns",
	"contacts",
	"deals",
	"sync_state",
	"users",
	"orders",
	"events",
	"geo_locations",
	"marketing_popups",
	"splash_banners",
	"mailshots",
	"page_templates",
	"benchmark_stats",
}

// The DDL sticks to types and defaults that PostgreSQL and SQLite both accept.
const schema = `
-- Meta campaigns (lifetime totals, refreshed from the Graph API)
CREATE TABLE IF NOT EXISTS campaigns (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    objective TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT '',
    effective_status TEXT NOT NULL DEFAULT '',
    daily_budget DOUBLE PRECISION NOT NULL DEFAULT 0,
    stop_time TEXT NOT NULL DEFAULT '',
    targeted_countries TEXT NOT NULL DEFAULT '[]',
    countries TEXT NOT NULL DEFAULT '[]',
    total_spend DOUBLE PRECISION NOT NULL DEFAULT 0,
    total_impressions BIGINT NOT NULL DEFAULT 0,
    country_count INTEGER NOT NULL DEFAULT 0,
    campaign_type TEXT NOT NULL DEFAULT 'Brand',
    brand TEXT NOT NULL DEFAULT '',
    platform TEXT NOT NULL DEFAULT 'Meta',
    campaign_date TEXT NOT NULL DEFAULT '',
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_campaigns_type ON campaigns(campaign_type);
CREATE INDEX IF NOT EXISTS idx_campaigns_updated_at ON campaigns(updated_at);

-- HubSpot mirror
CREATE TABLE IF NOT EXISTS contacts (
    id TEXT PRIMARY KEY,
    first_name TEXT NOT NULL DEFAULT '',
    last_name TEXT NOT NULL DEFAULT '',
    email TEXT NOT NULL DEFAULT '',
    phone TEXT NOT NULL DEFAULT '',
    company TEXT NOT NULL DEFAULT '',
    job_title TEXT NOT NULL DEFAULT '',
    synced_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS deals (
    id TEXT PRIMARY KEY,
    dealname TEXT NOT NULL DEFAULT '',
    amount DOUBLE PRECISION NOT NULL DEFAULT 0,
    dealstage TEXT NOT NULL DEFAULT '',
    createdate TIMESTAMP,
    closedate TIMESTAMP,
    pipeline TEXT NOT NULL DEFAULT '',
    synced_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_deals_stage ON deals(dealstage);
CREATE INDEX IF NOT EXISTS idx_deals_createdate ON deals(createdate);

CREATE TABLE IF NOT EXISTS sync_state (
    kind TEXT PRIMARY KEY,
    last_synced_at TIMESTAMP NOT NULL,
    records INTEGER NOT NULL DEFAULT 0
);

-- CMS
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    email TEXT NOT NULL UNIQUE,
    hashed_password TEXT NOT NULL,
    first_name TEXT NOT NULL DEFAULT '',
    last_name TEXT NOT NULL DEFAULT '',
    job_title TEXT NOT NULL DEFAULT '',
    role_id INTEGER NOT NULL DEFAULT 0,
    department_id INTEGER NOT NULL DEFAULT 0,
    status BOOLEAN NOT NULL DEFAULT TRUE,
    last_login TIMESTAMP,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS orders (
    id TEXT PRIMARY KEY,
    purchaser_id INTEGER NOT NULL,
    purchaser_type_id INTEGER NOT NULL,
    order_total DOUBLE PRECISION NOT NULL DEFAULT 0,
    ordered_at TIMESTAMP NOT NULL,
    status_id INTEGER NOT NULL CHECK (status_id IN (1, 2))
);

CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status_id);

CREATE TABLE IF NOT EXISTS events (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    start_date TIMESTAMP NOT NULL,
    end_date TIMESTAMP NOT NULL,
    location_building TEXT NOT NULL DEFAULT '',
    city TEXT NOT NULL DEFAULT '',
    address TEXT NOT NULL DEFAULT '',
    type_id INTEGER NOT NULL,
    status_id INTEGER NOT NULL DEFAULT 0,
    standard_price DOUBLE PRECISION,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS geo_locations (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    parent_id TEXT REFERENCES geo_locations(id) ON DELETE SET NULL,
    friendly_name TEXT NOT NULL DEFAULT '',
    location_type_id INTEGER NOT NULL,
    location_code TEXT NOT NULL DEFAULT '',
    nationality TEXT NOT NULL DEFAULT '',
    latitude DOUBLE PRECISION,
    longitude DOUBLE PRECISION,
    archived BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS idx_geo_locations_parent ON geo_locations(parent_id);

CREATE TABLE IF NOT EXISTS marketing_popups (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    content TEXT NOT NULL DEFAULT '',
    image_url TEXT NOT NULL DEFAULT '',
    target_url TEXT NOT NULL DEFAULT '',
    start_date TIMESTAMP,
    end_date TIMESTAMP,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    target_domains TEXT NOT NULL DEFAULT '',
    target_countries TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS splash_banners (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    image_url TEXT NOT NULL,
    target_url TEXT NOT NULL,
    weight INTEGER NOT NULL DEFAULT 0,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS mailshots (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    subject TEXT NOT NULL,
    content TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'Draft' CHECK (status IN ('Draft', 'Sending', 'Sent', 'Failed')),
    send_date TIMESTAMP,
    created_at TIMESTAMP NOT NULL,
    total_sent INTEGER NOT NULL DEFAULT 0,
    total_opened INTEGER NOT NULL DEFAULT 0,
    total_clicked INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS page_templates (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL DEFAULT '',
    content TEXT NOT NULL,
    mode INTEGER NOT NULL DEFAULT 0,
    domains INTEGER NOT NULL DEFAULT 0,
    archived BOOLEAN NOT NULL DEFAULT FALSE,
    created_by TEXT NOT NULL DEFAULT '',
    created_on TIMESTAMP NOT NULL,
    modified_on TIMESTAMP NOT NULL
);

-- Legacy analytics
CREATE TABLE IF NOT EXISTS benchmark_stats (
    id TEXT PRIMARY KEY,
    dept_id INTEGER NOT NULL,
    month TIMESTAMP NOT NULL,
    collection_id INTEGER NOT NULL,
    stat_total BIGINT NOT NULL DEFAULT 0,
    prog_total BIGINT NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_benchmark_stats_collection ON benchmark_stats(collection_id, month);
`
