// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

Commands that share a cobra flag set bind and resolve separately:

	var cfg cliparse.Config
	cliparse.Bind(cmd.PersistentFlags(), &cfg)
	// after parsing
	cfg, err := cliparse.Resolve(cmd.Flags(), &cfg, false)

# Precedence

CLI flags win over environment variables, which win over built-in
defaults. A .env file (--env-file, default ".env") is loaded first and
never overrides variables already present in the environment.

# Environment Variables

	PORT                  → -p, --port (8000)
	DATABASE_URL          → -d, --database-url (file:keystone.db for sqlite)
	DATABASE_TYPE         → -t, --database-type (sqlite)
	JWT_SECRET            → --jwt-secret (required to serve)
	JWT_TTL               → --jwt-ttl (24h)
	REQUIRE_AUTH          → --require-auth (false)
	META_ACCESS_TOKEN     → --meta-token
	AD_ACCOUNT_ID         → --meta-account
	HUBSPOT_ACCESS_TOKEN  → --hubspot-token
	HUBSPOT_ACCOUNT_ID    → --hubspot-account
	EVENTS_FEED_URL       → --events-url
	CAMPAIGN_STALE_AFTER  → --campaign-stale-after (10m)
	CRM_SYNC_INTERVAL     → --crm-sync-interval (10m)
	SNAPSHOT_BACKEND      → --snapshot (file, redis or none)
	SNAPSHOT_FILE         → --snapshot-file
	REDIS_URL             → --redis-url
	BENCHMARKS_FILE       → --benchmarks
	LOG_LEVEL, LOG_FILE   → --log-level, --log-file
	CORS_ORIGINS          → --cors-origins (comma separated)

An empty Meta or HubSpot token disables that integration rather than
failing startup.
*/
package cliparse
