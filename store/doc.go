// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the data access layer over the schema in package db.

Queries are written once with "?" placeholders and rebound for the active
driver, so the same Store runs on PostgreSQL in production and SQLite in
development and tests.

Lookups of a single row return ErrNotFound when nothing matches. Inserts
that hit a unique constraint return ErrDuplicate. Mailshot status changes
that do not apply to the current status return ErrInvalidState.
*/
package store
