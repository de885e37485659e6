// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package cache keeps a backup of the last full campaign listing, in a JSON
// file or a Redis key, for cold starts before the database has rows.
package cache
