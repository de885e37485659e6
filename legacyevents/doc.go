// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package legacyevents reads PG LIVE event signup stats from the old head
// office JSON handler and reshapes them for the events screen.
package legacyevents
