// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package hubspot reads contacts and deals from the HubSpot CRM v3 objects
// API, following the paging cursor 100 records at a time with a short pause
// between pages to stay under the portal's rate limit.
package hubspot
