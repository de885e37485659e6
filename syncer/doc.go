// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package syncer runs the background work behind the dashboard.

A Service owns three kinds of job:

  - Campaign refreshes pull campaigns and lifetime insights from Meta,
    upsert them and write a snapshot. Campaigns serves stored rows at once
    and schedules a refresh when the oldest row is stale.
  - CRM syncs mirror HubSpot contacts and deals into the local tables,
    throttled to one unforced run per interval.
  - Mailshot sends move a mailshot through Sending to Sent or Failed.

Jobs of the same kind are collapsed with singleflight, so a burst of
requests starts one refresh. Jobs run on the service's own context;
Shutdown drains them and Close cancels them.
*/
package syncer
