// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package meta is a read-only client for the Meta Graph (Marketing) API.

It covers what the campaign dashboard needs: the ad account name, the
campaign list and lifetime insights per campaign. Insights are requested one
campaign at a time with date_preset=maximum, at most MaxConcurrentInsights in
flight. Every request carries the access token as a query parameter; a client
built without one returns ErrMissingToken without touching the network.
*/
package meta
