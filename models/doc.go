// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON, validated with go-playground/validator tags:

  - LoginRequest, CreateUserRequest
  - PredictionRequest: campaign_type, countries, allocations, duration
  - CreateOrderRequest, CreateEventRequest, CreateLocationRequest
  - CreatePopupRequest, CreateBannerRequest, CreateMailshotRequest
  - CreateTemplateRequest, CreateBenchmarkStatRequest

# Response Types

  - CampaignList: Brand and LeadGen tabs, last_updated, summary
  - PredictionResult: summary, per-country breakdown, totals
  - ContactPage, DealsResponse, SyncStatus, SyncStartedResponse
  - LoginResponse, MessageResponse, DebugInfo
  - ErrorResponse: error, message

# Domain Types

Campaign, Contact, Deal, User, Order, Event, GeoLocation, MarketingPopup,
SplashBanner, Mailshot, PageTemplate and BenchmarkStat carry db tags for sqlx
and json tags for the API. Fields tagged db:"-" are derived when served.
*/
package models
