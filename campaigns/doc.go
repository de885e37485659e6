// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package campaigns turns raw Meta campaign names and totals into what the
campaign dashboard shows.

# Naming

Campaign names follow a loose "SITE - CHANNEL - Subject - Date" convention.
Classify reads the type (Brand, LeadGen or Event) from the raw name,
DisplayName strips the convention down to the subject, ExtractDate pulls the
trailing "Mon YY" and DetectBrand works out which site (FAM, FAP or the
umbrella FAU) the campaign belongs to.

# Performance

Evaluate runs three independent checks against lifetime spend and
impressions:

	High CPM         CPM > 12
	Low impressions  impressions < 1000 and spend > 100
	No impressions   impressions == 0 and spend > 500

Decorate fills CPM and Flags on a slice before it is served. Group splits a
slice into the Brand and LeadGen tabs (Event campaigns sit with Brand) and
Summarize builds the header totals.
*/
package campaigns
