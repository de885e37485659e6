// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package predict estimates paid social delivery for a proposed campaign.
//
// Client spend is 3000 (Brand) or 3900 (LeadGen) per month and a quarter of
// it goes to media. Each selected country receives its allocation of the
// media budget, which is converted into impressions, reach, clicks and leads
// using the benchmark rates for that campaign type and country.
package predict
