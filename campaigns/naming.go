// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package campaigns

import (
	"regexp"
	"strings"
	"time"

	"github.com/danielhkuo/keystone-adops/models"
)

// namePrefixes are stripped from raw Meta campaign names, first match wins,
// so longer prefixes must come before the shorter ones they contain.
var namePrefixes = []string{
	"FAU - FAM - Brand Paid Social - ",
	"FAU - FAP - Brand Paid Social - ",
	"FAU - FAM - Paid Social Brand - ",
	"FAU - FAP - Paid Social Brand - ",
	"FAU - FAM - Paid Social Lead Gen - ",
	"FAU - FAP - Paid Social Lead Gen - ",
	"FAU - FAM - Paid Social - ",
	"FAU - FAP - Paid Social - ",
	"FAU - FAM - PG LIVE - ",
	"FAU - FAP - PG LIVE - ",
	"FAU - FAM - ",
	"FAU - FAP - ",
	"FAM - Brand Paid Social - ",
	"FAP - Brand Paid Social - ",
	"FAM - Paid Social Brand - ",
	"FAP - Paid Social Brand - ",
	"FAM - Paid Social - ",
	"FAP - Paid Social - ",
	"FAM - PG LIVE - ",
	"FAP - PG LIVE - ",
	"FAM - ",
	"FAP - ",
	"Brand Paid Social - FAM - ",
	"Brand Paid Social - FAP - ",
	"Brand Social - FAP - ",
	"Brand Social - FAM - ",
	"Paid Social Lead Gen - FAM - ",
	"Paid Social Lead Gen - FAP - ",
	"Paid Social Brand - FAM - ",
	"Paid Social Brand - FAP - ",
	"Paid Social - FAM - ",
	"Paid Social - FAP - ",
	"Paid Social Brand - ",
	"Paid Social - ",
	"PG LIVE - FAM - ",
	"PG LIVE - FAP - ",
	"PG LIVE - ",
	"PG LIVE",
	"LeadGen - FAM - ",
	"LeadGen - FAP - ",
	"LeadGen - ",
	"Lead Gen - FAM - ",
	"Lead Gen - FAP - ",
	"Lead Gen - ",
	"Brand Paid Social - ",
	"Brand - ",
}

var (
	looksLikeDate = regexp.MustCompile(`(?i)(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec|january|february|march|april|june|july|august|september|october|november|december).*\d{2,4}|\d{2,4}`)
	monthYear     = regexp.MustCompile(`(?i)(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)(?:/(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec))?\s*(\d{2,4})`)

	brandPaidSocial = regexp.MustCompile(`(?i)brand\s+paid\s+social`)
	paidSocial      = regexp.MustCompile(`(?i)paid\s+social`)
	brandWord       = regexp.MustCompile(`(?i)brand`)

	leadingSep  = regexp.MustCompile(`^\s*[-|]\s*`)
	trailingSep = regexp.MustCompile(`\s*[-|]\s*$`)
	doubleSep   = regexp.MustCompile(`\s*[-|]\s*[-|]\s*`)
)

// Classify derives the campaign type from the raw (uncleaned) Meta name.
func Classify(rawName string) string {
	lower := strings.ToLower(rawName)
	switch {
	case strings.Contains(lower, "pg live"), strings.Contains(lower, "pglive"):
		return models.CampaignTypeEvent
	case strings.Contains(lower, "lead"):
		return models.CampaignTypeLeadGen
	default:
		return models.CampaignTypeBrand
	}
}

// CleanName removes the naming-convention prefix from a raw campaign name.
func CleanName(rawName string) string {
	cleaned := rawName
	for _, prefix := range namePrefixes {
		if strings.HasPrefix(cleaned, prefix) {
			cleaned = cleaned[len(prefix):]
			break
		}
	}
	if strings.HasPrefix(cleaned, "PG LIVE") {
		cleaned = strings.TrimSpace(cleaned[len("PG LIVE"):])
	}
	return cleaned
}

// StripDate drops a trailing " - <date>" segment and generic channel words,
// then tidies any separators left dangling.
func StripDate(name string) string {
	clean := name
	parts := strings.Split(name, " - ")
	if len(parts) > 1 && looksLikeDate.MatchString(strings.TrimSpace(parts[len(parts)-1])) {
		clean = strings.TrimSpace(strings.Join(parts[:len(parts)-1], " - "))
	}

	clean = brandPaidSocial.ReplaceAllString(clean, "")
	clean = paidSocial.ReplaceAllString(clean, "")
	clean = brandWord.ReplaceAllString(clean, "")

	clean = leadingSep.ReplaceAllString(clean, "")
	clean = trailingSep.ReplaceAllString(clean, "")
	clean = doubleSep.ReplaceAllString(clean, " - ")

	return strings.TrimSpace(clean)
}

// DisplayName is the cleaned name shown in the campaign table.
func DisplayName(rawName string) string {
	return StripDate(CleanName(rawName))
}

// ExtractDate returns "Mon YY" or "Mon/Mon YY" from the last " - " segment of
// a raw name, or "" when that segment is not a date.
func ExtractDate(rawName string) string {
	if !strings.Contains(rawName, " - ") {
		return ""
	}
	parts := strings.Split(rawName, " - ")
	candidate := strings.TrimSpace(parts[len(parts)-1])
	if !looksLikeDate.MatchString(candidate) {
		return ""
	}

	m := monthYear.FindStringSubmatch(candidate)
	if m == nil {
		return ""
	}
	year := m[3]
	if len(year) == 4 {
		year = year[2:]
	}
	if m[2] != "" {
		return capitalize(m[1]) + "/" + capitalize(m[2]) + " " + year
	}
	return capitalize(m[1]) + " " + year
}

// DetectBrand works out which site a campaign runs for. Event campaigns always
// resolve to a single site; other types fall back to the umbrella brand.
func DetectBrand(rawName, campaignType string) string {
	upper := strings.ToUpper(rawName)
	event := campaignType == models.CampaignTypeEvent

	if !event && (strings.Contains(upper, "FAM/FAP") || strings.Contains(upper, "FAP/FAM")) {
		return models.BrandFAU
	}

	hasFAM := hasBrandToken(upper, "FAM")
	hasFAP := hasBrandToken(upper, "FAP")

	switch {
	case !event && hasFAM && hasFAP:
		return models.BrandFAU
	case hasFAM:
		return models.BrandFAM
	case hasFAP:
		return models.BrandFAP
	default:
		return models.BrandFAU
	}
}

func hasBrandToken(upper, token string) bool {
	return strings.Contains(upper, " "+token+" ") ||
		strings.HasPrefix(upper, token+" ") ||
		strings.HasSuffix(upper, " "+token) ||
		strings.Contains(upper, token+" -") ||
		strings.Contains(upper, "- "+token)
}

// FormatStopTime turns a Meta timestamp ("2025-01-15T23:59:59+0000") into
// "Jan 15". Unparseable input is returned unchanged.
func FormatStopTime(raw string) string {
	if raw == "" {
		return ""
	}
	for _, layout := range []string{"2006-01-02T15:04:05-0700", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("Jan 02")
		}
	}
	return raw
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
