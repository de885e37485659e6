// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package legacyevents

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/danielhkuo/keystone-adops/metrics"
	"github.com/danielhkuo/keystone-adops/models"
)

const userAgent = "keystone-adops/1.0"

var ErrNotConfigured = errors.New("legacy events feed URL not configured")

var aspDate = regexp.MustCompile(`Date\((\d+)`)

// Feed reads event signup stats from the legacy head office handler.
type Feed struct {
	url  string
	http *http.Client
}

func NewFeed(url string, client *http.Client) *Feed {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Feed{url: url, http: client}
}

func (f *Feed) Configured() bool {
	return f.url != ""
}

type item struct {
	TagID          flexString `json:"TagID"`
	ProductGroup   string     `json:"ProductGroup"`
	ProductName    string     `json:"ProductName"`
	TargetAudience string     `json:"TargetAudience"`
	TrafficSource  string     `json:"TrafficSource"`
	Medium         string     `json:"Medium"`
	SignupCount    int        `json:"SignupCount"`
	LiveDate       string     `json:"LiveDate"`
}

// Fetch downloads the feed and maps each row onto a LegacyEvent.
func (f *Feed) Fetch(ctx context.Context) (events []models.LegacyEvent, err error) {
	if f.url == "" {
		return nil, ErrNotConfigured
	}
	defer func() { metrics.ObserveUpstream("legacy_events", err) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("events feed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("events feed returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var items []item
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to decode events feed: %w", err)
	}

	events = make([]models.LegacyEvent, 0, len(items))
	for _, it := range items {
		events = append(events, models.LegacyEvent{
			ID:       string(it.TagID),
			Product:  it.ProductGroup,
			Venue:    it.ProductName,
			Audience: it.TargetAudience,
			Brand:    it.TrafficSource,
			Platform: CleanPlatform(it.Medium),
			Signups:  it.SignupCount,
			Date:     ParseASPDate(it.LiveDate),
		})
	}
	return events, nil
}

// ParseASPDate converts an ASP.NET JSON date ("/Date(1735689600000)/") to
// "01 Jan 2025" in UTC. Anything else is returned unchanged.
func ParseASPDate(s string) string {
	m := aspDate.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	ms, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return s
	}
	return time.UnixMilli(ms).UTC().Format("02 Jan 2006")
}

// CleanPlatform normalises the feed's free-text Medium into a platform name.
func CleanPlatform(medium string) string {
	if medium == "" {
		return "Unknown"
	}
	lower := strings.ToLower(medium)
	switch {
	case strings.Contains(lower, "meta"), strings.Contains(lower, "facebook"), strings.Contains(lower, "instagram"):
		return "Meta"
	case strings.Contains(lower, "tiktok"):
		return "TikTok"
	case strings.Contains(lower, "youtube"):
		return "YouTube"
	case strings.Contains(lower, "linkedin"):
		return "LinkedIn"
	default:
		return medium
	}
}

// flexString accepts a JSON string or number.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = flexString(n.String())
	return nil
}
