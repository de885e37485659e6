// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package meta

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/keystone-adops/metrics"
)

const (
	DefaultBaseURL = "https://graph.facebook.com"
	DefaultVersion = "v19.0"

	// MaxConcurrentInsights bounds parallel insight requests.
	MaxConcurrentInsights = 10

	campaignFields = "id,name,objective,status,effective_status,daily_budget,spend,stop_time"
	campaignLimit  = 500
)

var ErrMissingToken = errors.New("meta access token not configured")

// APIError is the error envelope the Graph API returns on failure.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	Type       string `json:"type"`
	Code       int    `json:"code"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("meta api %d: %s (%s, code %d)", e.StatusCode, e.Message, e.Type, e.Code)
}

type Config struct {
	BaseURL     string
	Version     string
	AccessToken string
	AccountID   string
	HTTPClient  *http.Client
}

// Client reads campaigns and lifetime insights for one ad account.
type Client struct {
	baseURL   string
	version   string
	token     string
	accountID string
	http      *http.Client
}

func NewClient(cfg Config) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		version:   cfg.Version,
		token:     cfg.AccessToken,
		accountID: cfg.AccountID,
		http:      cfg.HTTPClient,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.version == "" {
		c.version = DefaultVersion
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 10 * time.Second}
	}
	return c
}

// Configured reports whether the client has a token to call with.
func (c *Client) Configured() bool {
	return c.token != ""
}

// Campaign is one row of the ad account's campaign edge. Budget and spend
// arrive as strings.
type Campaign struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Objective       string `json:"objective"`
	Status          string `json:"status"`
	EffectiveStatus string `json:"effective_status"`
	DailyBudget     string `json:"daily_budget"`
	Spend           string `json:"spend"`
	StopTime        string `json:"stop_time"`
}

// Budget converts the daily budget from minor units into account currency.
func (c Campaign) Budget() float64 {
	if c.DailyBudget == "" {
		return 0
	}
	v, err := strconv.ParseFloat(c.DailyBudget, 64)
	if err != nil {
		return 0
	}
	return v / 100
}

// Insight holds lifetime delivery totals for a campaign.
type Insight struct {
	Spend       float64
	Impressions int64
}

type rawInsight struct {
	Spend       string `json:"spend"`
	Impressions string `json:"impressions"`
}

func (r rawInsight) parse() (Insight, error) {
	var in Insight
	var err error
	if r.Spend != "" {
		if in.Spend, err = strconv.ParseFloat(r.Spend, 64); err != nil {
			return Insight{}, fmt.Errorf("bad spend %q: %w", r.Spend, err)
		}
	}
	if r.Impressions != "" {
		if in.Impressions, err = strconv.ParseInt(r.Impressions, 10, 64); err != nil {
			return Insight{}, fmt.Errorf("bad impressions %q: %w", r.Impressions, err)
		}
	}
	return in, nil
}

// AccountName returns the ad account's display name.
func (c *Client) AccountName(ctx context.Context) (string, error) {
	var out struct {
		Name string `json:"name"`
	}
	if err := c.get(ctx, c.accountID, url.Values{"fields": {"name"}}, &out); err != nil {
		return "", err
	}
	return out.Name, nil
}

// FetchCampaigns lists every campaign on the account regardless of status.
func (c *Client) FetchCampaigns(ctx context.Context) ([]Campaign, error) {
	var out struct {
		Data []Campaign `json:"data"`
	}
	params := url.Values{
		"fields": {campaignFields},
		"limit":  {strconv.Itoa(campaignLimit)},
	}
	if err := c.get(ctx, c.accountID+"/campaigns", params, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// FetchInsight returns lifetime spend and impressions for one campaign.
// A campaign with no delivery has an empty data list and reads as zero.
func (c *Client) FetchInsight(ctx context.Context, campaignID string) (Insight, error) {
	var out struct {
		Data []rawInsight `json:"data"`
	}
	params := url.Values{
		"fields":      {"spend,impressions"},
		"date_preset": {"maximum"},
	}
	if err := c.get(ctx, campaignID+"/insights", params, &out); err != nil {
		return Insight{}, err
	}
	if len(out.Data) == 0 {
		return Insight{}, nil
	}
	return out.Data[0].parse()
}

// FetchInsights fetches insights for many campaigns in parallel. A failed
// lookup is logged and reported as zero delivery; only cancellation of ctx
// fails the batch.
func (c *Client) FetchInsights(ctx context.Context, campaignIDs []string) (map[string]Insight, error) {
	var mu sync.Mutex
	out := make(map[string]Insight, len(campaignIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxConcurrentInsights)

	start := time.Now()
	for _, id := range campaignIDs {
		g.Go(func() error {
			in, err := c.FetchInsight(gctx, id)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				slog.Warn("campaign insight fetch failed", "campaign_id", id, "error", err)
				in = Insight{}
			}
			mu.Lock()
			out[id] = in
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slog.Info("campaign insights fetched", "count", len(out), "duration_ms", time.Since(start).Milliseconds())
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, v any) (err error) {
	if c.token == "" {
		return ErrMissingToken
	}
	defer func() { metrics.ObserveUpstream("meta", err) }()

	if params == nil {
		params = url.Values{}
	}
	params.Set("access_token", c.token)
	endpoint := fmt.Sprintf("%s/%s/%s?%s", c.baseURL, c.version, strings.TrimLeft(path, "/"), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("meta request %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read meta response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var envelope struct {
			Error *APIError `json:"error"`
		}
		if json.Unmarshal(body, &envelope) == nil && envelope.Error != nil {
			envelope.Error.StatusCode = resp.StatusCode
			return envelope.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	slog.Debug("meta request", "path", path, "status", resp.StatusCode)
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode meta response: %w", err)
	}
	return nil
}
