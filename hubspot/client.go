// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package hubspot

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
	"time"

	"github.com/danielhkuo/keystone-adops/metrics"
	"github.com/danielhkuo/keystone-adops/models"
)

const (
	DefaultBaseURL   = "https://api.hubapi.com"
	DefaultPageDelay = 500 * time.Millisecond

	pageLimit = 100
)

var (
	ContactProperties = []string{"firstname", "lastname", "email", "phone", "company", "jobtitle"}
	DealProperties    = []string{"dealname", "amount", "dealstage", "createdate", "closedate", "pipeline"}
)

var ErrMissingToken = errors.New("hubspot access token not configured")

type Config struct {
	BaseURL     string
	AccessToken string
	// PageDelay is the pause before each page request. Zero uses
	// DefaultPageDelay; a negative value disables the pause.
	PageDelay  time.Duration
	HTTPClient *http.Client
}

// Client pages through HubSpot CRM objects with a private app token.
type Client struct {
	baseURL   string
	token     string
	pageDelay time.Duration
	http      *http.Client
}

func NewClient(cfg Config) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		token:     cfg.AccessToken,
		pageDelay: cfg.PageDelay,
		http:      cfg.HTTPClient,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.pageDelay == 0 {
		c.pageDelay = DefaultPageDelay
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 30 * time.Second}
	}
	return c
}

func (c *Client) Configured() bool {
	return c.token != ""
}

// Object is a CRM record as returned by the v3 objects API.
type Object struct {
	ID         string             `json:"id"`
	Properties map[string]*string `json:"properties"`
}

func (o Object) prop(name string) string {
	if v, ok := o.Properties[name]; ok && v != nil {
		return *v
	}
	return ""
}

type page struct {
	Results []Object `json:"results"`
	Paging  *struct {
		Next *struct {
			After string `json:"after"`
		} `json:"next"`
	} `json:"paging"`
}

// EachPage walks every page of a CRM object type, calling fn once per page.
func (c *Client) EachPage(ctx context.Context, objectType string, properties []string, fn func([]Object) error) error {
	if c.token == "" {
		return ErrMissingToken
	}

	after := ""
	for {
		if err := c.pause(ctx); err != nil {
			return err
		}

		p, err := c.fetchPage(ctx, objectType, properties, after)
		if err != nil {
			return err
		}
		if err := fn(p.Results); err != nil {
			return err
		}

		if p.Paging == nil || p.Paging.Next == nil || p.Paging.Next.After == "" {
			return nil
		}
		after = p.Paging.Next.After
	}
}

// ListContacts streams contacts page by page. Phone numbers are reduced to digits.
func (c *Client) ListContacts(ctx context.Context, fn func([]models.Contact) error) error {
	return c.EachPage(ctx, "contacts", ContactProperties, func(objs []Object) error {
		batch := make([]models.Contact, 0, len(objs))
		for _, o := range objs {
			batch = append(batch, models.Contact{
				ID:        o.ID,
				FirstName: o.prop("firstname"),
				LastName:  o.prop("lastname"),
				Email:     o.prop("email"),
				Phone:     CleanPhone(o.prop("phone")),
				Company:   o.prop("company"),
				JobTitle:  o.prop("jobtitle"),
			})
		}
		return fn(batch)
	})
}

// ListDeals returns every deal in the portal.
func (c *Client) ListDeals(ctx context.Context) ([]models.Deal, error) {
	var deals []models.Deal
	now := time.Now().UTC()
	err := c.EachPage(ctx, "deals", DealProperties, func(objs []Object) error {
		for _, o := range objs {
			deals = append(deals, models.Deal{
				ID:         o.ID,
				DealName:   o.prop("dealname"),
				Amount:     parseAmount(o.prop("amount")),
				DealStage:  o.prop("dealstage"),
				CreateDate: parseTime(o.prop("createdate")),
				CloseDate:  parseTime(o.prop("closedate")),
				Pipeline:   o.prop("pipeline"),
				SyncedAt:   now,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deals, nil
}

func (c *Client) fetchPage(ctx context.Context, objectType string, properties []string, after string) (p page, err error) {
	defer func() { metrics.ObserveUpstream("hubspot", err) }()

	params := url.Values{
		"limit":      {strconv.Itoa(pageLimit)},
		"properties": {strings.Join(properties, ",")},
		"archived":   {"false"},
	}
	if after != "" {
		params.Set("after", after)
	}
	endpoint := fmt.Sprintf("%s/crm/v3/objects/%s?%s", c.baseURL, objectType, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return page{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return page{}, fmt.Errorf("hubspot %s request failed: %w", objectType, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return page{}, fmt.Errorf("hubspot %s returned status %d: %s", objectType, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return page{}, fmt.Errorf("failed to decode hubspot %s page: %w", objectType, err)
	}
	slog.Debug("hubspot page fetched", "object", objectType, "count", len(p.Results), "after", after)
	return p, nil
}

func (c *Client) pause(ctx context.Context) error {
	if c.pageDelay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(c.pageDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// CleanPhone strips everything but digits.
func CleanPhone(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ContactURL links a contact to its HubSpot record page.
func ContactURL(portalID, contactID string) string {
	return fmt.Sprintf("https://app.hubspot.com/contacts/%s/contact/%s", portalID, contactID)
}

func parseAmount(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}

// parseTime accepts HubSpot's ISO timestamps and millisecond epochs.
func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		t = t.UTC()
		return &t
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		t := time.UnixMilli(ms).UTC()
		return &t
	}
	return nil
}
