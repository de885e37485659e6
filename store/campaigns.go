// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/keystone-adops/models"
)

// campaignRow is the stored shape of a campaign; list fields are JSON text.
type campaignRow struct {
	ID                string    `db:"id"`
	Name              string    `db:"name"`
	Objective         string    `db:"objective"`
	Status            string    `db:"status"`
	EffectiveStatus   string    `db:"effective_status"`
	DailyBudget       float64   `db:"daily_budget"`
	StopTime          string    `db:"stop_time"`
	TargetedCountries string    `db:"targeted_countries"`
	Countries         string    `db:"countries"`
	TotalSpend        float64   `db:"total_spend"`
	TotalImpressions  int64     `db:"total_impressions"`
	CountryCount      int       `db:"country_count"`
	CampaignType      string    `db:"campaign_type"`
	Brand             string    `db:"brand"`
	Platform          string    `db:"platform"`
	CampaignDate      string    `db:"campaign_date"`
	UpdatedAt         time.Time `db:"updated_at"`
}

func toCampaignRow(c models.Campaign) (campaignRow, error) {
	targeted := c.TargetedCountries
	if targeted == nil {
		targeted = []string{}
	}
	countries := c.Countries
	if countries == nil {
		countries = []models.CountryInsight{}
	}
	tj, err := json.Marshal(targeted)
	if err != nil {
		return campaignRow{}, err
	}
	cj, err := json.Marshal(countries)
	if err != nil {
		return campaignRow{}, err
	}
	return campaignRow{
		ID:                c.ID,
		Name:              c.Name,
		Objective:         c.Objective,
		Status:            c.Status,
		EffectiveStatus:   c.EffectiveStatus,
		DailyBudget:       c.DailyBudget,
		StopTime:          c.StopTime,
		TargetedCountries: string(tj),
		Countries:         string(cj),
		TotalSpend:        c.TotalSpend,
		TotalImpressions:  c.TotalImpressions,
		CountryCount:      c.CountryCount,
		CampaignType:      c.CampaignType,
		Brand:             c.Brand,
		Platform:          c.Platform,
		CampaignDate:      c.CampaignDate,
		UpdatedAt:         c.UpdatedAt.UTC(),
	}, nil
}

func (r campaignRow) model() models.Campaign {
	c := models.Campaign{
		ID:                r.ID,
		Name:              r.Name,
		Objective:         r.Objective,
		Status:            r.Status,
		EffectiveStatus:   r.EffectiveStatus,
		DailyBudget:       r.DailyBudget,
		StopTime:          r.StopTime,
		TargetedCountries: []string{},
		Countries:         []models.CountryInsight{},
		TotalSpend:        r.TotalSpend,
		TotalImpressions:  r.TotalImpressions,
		CountryCount:      r.CountryCount,
		CampaignType:      r.CampaignType,
		Brand:             r.Brand,
		Platform:          r.Platform,
		CampaignDate:      r.CampaignDate,
		UpdatedAt:         r.UpdatedAt,
	}
	// Malformed list columns read as empty rather than failing the listing.
	_ = json.Unmarshal([]byte(r.TargetedCountries), &c.TargetedCountries)
	_ = json.Unmarshal([]byte(r.Countries), &c.Countries)
	return c
}

const upsertCampaign = `
	INSERT INTO campaigns (
		id, name, objective, status, effective_status, daily_budget, stop_time,
		targeted_countries, countries, total_spend, total_impressions, country_count,
		campaign_type, brand, platform, campaign_date, updated_at
	) VALUES (
		:id, :name, :objective, :status, :effective_status, :daily_budget, :stop_time,
		:targeted_countries, :countries, :total_spend, :total_impressions, :country_count,
		:campaign_type, :brand, :platform, :campaign_date, :updated_at
	)
	ON CONFLICT (id) DO UPDATE SET
		name = excluded.name,
		objective = excluded.objective,
		status = excluded.status,
		effective_status = excluded.effective_status,
		daily_budget = excluded.daily_budget,
		stop_time = excluded.stop_time,
		targeted_countries = excluded.targeted_countries,
		countries = excluded.countries,
		total_spend = excluded.total_spend,
		total_impressions = excluded.total_impressions,
		country_count = excluded.country_count,
		campaign_type = excluded.campaign_type,
		brand = excluded.brand,
		platform = excluded.platform,
		campaign_date = excluded.campaign_date,
		updated_at = excluded.updated_at
`

// UpsertCampaign inserts or replaces one campaign. Each call commits on its
// own so a failed row does not discard the rest of a refresh.
func (s *Store) UpsertCampaign(ctx context.Context, c models.Campaign) error {
	row, err := toCampaignRow(c)
	if err != nil {
		return fmt.Errorf("encode campaign %s: %w", c.ID, err)
	}
	if _, err := s.db.NamedExecContext(ctx, upsertCampaign, row); err != nil {
		return fmt.Errorf("upsert campaign %s: %w", c.ID, err)
	}
	return nil
}

// ListCampaigns returns every stored campaign ordered by name.
func (s *Store) ListCampaigns(ctx context.Context) ([]models.Campaign, error) {
	var rows []campaignRow
	if err := s.selectAll(ctx, &rows, `SELECT * FROM campaigns ORDER BY name, id`); err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	out := make([]models.Campaign, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.model())
	}
	return out, nil
}

// OldestCampaignUpdate returns the least recent updated_at. It decides
// staleness until a refresh has been recorded. ok is false when there are no
// campaigns.
func (s *Store) OldestCampaignUpdate(ctx context.Context) (oldest time.Time, ok bool, err error) {
	err = s.get(ctx, &oldest, `SELECT updated_at FROM campaigns ORDER BY updated_at ASC LIMIT 1`)
	if errors.Is(err, ErrNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("oldest campaign update: %w", err)
	}
	return oldest, true, nil
}

// NewestCampaignUpdate returns the most recent updated_at.
func (s *Store) NewestCampaignUpdate(ctx context.Context) (newest time.Time, ok bool, err error) {
	err = s.get(ctx, &newest, `SELECT updated_at FROM campaigns ORDER BY updated_at DESC LIMIT 1`)
	if errors.Is(err, ErrNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("newest campaign update: %w", err)
	}
	return newest, true, nil
}

func (s *Store) CountCampaigns(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM campaigns`)
}

// DeleteCampaignsExcept removes campaigns whose id is not in keep and returns
// how many went. An empty keep list deletes nothing.
func (s *Store) DeleteCampaignsExcept(ctx context.Context, keep []string) (int64, error) {
	if len(keep) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`DELETE FROM campaigns WHERE id NOT IN (?)`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune campaigns: %w", err)
	}
	res, err := s.exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("prune campaigns: %w", err)
	}
	return res.RowsAffected()
}
