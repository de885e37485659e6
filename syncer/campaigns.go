// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/danielhkuo/keystone-adops/cache"
	"github.com/danielhkuo/keystone-adops/campaigns"
	"github.com/danielhkuo/keystone-adops/meta"
	"github.com/danielhkuo/keystone-adops/models"
	"github.com/danielhkuo/keystone-adops/store"
)

// Campaigns returns the grouped campaign listing.
//
// Stored rows are served as they are, with a background refresh scheduled
// when the last recorded refresh (or, before any, the oldest row) is past the
// staleness window. A failed refresh is not retried within that window. With an empty table the
// snapshot is served instead, again refreshing in the background. With
// neither, the caller waits for a refresh (cold start); if Meta is not
// configured that yields an empty listing.
func (s *Service) Campaigns(ctx context.Context) (models.CampaignList, error) {
	list, err := s.store.ListCampaigns(ctx)
	if err != nil {
		return models.CampaignList{}, err
	}

	if len(list) > 0 {
		refreshed, err := s.campaignsRefreshedAt(ctx)
		if err != nil {
			return models.CampaignList{}, err
		}
		if s.opts.Now().Sub(refreshed) > s.opts.StaleAfter && !s.attemptedWithin(store.SyncCampaigns, s.opts.StaleAfter) {
			slog.Info("campaign data is stale, scheduling refresh", "refreshed", refreshed)
			s.RefreshCampaignsInBackground()
		}
		newest, _, err := s.store.NewestCampaignUpdate(ctx)
		if err != nil {
			return models.CampaignList{}, err
		}
		return campaigns.Group(list, newest), nil
	}

	snap, err := s.snapshots.Load(ctx)
	switch {
	case err == nil:
		slog.Info("campaign table empty, serving snapshot", "backend", s.snapshots.Kind())
		s.RefreshCampaignsInBackground()
		return snap, nil
	case !errors.Is(err, cache.ErrNoSnapshot):
		slog.Warn("campaign snapshot unreadable", "backend", s.snapshots.Kind(), "error", err)
	}

	slog.Info("no campaign data, refreshing before responding")
	if _, err := s.RefreshCampaigns(ctx); err != nil {
		if !errors.Is(err, meta.ErrMissingToken) {
			return models.CampaignList{}, err
		}
		slog.Warn("cold start without a Meta token, returning no campaigns")
	}

	list, err = s.store.ListCampaigns(ctx)
	if err != nil {
		return models.CampaignList{}, err
	}
	return campaigns.Group(list, s.opts.Now()), nil
}

// RefreshCampaigns pulls every campaign and its lifetime insight from Meta
// and upserts them. It returns the number of rows written.
func (s *Service) RefreshCampaigns(ctx context.Context) (int, error) {
	return s.once(ctx, store.SyncCampaigns, s.refreshCampaigns)
}

// RefreshCampaignsInBackground starts a refresh unless one is running.
func (s *Service) RefreshCampaignsInBackground() {
	s.trigger(store.SyncCampaigns, s.refreshCampaigns)
}

func (s *Service) refreshCampaigns(ctx context.Context) (int, error) {
	if s.meta == nil || !s.meta.Configured() {
		return 0, meta.ErrMissingToken
	}

	if name, err := s.meta.AccountName(ctx); err != nil {
		slog.Warn("could not read ad account name", "error", err)
	} else {
		slog.Info("refreshing campaigns", "account", name)
	}

	raw, err := s.meta.FetchCampaigns(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch campaigns: %w", err)
	}
	if len(raw) == 0 {
		// Stored rows are only pruned against a non-empty response.
		slog.Info("meta returned no campaigns")
		if err := s.store.RecordSync(ctx, store.SyncCampaigns, s.opts.Now().UTC(), 0); err != nil {
			slog.Warn("failed to record campaign sync", "error", err)
		}
		return 0, nil
	}

	ids := make([]string, 0, len(raw))
	for _, rc := range raw {
		ids = append(ids, rc.ID)
	}
	insights, err := s.meta.FetchInsights(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("fetch insights: %w", err)
	}

	now := s.opts.Now().UTC()
	built := make([]models.Campaign, 0, len(raw))
	saved := 0
	for _, rc := range raw {
		c := BuildCampaign(rc, insights[rc.ID], now)
		built = append(built, c)

		// Rows commit one at a time; a bad row is skipped, not fatal.
		if err := s.store.UpsertCampaign(ctx, c); err != nil {
			if ctx.Err() != nil {
				return saved, ctx.Err()
			}
			slog.Error("failed to save campaign", "campaign_id", c.ID, "error", err)
			continue
		}
		saved++
	}

	if n, err := s.store.DeleteCampaignsExcept(ctx, ids); err != nil {
		slog.Warn("failed to prune campaigns", "error", err)
	} else if n > 0 {
		slog.Info("pruned campaigns no longer returned by meta", "deleted", n)
	}

	if err := s.snapshots.Save(ctx, campaigns.Group(built, now)); err != nil {
		slog.Warn("failed to write campaign snapshot", "backend", s.snapshots.Kind(), "error", err)
	}
	if err := s.store.RecordSync(ctx, store.SyncCampaigns, now, saved); err != nil {
		slog.Warn("failed to record campaign sync", "error", err)
	}

	slog.Info("campaign refresh finished", "fetched", len(raw), "saved", saved)
	return saved, nil
}

// campaignsRefreshedAt is when campaign data was last known fresh: the last
// recorded refresh, or the oldest stored row if none was recorded.
func (s *Service) campaignsRefreshedAt(ctx context.Context) (time.Time, error) {
	at, ok, err := s.store.LastSync(ctx, store.SyncCampaigns)
	if err != nil {
		return time.Time{}, err
	}
	if ok {
		return at, nil
	}
	oldest, _, err := s.store.OldestCampaignUpdate(ctx)
	return oldest, err
}

// BuildCampaign turns a Meta campaign and its insight into the stored shape.
// Type, brand and date are derived from the raw name before it is cleaned.
func BuildCampaign(rc meta.Campaign, in meta.Insight, now time.Time) models.Campaign {
	ctype := campaigns.Classify(rc.Name)
	return models.Campaign{
		ID:                rc.ID,
		Name:              campaigns.DisplayName(rc.Name),
		Objective:         rc.Objective,
		Status:            rc.Status,
		EffectiveStatus:   rc.EffectiveStatus,
		DailyBudget:       rc.Budget(),
		StopTime:          campaigns.FormatStopTime(rc.StopTime),
		TargetedCountries: []string{},
		Countries:         []models.CountryInsight{},
		TotalSpend:        math.Round(in.Spend*100) / 100,
		TotalImpressions:  in.Impressions,
		CampaignType:      ctype,
		Brand:             campaigns.DetectBrand(rc.Name, ctype),
		Platform:          models.PlatformMeta,
		CampaignDate:      campaigns.ExtractDate(rc.Name),
		UpdatedAt:         now,
	}
}
