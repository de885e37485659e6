// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package syncer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/keystone-adops/hubspot"
	"github.com/danielhkuo/keystone-adops/models"
	"github.com/danielhkuo/keystone-adops/store"
)

// ScheduleContacts starts a background contact sync if neither the last
// success nor the last attempt falls within the CRM interval. It reports
// whether a sync was started.
func (s *Service) ScheduleContacts(ctx context.Context) bool {
	return s.schedule(ctx, store.SyncContacts, s.syncContacts)
}

// ScheduleDeals is ScheduleContacts for deals.
func (s *Service) ScheduleDeals(ctx context.Context) bool {
	return s.schedule(ctx, store.SyncDeals, s.syncDeals)
}

// SyncAllInBackground starts contact and deal syncs regardless of when they
// last ran. Kinds already running are left alone.
func (s *Service) SyncAllInBackground() {
	s.trigger(store.SyncDeals, s.syncDeals)
	s.trigger(store.SyncContacts, s.syncContacts)
}

// SyncContacts runs a contact sync and waits for it.
func (s *Service) SyncContacts(ctx context.Context) (int, error) {
	return s.once(ctx, store.SyncContacts, s.syncContacts)
}

// SyncDeals runs a deal sync and waits for it.
func (s *Service) SyncDeals(ctx context.Context) (int, error) {
	return s.once(ctx, store.SyncDeals, s.syncDeals)
}

func (s *Service) schedule(ctx context.Context, kind string, fn func(context.Context) (int, error)) bool {
	if s.crm == nil || !s.crm.Configured() {
		return false
	}
	if s.Running(kind) || s.attemptedWithin(kind, s.opts.CRMInterval) {
		return false
	}
	last, ok, err := s.store.LastSync(ctx, kind)
	if err != nil {
		slog.Warn("could not read last sync time", "kind", kind, "error", err)
		return false
	}
	if ok && s.opts.Now().Sub(last) < s.opts.CRMInterval {
		return false
	}
	s.trigger(kind, fn)
	return true
}

func (s *Service) syncContacts(ctx context.Context) (int, error) {
	if s.crm == nil || !s.crm.Configured() {
		return 0, hubspot.ErrMissingToken
	}

	now := s.opts.Now().UTC()
	total := 0
	err := s.crm.ListContacts(ctx, func(batch []models.Contact) error {
		if err := s.store.UpsertContacts(ctx, batch, now); err != nil {
			return err
		}
		total += len(batch)
		return nil
	})
	if err != nil {
		return total, fmt.Errorf("sync contacts: %w", err)
	}

	if err := s.store.RecordSync(ctx, store.SyncContacts, now, total); err != nil {
		return total, err
	}
	slog.Info("hubspot contact sync complete", "contacts", total)
	return total, nil
}

func (s *Service) syncDeals(ctx context.Context) (int, error) {
	if s.crm == nil || !s.crm.Configured() {
		return 0, hubspot.ErrMissingToken
	}

	deals, err := s.crm.ListDeals(ctx)
	if err != nil {
		return 0, fmt.Errorf("sync deals: %w", err)
	}
	if err := s.store.ReplaceDeals(ctx, deals); err != nil {
		return 0, err
	}

	now := s.opts.Now().UTC()
	if err := s.store.RecordSync(ctx, store.SyncDeals, now, len(deals)); err != nil {
		return len(deals), err
	}
	slog.Info("hubspot deal sync complete", "deals", len(deals))
	return len(deals), nil
}

// Status summarises the mirrored CRM data.
func (s *Service) Status(ctx context.Context) (models.SyncStatus, error) {
	var st models.SyncStatus
	var err error

	if st.Contacts, err = s.store.CountContacts(ctx); err != nil {
		return models.SyncStatus{}, err
	}
	if st.Deals, err = s.store.CountDeals(ctx); err != nil {
		return models.SyncStatus{}, err
	}
	st.TotalRecords = st.Contacts + st.Deals

	if at, ok, err := s.store.LastSync(ctx, store.SyncContacts); err != nil {
		return models.SyncStatus{}, err
	} else if ok {
		st.ContactsSync = humanize.Time(at)
	}
	if at, ok, err := s.store.LastSync(ctx, store.SyncDeals); err != nil {
		return models.SyncStatus{}, err
	} else if ok {
		st.DealsSync = humanize.Time(at)
	}

	st.Running = s.Running(store.SyncContacts) || s.Running(store.SyncDeals)
	return st, nil
}
