// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/keystone-adops/models"
)

// Sync kinds recorded in sync_state.
const (
	SyncContacts  = "contacts"
	SyncDeals     = "deals"
	SyncCampaigns = "campaigns"
)

type contactRow struct {
	models.Contact
	SyncedAt time.Time `db:"synced_at"`
}

const upsertContact = `
	INSERT INTO contacts (id, first_name, last_name, email, phone, company, job_title, synced_at)
	VALUES (:id, :first_name, :last_name, :email, :phone, :company, :job_title, :synced_at)
	ON CONFLICT (id) DO UPDATE SET
		first_name = excluded.first_name,
		last_name = excluded.last_name,
		email = excluded.email,
		phone = excluded.phone,
		company = excluded.company,
		job_title = excluded.job_title,
		synced_at = excluded.synced_at
`

// UpsertContacts writes one page of contacts in a single transaction.
func (s *Store) UpsertContacts(ctx context.Context, contacts []models.Contact, syncedAt time.Time) error {
	if len(contacts) == 0 {
		return nil
	}
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		stmt, err := tx.PrepareNamedContext(ctx, upsertContact)
		if err != nil {
			return fmt.Errorf("prepare contact upsert: %w", err)
		}
		defer stmt.Close()

		for _, c := range contacts {
			if _, err := stmt.ExecContext(ctx, contactRow{Contact: c, SyncedAt: syncedAt.UTC()}); err != nil {
				return fmt.Errorf("upsert contact %s: %w", c.ID, err)
			}
		}
		return nil
	})
}

func contactWhere(filter string) (string, error) {
	switch filter {
	case "", models.ContactFilterAll:
		return "", nil
	case models.ContactFilterWithEmail:
		return " WHERE email <> ''", nil
	case models.ContactFilterWithPhone:
		return " WHERE phone <> ''", nil
	default:
		return "", fmt.Errorf("unknown contact filter %q", filter)
	}
}

// ContactPage returns one page of contacts matching filter. Total counts the
// filtered set; Stats always describe the whole table.
func (s *Store) ContactPage(ctx context.Context, filter string, offset, limit int) (models.ContactPage, error) {
	where, err := contactWhere(filter)
	if err != nil {
		return models.ContactPage{}, err
	}

	page := models.ContactPage{Items: []models.Contact{}}

	page.Total, err = s.count(ctx, `SELECT COUNT(*) FROM contacts`+where)
	if err != nil {
		return models.ContactPage{}, fmt.Errorf("count contacts: %w", err)
	}

	err = s.get(ctx, &page.Stats, `
		SELECT
			COALESCE(SUM(CASE WHEN email <> '' THEN 1 ELSE 0 END), 0) AS with_email,
			COALESCE(SUM(CASE WHEN phone <> '' THEN 1 ELSE 0 END), 0) AS with_phone,
			COALESCE(SUM(CASE WHEN company <> '' THEN 1 ELSE 0 END), 0) AS with_company
		FROM contacts
	`)
	if err != nil {
		return models.ContactPage{}, fmt.Errorf("contact stats: %w", err)
	}

	err = s.selectAll(ctx, &page.Items, `
		SELECT id, first_name, last_name, email, phone, company, job_title
		FROM contacts`+where+`
		ORDER BY last_name, first_name, id
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return models.ContactPage{}, fmt.Errorf("list contacts: %w", err)
	}
	return page, nil
}

func (s *Store) CountContacts(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM contacts`)
}

// CountContactsWithEmail is the audience size for a mailshot.
func (s *Store) CountContactsWithEmail(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM contacts WHERE email <> ''`)
}

const insertDeal = `
	INSERT INTO deals (id, dealname, amount, dealstage, createdate, closedate, pipeline, synced_at)
	VALUES (:id, :dealname, :amount, :dealstage, :createdate, :closedate, :pipeline, :synced_at)
`

// ReplaceDeals swaps the whole deals table for a fresh download in one
// transaction, so readers see either the old set or the new one.
func (s *Store) ReplaceDeals(ctx context.Context, deals []models.Deal) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM deals`); err != nil {
			return fmt.Errorf("clear deals: %w", err)
		}
		if len(deals) == 0 {
			return nil
		}

		stmt, err := tx.PrepareNamedContext(ctx, insertDeal)
		if err != nil {
			return fmt.Errorf("prepare deal insert: %w", err)
		}
		defer stmt.Close()

		seen := make(map[string]struct{}, len(deals))
		for _, d := range deals {
			if _, dup := seen[d.ID]; dup {
				continue
			}
			seen[d.ID] = struct{}{}
			d.SyncedAt = d.SyncedAt.UTC()
			if _, err := stmt.ExecContext(ctx, d); err != nil {
				return fmt.Errorf("insert deal %s: %w", d.ID, err)
			}
		}
		return nil
	})
}

func dealWhere(status string) (string, []any, error) {
	switch status {
	case "", models.DealFilterAll:
		return "", nil, nil
	case models.DealFilterPaid:
		return " WHERE dealstage = ?", []any{models.DealStageClosedWon}, nil
	case models.DealFilterPending:
		return " WHERE dealstage <> ? AND dealstage <> ?", []any{models.DealStageClosedWon, models.DealStageClosedLost}, nil
	case models.DealFilterOverdue:
		return " WHERE dealstage = ?", []any{models.DealStageClosedLost}, nil
	default:
		return "", nil, fmt.Errorf("unknown deal status %q", status)
	}
}

// DealsPage returns deals newest first, filtered by status, plus the
// filtered total.
func (s *Store) DealsPage(ctx context.Context, status string, offset, limit int) ([]models.Deal, int, error) {
	where, args, err := dealWhere(status)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.count(ctx, `SELECT COUNT(*) FROM deals`+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("count deals: %w", err)
	}

	deals := []models.Deal{}
	err = s.selectAll(ctx, &deals, `
		SELECT id, dealname, amount, dealstage, createdate, closedate, pipeline, synced_at
		FROM deals`+where+`
		ORDER BY createdate IS NULL, createdate DESC, id
		LIMIT ? OFFSET ?
	`, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list deals: %w", err)
	}
	return deals, total, nil
}

func (s *Store) CountDeals(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM deals`)
}

// RecordSync stores the time and size of a successful sync.
func (s *Store) RecordSync(ctx context.Context, kind string, at time.Time, records int) error {
	_, err := s.exec(ctx, `
		INSERT INTO sync_state (kind, last_synced_at, records) VALUES (?, ?, ?)
		ON CONFLICT (kind) DO UPDATE SET
			last_synced_at = excluded.last_synced_at,
			records = excluded.records
	`, kind, at.UTC(), records)
	if err != nil {
		return fmt.Errorf("record %s sync: %w", kind, err)
	}
	return nil
}

// LastSync returns when kind last synced successfully; ok is false if never.
func (s *Store) LastSync(ctx context.Context, kind string) (at time.Time, ok bool, err error) {
	err = s.get(ctx, &at, `SELECT last_synced_at FROM sync_state WHERE kind = ?`, kind)
	if errors.Is(err, ErrNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("last %s sync: %w", kind, err)
	}
	return at, true, nil
}
