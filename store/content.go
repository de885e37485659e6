// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/keystone-adops/models"
)

// Marketing popups

func (s *Store) ListPopups(ctx context.Context, activeOnly bool, offset, limit int) ([]models.MarketingPopup, error) {
	query := `SELECT * FROM marketing_popups`
	if activeOnly {
		query += ` WHERE is_active = ?`
	}
	query += ` ORDER BY title, id LIMIT ? OFFSET ?`

	args := []any{limit, offset}
	if activeOnly {
		args = []any{true, limit, offset}
	}

	popups := []models.MarketingPopup{}
	if err := s.selectAll(ctx, &popups, query, args...); err != nil {
		return nil, fmt.Errorf("list popups: %w", err)
	}
	return popups, nil
}

func (s *Store) CreatePopup(ctx context.Context, p models.MarketingPopup) error {
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO marketing_popups (id, title, content, image_url, target_url, start_date, end_date,
			is_active, target_domains, target_countries)
		VALUES (:id, :title, :content, :image_url, :target_url, :start_date, :end_date,
			:is_active, :target_domains, :target_countries)
	`, p)
	if err != nil {
		return fmt.Errorf("insert popup: %w", err)
	}
	return nil
}

// Splash banners

// ListBanners returns banners heaviest first.
func (s *Store) ListBanners(ctx context.Context, activeOnly bool, offset, limit int) ([]models.SplashBanner, error) {
	query := `SELECT * FROM splash_banners`
	if activeOnly {
		query += ` WHERE is_active = ?`
	}
	query += ` ORDER BY weight DESC, name, id LIMIT ? OFFSET ?`

	args := []any{limit, offset}
	if activeOnly {
		args = []any{true, limit, offset}
	}

	banners := []models.SplashBanner{}
	if err := s.selectAll(ctx, &banners, query, args...); err != nil {
		return nil, fmt.Errorf("list banners: %w", err)
	}
	return banners, nil
}

func (s *Store) CreateBanner(ctx context.Context, b models.SplashBanner) error {
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO splash_banners (id, name, image_url, target_url, weight, is_active, created_at)
		VALUES (:id, :name, :image_url, :target_url, :weight, :is_active, :created_at)
	`, b)
	if err != nil {
		return fmt.Errorf("insert banner: %w", err)
	}
	return nil
}

// Mailshots

func (s *Store) ListMailshots(ctx context.Context, offset, limit int) ([]models.Mailshot, error) {
	shots := []models.Mailshot{}
	err := s.selectAll(ctx, &shots, `SELECT * FROM mailshots ORDER BY created_at DESC, id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list mailshots: %w", err)
	}
	return shots, nil
}

func (s *Store) GetMailshot(ctx context.Context, id string) (models.Mailshot, error) {
	var m models.Mailshot
	if err := s.get(ctx, &m, `SELECT * FROM mailshots WHERE id = ?`, id); err != nil {
		return models.Mailshot{}, err
	}
	return m, nil
}

func (s *Store) CreateMailshot(ctx context.Context, m models.Mailshot) error {
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO mailshots (id, title, subject, content, status, send_date, created_at,
			total_sent, total_opened, total_clicked)
		VALUES (:id, :title, :subject, :content, :status, :send_date, :created_at,
			:total_sent, :total_opened, :total_clicked)
	`, m)
	if err != nil {
		return fmt.Errorf("insert mailshot: %w", err)
	}
	return nil
}

// BeginMailshotSend moves a Draft (or previously Failed) mailshot to Sending.
// A mailshot already sending or sent returns ErrInvalidState.
func (s *Store) BeginMailshotSend(ctx context.Context, id string) error {
	res, err := s.exec(ctx, `UPDATE mailshots SET status = ? WHERE id = ? AND status IN (?, ?)`,
		models.MailshotSending, id, models.MailshotDraft, models.MailshotFailed)
	if err != nil {
		return fmt.Errorf("begin mailshot send: %w", err)
	}
	if err := mustAffect(res); err == nil {
		return nil
	}

	if _, err := s.GetMailshot(ctx, id); err != nil {
		return err
	}
	return ErrInvalidState
}

// CompleteMailshotSend marks a sending mailshot as Sent.
func (s *Store) CompleteMailshotSend(ctx context.Context, id string, totalSent int, at time.Time) error {
	res, err := s.exec(ctx, `UPDATE mailshots SET status = ?, total_sent = ?, send_date = ? WHERE id = ? AND status = ?`,
		models.MailshotSent, totalSent, at.UTC(), id, models.MailshotSending)
	if err != nil {
		return fmt.Errorf("complete mailshot send: %w", err)
	}
	if err := mustAffect(res); errors.Is(err, ErrNotFound) {
		return ErrInvalidState
	} else if err != nil {
		return err
	}
	return nil
}

// FailMailshotSend returns a sending mailshot to Failed so it can be retried.
func (s *Store) FailMailshotSend(ctx context.Context, id string) error {
	_, err := s.exec(ctx, `UPDATE mailshots SET status = ? WHERE id = ? AND status = ?`,
		models.MailshotFailed, id, models.MailshotSending)
	if err != nil {
		return fmt.Errorf("fail mailshot send: %w", err)
	}
	return nil
}

// Page templates

func (s *Store) ListTemplates(ctx context.Context, includeArchived bool, offset, limit int) ([]models.PageTemplate, error) {
	query := `SELECT * FROM page_templates`
	args := []any{}
	if !includeArchived {
		query += ` WHERE archived = ?`
		args = append(args, false)
	}
	query += ` ORDER BY modified_on DESC, id LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	templates := []models.PageTemplate{}
	if err := s.selectAll(ctx, &templates, query, args...); err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return templates, nil
}

func (s *Store) CreateTemplate(ctx context.Context, t models.PageTemplate) error {
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO page_templates (id, title, content, mode, domains, archived, created_by, created_on, modified_on)
		VALUES (:id, :title, :content, :mode, :domains, :archived, :created_by, :created_on, :modified_on)
	`, t)
	if err != nil {
		return fmt.Errorf("insert template: %w", err)
	}
	return nil
}
