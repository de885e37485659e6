// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package syncer

import (
	"context"
	"log/slog"
	"time"
)

const kindMailshot = "mailshot"

// SendMailshot moves a mailshot to Sending and completes it in the
// background, recording every contact with an email address as sent. The
// store's ErrNotFound and ErrInvalidState come back unchanged.
func (s *Service) SendMailshot(ctx context.Context, id string) error {
	if err := s.store.BeginMailshotSend(ctx, id); err != nil {
		return err
	}

	started := s.spawn("", func(ctx context.Context) {
		s.deliverMailshot(ctx, id)
	})
	if !started {
		// Shutting down: leave it retryable.
		if err := s.store.FailMailshotSend(ctx, id); err != nil {
			slog.Error("failed to release mailshot", "mailshot_id", id, "error", err)
		}
		return ErrClosed
	}
	return nil
}

func (s *Service) deliverMailshot(ctx context.Context, id string) {
	_, err := observe(kindMailshot, func() (int, error) {
		audience, err := s.store.CountContactsWithEmail(ctx)
		if err != nil {
			return 0, err
		}
		if err := s.store.CompleteMailshotSend(ctx, id, audience, s.opts.Now()); err != nil {
			return 0, err
		}
		slog.Info("mailshot sent", "mailshot_id", id, "recipients", audience)
		return audience, nil
	})
	if err == nil {
		return
	}

	slog.Error("mailshot send failed", "mailshot_id", id, "error", err)
	// The service context may be cancelled; use a short detached one.
	failCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.store.FailMailshotSend(failCtx, id); err != nil {
		slog.Error("failed to mark mailshot failed", "mailshot_id", id, "error", err)
	}
}
