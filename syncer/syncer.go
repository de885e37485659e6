// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package syncer

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/danielhkuo/keystone-adops/cache"
	"github.com/danielhkuo/keystone-adops/meta"
	"github.com/danielhkuo/keystone-adops/metrics"
	"github.com/danielhkuo/keystone-adops/models"
	"github.com/danielhkuo/keystone-adops/store"
)

// ErrClosed is returned for work requested after Close or Shutdown.
var ErrClosed = errors.New("syncer closed")

// CampaignSource is the subset of the Meta client the campaign refresh uses.
type CampaignSource interface {
	Configured() bool
	AccountName(ctx context.Context) (string, error)
	FetchCampaigns(ctx context.Context) ([]meta.Campaign, error)
	FetchInsights(ctx context.Context, campaignIDs []string) (map[string]meta.Insight, error)
}

// CRMSource is the subset of the HubSpot client the CRM syncs use.
type CRMSource interface {
	Configured() bool
	ListContacts(ctx context.Context, fn func([]models.Contact) error) error
	ListDeals(ctx context.Context) ([]models.Deal, error)
}

type Options struct {
	// StaleAfter is how old the oldest campaign row may get before a read
	// schedules a refresh.
	StaleAfter time.Duration
	// CRMInterval is the minimum time between unforced CRM syncs of a kind.
	CRMInterval time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

// Service owns every background job: campaign refreshes, CRM syncs and
// mailshot sends. Jobs run on a context owned by the service, not the
// request that triggered them.
type Service struct {
	store     *store.Store
	meta      CampaignSource
	crm       CRMSource
	snapshots cache.Snapshots
	opts      Options

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	group  singleflight.Group

	mu       sync.Mutex
	closed   bool
	running  map[string]bool
	attempts map[string]time.Time
}

func New(st *store.Store, metaSrc CampaignSource, crmSrc CRMSource, snaps cache.Snapshots, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if snaps == nil {
		snaps = cache.None{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		store:     st,
		meta:      metaSrc,
		crm:       crmSrc,
		snapshots: snaps,
		opts:      opts,
		ctx:       ctx,
		cancel:    cancel,
		running:   make(map[string]bool),
		attempts:  make(map[string]time.Time),
	}
}

// Snapshots exposes the configured snapshot backend.
func (s *Service) Snapshots() cache.Snapshots {
	return s.snapshots
}

// begin registers a job. It fails once the service is closing.
func (s *Service) begin(kind string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.wg.Add(1)
	if kind != "" {
		s.running[kind] = true
		s.attempts[kind] = s.opts.Now()
	}
	return true
}

func (s *Service) end(kind string) {
	s.mu.Lock()
	if kind != "" {
		delete(s.running, kind)
	}
	s.mu.Unlock()
	s.wg.Done()
}

// Running reports whether a job of kind is in progress.
func (s *Service) Running(kind string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running[kind]
}

// attemptedWithin reports whether a job of kind started, successfully or
// not, less than window ago.
func (s *Service) attemptedWithin(kind string, window time.Duration) bool {
	s.mu.Lock()
	at, ok := s.attempts[kind]
	s.mu.Unlock()
	return ok && s.opts.Now().Sub(at) < window
}

// spawn runs fn in the background on the service context.
func (s *Service) spawn(kind string, fn func(ctx context.Context)) bool {
	if !s.begin(kind) {
		return false
	}
	go func() {
		defer s.end(kind)
		fn(s.ctx)
	}()
	return true
}

// once runs fn for kind at most once at a time; concurrent callers share
// the result. The work runs on the service context, so a caller giving up
// does not cancel it for the others.
func (s *Service) once(ctx context.Context, kind string, fn func(ctx context.Context) (int, error)) (int, error) {
	ch := s.group.DoChan(kind, func() (any, error) {
		if !s.begin(kind) {
			return 0, ErrClosed
		}
		defer s.end(kind)
		return observe(kind, func() (int, error) { return fn(s.ctx) })
	})
	select {
	case res := <-ch:
		n, _ := res.Val.(int)
		return n, res.Err
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// trigger starts fn for kind in the background unless it is already running.
func (s *Service) trigger(kind string, fn func(ctx context.Context) (int, error)) {
	// DoChan's channel is buffered, so dropping it does not leak.
	s.group.DoChan(kind, func() (any, error) {
		if !s.begin(kind) {
			return 0, ErrClosed
		}
		defer s.end(kind)
		n, err := observe(kind, func() (int, error) { return fn(s.ctx) })
		if err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("background sync failed", "kind", kind, "error", err)
		}
		return n, err
	})
}

// observe records run metrics around one sync.
func observe(kind string, fn func() (int, error)) (int, error) {
	start := time.Now()
	n, err := fn()
	metrics.SyncDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SyncRuns.WithLabelValues(kind, metrics.Error).Inc()
		return n, err
	}
	metrics.SyncRuns.WithLabelValues(kind, metrics.OK).Inc()
	metrics.SyncedRecords.WithLabelValues(kind).Set(float64(n))
	return n, nil
}

// Shutdown stops accepting work and waits for running jobs. If ctx ends
// first the remaining jobs are cancelled and awaited.
func (s *Service) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.cancel()
		return nil
	case <-ctx.Done():
		s.cancel()
		<-done
		return ctx.Err()
	}
}

// Close cancels running jobs and waits for them to return.
func (s *Service) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
	return nil
}
