// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/keystone-adops/models"
	"github.com/danielhkuo/keystone-adops/store"
	"github.com/danielhkuo/keystone-adops/testutil"
)

// serve runs one request through handler and returns the recorder.
func serve(handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(testutil.SetupTestDB(t))
}

type fakeCampaigns struct {
	list models.CampaignList
	err  error
}

func (f *fakeCampaigns) Campaigns(context.Context) (models.CampaignList, error) {
	if f.err != nil {
		return models.CampaignList{}, f.err
	}
	// Hand out copies so handlers cannot alter the fixture.
	out := f.list
	out.Brand = append([]models.Campaign(nil), f.list.Brand...)
	out.LeadGen = append([]models.Campaign(nil), f.list.LeadGen...)
	return out, nil
}

type fakeCRM struct {
	contactSchedules atomic.Int32
	dealSchedules    atomic.Int32
	syncAlls         atomic.Int32
	status           models.SyncStatus
}

func (f *fakeCRM) ScheduleContacts(context.Context) bool {
	f.contactSchedules.Add(1)
	return true
}

func (f *fakeCRM) ScheduleDeals(context.Context) bool {
	f.dealSchedules.Add(1)
	return true
}

func (f *fakeCRM) SyncAllInBackground() { f.syncAlls.Add(1) }

func (f *fakeCRM) Status(context.Context) (models.SyncStatus, error) { return f.status, nil }

type fakeFeed struct {
	events []models.LegacyEvent
	err    error
}

func (f *fakeFeed) Fetch(context.Context) ([]models.LegacyEvent, error) {
	return f.events, f.err
}

var errUpstream = errors.New("upstream unavailable")

type fakeSender struct {
	err  error
	sent []string
}

func (f *fakeSender) SendMailshot(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, id)
	return nil
}
