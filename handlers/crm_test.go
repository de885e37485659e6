// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/danielhkuo/keystone-adops/models"
	"github.com/danielhkuo/keystone-adops/testutil"
)

func TestContacts(t *testing.T) {
	st := newTestStore(t)
	crm := &fakeCRM{}
	handler := NewCRMHandler(st, crm, "12345")

	testutil.InsertContact(t, st.DB(), "1", "Ann", "Baker", "ann@example.com", "")
	testutil.InsertContact(t, st.DB(), "2", "Bob", "Adams", "", "4420")
	testutil.InsertContact(t, st.DB(), "3", "Cat", "Cole", "cat@example.com", "3531")

	tests := []struct {
		name           string
		query          string
		expectedStatus int
		expectedTotal  int
		expectedIDs    []string
	}{
		{"first page", "?page=0&pageSize=2", http.StatusOK, 3, []string{"2", "1"}},
		{"second page", "?page=1&pageSize=2", http.StatusOK, 3, []string{"3"}},
		{"with email", "?filter=with_email", http.StatusOK, 2, []string{"1", "3"}},
		{"with phone", "?filter=with_phone", http.StatusOK, 2, []string{"2", "3"}},
		{"bad filter", "?filter=vip", http.StatusBadRequest, 0, nil},
		{"bad page", "?page=-1", http.StatusBadRequest, 0, nil},
		{"last addressable page", "?page=1073741823&pageSize=2", http.StatusOK, 3, []string{}},
		{"page past offset range", "?page=9223372036854775807&pageSize=2", http.StatusBadRequest, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(handler.Contacts, testutil.MakeRequest("GET", "/api/v1/hubspot/contacts"+tt.query, nil, nil))
			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var page models.ContactPage
			testutil.AssertJSON(t, w, &page)
			if page.Total != tt.expectedTotal {
				t.Errorf("Expected total %d, got %d", tt.expectedTotal, page.Total)
			}
			if len(page.Items) != len(tt.expectedIDs) {
				t.Fatalf("Expected %d items, got %d", len(tt.expectedIDs), len(page.Items))
			}
			for i, id := range tt.expectedIDs {
				if page.Items[i].ID != id {
					t.Errorf("Item %d: expected id %s, got %s", i, id, page.Items[i].ID)
				}
			}
			if page.Stats != (models.ContactStats{WithEmail: 2, WithPhone: 2}) {
				t.Errorf("Unexpected stats %+v", page.Stats)
			}
		})
	}

	w := serve(handler.Contacts, testutil.MakeRequest("GET", "/api/v1/hubspot/contacts?pageSize=1", nil, nil))
	var page models.ContactPage
	testutil.AssertJSON(t, w, &page)
	if want := "https://app.hubspot.com/contacts/12345/contact/2"; page.Items[0].HubSpotURL != want {
		t.Errorf("Expected %s, got %s", want, page.Items[0].HubSpotURL)
	}

	if crm.contactSchedules.Load() == 0 {
		t.Error("Expected a contact sync to be scheduled")
	}
}

func TestDeals(t *testing.T) {
	st := newTestStore(t)
	crm := &fakeCRM{}
	handler := NewCRMHandler(st, crm, "12345")

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var deals []models.Deal
	for i, stage := range []string{
		models.DealStageClosedWon, models.DealStageClosedLost, "appointmentscheduled",
		models.DealStageClosedWon, "qualifiedtobuy",
	} {
		created := base.Add(time.Duration(i) * 24 * time.Hour)
		deals = append(deals, models.Deal{
			ID:         string(rune('a' + i)),
			DealName:   "Deal",
			Amount:     float64(100 * (i + 1)),
			DealStage:  stage,
			CreateDate: &created,
			SyncedAt:   base,
		})
	}
	if err := st.ReplaceDeals(t.Context(), deals); err != nil {
		t.Fatalf("Failed to seed deals: %v", err)
	}

	tests := []struct {
		name           string
		query          string
		expectedStatus int
		expectedIDs    []string
		expectedPages  int
	}{
		{"defaults", "", http.StatusOK, []string{"e", "d", "c", "b", "a"}, 1},
		{"page two", "?page=2&limit=2", http.StatusOK, []string{"c", "b"}, 3},
		{"page zero reads as one", "?page=0&limit=2", http.StatusOK, []string{"e", "d"}, 3},
		{"paid", "?status=paid", http.StatusOK, []string{"d", "a"}, 1},
		{"pending", "?status=pending", http.StatusOK, []string{"e", "c"}, 1},
		{"overdue", "?status=overdue", http.StatusOK, []string{"b"}, 1},
		{"bad status", "?status=refunded", http.StatusBadRequest, nil, 0},
		{"last addressable page", "?page=1073741824&limit=2", http.StatusOK, []string{}, 3},
		{"page past offset range", "?page=9223372036854775807", http.StatusBadRequest, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(handler.Deals, testutil.MakeRequest("GET", "/deals"+tt.query, nil, nil))
			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var resp models.DealsResponse
			testutil.AssertJSON(t, w, &resp)
			if len(resp.Results) != len(tt.expectedIDs) {
				t.Fatalf("Expected %d deals, got %d", len(tt.expectedIDs), len(resp.Results))
			}
			for i, id := range tt.expectedIDs {
				if resp.Results[i].ID != id {
					t.Errorf("Result %d: expected %s, got %s", i, id, resp.Results[i].ID)
				}
			}
			if resp.Pagination.Pages != tt.expectedPages {
				t.Errorf("Expected %d pages, got %d", tt.expectedPages, resp.Pagination.Pages)
			}
		})
	}

	t.Run("hubspot object shape", func(t *testing.T) {
		w := serve(handler.Deals, testutil.MakeRequest("GET", "/deals?status=overdue", nil, nil))
		var resp models.DealsResponse
		testutil.AssertJSON(t, w, &resp)

		props := resp.Results[0].Properties
		if props.Amount != "200" {
			t.Errorf("Expected amount \"200\", got %q", props.Amount)
		}
		if props.CreateDate == nil || *props.CreateDate != "2025-01-02T00:00:00Z" {
			t.Errorf("Unexpected createdate %v", props.CreateDate)
		}
		if props.CloseDate != nil {
			t.Errorf("Expected no closedate, got %v", *props.CloseDate)
		}
		if resp.Pagination.Limit != DefaultDealPageSize || resp.Pagination.Page != 1 {
			t.Errorf("Unexpected pagination %+v", resp.Pagination)
		}
	})

	if crm.dealSchedules.Load() != 0 {
		t.Error("/deals should not schedule a sync")
	}
	serve(handler.HubSpotDeals, testutil.MakeRequest("GET", "/api/v1/hubspot/deals", nil, nil))
	if crm.dealSchedules.Load() != 1 {
		t.Error("Expected the HubSpot deals listing to schedule a sync")
	}
}

func TestEmptyDeals(t *testing.T) {
	handler := NewCRMHandler(newTestStore(t), &fakeCRM{}, "12345")

	w := serve(handler.Deals, testutil.MakeRequest("GET", "/deals", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.DealsResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Results == nil || len(resp.Results) != 0 {
		t.Errorf("Expected an empty result list, got %v", resp.Results)
	}
	if resp.Pagination.Pages != 1 || resp.Pagination.Total != 0 {
		t.Errorf("Unexpected pagination %+v", resp.Pagination)
	}
}

func TestSyncAllAndStatus(t *testing.T) {
	crm := &fakeCRM{status: models.SyncStatus{Deals: 4, Contacts: 6, TotalRecords: 10}}
	handler := NewCRMHandler(newTestStore(t), crm, "12345")

	w := serve(handler.SyncAll, testutil.MakeRequest("POST", "/api/v1/hubspot/sync-all", nil, nil))
	testutil.AssertStatus(t, w, http.StatusAccepted)

	var started models.SyncStartedResponse
	testutil.AssertJSON(t, w, &started)
	if started.Status != "syncing" || len(started.Items) != 2 {
		t.Errorf("Unexpected response %+v", started)
	}
	if crm.syncAlls.Load() != 1 {
		t.Errorf("Expected one forced sync, got %d", crm.syncAlls.Load())
	}

	w = serve(handler.SyncStatus, testutil.MakeRequest("GET", "/api/v1/hubspot/sync-status", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var status models.SyncStatus
	testutil.AssertJSON(t, w, &status)
	if status.TotalRecords != 10 {
		t.Errorf("Expected 10 records, got %d", status.TotalRecords)
	}
}
