// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/danielhkuo/keystone-adops/legacyevents"
	"github.com/danielhkuo/keystone-adops/models"
	"github.com/danielhkuo/keystone-adops/testutil"
)

func TestOrders(t *testing.T) {
	handler := NewCMSHandler(newTestStore(t), nil)

	for _, status := range []int{models.OrderStatusCommitted, models.OrderStatusCommitted, models.OrderStatusCancelled} {
		body := models.CreateOrderRequest{PurchaserID: 7, PurchaserTypeID: 1, OrderTotal: 49.5, StatusID: status}
		w := serve(handler.CreateOrder, testutil.MakeRequest("POST", "/api/v1/orders/", body, nil))
		testutil.AssertStatus(t, w, http.StatusCreated)
	}

	t.Run("invalid status id", func(t *testing.T) {
		body := models.CreateOrderRequest{PurchaserID: 7, PurchaserTypeID: 1, StatusID: 3}
		w := serve(handler.CreateOrder, testutil.MakeRequest("POST", "/api/v1/orders/", body, nil))
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	tests := []struct {
		query          string
		expectedStatus int
		expectedCount  int
	}{
		{"", http.StatusOK, 3},
		{"?status=all", http.StatusOK, 3},
		{"?status=committed", http.StatusOK, 2},
		{"?status=cancelled", http.StatusOK, 1},
		{"?limit=1", http.StatusOK, 1},
		{"?skip=2", http.StatusOK, 1},
		{"?status=pending", http.StatusBadRequest, 0},
		{"?skip=-1", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run("list"+tt.query, func(t *testing.T) {
			w := serve(handler.ListOrders, testutil.MakeRequest("GET", "/api/v1/orders/"+tt.query, nil, nil))
			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var orders []models.Order
			testutil.AssertJSON(t, w, &orders)
			if len(orders) != tt.expectedCount {
				t.Errorf("Expected %d orders, got %d", tt.expectedCount, len(orders))
			}
			for _, o := range orders {
				if o.StatusLabel != models.OrderStatusLabel(o.StatusID) {
					t.Errorf("Order %s: label %q does not match status %d", o.ID, o.StatusLabel, o.StatusID)
				}
			}
		})
	}
}

func TestEvents(t *testing.T) {
	handler := NewCMSHandler(newTestStore(t), nil)

	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	body := models.CreateEventRequest{
		Name:      "London Postgraduate Fair",
		StartDate: start,
		EndDate:   start.Add(6 * time.Hour),
		City:      "London",
		TypeID:    1,
	}
	w := serve(handler.CreateEvent, testutil.MakeRequest("POST", "/api/v1/events/", body, nil))
	testutil.AssertStatus(t, w, http.StatusCreated)

	var created models.Event
	testutil.AssertJSON(t, w, &created)
	if created.ID == "" {
		t.Fatal("Expected an event id")
	}

	t.Run("end before start", func(t *testing.T) {
		bad := body
		bad.EndDate = start.Add(-time.Hour)
		w := serve(handler.CreateEvent, testutil.MakeRequest("POST", "/api/v1/events/", bad, nil))
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("list", func(t *testing.T) {
		w := serve(handler.ListEvents, testutil.MakeRequest("GET", "/api/v1/events/", nil, nil))
		testutil.AssertStatus(t, w, http.StatusOK)

		var events []models.Event
		testutil.AssertJSON(t, w, &events)
		if len(events) != 1 || events[0].Name != body.Name {
			t.Errorf("Unexpected events %+v", events)
		}
	})

	t.Run("get", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/api/v1/events/"+created.ID, nil, nil)
		req.SetPathValue("id", created.ID)
		w := serve(handler.GetEvent, req)
		testutil.AssertStatus(t, w, http.StatusOK)

		var event models.Event
		testutil.AssertJSON(t, w, &event)
		if !event.StartDate.Equal(start) {
			t.Errorf("Expected start %v, got %v", start, event.StartDate)
		}
	})

	t.Run("get missing", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/api/v1/events/nope", nil, nil)
		req.SetPathValue("id", "nope")
		w := serve(handler.GetEvent, req)
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}

func TestLegacyStats(t *testing.T) {
	rows := []models.LegacyEvent{{ID: "1", Product: "PG Live", Venue: "Leeds", Signups: 42}}

	tests := []struct {
		name           string
		feed           EventsFeed
		expectedStatus int
	}{
		{"ok", &fakeFeed{events: rows}, http.StatusOK},
		{"upstream failure", &fakeFeed{err: errUpstream}, http.StatusBadGateway},
		{"feed not configured", &fakeFeed{err: legacyevents.ErrNotConfigured}, http.StatusServiceUnavailable},
		{"no feed", nil, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewCMSHandler(newTestStore(t), tt.feed)
			w := serve(handler.LegacyStats, testutil.MakeRequest("GET", "/api/v1/events/stats/legacy", nil, nil))
			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var got []models.LegacyEvent
			testutil.AssertJSON(t, w, &got)
			if len(got) != 1 || got[0].Signups != 42 {
				t.Errorf("Unexpected events %+v", got)
			}
		})
	}
}

func TestLocations(t *testing.T) {
	handler := NewCMSHandler(newTestStore(t), nil)

	create := func(t *testing.T, req models.CreateLocationRequest) models.GeoLocation {
		t.Helper()
		w := serve(handler.CreateLocation, testutil.MakeRequest("POST", "/api/v1/locations/", req, nil))
		testutil.AssertStatus(t, w, http.StatusCreated)
		var loc models.GeoLocation
		testutil.AssertJSON(t, w, &loc)
		return loc
	}

	uk := create(t, models.CreateLocationRequest{Name: "United Kingdom", LocationTypeID: 1, LocationCode: "GB"})
	empty := ""
	create(t, models.CreateLocationRequest{Name: "Ireland", LocationTypeID: 1, ParentID: &empty})
	create(t, models.CreateLocationRequest{Name: "London", LocationTypeID: 2, ParentID: &uk.ID})
	create(t, models.CreateLocationRequest{Name: "Leeds", LocationTypeID: 2, ParentID: &uk.ID})

	t.Run("missing parent", func(t *testing.T) {
		missing := "does-not-exist"
		req := models.CreateLocationRequest{Name: "Atlantis", LocationTypeID: 2, ParentID: &missing}
		w := serve(handler.CreateLocation, testutil.MakeRequest("POST", "/api/v1/locations/", req, nil))
		testutil.AssertStatus(t, w, http.StatusBadRequest)

		var resp models.ErrorResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.Error != "Bad Request" {
			t.Errorf("Unexpected error %q", resp.Error)
		}
		if resp.Message != "Parent location not found" {
			t.Errorf("Unexpected message %q", resp.Message)
		}
	})

	t.Run("top level", func(t *testing.T) {
		w := serve(handler.ListLocations, testutil.MakeRequest("GET", "/api/v1/locations/", nil, nil))
		testutil.AssertStatus(t, w, http.StatusOK)

		var locs []models.GeoLocation
		testutil.AssertJSON(t, w, &locs)
		if len(locs) != 2 {
			t.Errorf("Expected 2 top-level locations, got %d", len(locs))
		}
	})

	t.Run("children", func(t *testing.T) {
		w := serve(handler.ListLocations, testutil.MakeRequest("GET", "/api/v1/locations/?parent_id="+uk.ID, nil, nil))
		testutil.AssertStatus(t, w, http.StatusOK)

		var locs []models.GeoLocation
		testutil.AssertJSON(t, w, &locs)
		if len(locs) != 2 {
			t.Errorf("Expected 2 children, got %d", len(locs))
		}
	})

	t.Run("tree", func(t *testing.T) {
		w := serve(handler.LocationTree, testutil.MakeRequest("GET", "/api/v1/locations/tree", nil, nil))
		testutil.AssertStatus(t, w, http.StatusOK)

		var tree []models.GeoLocation
		testutil.AssertJSON(t, w, &tree)
		if len(tree) != 2 {
			t.Fatalf("Expected 2 roots, got %d", len(tree))
		}
		for _, root := range tree {
			if root.ID == uk.ID && len(root.Children) != 2 {
				t.Errorf("Expected 2 children under %s, got %d", root.Name, len(root.Children))
			}
		}
	})
}
