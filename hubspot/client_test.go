// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package hubspot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/keystone-adops/models"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL, AccessToken: "pat-1", PageDelay: -1})
}

func TestCleanPhone(t *testing.T) {
	tests := map[string]string{
		"":                    "",
		"+44 (0)20 7946-0958": "4402079460958",
		"07700 900123":        "07700900123",
		"n/a":                 "",
	}
	for in, want := range tests {
		assert.Equal(t, want, CleanPhone(in), "CleanPhone(%q)", in)
	}
}

func TestContactURL(t *testing.T) {
	assert.Equal(t, "https://app.hubspot.com/contacts/179140854579/contact/501",
		ContactURL("179140854579", "501"))
}

func TestListContactsPaging(t *testing.T) {
	var afters []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/crm/v3/objects/contacts", r.URL.Path)
		assert.Equal(t, "Bearer pat-1", r.Header.Get("Authorization"))
		assert.Equal(t, "100", r.URL.Query().Get("limit"))

		after := r.URL.Query().Get("after")
		afters = append(afters, after)
		switch after {
		case "":
			fmt.Fprint(w, `{"results":[
				{"id":"1","properties":{"firstname":"Ada","lastname":"Lovelace","email":"ada@example.com","phone":"+44 20 1234","company":null,"jobtitle":"Analyst"}},
				{"id":"2","properties":{"firstname":"Alan","email":""}}
			],"paging":{"next":{"after":"2"}}}`)
		case "2":
			fmt.Fprint(w, `{"results":[{"id":"3","properties":{"phone":"555"}}]}`)
		default:
			t.Errorf("unexpected cursor %q", after)
		}
	})

	var got []models.Contact
	pages := 0
	err := c.ListContacts(context.Background(), func(batch []models.Contact) error {
		pages++
		got = append(got, batch...)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 2, pages)
	assert.Equal(t, []string{"", "2"}, afters)
	require.Len(t, got, 3)
	assert.Equal(t, models.Contact{
		ID: "1", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
		Phone: "44201234", JobTitle: "Analyst",
	}, got[0])
	assert.Equal(t, "555", got[2].Phone)
}

func TestListContactsCallbackError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[{"id":"1","properties":{}}],"paging":{"next":{"after":"x"}}}`)
	})

	stop := errors.New("stop")
	err := c.ListContacts(context.Background(), func([]models.Contact) error { return stop })
	assert.ErrorIs(t, err, stop)
}

func TestListDeals(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/crm/v3/objects/deals", r.URL.Path)
		fmt.Fprint(w, `{"results":[
			{"id":"d1","properties":{"dealname":"Spring package","amount":"1250.50","dealstage":"closedwon","createdate":"2025-02-03T10:00:00.000Z","closedate":null,"pipeline":"default"}},
			{"id":"d2","properties":{"dealname":"Open","amount":"","dealstage":"appointmentscheduled","createdate":"1738576800000"}}
		]}`)
	})

	deals, err := c.ListDeals(context.Background())
	require.NoError(t, err)
	require.Len(t, deals, 2)

	assert.Equal(t, 1250.5, deals[0].Amount)
	assert.Equal(t, models.DealStageClosedWon, deals[0].DealStage)
	require.NotNil(t, deals[0].CreateDate)
	assert.Equal(t, time.Date(2025, 2, 3, 10, 0, 0, 0, time.UTC), *deals[0].CreateDate)
	assert.Nil(t, deals[0].CloseDate)

	assert.Equal(t, 0.0, deals[1].Amount)
	require.NotNil(t, deals[1].CreateDate)
	assert.Equal(t, int64(1738576800000), deals[1].CreateDate.UnixMilli())
}

func TestStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"status":"error","message":"rate limited"}`)
	})

	_, err := c.ListDeals(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestMissingToken(t *testing.T) {
	c := NewClient(Config{})
	assert.False(t, c.Configured())
	_, err := c.ListDeals(context.Background())
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestPauseHonoursContext(t *testing.T) {
	c := NewClient(Config{AccessToken: "x", PageDelay: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, c.pause(ctx), context.Canceled)
}
