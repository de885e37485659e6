// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/keystone-adops/auth"
	"github.com/danielhkuo/keystone-adops/cliparse"
	"github.com/danielhkuo/keystone-adops/db"
)

// TestJWTSecret signs tokens in handler and router tests.
const TestJWTSecret = "test-jwt-secret"

// SetupTestDB creates a fresh SQLite database with the full schema in the
// test's temp dir. It is closed when the test ends.
func SetupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	url := "file:" + filepath.Join(t.TempDir(), "keystone_test.db")
	conn, err := db.Open(context.Background(), db.TypeSQLite, url)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:               8000,
		DatabaseURL:        "file::memory:",
		DatabaseType:       db.TypeSQLite,
		JWTSecret:          TestJWTSecret,
		JWTTTL:             time.Hour,
		MetaAccountID:      cliparse.DefaultMetaAccount,
		HubSpotAccountID:   cliparse.DefaultHubSpotAccount,
		CampaignStaleAfter: cliparse.DefaultStaleAfter,
		CRMSyncInterval:    cliparse.DefaultCRMSyncInterval,
		SnapshotBackend:    cliparse.SnapshotNone,
		LogLevel:           "error",
		CORSOrigins:        []string{"*"},
	}
}

// CreateTestUser inserts an active user with the given password and
// returns its id.
func CreateTestUser(t *testing.T, conn *sqlx.DB, username, email, password string) string {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	id := auth.NewID()
	now := time.Now().UTC()
	_, err = conn.Exec(conn.Rebind(`
		INSERT INTO users (id, username, email, hashed_password, first_name, last_name, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, 'Test', 'User', ?, ?, ?)
	`), id, username, email, hash, true, now, now)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return id
}

// AuthHeader returns an Authorization header for userID signed with
// TestJWTSecret.
func AuthHeader(t *testing.T, userID string) map[string]string {
	t.Helper()

	token, err := auth.IssueToken(TestJWTSecret, userID, "test@example.com", time.Hour, time.Now())
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

// InsertContact adds a mirrored HubSpot contact.
func InsertContact(t *testing.T, conn *sqlx.DB, id, first, last, email, phone string) {
	t.Helper()

	_, err := conn.Exec(conn.Rebind(`
		INSERT INTO contacts (id, first_name, last_name, email, phone, synced_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`), id, first, last, email, phone, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test contact: %v", err)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
