// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"testing"

	"github.com/danielhkuo/keystone-adops/auth"
	"github.com/danielhkuo/keystone-adops/middleware"
	"github.com/danielhkuo/keystone-adops/models"
	"github.com/danielhkuo/keystone-adops/testutil"
)

func TestLogin(t *testing.T) {
	st := newTestStore(t)
	cfg := testutil.GetTestConfig()
	handler := NewUserHandler(st, cfg)

	userID := testutil.CreateTestUser(t, st.DB(), "ann", "ann@example.com", "correct-horse")

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
		checkResponse  func(t *testing.T, resp models.LoginResponse)
	}{
		{
			name:           "valid credentials",
			body:           models.LoginRequest{Email: "ann@example.com", Password: "correct-horse"},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp models.LoginResponse) {
				if resp.ID != userID {
					t.Errorf("Expected id %s, got %s", userID, resp.ID)
				}
				if resp.Username != "ann" {
					t.Errorf("Expected username ann, got %s", resp.Username)
				}
				claims, err := auth.ParseToken(testutil.TestJWTSecret, resp.Token)
				if err != nil {
					t.Fatalf("Token did not parse: %v", err)
				}
				if claims.Subject != userID {
					t.Errorf("Expected subject %s, got %s", userID, claims.Subject)
				}
			},
		},
		{
			name:           "wrong password",
			body:           models.LoginRequest{Email: "ann@example.com", Password: "wrong"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown email",
			body:           models.LoginRequest{Email: "nobody@example.com", Password: "correct-horse"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid email",
			body:           map[string]string{"email": "not-an-email", "password": "x"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing password",
			body:           map[string]string{"email": "ann@example.com"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/api/v1/auth/login", tt.body, nil)
			w := serve(handler.Login, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.checkResponse != nil && w.Code == http.StatusOK {
				var resp models.LoginResponse
				testutil.AssertJSON(t, w, &resp)
				tt.checkResponse(t, resp)
			}
		})
	}

	user, err := st.GetUserByID(t.Context(), userID)
	if err != nil {
		t.Fatalf("Failed to load user: %v", err)
	}
	if user.LastLogin == nil {
		t.Error("Expected last_login to be recorded")
	}
}

func TestLoginInactiveUser(t *testing.T) {
	st := newTestStore(t)
	handler := NewUserHandler(st, testutil.GetTestConfig())

	userID := testutil.CreateTestUser(t, st.DB(), "bob", "bob@example.com", "password123")
	if _, err := st.DB().Exec(st.DB().Rebind(`UPDATE users SET status = ? WHERE id = ?`), false, userID); err != nil {
		t.Fatalf("Failed to deactivate user: %v", err)
	}

	req := testutil.MakeRequest("POST", "/api/v1/auth/login",
		models.LoginRequest{Email: "bob@example.com", Password: "password123"}, nil)
	w := serve(handler.Login, req)

	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestMe(t *testing.T) {
	st := newTestStore(t)
	handler := NewUserHandler(st, testutil.GetTestConfig())
	me := middleware.RequireAuth(testutil.TestJWTSecret, true)(handler.Me)

	userID := testutil.CreateTestUser(t, st.DB(), "cat", "cat@example.com", "password123")

	t.Run("valid token", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/api/v1/auth/me", nil, testutil.AuthHeader(t, userID))
		w := serve(me, req)

		testutil.AssertStatus(t, w, http.StatusOK)
		var user models.User
		testutil.AssertJSON(t, w, &user)
		if user.Email != "cat@example.com" {
			t.Errorf("Expected cat@example.com, got %s", user.Email)
		}
	})

	t.Run("no token", func(t *testing.T) {
		w := serve(me, testutil.MakeRequest("GET", "/api/v1/auth/me", nil, nil))
		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})

	t.Run("deleted user", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/api/v1/auth/me", nil, testutil.AuthHeader(t, "gone"))
		w := serve(me, req)
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}

func TestCreateUser(t *testing.T) {
	st := newTestStore(t)
	handler := NewUserHandler(st, testutil.GetTestConfig())

	valid := models.CreateUserRequest{
		Username:  "dana",
		Email:     "dana@example.com",
		Password:  "long-enough",
		FirstName: "Dana",
		LastName:  "Scully",
	}

	t.Run("created with defaults", func(t *testing.T) {
		w := serve(handler.CreateUser, testutil.MakeRequest("POST", "/api/v1/users/", valid, nil))
		testutil.AssertStatus(t, w, http.StatusCreated)

		var user models.User
		testutil.AssertJSON(t, w, &user)
		if user.ID == "" {
			t.Error("Expected an id")
		}
		if user.RoleID != DefaultRoleID || user.DepartmentID != DefaultDepartmentID {
			t.Errorf("Expected default role and department, got %d/%d", user.RoleID, user.DepartmentID)
		}
		if !user.Status {
			t.Error("Expected new user to be active")
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		dup := valid
		dup.Username = "dana2"
		w := serve(handler.CreateUser, testutil.MakeRequest("POST", "/api/v1/users/", dup, nil))
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("short password", func(t *testing.T) {
		bad := valid
		bad.Email = "other@example.com"
		bad.Username = "other"
		bad.Password = "short"
		w := serve(handler.CreateUser, testutil.MakeRequest("POST", "/api/v1/users/", bad, nil))
		testutil.AssertStatus(t, w, http.StatusBadRequest)

		var resp models.ErrorResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.Message != "password must be at least 8" {
			t.Errorf("Unexpected message %q", resp.Message)
		}
	})

	t.Run("password is never returned", func(t *testing.T) {
		w := serve(handler.ListUsers, testutil.MakeRequest("GET", "/api/v1/users/", nil, nil))
		testutil.AssertStatus(t, w, http.StatusOK)

		var users []map[string]interface{}
		testutil.AssertJSON(t, w, &users)
		if len(users) != 1 {
			t.Fatalf("Expected 1 user, got %d", len(users))
		}
		if _, ok := users[0]["hashed_password"]; ok {
			t.Error("hashed_password leaked")
		}
	})
}

func TestListUsersPaging(t *testing.T) {
	st := newTestStore(t)
	handler := NewUserHandler(st, testutil.GetTestConfig())

	for _, name := range []string{"a", "b", "c"} {
		testutil.CreateTestUser(t, st.DB(), name, name+"@example.com", "password123")
	}

	tests := []struct {
		query          string
		expectedStatus int
		expectedCount  int
	}{
		{"", http.StatusOK, 3},
		{"?skip=1", http.StatusOK, 2},
		{"?limit=1", http.StatusOK, 1},
		{"?skip=5", http.StatusOK, 0},
		{"?limit=-1", http.StatusBadRequest, 0},
		{"?skip=abc", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := serve(handler.ListUsers, testutil.MakeRequest("GET", "/api/v1/users/"+tt.query, nil, nil))
			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus != http.StatusOK {
				return
			}
			var users []models.User
			testutil.AssertJSON(t, w, &users)
			if len(users) != tt.expectedCount {
				t.Errorf("Expected %d users, got %d", tt.expectedCount, len(users))
			}
		})
	}
}
