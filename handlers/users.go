// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/keystone-adops/auth"
	"github.com/danielhkuo/keystone-adops/cliparse"
	"github.com/danielhkuo/keystone-adops/middleware"
	"github.com/danielhkuo/keystone-adops/models"
	"github.com/danielhkuo/keystone-adops/store"
)

// Role and department given to users created without one.
const (
	DefaultRoleID       = 1
	DefaultDepartmentID = 1
)

type UserHandler struct {
	store *store.Store
	cfg   cliparse.Config
}

func NewUserHandler(st *store.Store, cfg cliparse.Config) *UserHandler {
	return &UserHandler{store: st, cfg: cfg}
}

// Login handles POST /api/v1/auth/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decode(w, r, &req) {
		return
	}

	user, err := h.store.GetUserByEmail(r.Context(), req.Email)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Incorrect email or password")
		return
	}
	if err != nil {
		dbError(w, err, "user")
		return
	}

	if err := auth.CheckPassword(user.HashedPassword, req.Password); err != nil {
		slog.Info("login rejected", "user_id", user.ID)
		middleware.ErrorResponse(w, http.StatusBadRequest, "Incorrect email or password")
		return
	}
	if !user.Status {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Inactive user")
		return
	}

	now := time.Now()
	token, err := auth.IssueToken(h.cfg.JWTSecret, user.ID, user.Email, h.cfg.JWTTTL, now)
	if err != nil {
		slog.Error("failed to issue token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	if err := h.store.TouchLastLogin(r.Context(), user.ID, now); err != nil {
		slog.Warn("failed to record last login", "user_id", user.ID, "error", err)
	}

	slog.Info("user logged in", "user_id", user.ID)
	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Token:    token,
	})
}

// Me handles GET /api/v1/auth/me. It must sit behind RequireAuth.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Missing bearer token")
		return
	}

	user, err := h.store.GetUserByID(r.Context(), userID)
	if err != nil {
		dbError(w, err, "User")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, user)
}

// ListUsers handles GET /api/v1/users/
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := skipLimit(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	users, err := h.store.ListUsers(r.Context(), skip, limit)
	if err != nil {
		dbError(w, err, "users")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, users)
}

// CreateUser handles POST /api/v1/users/
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if !decode(w, r, &req) {
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	now := time.Now().UTC()
	user := models.User{
		ID:             auth.NewID(),
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: hash,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		JobTitle:       req.JobTitle,
		RoleID:         req.RoleID,
		DepartmentID:   req.DepartmentID,
		Status:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if user.RoleID == 0 {
		user.RoleID = DefaultRoleID
	}
	if user.DepartmentID == 0 {
		user.DepartmentID = DefaultDepartmentID
	}

	err = h.store.CreateUser(r.Context(), user)
	if errors.Is(err, store.ErrDuplicate) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "A user with this email or username already exists")
		return
	}
	if err != nil {
		dbError(w, err, "user")
		return
	}

	slog.Info("user created", "user_id", user.ID, "username", user.Username)
	middleware.JSONResponse(w, http.StatusCreated, user)
}
