// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/danielhkuo/keystone-adops/models"
)

// CreateUser inserts a user. A taken email or username returns ErrDuplicate.
func (s *Store) CreateUser(ctx context.Context, u models.User) error {
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO users (id, username, email, hashed_password, first_name, last_name,
			job_title, role_id, department_id, status, created_at, updated_at)
		VALUES (:id, :username, :email, :hashed_password, :first_name, :last_name,
			:job_title, :role_id, :department_id, :status, :created_at, :updated_at)
	`, u)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	if err := s.get(ctx, &u, `SELECT * FROM users WHERE email = ?`, email); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (models.User, error) {
	var u models.User
	if err := s.get(ctx, &u, `SELECT * FROM users WHERE id = ?`, id); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) ListUsers(ctx context.Context, offset, limit int) ([]models.User, error) {
	users := []models.User{}
	err := s.selectAll(ctx, &users, `SELECT * FROM users ORDER BY created_at, id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// TouchLastLogin records a successful login.
func (s *Store) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	res, err := s.exec(ctx, `UPDATE users SET last_login = ?, updated_at = ? WHERE id = ?`, at.UTC(), at.UTC(), id)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return mustAffect(res)
}
