// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported database types
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// DriverName maps a configured database type onto a registered driver.
func DriverName(dbType string) (string, error) {
	switch strings.ToLower(dbType) {
	case "", TypeSQLite, "sqlite3":
		return "sqlite", nil
	case TypePostgres, "postgresql", "pg":
		return "postgres", nil
	default:
		return "", fmt.Errorf("unsupported database type %q (want sqlite or postgres)", dbType)
	}
}

// Open connects and pings the database. SQLite connections get foreign
// keys and a busy timeout, and are limited to one writer.
func Open(ctx context.Context, dbType, url string) (*sqlx.DB, error) {
	driver, err := DriverName(dbType)
	if err != nil {
		return nil, err
	}

	dsn := url
	if driver == "sqlite" {
		dsn = sqliteDSN(url)
	}

	conn, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if driver == "sqlite" {
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(20)
		conn.SetMaxIdleConns(5)
		conn.SetConnMaxIdleTime(5 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return conn, nil
}

func sqliteDSN(url string) string {
	pragmas := "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
	if strings.Contains(url, "_pragma=") {
		return url
	}
	if strings.Contains(url, "?") {
		return url + "&" + pragmas
	}
	return url + "?" + pragmas
}
