// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

// clearEnv blanks every setting so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, s := range settings {
		t.Setenv(s.env, "")
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := ParseFlags([]string{"--env-file", ""})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != DefaultPort {
		t.Errorf("expected port %d, got %d", DefaultPort, cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" || cfg.DatabaseURL != DefaultSQLiteURL {
		t.Errorf("unexpected database defaults: %s %s", cfg.DatabaseType, cfg.DatabaseURL)
	}
	if cfg.MetaAccountID != DefaultMetaAccount {
		t.Errorf("expected meta account %s, got %s", DefaultMetaAccount, cfg.MetaAccountID)
	}
	if cfg.CampaignStaleAfter != 10*time.Minute {
		t.Errorf("expected 10m staleness, got %v", cfg.CampaignStaleAfter)
	}
	if cfg.SnapshotBackend != SnapshotFile || cfg.SnapshotFile != DefaultSnapshotFile {
		t.Errorf("unexpected snapshot defaults: %s %s", cfg.SnapshotBackend, cfg.SnapshotFile)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("expected CORS origins [*], got %v", cfg.CORSOrigins)
	}
	if cfg.RequireAuth {
		t.Error("expected auth to be optional by default")
	}
}

func TestParseFlags_EnvVars(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("REQUIRE_AUTH", "true")
	t.Setenv("CAMPAIGN_STALE_AFTER", "30m")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("META_ACCESS_TOKEN", "meta-token")

	cfg, err := ParseFlags([]string{"--env-file", ""})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "postgres" || cfg.DatabaseURL != "postgres://test" {
		t.Errorf("unexpected database config: %s %s", cfg.DatabaseType, cfg.DatabaseURL)
	}
	if !cfg.RequireAuth {
		t.Error("expected REQUIRE_AUTH to enable auth")
	}
	if cfg.CampaignStaleAfter != 30*time.Minute {
		t.Errorf("expected 30m, got %v", cfg.CampaignStaleAfter)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example.com" {
		t.Errorf("unexpected CORS origins %v", cfg.CORSOrigins)
	}
	if cfg.MetaAccessToken != "meta-token" {
		t.Errorf("expected meta token from env, got %q", cfg.MetaAccessToken)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "--jwt-secret", "s1", "--env-file", ""})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.DatabaseURL != "file:test.db" {
		t.Errorf("expected file:test.db, got %s", cfg.DatabaseURL)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"missing jwt secret", nil, nil},
		{"invalid port env", map[string]string{"PORT": "abc", "JWT_SECRET": "x"}, nil},
		{"port out of range", map[string]string{"JWT_SECRET": "x"}, []string{"-p", "70000"}},
		{"postgres without url", map[string]string{"JWT_SECRET": "x", "DATABASE_TYPE": "postgres"}, nil},
		{"unknown database type", map[string]string{"JWT_SECRET": "x"}, []string{"-t", "mysql"}},
		{"redis without url", map[string]string{"JWT_SECRET": "x", "SNAPSHOT_BACKEND": "redis"}, nil},
		{"unknown snapshot backend", map[string]string{"JWT_SECRET": "x"}, []string{"--snapshot", "s3"}},
		{"bad duration", map[string]string{"JWT_SECRET": "x", "CRM_SYNC_INTERVAL": "soon"}, nil},
		{"zero staleness", map[string]string{"JWT_SECRET": "x"}, []string{"--campaign-stale-after", "0s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			args := append([]string{"--env-file", ""}, tt.args...)
			if _, err := ParseFlags(args); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestResolve_WithoutSecret(t *testing.T) {
	clearEnv(t)

	var cfg Config
	fs := pflag.NewFlagSet("sync", pflag.ContinueOnError)
	Bind(fs, &cfg)
	if err := fs.Parse(nil); err != nil {
		t.Fatal(err)
	}

	if _, err := Resolve(fs, &cfg, false); err != nil {
		t.Fatalf("sync commands should not need a JWT secret: %v", err)
	}
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("JWT_SECRET=from-file\nHUBSPOT_ACCESS_TOKEN=hs\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// Variables already present win over the file.
	t.Setenv("HUBSPOT_ACCESS_TOKEN", "from-env")
	os.Unsetenv("JWT_SECRET")

	cfg, err := ParseFlags([]string{"--env-file", path})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.JWTSecret != "from-file" {
		t.Errorf("expected secret from .env, got %q", cfg.JWTSecret)
	}
	if cfg.HubSpotAccessToken != "from-env" {
		t.Errorf("environment should win over .env, got %q", cfg.HubSpotAccessToken)
	}

	if err := LoadEnvFile(filepath.Join(dir, "missing.env")); err != nil {
		t.Errorf("missing env file should be ignored: %v", err)
	}
}
