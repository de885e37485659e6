// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Snapshot backends
const (
	SnapshotFile  = "file"
	SnapshotRedis = "redis"
	SnapshotNone  = "none"
)

// Defaults
const (
	DefaultPort            = 8000
	DefaultSQLiteURL       = "file:keystone.db"
	DefaultMetaAccount     = "act_162214292"
	DefaultMetaBaseURL     = "https://graph.facebook.com"
	DefaultMetaVersion     = "v19.0"
	DefaultHubSpotAccount  = "179140854579"
	DefaultHubSpotBaseURL  = "https://api.hubapi.com"
	DefaultStaleAfter      = 10 * time.Minute
	DefaultCRMSyncInterval = 10 * time.Minute
	DefaultJWTTTL          = 24 * time.Hour
	DefaultSnapshotFile    = "cached_campaigns.json"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string

	JWTSecret   string
	JWTTTL      time.Duration
	RequireAuth bool

	MetaAccessToken string
	MetaAccountID   string
	MetaBaseURL     string
	MetaAPIVersion  string

	HubSpotAccessToken string
	HubSpotAccountID   string
	HubSpotBaseURL     string

	EventsFeedURL string

	CampaignStaleAfter time.Duration
	CRMSyncInterval    time.Duration

	SnapshotBackend string
	SnapshotFile    string
	RedisURL        string

	BenchmarksFile string

	LogLevel string
	LogFile  string

	CORSOrigins []string

	EnvFile string
}

// setting ties a flag to its environment variable.
type setting struct {
	flag string
	env  string
}

var settings = []setting{
	{"port", "PORT"},
	{"database-url", "DATABASE_URL"},
	{"database-type", "DATABASE_TYPE"},
	{"jwt-secret", "JWT_SECRET"},
	{"jwt-ttl", "JWT_TTL"},
	{"require-auth", "REQUIRE_AUTH"},
	{"meta-token", "META_ACCESS_TOKEN"},
	{"meta-account", "AD_ACCOUNT_ID"},
	{"meta-base-url", "META_BASE_URL"},
	{"meta-version", "META_API_VERSION"},
	{"hubspot-token", "HUBSPOT_ACCESS_TOKEN"},
	{"hubspot-account", "HUBSPOT_ACCOUNT_ID"},
	{"hubspot-base-url", "HUBSPOT_BASE_URL"},
	{"events-url", "EVENTS_FEED_URL"},
	{"campaign-stale-after", "CAMPAIGN_STALE_AFTER"},
	{"crm-sync-interval", "CRM_SYNC_INTERVAL"},
	{"snapshot", "SNAPSHOT_BACKEND"},
	{"snapshot-file", "SNAPSHOT_FILE"},
	{"redis-url", "REDIS_URL"},
	{"benchmarks", "BENCHMARKS_FILE"},
	{"log-level", "LOG_LEVEL"},
	{"log-file", "LOG_FILE"},
	{"cors-origins", "CORS_ORIGINS"},
}

// Bind registers every setting on fs, writing parsed values into cfg.
// Secrets are accepted as flags for local development but are better
// supplied through the environment.
func Bind(fs *pflag.FlagSet, cfg *Config) {
	fs.IntVarP(&cfg.Port, "port", "p", DefaultPort, "Server port")
	fs.StringVarP(&cfg.DatabaseURL, "database-url", "d", "", "Database URL (default "+DefaultSQLiteURL+" for sqlite)")
	fs.StringVarP(&cfg.DatabaseType, "database-type", "t", "sqlite", "Database type (sqlite or postgres)")

	fs.StringVar(&cfg.JWTSecret, "jwt-secret", "", "Session token signing secret (prefer env)")
	fs.DurationVar(&cfg.JWTTTL, "jwt-ttl", DefaultJWTTTL, "Session token lifetime")
	fs.BoolVar(&cfg.RequireAuth, "require-auth", false, "Require a bearer token on write endpoints")

	fs.StringVar(&cfg.MetaAccessToken, "meta-token", "", "Meta Graph API access token (prefer env)")
	fs.StringVar(&cfg.MetaAccountID, "meta-account", DefaultMetaAccount, "Meta ad account id")
	fs.StringVar(&cfg.MetaBaseURL, "meta-base-url", DefaultMetaBaseURL, "Meta Graph API base URL")
	fs.StringVar(&cfg.MetaAPIVersion, "meta-version", DefaultMetaVersion, "Meta Graph API version")

	fs.StringVar(&cfg.HubSpotAccessToken, "hubspot-token", "", "HubSpot private app token (prefer env)")
	fs.StringVar(&cfg.HubSpotAccountID, "hubspot-account", DefaultHubSpotAccount, "HubSpot portal id")
	fs.StringVar(&cfg.HubSpotBaseURL, "hubspot-base-url", DefaultHubSpotBaseURL, "HubSpot API base URL")

	fs.StringVar(&cfg.EventsFeedURL, "events-url", "", "Legacy events stats feed URL")

	fs.DurationVar(&cfg.CampaignStaleAfter, "campaign-stale-after", DefaultStaleAfter, "Refresh campaigns older than this")
	fs.DurationVar(&cfg.CRMSyncInterval, "crm-sync-interval", DefaultCRMSyncInterval, "Minimum time between CRM syncs")

	fs.StringVar(&cfg.SnapshotBackend, "snapshot", SnapshotFile, "Campaign snapshot backend (file, redis or none)")
	fs.StringVar(&cfg.SnapshotFile, "snapshot-file", DefaultSnapshotFile, "Campaign snapshot file")
	fs.StringVar(&cfg.RedisURL, "redis-url", "", "Redis URL for the redis snapshot backend")

	fs.StringVar(&cfg.BenchmarksFile, "benchmarks", "", "Prediction benchmarks YAML file")

	fs.StringVar(&cfg.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFile, "log-file", "", "Log file (rotated); stdout when empty")

	fs.StringSliceVar(&cfg.CORSOrigins, "cors-origins", []string{"*"}, "Allowed CORS origins")

	fs.StringVar(&cfg.EnvFile, "env-file", ".env", "Dotenv file loaded before reading the environment")
}

// LoadEnvFile loads a dotenv file without overriding variables already set.
// A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Resolve fills every flag the user did not set from its environment
// variable, then validates the result. cfg must be the Config that was
// passed to Bind for fs. needSecret requires JWT_SECRET, which only the
// HTTP server uses.
func Resolve(fs *pflag.FlagSet, cfg *Config, needSecret bool) (Config, error) {
	for _, s := range settings {
		if fs.Changed(s.flag) {
			continue
		}
		val, ok := os.LookupEnv(s.env)
		if !ok || val == "" {
			continue
		}
		if s.flag == "cors-origins" {
			cfg.CORSOrigins = splitList(val)
			continue
		}
		if err := fs.Set(s.flag, val); err != nil {
			return Config{}, fmt.Errorf("invalid %s env variable: %w", s.env, err)
		}
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid port %d", cfg.Port)
	}

	cfg.DatabaseType = strings.ToLower(cfg.DatabaseType)
	switch cfg.DatabaseType {
	case "sqlite":
		if cfg.DatabaseURL == "" {
			cfg.DatabaseURL = DefaultSQLiteURL
		}
	case "postgres":
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("database URL required for postgres (use -d or DATABASE_URL env)")
		}
	default:
		return Config{}, fmt.Errorf("unsupported database type %q (want sqlite or postgres)", cfg.DatabaseType)
	}

	switch cfg.SnapshotBackend {
	case SnapshotFile:
		if cfg.SnapshotFile == "" {
			return Config{}, errors.New("snapshot file required for the file snapshot backend")
		}
	case SnapshotRedis:
		if cfg.RedisURL == "" {
			return Config{}, errors.New("REDIS_URL required for the redis snapshot backend")
		}
	case SnapshotNone:
	default:
		return Config{}, fmt.Errorf("unknown snapshot backend %q (want file, redis or none)", cfg.SnapshotBackend)
	}

	if cfg.CampaignStaleAfter <= 0 {
		return Config{}, errors.New("campaign staleness window must be positive")
	}
	if cfg.CRMSyncInterval < 0 {
		return Config{}, errors.New("CRM sync interval must not be negative")
	}
	if cfg.JWTTTL <= 0 {
		return Config{}, errors.New("JWT lifetime must be positive")
	}

	// Secrets - MUST be provided
	if needSecret && cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET required")
	}

	return *cfg, nil
}

// ParseFlags parses args for the HTTP server: flags, then the dotenv file,
// then environment fallbacks.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := pflag.NewFlagSet("keystone", pflag.ContinueOnError)
	Bind(fs, &cfg)

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if err := LoadEnvFile(cfg.EnvFile); err != nil {
		return Config{}, err
	}

	return Resolve(fs, &cfg, true)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// PortString is the listen address for the configured port.
func (c Config) PortString() string {
	return ":" + strconv.Itoa(c.Port)
}
