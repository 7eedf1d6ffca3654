package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadUsesDefaultsAndYAMLOverrides(t *testing.T) {
	clearConfigEnv(t)

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	yaml := `
store:
  backend: postgres
postgres:
  dsn: postgres://u:p@db:5432/spark
  migrate: false
feed:
  default_limit: 10
rate:
  interests_per_10s: 12
cache:
  profile_ttl: 90s
bot:
  webapp_url: https://spark.example
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Store.Backend != StorePostgres {
		t.Fatalf("unexpected store backend: %s", cfg.Store.Backend)
	}
	if cfg.Postgres.DSN != "postgres://u:p@db:5432/spark" || cfg.Postgres.Migrate {
		t.Fatalf("unexpected postgres config: %+v", cfg.Postgres)
	}
	if cfg.Feed.DefaultLimit != 10 {
		t.Fatalf("unexpected feed default limit: %d", cfg.Feed.DefaultLimit)
	}
	if cfg.Rate.InterestsPer10Sec != 12 {
		t.Fatalf("expected 10s window from yaml, got %d", cfg.Rate.InterestsPer10Sec)
	}
	if cfg.Cache.ProfileTTL != 90*time.Second {
		t.Fatalf("unexpected profile ttl: %s", cfg.Cache.ProfileTTL)
	}
	if cfg.Bot.WebAppURL != "https://spark.example" {
		t.Fatalf("unexpected webapp url: %s", cfg.Bot.WebAppURL)
	}

	if cfg.Feed.MaxLimit != 50 {
		t.Fatalf("feed max_limit default should stay 50")
	}
	if cfg.Rate.InterestsPerMinute != 0 {
		t.Fatalf("rate interests_per_minute default should stay disabled")
	}
	if cfg.Log.Encoding != "json" {
		t.Fatalf("log encoding default should stay json")
	}
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load config with missing file: %v", err)
	}

	if cfg.Store.Backend != StoreMemory {
		t.Fatalf("unexpected default backend: %s", cfg.Store.Backend)
	}
	if cfg.Feed.DefaultLimit != 20 || cfg.Feed.MaxLimit != 50 {
		t.Fatalf("unexpected feed defaults: %+v", cfg.Feed)
	}
	if cfg.Redis.Addr != "" {
		t.Fatalf("redis should be disabled by default, got %q", cfg.Redis.Addr)
	}
	if cfg.Rate.InterestsPerMinute != 0 || cfg.Rate.InterestsPer10Sec != 0 {
		t.Fatalf("rate limiting should be opt-in, got %+v", cfg.Rate)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Fatalf("unexpected http addr: %s", cfg.HTTP.Addr)
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("STORE_BACKEND", "POSTGRES")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("RATE_INTERESTS_PER_MINUTE", "5")
	t.Setenv("PROFILE_CACHE_TTL", "1m")
	t.Setenv("LOG_ENCODING", "console")
	t.Setenv("POSTGRES_MIGRATE", "false")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Store.Backend != StorePostgres {
		t.Fatalf("expected env backend override, got %s", cfg.Store.Backend)
	}
	if cfg.Redis.Addr != "redis:6379" {
		t.Fatalf("unexpected redis addr: %s", cfg.Redis.Addr)
	}
	if cfg.Rate.InterestsPerMinute != 5 {
		t.Fatalf("unexpected per-minute rate: %d", cfg.Rate.InterestsPerMinute)
	}
	if cfg.Cache.ProfileTTL != time.Minute {
		t.Fatalf("unexpected profile ttl: %s", cfg.Cache.ProfileTTL)
	}
	if cfg.Log.Encoding != "console" || cfg.Postgres.Migrate {
		t.Fatalf("unexpected overrides: log=%s migrate=%v", cfg.Log.Encoding, cfg.Postgres.Migrate)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"STORE_BACKEND":      "sqlite",
		"FEED_MAX_LIMIT":     "0",
		"FEED_DEFAULT_LIMIT": "abc",
		"PROFILE_CACHE_TTL":  "soon",
		"LOG_ENCODING":       "xml",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearConfigEnv(t)
			t.Setenv(key, value)
			if _, err := Load(""); err == nil {
				t.Fatalf("expected error for %s=%s", key, value)
			}
		})
	}
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV",
		"HTTP_ADDR",
		"HTTP_READ_TIMEOUT",
		"HTTP_WRITE_TIMEOUT",
		"HTTP_IDLE_TIMEOUT",
		"LOG_LEVEL",
		"LOG_ENCODING",
		"STORE_BACKEND",
		"POSTGRES_DSN",
		"POSTGRES_MIGRATE",
		"REDIS_ADDR",
		"REDIS_PASSWORD",
		"REDIS_DB",
		"S3_ENDPOINT",
		"S3_ACCESS_KEY",
		"S3_SECRET_KEY",
		"S3_BUCKET",
		"S3_USE_SSL",
		"BOT_TOKEN",
		"WEBAPP_URL",
		"FEED_DEFAULT_LIMIT",
		"FEED_MAX_LIMIT",
		"RATE_INTERESTS_PER_MINUTE",
		"RATE_INTERESTS_PER_10S",
		"PROFILE_CACHE_TTL",
		"SNAPSHOT_PREFIX",
	} {
		t.Setenv(key, "")
	}
}
