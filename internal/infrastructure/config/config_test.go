package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "splitfin-intelligence", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "splitfin", cfg.Database.DBName)
		assert.True(t, cfg.Redis.Enabled)
		assert.Equal(t, 5*time.Second, cfg.Pricing.TierTimeout)
		assert.Equal(t, 10, cfg.Pricing.MaxBatch)
		assert.Equal(t, 8, cfg.Pricing.ScrapeResultLimit)
		assert.Equal(t, 6*time.Hour, cfg.Pricing.CacheTTL)
		assert.True(t, cfg.Pricing.Scrape.Enabled)
		assert.Empty(t, cfg.Pricing.Shopping.APIKey)
		assert.Equal(t, 30*time.Second, cfg.Completion.Timeout)
		assert.False(t, cfg.Intelligence.RestrictToAllowedBrands)
		assert.False(t, cfg.Auth.Enabled())
	})

	t.Run("loads values from environment variables with SPLITFIN prefix", func(t *testing.T) {
		t.Setenv("SPLITFIN_APP_PORT", "9000")
		t.Setenv("SPLITFIN_DATABASE_HOST", "testdb.local")
		t.Setenv("SPLITFIN_DATABASE_PORT", "5433")
		t.Setenv("SPLITFIN_REDIS_ENABLED", "false")
		t.Setenv("SPLITFIN_PRICING_MAX_BATCH", "25")
		t.Setenv("SPLITFIN_PRICING_TIER_TIMEOUT", "3s")
		t.Setenv("SPLITFIN_PRICING_SHOPPING_API_KEY", "serp-key")
		t.Setenv("SPLITFIN_COMPLETION_MODEL", "gpt-4o")
		t.Setenv("SPLITFIN_INTELLIGENCE_RESTRICT_TO_ALLOWED_BRANDS", "true")
		t.Setenv("SPLITFIN_INTELLIGENCE_ALLOWED_BRANDS", "Rader, My Flame ,,Relaxound")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.False(t, cfg.Redis.Enabled)
		assert.Equal(t, 25, cfg.Pricing.MaxBatch)
		assert.Equal(t, 3*time.Second, cfg.Pricing.TierTimeout)
		assert.Equal(t, "serp-key", cfg.Pricing.Shopping.APIKey)
		assert.Equal(t, "gpt-4o", cfg.Completion.Model)
		assert.True(t, cfg.Intelligence.RestrictToAllowedBrands)
		assert.Equal(t, []string{"Rader", "My Flame", "Relaxound"}, cfg.Intelligence.AllowedBrands)
	})

	t.Run("rejects a batch size above the hard ceiling", func(t *testing.T) {
		t.Setenv("SPLITFIN_PRICING_MAX_BATCH", "26")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pricing.max_batch")
	})
}

func validProductionConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.App.Env = "production"
	cfg.Database.Password = "secret"
	cfg.Database.SSLMode = "require"
	return cfg
}

func TestConfigValidate(t *testing.T) {
	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		cfg := &Config{}
		applyDefaults(cfg)
		cfg.Database.MaxOpenConns = 5
		cfg.Database.MaxIdleConns = 10

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		assert.NoError(t, validProductionConfig().validate())
	})

	t.Run("requires database.password in production", func(t *testing.T) {
		cfg := validProductionConfig()
		cfg.Database.Password = ""

		assert.ErrorContains(t, cfg.validate(), "database.password")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		cfg := validProductionConfig()
		cfg.Database.SSLMode = "disable"

		assert.ErrorContains(t, cfg.validate(), "sslmode")
	})

	t.Run("rejects wildcard CORS in production", func(t *testing.T) {
		cfg := validProductionConfig()
		cfg.HTTP.CORSAllowOrigins = []string{"*"}

		assert.ErrorContains(t, cfg.validate(), "cors_allow_origins")
	})

	t.Run("requires a long JWT secret in production when auth is on", func(t *testing.T) {
		cfg := validProductionConfig()
		cfg.Auth.JWTSecret = "short"

		assert.ErrorContains(t, cfg.validate(), "jwt_secret")
	})

	t.Run("requires a bucket when storage is enabled", func(t *testing.T) {
		cfg := &Config{}
		applyDefaults(cfg)
		cfg.Storage.Enabled = true

		assert.ErrorContains(t, cfg.validate(), "storage.bucket")
	})

	t.Run("rejects sampling ratio outside range", func(t *testing.T) {
		cfg := &Config{}
		applyDefaults(cfg)
		cfg.Telemetry.SamplingRatio = 1.5

		assert.ErrorContains(t, cfg.validate(), "sampling_ratio")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{Host: "localhost", Port: 5432, User: "postgres", Password: "pw", DBName: "splitfin", SSLMode: "disable"}

		assert.Equal(t, "postgres://postgres:pw@localhost:5432/splitfin?sslmode=disable", cfg.DSN())
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "splitfin", SSLMode: "require"}

		assert.Contains(t, cfg.DSN(), "p%40ss%2Fword")
	})
}
