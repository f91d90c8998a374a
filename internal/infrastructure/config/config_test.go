package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "localhost", cfg.Redis.Host)

	assert.Equal(t, 3, cfg.Billing.MaxRetries)
	assert.Equal(t, 60*time.Second, cfg.Billing.RetryBackoff)
	assert.Equal(t, "0 8 1 * *", cfg.Billing.SchedulerCron)
	assert.Equal(t, 1, cfg.Billing.ChargeConcurrency)
	assert.Equal(t, 5*time.Minute, cfg.Billing.LockTTL)
	assert.False(t, cfg.Billing.RunOnStart)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load()
		require.NoError(t, err)
		return cfg
	}

	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("negative max retries", func(t *testing.T) {
		cfg := valid()
		cfg.Billing.MaxRetries = -1
		assert.Error(t, cfg.Validate())
	})

	t.Run("zero charge concurrency", func(t *testing.T) {
		cfg := valid()
		cfg.Billing.ChargeConcurrency = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("invalid cron expression", func(t *testing.T) {
		cfg := valid()
		cfg.Billing.SchedulerCron = "not a cron"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "scheduler_cron")
	})

	t.Run("out of range port", func(t *testing.T) {
		cfg := valid()
		cfg.Server.Port = 70000
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing database host", func(t *testing.T) {
		cfg := valid()
		cfg.Database.Host = ""
		assert.Error(t, cfg.Validate())
	})
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "billing",
		Password: "secret",
		Database: "billing",
		SSLMode:  "require",
	}
	assert.Equal(t,
		"host=db.internal port=5433 user=billing password=secret dbname=billing sslmode=require",
		cfg.DatabaseDSN(),
	)
}

func TestRedisAddr(t *testing.T) {
	cfg := RedisConfig{Host: "cache.internal", Port: 6380}
	assert.Equal(t, "cache.internal:6380", cfg.RedisAddr())
}
