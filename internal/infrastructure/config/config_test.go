package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	envKeys := []string{
		"STAFFPOINT_APP_NAME",
		"STAFFPOINT_APP_ENV",
		"STAFFPOINT_APP_PORT",
		"STAFFPOINT_DATABASE_HOST",
		"STAFFPOINT_DATABASE_PASSWORD",
		"STAFFPOINT_DATABASE_SSLMODE",
		"STAFFPOINT_REGISTRY_HOST",
		"STAFFPOINT_REGISTRY_DBNAME",
		"STAFFPOINT_JWT_SECRET",
		"STAFFPOINT_OTP_TTL",
		"STAFFPOINT_SMS_ENABLED",
	}

	clearEnv := func() {
		for _, k := range envKeys {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "staffpoint-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "staffpoint", cfg.Database.DBName)
		assert.Equal(t, "personnel_registry", cfg.Registry.DBName)
		assert.Equal(t, "registry_reader", cfg.Registry.User)
		assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiration)
		assert.Equal(t, 5*time.Minute, cfg.OTP.TTL)
		assert.Equal(t, 10*time.Second, cfg.SMS.Timeout)
		assert.False(t, cfg.SMS.Enabled)
		assert.Equal(t, "info", cfg.Log.Level)
	})

	t.Run("environment variables override defaults", func(t *testing.T) {
		clearEnv()
		t.Setenv("STAFFPOINT_APP_NAME", "staffpoint-test")
		t.Setenv("STAFFPOINT_DATABASE_HOST", "db.internal")
		t.Setenv("STAFFPOINT_REGISTRY_HOST", "registry.internal")
		t.Setenv("STAFFPOINT_OTP_TTL", "3m")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "staffpoint-test", cfg.App.Name)
		assert.Equal(t, "db.internal", cfg.Database.Host)
		assert.Equal(t, "registry.internal", cfg.Registry.Host)
		assert.Equal(t, 3*time.Minute, cfg.OTP.TTL)
	})

	t.Run("production requires jwt secret", func(t *testing.T) {
		clearEnv()
		t.Setenv("STAFFPOINT_APP_ENV", "production")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret")
	})

	t.Run("rejects otp ttl below one minute", func(t *testing.T) {
		clearEnv()
		t.Setenv("STAFFPOINT_OTP_TTL", "10s")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "otp.ttl")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "p@ss/word",
		DBName:   "staffpoint",
		SSLMode:  "disable",
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "localhost:5432")
	assert.Contains(t, dsn, "sslmode=disable")
	assert.NotContains(t, dsn, "p@ss/word") // special characters escaped
}

func TestRegistryConfig_DSN(t *testing.T) {
	cfg := RegistryConfig{
		Host:    "registry.internal",
		Port:    5432,
		User:    "registry_reader",
		DBName:  "personnel_registry",
		SSLMode: "require",
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "registry.internal:5432")
	assert.Contains(t, dsn, "default_transaction_read_only=on")
}
