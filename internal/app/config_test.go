package app

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv clears keys for the test so envconfig falls back to defaults.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

var configKeys = []string{
	"DB_DRIVER", "DATABASE_URL", "QUOTATION_STORE", "QUEUE_ENABLED", "DISPATCH_CONCURRENCY",
	"DIGISAC_TIMEOUT", "DIGISAC_RECIPIENT_MODE", "RATE_LIMIT_PER_MINUTE",
}

func TestLoadConfigDefaults(t *testing.T) {
	unsetEnv(t, configKeys...)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, defaultSQLitePath, cfg.DSN())
	assert.Equal(t, StoreMemory, cfg.QuotationStore)
	assert.Equal(t, 1, cfg.DispatchConcurrency)
	assert.Equal(t, time.Duration(0), cfg.DigisacTimeout)
	assert.False(t, cfg.QueueEnabled)
}

func TestLoadConfigOverrides(t *testing.T) {
	unsetEnv(t, configKeys...)
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://cotacao@localhost/cotacao")
	t.Setenv("DIGISAC_TIMEOUT", "10s")
	t.Setenv("DISPATCH_CONCURRENCY", "4")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "postgres://cotacao@localhost/cotacao", cfg.DSN())
	assert.Equal(t, 10*time.Second, cfg.DigisacTimeout)
	assert.Equal(t, 4, cfg.DispatchConcurrency)
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{
		DBDriver:             "mysql",
		QuotationStore:       "disk",
		DigisacRecipientMode: "email",
		DispatchConcurrency:  0,
	}
	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"DB_DRIVER", "QUOTATION_STORE", "DIGISAC_RECIPIENT_MODE", "DISPATCH_CONCURRENCY"} {
		assert.Contains(t, err.Error(), want)
	}

	cfg = Config{DBDriver: DriverPostgres, QuotationStore: StoreRedis, DigisacRecipientMode: "contact", DispatchConcurrency: 1}
	assert.ErrorContains(t, cfg.Validate(), "DATABASE_URL")
}

func TestInTestMode(t *testing.T) {
	t.Setenv(TestModeEnv, "1")
	assert.True(t, InTestMode())
	t.Setenv(TestModeEnv, "")
	assert.False(t, InTestMode())
}
