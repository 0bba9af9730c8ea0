package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg := Load()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "QT", cfg.Quotation.DefaultPrefix)
	assert.Equal(t, "KES", cfg.Quotation.DefaultCurrency)
	assert.Equal(t, 30, cfg.Quotation.DefaultValidityDays)
	assert.Equal(t, 3, cfg.Quotation.MaxAttempts)
	assert.Equal(t, 10*time.Millisecond, cfg.Quotation.MinBackoff)
	assert.Equal(t, 50*time.Millisecond, cfg.Quotation.MaxBackoff)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("QUOTATION_PREFIX", "INV")
	t.Setenv("QUOTATION_NUMBER_MAX_ATTEMPTS", "5")

	cfg := Load()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "INV", cfg.Quotation.DefaultPrefix)
	assert.Equal(t, 5, cfg.Quotation.MaxAttempts)
}

func TestValidate(t *testing.T) {
	base := Config{
		Database:  DatabaseConfig{Driver: "sqlite"},
		Quotation: QuotationConfig{MaxAttempts: 3, MinBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond},
	}
	require.NoError(t, base.Validate())

	badDriver := base
	badDriver.Database.Driver = "mysql"
	assert.Error(t, badDriver.Validate())

	noAttempts := base
	noAttempts.Quotation.MaxAttempts = 0
	assert.Error(t, noAttempts.Validate())

	inverted := base
	inverted.Quotation.MinBackoff = time.Second
	assert.Error(t, inverted.Validate())
}

func TestDSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", User: "u", Password: "p", Name: "n", Port: "5432", SSLMode: "disable", Timezone: "UTC"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC", c.DSN())
}
