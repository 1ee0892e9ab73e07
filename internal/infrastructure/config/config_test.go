package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "shopfront-exporter", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 2.0, cfg.Capture.Scale)
	assert.Equal(t, "images", cfg.Capture.WaitStrategy)
	assert.Equal(t, 30*time.Second, cfg.Capture.Timeout)
	assert.Equal(t, "A4", cfg.PDF.PaperSize)
	assert.Equal(t, "PORTRAIT", cfg.PDF.Orientation)
	assert.Equal(t, "10mm", cfg.PDF.Margin)
	assert.Equal(t, "clip", cfg.PDF.Strategy)
	assert.True(t, cfg.PDF.ShippingFeeAsFree)
	assert.Equal(t, "filesystem", cfg.Storage.Backend)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "exporter.db", cfg.Database.DSN)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("EXPORTER_APP_PORT", "9090")
	t.Setenv("EXPORTER_ORDERS_TOKEN", "secret-token")
	t.Setenv("EXPORTER_PDF_PAPER_SIZE", "LETTER")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "secret-token", cfg.Orders.Token)
	assert.Equal(t, "LETTER", cfg.PDF.PaperSize)
}

func TestLoadShippingFeeFlag(t *testing.T) {
	t.Run("defaults to the literal Free display", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.PDF.ShippingFeeAsFree)
	})

	t.Run("explicit false shows the numeric fee", func(t *testing.T) {
		t.Setenv("EXPORTER_PDF_SHIPPING_FEE_AS_FREE", "false")
		cfg, err := Load()
		require.NoError(t, err)
		assert.False(t, cfg.PDF.ShippingFeeAsFree)
	})
}

func TestLoadValidation(t *testing.T) {
	t.Run("rejects unknown storage backend", func(t *testing.T) {
		t.Setenv("EXPORTER_STORAGE_BACKEND", "ftp")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("rejects unknown database driver", func(t *testing.T) {
		t.Setenv("EXPORTER_DATABASE_DRIVER", "oracle")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("postgres requires a dsn", func(t *testing.T) {
		t.Setenv("EXPORTER_DATABASE_DRIVER", "postgres")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("production requires the orders base url", func(t *testing.T) {
		t.Setenv("EXPORTER_APP_ENV", "production")
		_, err := Load()
		assert.Error(t, err)
	})
}
