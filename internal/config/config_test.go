package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldops/internal/core/types"
	"fieldops/internal/domain/tariffs"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
postgres:
  dsn: postgres://localhost/fieldops
auth:
  jwt_secret: test-secret
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "fieldops", cfg.App.Name)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, int32(25), cfg.Postgres.MaxConns)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoadRequiresDSN(t *testing.T) {
	path := writeConfig(t, `
auth:
  jwt_secret: test-secret
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres.dsn")
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	path := writeConfig(t, `
postgres:
  dsn: postgres://localhost/fieldops
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth.jwt_secret")
}

func TestTariffTableOverrides(t *testing.T) {
	path := writeConfig(t, `
postgres:
  dsn: postgres://localhost/fieldops
auth:
  jwt_secret: test-secret
billing:
  tariffs:
    IT:
      hourly_rate: "65.00"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	table, err := cfg.TariffTable()
	require.NoError(t, err)

	it := table.For(tariffs.CategoryIT)
	assert.True(t, it.HourlyRate.Equal(types.MustMoney("65.00")))
	// Call rate keeps the default when not overridden.
	assert.True(t, it.CallRate.Equal(types.MustMoney("30.00")))

	// Untouched categories keep the standard rates.
	maint := table.For(tariffs.CategoryMaintenance)
	assert.True(t, maint.HourlyRate.Equal(types.MustMoney("50.00")))
}

func TestTariffTableRejectsUnknownCategory(t *testing.T) {
	path := writeConfig(t, `
postgres:
  dsn: postgres://localhost/fieldops
auth:
  jwt_secret: test-secret
billing:
  tariffs:
    Plumbing:
      hourly_rate: "10.00"
`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestTariffTableRejectsBadDecimal(t *testing.T) {
	path := writeConfig(t, `
postgres:
  dsn: postgres://localhost/fieldops
auth:
  jwt_secret: test-secret
billing:
  tariffs:
    IT:
      hourly_rate: "not-a-number"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hourly_rate")
}
