package config_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/factory-trace/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, config.StorageJSON, cfg.Storage.Mode)
	assert.Equal(t, int64(42), cfg.Generate.Seed)
	assert.Equal(t, 30, cfg.Generate.Days)
	assert.True(t, cfg.Trace.DefectCost.Equal(decimal.RequireFromString("50.00")))
	assert.Equal(t, 400, cfg.Trace.PartsPerBatch)
	assert.InDelta(t, 0.95, cfg.Metrics.PerformanceFactor, 0.001)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("FACTORY_HTTP_PORT", "9090")
	t.Setenv("FACTORY_STORAGE_MODE", "sqlite")
	t.Setenv("FACTORY_SEED", "1337")
	t.Setenv("FACTORY_DEFECT_COST", "75.50")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, config.StorageSQLite, cfg.Storage.Mode)
	assert.Equal(t, int64(1337), cfg.Generate.Seed)
	assert.True(t, cfg.Trace.DefectCost.Equal(decimal.RequireFromString("75.50")))
}

func TestLoad_InvalidStorageMode_Rejected(t *testing.T) {
	t.Setenv("FACTORY_STORAGE_MODE", "postgres")

	_, err := config.Load()
	assert.ErrorContains(t, err, "FACTORY_STORAGE_MODE")
}

func TestLoad_InvalidDefectCost_Rejected(t *testing.T) {
	t.Setenv("FACTORY_DEFECT_COST", "not-money")

	_, err := config.Load()
	assert.ErrorContains(t, err, "FACTORY_DEFECT_COST")
}
