package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "csv", cfg.PanelSource)
	assert.Equal(t, 100, cfg.IsoForestTrees)
	assert.Equal(t, 256, cfg.IsoForestSampleSize)
	assert.InDelta(t, 0.10, cfg.IsoForestContamination, 1e-12)
	assert.Equal(t, int64(42), cfg.IsoForestSeed)
	assert.Equal(t, 4, cfg.STLSeasonalPeriod)
	assert.InDelta(t, 2.5, cfg.STLMultiplier, 1e-12)
	assert.InDelta(t, 0.95, cfg.ForecastIntervalWidth, 1e-12)
	assert.Equal(t, 1, cfg.ForecastFourierOrder)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadOverridesFromEnvironment(t *testing.T) {
	t.Setenv("PANEL_SOURCE", "postgres")
	t.Setenv("ISOFOREST_TREES", "250")
	t.Setenv("ISOFOREST_CONTAMINATION", "0.05")
	t.Setenv("STL_MULTIPLIER", "3.0")
	t.Setenv("ISOFOREST_SEED", "7")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.PanelSource)
	assert.Equal(t, 250, cfg.IsoForestTrees)
	assert.InDelta(t, 0.05, cfg.IsoForestContamination, 1e-12)
	assert.InDelta(t, 3.0, cfg.STLMultiplier, 1e-12)
	assert.Equal(t, int64(7), cfg.IsoForestSeed)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("ISOFOREST_TREES", "many")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.IsoForestTrees)
}
