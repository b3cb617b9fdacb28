package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bsmodel.toml"), []byte(body), 0o600))
	return dir
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)

	require.Equal(t, 100.0, cfg.Defaults.Spot)
	require.Equal(t, 100.0, cfg.Defaults.Strike)
	require.Equal(t, 1.0, cfg.Defaults.TimeToMaturity)
	require.Equal(t, 0.2, cfg.Defaults.Volatility)
	require.Equal(t, 0.05, cfg.Defaults.InterestRate)
	require.Equal(t, 10, cfg.Surface.Points)
	require.Equal(t, 0.8, cfg.Surface.SpotLowFactor)
	require.Equal(t, 1.5, cfg.Surface.VolHighFactor)
	require.Equal(t, "table", cfg.Output.Format)
	require.Equal(t, 2, cfg.Output.Precision)
}

func TestLoadReadsFile(t *testing.T) {
	dir := writeConfig(t, `
[defaults]
spot = 250.5
volatility = 0.35

[surface]
points = 6
workers = 2

[output]
format = "json"
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, 250.5, cfg.Defaults.Spot)
	require.Equal(t, 0.35, cfg.Defaults.Volatility)
	require.Equal(t, 100.0, cfg.Defaults.Strike)
	require.Equal(t, 6, cfg.Surface.Points)
	require.Equal(t, 2, cfg.Surface.Workers)
	require.Equal(t, "json", cfg.Output.Format)
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	dir := writeConfig(t, "[defaults]\nstrike = 90.0\n")
	t.Setenv("BSMODEL_DEFAULTS_STRIKE", "120")
	t.Setenv("BSMODEL_OUTPUT_FORMAT", "csv")

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, 120.0, cfg.Defaults.Strike)
	require.Equal(t, "csv", cfg.Output.Format)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := map[string]string{
		"zero points":      "[surface]\npoints = 0\n",
		"inverted spot":    "[surface]\nspot_low_factor = 1.5\nspot_high_factor = 1.0\n",
		"negative workers": "[surface]\nworkers = -1\n",
		"unknown format":   "[output]\nformat = \"xml\"\n",
		"bad precision":    "[output]\nprecision = 40\n",
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrConfigInvalid), "got %v", err)
		})
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	_, err := Load(writeConfig(t, "[defaults\nspot = "))
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrConfigInvalid))
}
