package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenNothingElseSet(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, uint64(0), cfg.ChainID)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, uint64(defaultReconnectIntervalMS), cfg.ReconnectIntervalMS)
	require.Equal(t, uint64(defaultConnectionTimeoutMS), cfg.ConnectionTimeoutMS)
	require.Equal(t, uint64(defaultRequestTimeoutMS), cfg.RequestTimeoutMS)
	require.Equal(t, uint64(defaultHardCloseTimeoutMS), cfg.HardCloseTimeoutMS)
	require.Equal(t, filepath.Join(dir, socketFileName), cfg.SocketPath())
}

func TestLoad_ConfigFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, `{"chain_id": 5, "reconnect_interval_ms": 9000}`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, uint64(5), cfg.ChainID)
	require.Equal(t, uint64(9000), cfg.ReconnectIntervalMS)
	// untouched by the file, still default
	require.Equal(t, uint64(defaultConnectionTimeoutMS), cfg.ConnectionTimeoutMS)
}

func TestLoad_EnvOverridesConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, `{"chain_id": 5}`)
	t.Setenv("CANOPY_CHAIN_ID", "42")

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, uint64(42), cfg.ChainID)
}

func TestLoad_LogLevelReadBareWithoutPrefix(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestDurationHelpers_ConvertMillisecondFields(t *testing.T) {
	cfg := &Config{
		ReconnectIntervalMS: 1000,
		ConnectionTimeoutMS: 2000,
		RequestTimeoutMS:    3000,
		HardCloseTimeoutMS:  50,
	}
	require.Equal(t, int64(1000), cfg.ReconnectInterval().Milliseconds())
	require.Equal(t, int64(2000), cfg.ConnectionTimeout().Milliseconds())
	require.Equal(t, int64(3000), cfg.RequestTimeout().Milliseconds())
	require.Equal(t, int64(50), cfg.HardCloseTimeout().Milliseconds())
}

func writeConfigFile(t *testing.T, dir, contents string) {
	t.Helper()
	path := filepath.Join(dir, "plugin.config.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}
