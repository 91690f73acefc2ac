package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nmeactl/can-controller-node/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "can0", cfg.CANInterface)
	assert.Equal(t, 250000, cfg.CANBitrate)
	assert.Equal(t, uint8(0x91), cfg.CANSourceAddress)
	assert.True(t, cfg.PlaybackEnabled)
	assert.Equal(t, 7, cfg.DataTTLDays)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "can0", cfg.CANInterface)
}

func TestLoadLocalFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("can_interface: can1\ncan_bitrate: 500000\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "can1", cfg.CANInterface)
	assert.Equal(t, 500000, cfg.CANBitrate)
}

func TestApplyMasterCoreOverrideOnlyTouchesSetFields(t *testing.T) {
	base, err := config.Load("")
	require.NoError(t, err)

	override := config.NodeConfig{CANBitrate: 500000}
	merged := config.ApplyMasterCoreOverride(base, override)

	assert.Equal(t, 500000, merged.CANBitrate)
	assert.Equal(t, base.CANInterface, merged.CANInterface)
}

func TestBusParamsChanged(t *testing.T) {
	a := config.NodeConfig{CANInterface: "can0", CANBitrate: 250000}
	b := a
	assert.False(t, config.BusParamsChanged(a, b))

	b.CANBitrate = 500000
	assert.True(t, config.BusParamsChanged(a, b))
}
