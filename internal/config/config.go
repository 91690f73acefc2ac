// Package config loads and reconciles NodeConfig through three
// precedence tiers: compiled-in defaults, a local config file, and a
// runtime override pushed down by Master Core once the node registers
// with it.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/viper"
)

// NodeConfig is every recognized configuration option for this node.
type NodeConfig struct {
	CANInterface     string `mapstructure:"can_interface"`
	CANChannel       string `mapstructure:"can_channel"`
	CANBitrate       int    `mapstructure:"can_bitrate"`
	CANSourceAddress uint8  `mapstructure:"can_source_address"`

	DataTTLDays int  `mapstructure:"data_ttl_days"`

	PlaybackEnabled bool     `mapstructure:"playback_enabled"`
	EmergencyNodes  []string `mapstructure:"emergency_nodes"`

	// Auto-detect candidate interface/channel pairs can_interface_1..4 /
	// can_channel_1..4; index 0 holds can_interface_1/can_channel_1.
	CANInterfaceAlternatives [4]string `mapstructure:"-"`
	CANChannelAlternatives   [4]string `mapstructure:"-"`

	MasterCoreHost string `mapstructure:"master_core_host"`
	MasterCorePort int    `mapstructure:"master_core_port"`
	ListenPort     int    `mapstructure:"listen_port"`

	LogDir   string `mapstructure:"log_dir"`
	LogLevel string `mapstructure:"log_level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("can_interface", "can0")
	v.SetDefault("can_channel", "")
	v.SetDefault("can_bitrate", 250000)
	v.SetDefault("can_source_address", 0x91)

	v.SetDefault("data_ttl_days", 7)

	v.SetDefault("playback_enabled", true)
	v.SetDefault("emergency_nodes", []string{"engine", "steering", "autopilot"})

	v.SetDefault("master_core_host", "127.0.0.1")
	v.SetDefault("master_core_port", 9000)
	v.SetDefault("listen_port", 9001)

	v.SetDefault("log_dir", "")
	v.SetDefault("log_level", "info")

	for i := 1; i <= 4; i++ {
		v.SetDefault(fmt.Sprintf("can_interface_%d", i), "")
		v.SetDefault(fmt.Sprintf("can_channel_%d", i), "")
	}
}

// Load builds a NodeConfig from compiled-in defaults overlaid by
// configPath, if it exists. A missing file is not an error: the node
// runs on defaults until Master Core pushes its own override (see
// internal/reconcile).
func Load(configPath string) (NodeConfig, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, fs.ErrNotExist) {
				return NodeConfig{}, fmt.Errorf("config: read %s: %w", configPath, err)
			}
		}
	}

	var cfg NodeConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return NodeConfig{}, fmt.Errorf("config: unmarshal: %w", err)
	}

	for i := 1; i <= 4; i++ {
		cfg.CANInterfaceAlternatives[i-1] = v.GetString(fmt.Sprintf("can_interface_%d", i))
		cfg.CANChannelAlternatives[i-1] = v.GetString(fmt.Sprintf("can_channel_%d", i))
	}

	return cfg, nil
}

// ApplyMasterCoreOverride merges a Master Core config push on top of
// the current configuration: any non-zero-value field in override
// replaces the corresponding field in cfg, following the third
// precedence tier (default -> local file -> Master Core push).
func ApplyMasterCoreOverride(cfg NodeConfig, override NodeConfig) NodeConfig {
	merged := cfg
	if override.CANInterface != "" {
		merged.CANInterface = override.CANInterface
	}
	if override.CANChannel != "" {
		merged.CANChannel = override.CANChannel
	}
	if override.CANBitrate != 0 {
		merged.CANBitrate = override.CANBitrate
	}
	if override.CANSourceAddress != 0 {
		merged.CANSourceAddress = override.CANSourceAddress
	}
	if override.DataTTLDays != 0 {
		merged.DataTTLDays = override.DataTTLDays
	}
	if len(override.EmergencyNodes) > 0 {
		merged.EmergencyNodes = override.EmergencyNodes
	}
	if override.PlaybackEnabled {
		merged.PlaybackEnabled = true
	}
	return merged
}

// BusParamsChanged reports whether the CAN interface/channel/bitrate
// differ between two configs, the condition that triggers a bus
// hot-restart in internal/reconcile.
func BusParamsChanged(a, b NodeConfig) bool {
	return a.CANInterface != b.CANInterface || a.CANChannel != b.CANChannel || a.CANBitrate != b.CANBitrate
}
