package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

/* This file implements the configuration surface named in §4.7. The distilled spec
   treats configuration loading as an external collaborator that merely "provides"
   chainID and dataDir; this is the concrete loader cmd/plugin uses to gather that
   (plus the protocol engine's timing knobs and the log level) from environment
   variables and an optional config file, in the viper-based idiom used throughout
   the corpus's full-node entrypoints. */

const (
	defaultReconnectIntervalMS = 3000
	defaultConnectionTimeoutMS = 5000
	defaultRequestTimeoutMS    = 10000
	defaultHardCloseTimeoutMS  = 100
	socketFileName             = "plugin.sock"
)

// Config is everything the plugin process needs at start: the chain it serves,
// where it keeps its Unix socket, and the protocol engine's timing knobs.
type Config struct {
	ChainID             uint64
	DataDir             string
	LogLevel            string
	ReconnectIntervalMS uint64
	ConnectionTimeoutMS uint64
	RequestTimeoutMS    uint64
	HardCloseTimeoutMS  uint64
}

// SocketPath derives the Unix socket path the plugin connects to, per §6
func (c *Config) SocketPath() string {
	return filepath.Join(c.DataDir, socketFileName)
}

func (c *Config) ReconnectInterval() time.Duration {
	return time.Duration(c.ReconnectIntervalMS) * time.Millisecond
}

func (c *Config) ConnectionTimeout() time.Duration {
	return time.Duration(c.ConnectionTimeoutMS) * time.Millisecond
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

func (c *Config) HardCloseTimeout() time.Duration {
	return time.Duration(c.HardCloseTimeoutMS) * time.Millisecond
}

// Load reads configuration with the precedence described in §4.7: environment
// variables override an optional plugin.config.{json,yaml} file in dataDir, which
// overrides the §4.3 defaults. dataDir itself must be supplied by the caller (it
// is how the FSM tells this plugin process where its socket lives).
func Load(dataDir string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("canopy")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("chain_id", uint64(0))
	v.SetDefault("log_level", "info")
	v.SetDefault("reconnect_interval_ms", defaultReconnectIntervalMS)
	v.SetDefault("connection_timeout_ms", defaultConnectionTimeoutMS)
	v.SetDefault("request_timeout_ms", defaultRequestTimeoutMS)
	v.SetDefault("hard_close_timeout_ms", defaultHardCloseTimeoutMS)

	v.SetConfigName("plugin.config")
	v.AddConfigPath(dataDir)
	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, err
		}
	}

	// LOG_LEVEL is read bare (no CANOPY_ prefix) per §6's external interface
	logLevel := v.GetString("log_level")
	if lvl, ok := lookupLogLevelEnv(); ok {
		logLevel = lvl
	}

	return &Config{
		ChainID:             v.GetUint64("chain_id"),
		DataDir:             dataDir,
		LogLevel:            logLevel,
		ReconnectIntervalMS: v.GetUint64("reconnect_interval_ms"),
		ConnectionTimeoutMS: v.GetUint64("connection_timeout_ms"),
		RequestTimeoutMS:    v.GetUint64("request_timeout_ms"),
		HardCloseTimeoutMS:  v.GetUint64("hard_close_timeout_ms"),
	}, nil
}

// lookupLogLevelEnv reads LOG_LEVEL directly (bare, no CANOPY_ prefix), matching
// §6's statement that LOG_LEVEL is the one environment variable the core requires.
func lookupLogLevelEnv() (string, bool) {
	return os.LookupEnv("LOG_LEVEL")
}
