// Package config loads and saves translator runtime configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config represents the translator's runtime configuration.
type Config struct {
	// Cache settings
	Cache struct {
		Capacity     int  `toml:"capacity"`      // slot count, must be a power of two
		BlockInsnCap int  `toml:"block_insn_cap"` // instructions per block before forced return
		CodeBufSize  int  `toml:"code_buf_size"`  // bytes reserved per block translation
		ArenaSize    int  `toml:"arena_size"`     // bytes per executable arena segment
		StartCold    bool `toml:"start_cold"`     // invalidate_all on startup
	} `toml:"cache"`

	// Decoder/translator settings
	Translate struct {
		UnsupportedIsFatal bool `toml:"unsupported_is_fatal"` // HVC/SMC/pointer-auth abort block instead of UD2
		ApproximateFPEst   bool `toml:"approximate_fp_est"`   // allow FRECPE/FRSQRTE bit-twiddling approximation
	} `toml:"translate"`

	// Debugger settings
	Debugger struct {
		HistorySize   int  `toml:"history_size"`
		ShowRegisters bool `toml:"show_registers"`
		ShowVectors   bool `toml:"show_vectors"`
	} `toml:"debugger"`

	// Trace settings
	Trace struct {
		OutputFile string `toml:"output_file"`
		Capacity   int    `toml:"capacity"` // ring buffer entry count
		Enabled    bool   `toml:"enabled"`
	} `toml:"trace"`

	// API server settings
	API struct {
		Port            int  `toml:"port"`
		BroadcastEvents bool `toml:"broadcast_events"`
	} `toml:"api"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Cache.Capacity = 1024
	cfg.Cache.BlockInsnCap = 64
	cfg.Cache.CodeBufSize = 4096
	cfg.Cache.ArenaSize = 16 * 1024 * 1024
	cfg.Cache.StartCold = true

	cfg.Translate.UnsupportedIsFatal = false
	cfg.Translate.ApproximateFPEst = true

	cfg.Debugger.HistorySize = 1000
	cfg.Debugger.ShowRegisters = true
	cfg.Debugger.ShowVectors = false

	cfg.Trace.OutputFile = "trace.log"
	cfg.Trace.Capacity = 4096
	cfg.Trace.Enabled = false

	cfg.API.Port = 8080
	cfg.API.BroadcastEvents = true

	return cfg
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "dbt")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "dbt")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
