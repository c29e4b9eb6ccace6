// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"fleet-cost/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Inventory contains inventory source configuration
	Inventory InventoryConfig `json:"inventory"`

	// Simulation contains cost-simulation configuration
	Simulation SimulationConfig `json:"simulation"`

	// Server contains HTTP server configuration
	Server ServerConfig `json:"server"`

	// AWS contains live-path AWS configuration
	AWS AWSConfig `json:"aws,omitempty"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// InventoryConfig contains inventory source settings
type InventoryConfig struct {
	// Path is the JSON inventory file
	Path string `json:"path"`

	// SyntheticCount generates a seeded synthetic fleet of this size
	// when no inventory file is configured
	SyntheticCount int `json:"synthetic_count"`
}

// SimulationConfig contains cost-simulation settings
type SimulationConfig struct {
	// ReferenceDate is the fixed "today" used for future-cost exclusion
	// (YYYY-MM-DD). Empty means the server's start date.
	ReferenceDate string `json:"reference_date"`

	// IncludeFuture accrues cost for days on or after the reference
	// date; the real Cost Explorer does not report future costs, so the
	// default is off.
	IncludeFuture bool `json:"include_future"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr"`
}

// AWSConfig contains live-path AWS settings. When Live is set the API
// serves real Cost Explorer / EC2 data instead of the simulator.
type AWSConfig struct {
	// Live enables the real AWS clients
	Live bool `json:"live"`

	// Region is the default AWS region
	Region string `json:"region"`

	// Profile is the AWS profile to use
	Profile string `json:"profile,omitempty"`
}

// Default returns a default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	inventoryPath := filepath.Join(homeDir, ".fleet-cost", "inventory.json")

	return &Config{
		Version: "1.0",
		Inventory: InventoryConfig{
			Path:           inventoryPath,
			SyntheticCount: 40,
		},
		Simulation: SimulationConfig{
			IncludeFuture: false,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		AWS: AWSConfig{
			Region: "us-east-1",
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
