// YAML config loader with CUE validation integration
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Device describes how to reach the physical sensor.
type Device struct {
	ID               string  `yaml:"id"`
	IP               string  `yaml:"ip"`
	Port             int     `yaml:"port"`
	TimeoutSeconds   float64 `yaml:"timeout_seconds"`
	FailureThreshold int     `yaml:"failure_threshold"`
}

// Poll configures the session recorder.
type Poll struct {
	IntervalMS int    `yaml:"interval_ms"`
	LogFile    string `yaml:"log_file"`
}

// API configures the application-facing HTTP surface.
type API struct {
	Listen string `yaml:"listen"`
}

// GatewayConfig is the root configuration for the sensor gateway.
type GatewayConfig struct {
	Device Device `yaml:"device"`
	Poll   Poll   `yaml:"poll"`
	API    API    `yaml:"api"`
}

// Load loads YAML config and validates it against a CUE schema, then fills
// defaults for anything left unset.
func Load(configPath, cueSchemaPath string) (*GatewayConfig, error) {
	if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	var cfg GatewayConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("cannot parse config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a config with all defaults applied, for running without a
// config file.
func Default() *GatewayConfig {
	cfg := &GatewayConfig{}
	cfg.applyDefaults()
	return cfg
}

func (c *GatewayConfig) applyDefaults() {
	if c.Device.ID == "" {
		c.Device.ID = "leg-01"
	}
	if c.Device.IP == "" {
		// The ESP32 AP-mode default.
		c.Device.IP = "192.168.4.1"
	}
	if c.Device.Port == 0 {
		c.Device.Port = 80
	}
	if c.Device.TimeoutSeconds <= 0 {
		c.Device.TimeoutSeconds = 5
	}
	if c.Device.FailureThreshold <= 0 {
		c.Device.FailureThreshold = 3
	}
	if c.Poll.IntervalMS <= 0 {
		c.Poll.IntervalMS = 200
	}
	if c.API.Listen == "" {
		c.API.Listen = ":8090"
	}
}

// Timeout returns the per-request device timeout as a duration.
func (c *GatewayConfig) Timeout() time.Duration {
	return time.Duration(c.Device.TimeoutSeconds * float64(time.Second))
}

// PollInterval returns the poll interval as a duration.
func (c *GatewayConfig) PollInterval() time.Duration {
	return time.Duration(c.Poll.IntervalMS) * time.Millisecond
}
