// Package relay wires two endpoints (plus an optional capture endpoint)
// through the transport's built-in proxy, driven by a TOML configuration.
package relay

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/omochice/zmqlink/pkg/endpoint"
)

// EndpointConfig describes one side of the relay.
type EndpointConfig struct {
	// Address is the transport endpoint, e.g. "tcp://*:5559".
	Address string `toml:"address"`
	// Mode is the socket mode name, e.g. "ROUTER".
	Mode string `toml:"mode"`
	// Bind selects bind over connect for this endpoint.
	Bind bool `toml:"bind"`
}

// Config is the full relay configuration.
type Config struct {
	Frontend EndpointConfig  `toml:"frontend"`
	Backend  EndpointConfig  `toml:"backend"`
	Capture  *EndpointConfig `toml:"capture"`
	// IOThreads sizes the shared context's I/O thread pool; 0 keeps the
	// transport default.
	IOThreads int `toml:"io_threads"`
}

// LoadConfig reads and validates a TOML relay configuration.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load relay config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that both required endpoints are complete and all socket
// modes parse.
func (c *Config) Validate() error {
	if err := c.Frontend.validate("frontend"); err != nil {
		return err
	}
	if err := c.Backend.validate("backend"); err != nil {
		return err
	}
	if c.Capture != nil {
		if err := c.Capture.validate("capture"); err != nil {
			return err
		}
	}
	return nil
}

func (e *EndpointConfig) validate(name string) error {
	if e.Address == "" {
		return fmt.Errorf("relay config: %s: address is required", name)
	}
	if e.Mode == "" {
		return fmt.Errorf("relay config: %s: mode is required", name)
	}
	if _, err := endpoint.ModeFromString(e.Mode); err != nil {
		return fmt.Errorf("relay config: %s: %w", name, err)
	}
	return nil
}
