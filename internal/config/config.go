// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the optional dnsq.toml resolver profile, which
// provides defaults for the server address, port and timeout so they do
// not have to be typed for every session.
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Built-in defaults, matching a resolver on the local host.
const (
	DefaultServer  = "127.0.0.1"
	DefaultPort    = 53
	DefaultTimeout = 5 * time.Second
)

// Config is the top-level configuration file layout.
type Config struct {
	Resolver ResolverConfig `toml:"resolver"`
}

// ResolverConfig selects the resolver to query.
type ResolverConfig struct {
	// Server is the resolver IP address or hostname.
	Server string `toml:"server"`

	// Port is the resolver UDP port.
	Port int `toml:"port"`

	// TimeoutSeconds bounds each query/response exchange.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// Timeout returns the exchange timeout as a [time.Duration].
func (c ResolverConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Resolver: ResolverConfig{
			Server:         DefaultServer,
			Port:           DefaultPort,
			TimeoutSeconds: int(DefaultTimeout / time.Second),
		},
	}
}

// Load reads the configuration from path. A missing file is not an
// error: the built-in defaults are returned. Fields left out of the
// file are back-filled with their defaults.
func Load(path string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, errors.Wrap(err, "config: cannot read file")
	}

	config = &Config{}
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, errors.Wrap(err, "config: cannot parse file")
	}

	if config.Resolver.Server == "" {
		config.Resolver.Server = DefaultServer
	}
	if config.Resolver.Port == 0 {
		config.Resolver.Port = DefaultPort
	}
	if config.Resolver.TimeoutSeconds == 0 {
		config.Resolver.TimeoutSeconds = int(DefaultTimeout / time.Second)
	}
	return config, nil
}
