// Copyright (c) 2025-2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config defines the global configuration structure
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Esb    EsbConfig    `mapstructure:"esb"`
	Admin  AdminConfig  `mapstructure:"admin"`
	Log    LogConfig    `mapstructure:"log"`
}

// ServerConfig defines the terminal-facing TCP listener
type ServerConfig struct {
	Address     string        `mapstructure:"address"`      // e.g. "0.0.0.0:7790"
	Workers     int           `mapstructure:"workers"`      // worker pool size, one worker per connection
	ReadTimeout time.Duration `mapstructure:"read_timeout"` // per-connection read deadline
}

// EsbConfig defines the outbound back-end call
type EsbConfig struct {
	URL      string        `mapstructure:"url"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// AdminConfig defines the ops HTTP listener (health, metrics)
type AdminConfig struct {
	Address string `mapstructure:"address"` // e.g. ":8080", empty disables it
}

// LogConfig defines logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"` // debug, info, warn, error
	File  string `mapstructure:"file"`  // Log file path
}

// LoadConfig loads configuration from file
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/atm-gateway/")
		v.AddConfigPath("$HOME/.atm-gateway")
		v.AddConfigPath(".")
	}

	// Set defaults
	v.SetDefault("server.address", "0.0.0.0:7790")
	v.SetDefault("server.workers", 20)
	v.SetDefault("server.read_timeout", 5*time.Minute)
	v.SetDefault("esb.timeout", 10*time.Second)
	v.SetDefault("admin.address", ":8080")
	v.SetDefault("log.level", "info")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine; defaults plus flags carry a dev setup.
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate / Fixups
	if config.Server.Workers <= 0 {
		config.Server.Workers = 20
	}
	if config.Server.ReadTimeout <= 0 {
		config.Server.ReadTimeout = 5 * time.Minute
	}
	if config.Esb.URL == "" {
		return nil, fmt.Errorf("esb.url is required")
	}

	return &config, nil
}
