// Package config handles configuration for the server component,
// including defaults, JSON overlay, and command-line flags.
package config

import (
	"time"

	"github.com/dmitrijs2005/smartlearn/internal/cryptox"
)

// Config holds runtime settings for the SmartLearn server.
//
// Fields:
//   - EndpointAddr: bind address for the TCP endpoint.
//   - DatabaseDSN: SQLite path or postgres:// URL.
//   - PasswordPolicy: named password policy ("standard" or "relaxed").
//   - PasswordSalt: salt for the password hash; must match the value the
//     existing user rows were written with.
//   - ShutdownGracePeriod: how long open sessions get to drain on shutdown.
type Config struct {
	EndpointAddr        string
	DatabaseDSN         string
	PasswordPolicy      string
	PasswordSalt        string
	ShutdownGracePeriod time.Duration
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = "127.0.0.1:8080"
	c.DatabaseDSN = "smartlearn.db"
	c.PasswordPolicy = "standard"
	c.PasswordSalt = cryptox.DefaultSalt
	c.ShutdownGracePeriod = 5 * time.Second
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
