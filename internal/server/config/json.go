package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/smartlearn/internal/flagx"
	"github.com/dmitrijs2005/smartlearn/internal/timex"
)

// JsonConfig is the DTO used for reading JSON configuration files. Interval
// fields use timex.Duration, which parses both "5s" strings and integer
// nanoseconds. After unmarshalling, non-empty fields are copied into the
// runtime Config.
type JsonConfig struct {
	EndpointAddr        string         `json:"endpoint_addr"`
	DatabaseDSN         string         `json:"database_dsn"`
	PasswordPolicy      string         `json:"password_policy"`
	PasswordSalt        string         `json:"password_salt"`
	ShutdownGracePeriod timex.Duration `json:"shutdown_grace_period"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags, if any. A missing flag means no JSON overlay; an
// unreadable or invalid file panics, since running with half-applied
// configuration is worse than not starting.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.PasswordPolicy != "" {
		config.PasswordPolicy = c.PasswordPolicy
	}
	if c.PasswordSalt != "" {
		config.PasswordSalt = c.PasswordSalt
	}
	if c.ShutdownGracePeriod.Duration != 0 {
		config.ShutdownGracePeriod = c.ShutdownGracePeriod.Duration
	}
}
