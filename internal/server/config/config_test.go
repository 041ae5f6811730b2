package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/smartlearn/internal/cryptox"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "127.0.0.1:8080", c.EndpointAddr)
	assert.Equal(t, "smartlearn.db", c.DatabaseDSN)
	assert.Equal(t, "standard", c.PasswordPolicy)
	assert.Equal(t, cryptox.DefaultSalt, c.PasswordSalt)
	assert.Equal(t, 5*time.Second, c.ShutdownGracePeriod)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "127.0.0.1:8080", cfg.EndpointAddr)
	assert.Equal(t, "smartlearn.db", cfg.DatabaseDSN)
}
