package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.EndpointAddr)
	assert.Equal(t, "secretKey", c.SecretKey)
	assert.Equal(t, 24*time.Hour, c.TokenValidityDuration)
	assert.NotEmpty(t, c.DatabaseDSN)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, ":8080", cfg.EndpointAddr)
	assert.Equal(t, 24*time.Hour, cfg.TokenValidityDuration)
}
