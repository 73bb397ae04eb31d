package models

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 2*time.Second, cfg.Recon.MinCallInterval)
	assert.Equal(t, 5*time.Second, cfg.Recon.CallTimeout)
	assert.Equal(t, "kalilinux/kali-rolling", cfg.Sandbox.Image)
	assert.Equal(t, 3, cfg.Access.FreeTierLimit)
	assert.Equal(t, "./sessions", cfg.Storage.SessionDir)
	assert.NoError(t, cfg.Validate())
}

func TestConfigSaveLoadYAML(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Access.FreeTierLimit = 5
	cfg.Sandbox.Image = "ubuntu:24.04"

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 5, loaded.Access.FreeTierLimit)
	assert.Equal(t, "ubuntu:24.04", loaded.Sandbox.Image)
	assert.Equal(t, cfg.Recon.MinCallInterval, loaded.Recon.MinCallInterval)
}

func TestConfigSaveLoadJSON(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Indent = false

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.False(t, loaded.Storage.Indent)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "non-positive call timeout", mutate: func(c *Config) { c.Recon.CallTimeout = 0 }},
		{name: "negative call interval", mutate: func(c *Config) { c.Recon.MinCallInterval = -time.Second }},
		{name: "non-positive free tier limit", mutate: func(c *Config) { c.Access.FreeTierLimit = 0 }},
		{name: "empty sandbox image", mutate: func(c *Config) { c.Sandbox.Image = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
