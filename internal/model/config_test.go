package model

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000", cfg.API.BaseURL)
	assert.Equal(t, "user123", cfg.Session.UserID)
	assert.Equal(t, "user123", cfg.Session.DefaultTarget)
	assert.Equal(t, 5*time.Second, cfg.PollInterval())
	assert.Zero(t, cfg.RequestTimeout())
	assert.True(t, cfg.Cache.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"api:\n  base_url: http://file:1\nsession:\n  user_id: alice\npoll:\n  interval_sec: 9\n",
	), 0o644))

	t.Setenv("INSYD_API_URL", "http://env:2")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://env:2", cfg.API.BaseURL)
	assert.Equal(t, "alice", cfg.Session.UserID)
	assert.Equal(t, 9*time.Second, cfg.PollInterval())
}

func TestLoadConfigRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api: [unterminated"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := defaultAppConfig()
	cfg.API.BaseURL = "http://example.test"
	cfg.Session.UserID = "bob"
	cfg.Poll.IntervalSec = 30
	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://example.test", loaded.API.BaseURL)
	assert.Equal(t, "bob", loaded.Session.UserID)
	assert.Equal(t, 30, loaded.Poll.IntervalSec)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
		ok     bool
	}{
		{"defaults", func(*AppConfig) {}, true},
		{"empty base url", func(c *AppConfig) { c.API.BaseURL = " " }, false},
		{"empty user", func(c *AppConfig) { c.Session.UserID = "" }, false},
		{"zero interval", func(c *AppConfig) { c.Poll.IntervalSec = 0 }, false},
		{"negative timeout", func(c *AppConfig) { c.API.RequestTimeoutSec = -1 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultAppConfig()
			tt.mutate(cfg)
			if tt.ok {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.Error(t, cfg.Validate())
			}
		})
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "x.db"), expandHome("~/x.db"))
	assert.Equal(t, "/abs/x.db", expandHome("/abs/x.db"))
}
