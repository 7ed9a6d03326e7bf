package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string, perm os.FileMode) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "listd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), perm))
	require.NoError(t, os.Chmod(path, perm))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Storage.Driver)
	assert.Equal(t, "data.json", cfg.Storage.Path)
	assert.Equal(t, "scope", cfg.Storage.Locking)
	assert.True(t, cfg.Reminder.Enabled)
	assert.Equal(t, time.Second, cfg.Reminder.SendInterval)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.HTTP.Enabled)
	assert.ErrorIs(t, cfg.RequireToken(), ErrMissingToken)

	h, m, err := cfg.Reminder.Clock()
	require.NoError(t, err)
	assert.Equal(t, 9, h)
	assert.Equal(t, 0, m)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := writeConfig(t, `
storage:
  driver: sqlite
  path: /tmp/listd.db
reminder:
  at: "07:30"
  timezone: Europe/Berlin
http:
  enabled: true
  port: 8088
`, 0600)
	t.Setenv("LISTD_STORAGE_PATH", "/var/lib/listd/listd.db")
	t.Setenv("LISTD_REMINDER_SEND_INTERVAL", "250ms")
	t.Setenv("LISTD_DISCORD_TOKEN", "abc")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "/var/lib/listd/listd.db", cfg.Storage.Path)
	assert.Equal(t, 250*time.Millisecond, cfg.Reminder.SendInterval)
	assert.Equal(t, 8088, cfg.HTTP.Port)
	assert.Equal(t, "abc", cfg.Discord.Token.Value())
	assert.NoError(t, cfg.RequireToken())

	loc, err := cfg.Reminder.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())
}

func TestLoadLegacyToken(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "legacy")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "legacy", cfg.Discord.Token.Value())
}

func TestLoadRejectsInsecureFile(t *testing.T) {
	path := writeConfig(t, "storage:\n  driver: json\n", 0644)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insecure config file permissions")
}

func TestLoadRejectsOversizedFile(t *testing.T) {
	body := "# " + strings.Repeat("x", maxConfigFileSize) + "\n"
	path := writeConfig(t, body, 0600)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad driver", func(c *Config) { c.Storage.Driver = "postgres" }},
		{"empty path", func(c *Config) { c.Storage.Path = "" }},
		{"bad locking", func(c *Config) { c.Storage.Locking = "global" }},
		{"bad clock", func(c *Config) { c.Reminder.At = "25:00" }},
		{"bad zone", func(c *Config) { c.Reminder.Timezone = "Mars/Olympus" }},
		{"bad port", func(c *Config) { c.HTTP.Enabled = true; c.HTTP.Port = 0 }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSecretRedaction(t *testing.T) {
	s := Secret("hunter2")
	assert.Equal(t, "[REDACTED]", s.String())
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%v", s))
	assert.NotContains(t, fmt.Sprintf("%#v", s), "hunter2")

	raw, err := json.Marshal(DiscordConfig{Token: s})
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "hunter2")
}
