// Package config loads listd configuration.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/listd/internal/logging"
)

type Config struct {
	Discord  DiscordConfig  `koanf:"discord"`
	Storage  StorageConfig  `koanf:"storage"`
	Reminder ReminderConfig `koanf:"reminder"`
	HTTP     HTTPConfig     `koanf:"http"`
	Logging  logging.Config `koanf:"logging"`
}

type DiscordConfig struct {
	Token            Secret `koanf:"token"`
	AppID            string `koanf:"app_id"`
	GuildID          string `koanf:"guild_id"`
	RegisterCommands bool   `koanf:"register_commands"`
}

type StorageConfig struct {
	Driver  string `koanf:"driver"`
	Path    string `koanf:"path"`
	Locking string `koanf:"locking"`
}

type ReminderConfig struct {
	Enabled      bool          `koanf:"enabled"`
	At           string        `koanf:"at"`
	Timezone     string        `koanf:"timezone"`
	SendInterval time.Duration `koanf:"send_interval"`
}

type HTTPConfig struct {
	Enabled         bool          `koanf:"enabled"`
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

func (h HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// Location resolves the reminder time zone.
func (r ReminderConfig) Location() (*time.Location, error) {
	if r.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return nil, fmt.Errorf("reminder timezone %q: %w", r.Timezone, err)
	}
	return loc, nil
}

// Clock parses the HH:MM reminder time.
func (r ReminderConfig) Clock() (hour, minute int, err error) {
	h, m, ok := strings.Cut(strings.TrimSpace(r.At), ":")
	if !ok {
		return 0, 0, fmt.Errorf("reminder time %q must be HH:MM", r.At)
	}
	hour, err = strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("reminder hour %q out of range", h)
	}
	minute, err = strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("reminder minute %q out of range", m)
	}
	return hour, minute, nil
}

// Validate checks everything except the bot token, which only the gateway
// needs (see RequireToken).
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "json", "sqlite":
	default:
		return fmt.Errorf("storage.driver must be json or sqlite, got %q", c.Storage.Driver)
	}
	if strings.TrimSpace(c.Storage.Path) == "" {
		return errors.New("storage.path is required")
	}
	switch c.Storage.Locking {
	case "scope", "none":
	default:
		return fmt.Errorf("storage.locking must be scope or none, got %q", c.Storage.Locking)
	}
	if _, _, err := c.Reminder.Clock(); err != nil {
		return err
	}
	if _, err := c.Reminder.Location(); err != nil {
		return err
	}
	if c.Reminder.SendInterval < 0 {
		return errors.New("reminder.send_interval cannot be negative")
	}
	if c.HTTP.Enabled && (c.HTTP.Port <= 0 || c.HTTP.Port > 65535) {
		return fmt.Errorf("http.port out of range: %d", c.HTTP.Port)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

var ErrMissingToken = errors.New("config: discord.token is required")

func (c *Config) RequireToken() error {
	if !c.Discord.Token.IsSet() {
		return ErrMissingToken
	}
	return nil
}
