package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"slashbind/pkg/manifest"
)

const (
	minTokenLength = 50 // Discord tokens are typically 50+ characters

	// HistorySize bounds match the history command's limit option
	minHistorySize = 1
	maxHistorySize = 25

	minShutdownTimeout = 1 * time.Second
	maxShutdownTimeout = 5 * time.Minute
)

// Validate checks every configuration value and returns all failures at once
// using errors.Join.
//
// Checked fields:
//   - Token: at least 50 characters
//   - DiscordGuildID: numeric snowflake when set
//   - CommandsFile: .yaml, .yml or .toml when set
//   - MetricsAddr: host:port when set (empty disables the endpoint)
//   - LogLevel: debug, info, warn or error
//   - HistorySize: between 1 and 25
//   - ShutdownTimeout: between 1s and 5m
func (c *Config) Validate() error {
	var errs []error

	checks := []func() error{
		c.validateToken,
		c.validateGuildID,
		c.validateCommandsFile,
		c.validateMetricsAddr,
		c.validateLogLevel,
		c.validateHistorySize,
		c.validateShutdownTimeout,
	}
	for _, check := range checks {
		if err := check(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  %w", errors.Join(errs...))
	}

	return nil
}

func (c *Config) validateToken() error {
	if c.Token == "" {
		return fmt.Errorf("DISCORD_TOKEN is required but not set")
	}

	if len(c.Token) < minTokenLength {
		return fmt.Errorf(
			"DISCORD_TOKEN appears invalid (too short: %d chars, expected %d+)",
			len(c.Token), minTokenLength,
		)
	}

	return nil
}

func (c *Config) validateGuildID() error {
	if c.DiscordGuildID == "" {
		return nil
	}
	if _, err := strconv.ParseUint(c.DiscordGuildID, 10, 64); err != nil {
		return fmt.Errorf("DISCORD_GUILD_ID must be a numeric ID, got %q", c.DiscordGuildID)
	}
	return nil
}

func (c *Config) validateCommandsFile() error {
	if c.CommandsFile == "" {
		return nil
	}
	if _, err := manifest.FormatFromPath(c.CommandsFile); err != nil {
		return fmt.Errorf("COMMANDS_FILE %q: %w (hint: use .yaml or .toml)", c.CommandsFile, err)
	}
	return nil
}

func (c *Config) validateMetricsAddr() error {
	if c.MetricsAddr == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(c.MetricsAddr); err != nil {
		return fmt.Errorf("METRICS_ADDR must be host:port, got %q: %w", c.MetricsAddr, err)
	}
	return nil
}

func (c *Config) validateLogLevel() error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got %q", c.LogLevel)
	}
	return nil
}

func (c *Config) validateHistorySize() error {
	if c.HistorySize < minHistorySize || c.HistorySize > maxHistorySize {
		return fmt.Errorf(
			"HISTORY_SIZE must be between %d and %d, got %d",
			minHistorySize, maxHistorySize, c.HistorySize,
		)
	}
	return nil
}

func (c *Config) validateShutdownTimeout() error {
	if c.ShutdownTimeout < minShutdownTimeout {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be at least %v, got %v", minShutdownTimeout, c.ShutdownTimeout)
	}
	if c.ShutdownTimeout > maxShutdownTimeout {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be at most %v, got %v", maxShutdownTimeout, c.ShutdownTimeout)
	}
	return nil
}
