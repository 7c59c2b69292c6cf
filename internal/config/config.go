package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Token           string        `env:"DISCORD_TOKEN"`
	DiscordGuildID  string        `env:"DISCORD_GUILD_ID"`
	DatabaseURL     string        `env:"DATABASE_URL"`
	CommandsFile    string        `env:"COMMANDS_FILE"`
	MetricsAddr     string        `env:"METRICS_ADDR" envDefault:":9090"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	HistorySize     int           `env:"HISTORY_SIZE" envDefault:"10"`
	CleanupCommands bool          `env:"CLEANUP_COMMANDS" envDefault:"false"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load reads .env, the environment and Docker secrets, in increasing precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if token := readSecret("discord_token"); token != "" {
		cfg.Token = token
	}
	if dbURL := readSecret("database_url"); dbURL != "" {
		cfg.DatabaseURL = dbURL
	}

	if cfg.Token == "" {
		return nil, fmt.Errorf("DISCORD_TOKEN is not set (via secret or env var)")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SlogLevel returns the configured log level, falling back to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

var secretsDir = "/run/secrets/"

func readSecret(name string) string {
	data, err := os.ReadFile(secretsDir + name)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
