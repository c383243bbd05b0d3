package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/disgoorg/snowflake/v2"
	"github.com/joho/godotenv"

	"github.com/goland-express/obey/types"
)

type Config struct {
	Token            string           `env:"DISCORD_TOKEN,notEmpty"`
	Prefix           string           `env:"BOT_PREFIX" envDefault:"$"`
	PrefixPermission types.Permission `env:"BOT_PREFIX_PERMISSION" envDefault:"ServerAdmin"`
	Owners           []string         `env:"BOT_OWNERS" envSeparator:","`
	Admins           []string         `env:"BOT_ADMINS" envSeparator:","`

	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile       string `env:"LOG_FILE"`
	LogMaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"100"`
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"3"`
	LogMaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"28"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("Could not load .env file, relying on environment variables", slog.Any("error", err))
	}

	return Parse()
}

// Parse reads the configuration from the environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if strings.TrimSpace(cfg.Prefix) == "" {
		return nil, errors.New("BOT_PREFIX must not be empty")
	}

	return cfg, nil
}

func (c *Config) OwnerIDs() ([]snowflake.ID, error) {
	return parseIDs("BOT_OWNERS", c.Owners)
}

func (c *Config) AdminIDs() ([]snowflake.ID, error) {
	return parseIDs("BOT_ADMINS", c.Admins)
}

func parseIDs(name string, raw []string) ([]snowflake.ID, error) {
	ids := make([]snowflake.ID, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		id, err := snowflake.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid id %q: %w", name, s, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
