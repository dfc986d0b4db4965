package pkg

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/disgoorg/snowflake/v2"
	"github.com/joho/godotenv"
)

type Environment string

const (
	EnvironmentDevelopment Environment = "dev"
	EnvironmentTest        Environment = "tst"
	EnvironmentProduction  Environment = "prd"
)

type Config struct {
	Token       string         `env:"DISCORD_TOKEN,required"`
	ClientID    snowflake.ID   `env:"CLIENT_ID,required"`
	Owners      []snowflake.ID `env:"CLIENT_OWNERS" envSeparator:","`
	MainGuildID snowflake.ID   `env:"CLIENT_MAIN_GUILD"`
	Environment Environment    `env:"APP_ENV" envDefault:"dev"`
	Debug       bool           `env:"DEBUG"`
	LogLevel    string         `env:"LOG_LEVEL" envDefault:"INFO"`
	CustomBot   bool           `env:"CUSTOM_BOT"`

	DatabaseURL string `env:"DATABASE_URL,required"`
	SentryDSN   string `env:"SENTRY_DSN"`

	ServerLogChannel  snowflake.ID `env:"LOG_CHANNEL_SERVER"`
	AdminLogChannel   snowflake.ID `env:"LOG_CHANNEL_ADMIN"`
	GuildStatsChannel snowflake.ID `env:"STATS_CHANNEL_GUILDS"`
	UserStatsChannel  snowflake.ID `env:"STATS_CHANNEL_USERS"`

	API APIConfig `envPrefix:"API_"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

type APIConfig struct {
	Enabled   bool    `env:"ENABLED"`
	Listen    string  `env:"LISTEN" envDefault:":4000"`
	Prefix    string  `env:"PREFIX" envDefault:"/api"`
	Secret    string  `env:"SECRET"`
	RateLimit float64 `env:"RATE_LIMIT" envDefault:"1"`
	RateBurst int     `env:"RATE_BURST" envDefault:"5"`
}

// LoadConfig reads the optional env file and parses the environment into a Config.
func LoadConfig(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("error while loading env file %s: %w", envFile, err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error while loading .env: %w", err)
	}
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Environment {
	case EnvironmentDevelopment, EnvironmentTest, EnvironmentProduction:
	default:
		return fmt.Errorf("invalid APP_ENV %q", c.Environment)
	}
	if c.API.Enabled && c.API.Secret == "" {
		return errors.New("API_SECRET must be set when the api is enabled")
	}
	if _, err := c.parseLevel(); err != nil {
		return err
	}
	return nil
}

func (c *Config) IsOwner(userID snowflake.ID) bool {
	return slices.Contains(c.Owners, userID)
}

func (c *Config) IsProduction() bool {
	return c.Environment == EnvironmentProduction
}

func (c *Config) SlogLevel() slog.Level {
	if c.Debug {
		return slog.LevelDebug
	}
	level, _ := c.parseLevel()
	return level
}

func (c *Config) parseLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return level, nil
}
