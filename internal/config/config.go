package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds the settings the API needs at startup.
type Config struct {
	AppPort     string
	DatabaseURL string
	CORSOrigin  string
	RabbitMQURL string
	LogLevel    string
	LogFormat   string
	DBDebug     bool
}

// EventsEnabled reports whether product events should be published.
func (c *Config) EventsEnabled() bool {
	return c.RabbitMQURL != ""
}

// Load reads the configuration from the environment and, when present, from
// a .env file in the working directory. Environment variables win.
func Load() (*Config, error) {
	return LoadWith(viper.New(), ".env")
}

// LoadWith is Load on a caller supplied viper instance and env file path.
func LoadWith(v *viper.Viper, envFile string) (*Config, error) {
	v.SetDefault("APP_PORT", ":4000")
	v.SetDefault("DATABASE_URL", "file:productapi.db")
	v.SetDefault("CORS_URL", "http://localhost:5173")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("DB_DEBUG", false)
	v.AutomaticEnv()

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			v.SetConfigFile(envFile)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		AppPort:     v.GetString("APP_PORT"),
		DatabaseURL: v.GetString("DATABASE_URL"),
		CORSOrigin:  v.GetString("CORS_URL"),
		RabbitMQURL: v.GetString("RABBITMQ_URL"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		LogFormat:   v.GetString("LOG_FORMAT"),
		DBDebug:     v.GetBool("DB_DEBUG"),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	return cfg, nil
}
