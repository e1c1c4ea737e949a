// Package config provides configuration loading and validation utilities.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var defaults = map[string]any{
	"bot.token":             "",
	"bot.mode":              "polling",
	"bot.timeout":           10 * time.Second,
	"bot.webhook_listen":    "",
	"bot.webhook_url":       "",
	"bot.welcome_animation": "",

	"menu.path": "commands.csv",

	"prices.api_key":      "",
	"prices.primary_url":  "https://pro-api.coinmarketcap.com",
	"prices.fallback_url": "https://api.coingecko.com",
	"prices.currency":     "USD",
	"prices.timeout":      10 * time.Second,

	"log.level":        "info",
	"log.format":       "json",
	"log.file":         "mewfi_bot.log",
	"log.max_size_mb":  50,
	"log.max_backups":  3,
	"log.max_age_days": 28,

	"sentry.enabled":     false,
	"sentry.dsn":         "",
	"sentry.environment": "",

	"server.port":             ":8080",
	"server.shutdown_timeout": 10 * time.Second,

	"messages.path": "",
}

// Load reads configuration from an optional YAML file and environment variables, validates it, and returns the resulting Config.
func Load() (*Config, *viper.Viper, error) {
	if err := godotenv.Load(".env.local", ".env"); err != nil {
		// env files are optional
		_ = err
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	return LoadFile(fmt.Sprintf("./configs/%s.yaml", env), env)
}

// LoadFile builds the configuration from path (skipped when it does not exist) layered under environment variables.
func LoadFile(path, env string) (*Config, *viper.Viper, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("prices.api_key", "PRICES_API_KEY", "COINMARKETCAP_API_KEY"); err != nil {
		return nil, nil, fmt.Errorf("bind env: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, nil, fmt.Errorf("read config: %w", err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("stat config: %w", err)
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, nil, err
	}
	cfg.AppEnv = env

	return cfg, v, nil
}

// Watch re-reads the config file on change and passes the validated result to onChange.
// It is a no-op when no config file is in use.
func Watch(v *viper.Viper, onChange func(*Config)) {
	if v == nil || v.ConfigFileUsed() == "" || onChange == nil {
		return
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}

		cfg, err := decode(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
