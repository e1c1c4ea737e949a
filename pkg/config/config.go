package config

import "time"

// Config holds runtime configuration for the MewFi bot.
type Config struct {
	AppEnv string `mapstructure:"app_env"`

	Bot      BotConfig      `mapstructure:"bot" validate:"required"`
	Menu     MenuConfig     `mapstructure:"menu" validate:"required"`
	Prices   PricesConfig   `mapstructure:"prices" validate:"required"`
	Log      LogConfig      `mapstructure:"log"`
	Sentry   SentryConfig   `mapstructure:"sentry"`
	Server   ServerConfig   `mapstructure:"server"`
	Messages MessagesConfig `mapstructure:"messages"`
}

// Update delivery modes.
const (
	BotModePolling = "polling"
	BotModeWebhook = "webhook"
)

// BotConfig configures the Telegram transport.
type BotConfig struct {
	Token            string        `mapstructure:"token" validate:"required"`
	Mode             string        `mapstructure:"mode" validate:"oneof=polling webhook"`
	Timeout          time.Duration `mapstructure:"timeout"`
	WebhookListen    string        `mapstructure:"webhook_listen" validate:"required_if=Mode webhook"`
	WebhookURL       string        `mapstructure:"webhook_url" validate:"omitempty,url"`
	WelcomeAnimation string        `mapstructure:"welcome_animation" validate:"omitempty,url"`
}

// MenuConfig points at the tabular menu source.
type MenuConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// PricesConfig configures the primary and fallback price providers.
type PricesConfig struct {
	// APIKey enables the primary provider. Empty means fallback only.
	APIKey      string        `mapstructure:"api_key"`
	PrimaryURL  string        `mapstructure:"primary_url" validate:"required,url"`
	FallbackURL string        `mapstructure:"fallback_url" validate:"required,url"`
	Currency    string        `mapstructure:"currency" validate:"required"`
	Timeout     time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format     string `mapstructure:"format" validate:"oneof=json text"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"gte=0"`
}

// SentryConfig toggles error reporting.
type SentryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	DSN         string `mapstructure:"dsn" validate:"required_if=Enabled true"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig configures the ops HTTP endpoint serving metrics and probes.
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// MessagesConfig optionally overrides the embedded message catalog.
type MessagesConfig struct {
	Path string `mapstructure:"path"`
}

// PrimaryEnabled reports whether the primary price provider credential is configured.
func (c PricesConfig) PrimaryEnabled() bool {
	return c.APIKey != ""
}
