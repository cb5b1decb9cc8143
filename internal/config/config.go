// Package config provides configuration management for the stock watch agent.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Storage       StorageConfig      `mapstructure:"storage"`
	Quotes        QuotesConfig       `mapstructure:"quotes"`
	LLM           LLMConfig          `mapstructure:"llm"`
	UI            UIConfig           `mapstructure:"ui"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Credentials   Credentials        `mapstructure:"-"` // Loaded separately
}

// StorageConfig holds note store configuration.
type StorageConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// QuotesConfig holds quote provider configuration.
type QuotesConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxAttempts int           `mapstructure:"max_attempts"`
}

// LLMConfig holds note parser configuration.
type LLMConfig struct {
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"` // OpenAI-compatible endpoint
}

// UIConfig holds terminal output configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
}

// NotificationConfig holds notification configuration.
type NotificationConfig struct {
	Webhook WebhookConfig `mapstructure:"webhook"`
}

// WebhookConfig holds webhook notification configuration.
type WebhookConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
}

// Credentials holds API credentials.
type Credentials struct {
	OpenAI OpenAICredentials `mapstructure:"openai"`
}

// OpenAICredentials holds the LLM API key.
type OpenAICredentials struct {
	APIKey string `mapstructure:"api_key"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/stockwatch"
	}
	return filepath.Join(home, ".config", "stockwatch")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	if err := loadConfigFile(configDir, cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	if err := loadCredentials(configDir, &cfg.Credentials); err != nil {
		return nil, fmt.Errorf("loading credentials.toml: %w", err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg, configDir)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir string, target *Config) error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("quotes.base_url", "https://query1.finance.yahoo.com")
	v.SetDefault("quotes.timeout", 10*time.Second)
	v.SetDefault("quotes.max_attempts", 3)
	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.date_format", "02-Jan-2006")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if err := createTemplateConfig(configDir); err != nil {
				return err
			}
			return v.Unmarshal(target)
		}
		return err
	}

	return v.Unmarshal(target)
}

func loadCredentials(configDir string, creds *Credentials) error {
	v := viper.New()
	v.SetConfigName("credentials")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createTemplateCredentials(configDir)
		}
		return err
	}

	return v.Unmarshal(creds)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Credentials.OpenAI.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_BASE"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("STOCKWATCH_DB"); v != "" {
		cfg.Storage.DBPath = v
	}
}

func applyDefaults(cfg *Config, configDir string) {
	if cfg.Storage.DBPath == "" {
		cfg.Storage.DBPath = filepath.Join(configDir, "stockwatch.db")
	}
	if cfg.Quotes.Timeout <= 0 {
		cfg.Quotes.Timeout = 10 * time.Second
	}
	if cfg.Quotes.MaxAttempts <= 0 {
		cfg.Quotes.MaxAttempts = 3
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Quotes.BaseURL == "" {
		return fmt.Errorf("quotes.base_url must not be empty")
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model must not be empty")
	}
	if c.Notifications.Webhook.Enabled && c.Notifications.Webhook.URL == "" {
		return fmt.Errorf("notifications.webhook.url required when webhook is enabled")
	}
	return nil
}
