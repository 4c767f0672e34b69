// Package config loads application settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Prefix of every environment variable, e.g. BIZDESK_APP_PORT.
const Prefix = "BIZDESK"

// Assistant providers.
const (
	ProviderNone      = "none"
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

type Config struct {
	App struct {
		Name string `envconfig:"NAME" default:"bizdesk"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	Log struct {
		Level       string `envconfig:"LEVEL" default:"info"`
		Development bool   `envconfig:"DEVELOPMENT" default:"false"`
	}

	Money struct {
		BaseCurrency string `envconfig:"BASE_CURRENCY" default:"EUR"`
		Locale       string `envconfig:"LOCALE" default:"en"`
	}

	Reports struct {
		VATRate    string `envconfig:"VAT_RATE" default:"0.19"`
		TopClients int    `envconfig:"TOP_CLIENTS" default:"5"`
	}

	View struct {
		PageSize int `envconfig:"PAGE_SIZE" default:"10"`
	}

	Assistant struct {
		Provider string        `envconfig:"PROVIDER" default:"none"`
		APIKey   string        `envconfig:"API_KEY"`
		BaseURL  string        `envconfig:"BASE_URL"`
		Model    string        `envconfig:"MODEL"`
		Timeout  time.Duration `envconfig:"TIMEOUT" default:"20s"`
	}

	Scheduler struct {
		OverdueSpec string `envconfig:"OVERDUE_SPEC" default:"@hourly"`
	}

	Seed struct {
		Demo bool `envconfig:"DEMO" default:"false"`
	}

	Audit struct {
		CompressThreshold int `envconfig:"COMPRESS_THRESHOLD" default:"1024"`
	}
}

// Load reads an optional env file, then the environment. A missing env file
// is not an error.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
		}
	} else {
		_ = godotenv.Load()
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot.
func (c *Config) Validate() error {
	c.Assistant.Provider = strings.ToLower(strings.TrimSpace(c.Assistant.Provider))
	switch c.Assistant.Provider {
	case "", ProviderNone:
		c.Assistant.Provider = ProviderNone
	case ProviderAnthropic, ProviderOpenAI:
		if c.Assistant.APIKey == "" {
			return fmt.Errorf("assistant provider %s requires %s_ASSISTANT_API_KEY", c.Assistant.Provider, Prefix)
		}
	default:
		return fmt.Errorf("unknown assistant provider %q", c.Assistant.Provider)
	}

	if _, err := c.VATRate(); err != nil {
		return err
	}
	if _, err := currency.ParseISO(c.Money.BaseCurrency); err != nil {
		return fmt.Errorf("base currency %q: %w", c.Money.BaseCurrency, err)
	}
	if c.View.PageSize <= 0 {
		return fmt.Errorf("page size must be positive, got %d", c.View.PageSize)
	}
	return nil
}

// VATRate parses the configured rate.
func (c *Config) VATRate() (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(c.Reports.VATRate)
	if err != nil {
		return decimal.Zero, fmt.Errorf("vat rate %q: %w", c.Reports.VATRate, err)
	}
	if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return decimal.Zero, fmt.Errorf("vat rate %s must be in [0, 1)", rate)
	}
	return rate, nil
}

// Addr is the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}
