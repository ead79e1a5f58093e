package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FeeSchedule is the per-contract fee breakdown for one instrument class.
// Missing components unmarshal to 0.
type FeeSchedule struct {
	ExchangeFee   float64 `yaml:"exchange_fee"`
	ClearingFee   float64 `yaml:"clearing_fee"`
	RegulatoryFee float64 `yaml:"regulatory_fee"`
}

type Config struct {
	Fees struct {
		Options FeeSchedule `yaml:"options"`
		Futures FeeSchedule `yaml:"futures"`
	} `yaml:"fees"`
	S3 struct {
		Bucket string `yaml:"bucket"`
		Prefix string `yaml:"prefix"`
		Region string `yaml:"region"`
	} `yaml:"s3"`
	Webhook struct {
		URL            string            `yaml:"url"`
		Mode           string            `yaml:"mode"`
		Headers        map[string]string `yaml:"headers"`
		TimeoutSeconds int               `yaml:"timeout_seconds"`
	} `yaml:"webhook"`
}

func (c *Config) Validate() error {
	for _, fs := range []struct {
		class string
		fees  FeeSchedule
	}{
		{"options", c.Fees.Options},
		{"futures", c.Fees.Futures},
	} {
		if fs.fees.ExchangeFee < 0 || fs.fees.ClearingFee < 0 || fs.fees.RegulatoryFee < 0 {
			return fmt.Errorf("fees.%s: fee components must be non-negative", fs.class)
		}
	}
	if c.S3.Bucket == "" {
		return fmt.Errorf("s3.bucket cannot be empty")
	}
	if m := c.Webhook.Mode; m != "card" && m != "summary" {
		return fmt.Errorf("webhook.mode must be 'card' or 'summary', got '%s'", m)
	}
	if c.Webhook.TimeoutSeconds < 1 || c.Webhook.TimeoutSeconds > 30 {
		return fmt.Errorf("webhook.timeout_seconds must be between 1-30, got %d", c.Webhook.TimeoutSeconds)
	}
	return nil
}

// LoadConfig reads and validates the YAML configuration file. A missing
// webhook URL is not an error here; it is only fatal at send time.
func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.Webhook.Mode == "" {
		c.Webhook.Mode = "card"
	}
	if c.Webhook.TimeoutSeconds == 0 {
		c.Webhook.TimeoutSeconds = 10
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
