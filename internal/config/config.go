// Package config loads configuration for the beacon command line tool.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the settings shared by the beacon subcommands.
type Config struct {
	APIKey         string
	UseTestServer  bool
	UseHTTPS       bool
	ValidateParams bool
	BaseURL        string
	// Journal, when set, records beacons to this file instead of sending them.
	Journal        string
	RequestTimeout time.Duration
	LogLevel       string
	LogFormat      string
	CollectorAddr  string
}

// Default returns configuration with default values.
func Default() *Config {
	return &Config{
		ValidateParams: true,
		RequestTimeout: 10 * time.Second,
		LogLevel:       "info",
		LogFormat:      "text",
		CollectorAddr:  ":8080",
	}
}

// Load reads configuration from configPath, if given, and the environment.
// Environment > config file > defaults; flags are applied by the caller.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("api_key", def.APIKey)
	v.SetDefault("use_test_server", def.UseTestServer)
	v.SetDefault("use_https", def.UseHTTPS)
	v.SetDefault("validate", def.ValidateParams)
	v.SetDefault("base_url", def.BaseURL)
	v.SetDefault("journal", def.Journal)
	v.SetDefault("request_timeout", def.RequestTimeout.String())
	v.SetDefault("log.level", def.LogLevel)
	v.SetDefault("log.format", def.LogFormat)
	v.SetDefault("collector.addr", def.CollectorAddr)

	// BEACON_API_KEY, BEACON_LOG_LEVEL, ...
	v.SetEnvPrefix("BEACON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		APIKey:         v.GetString("api_key"),
		UseTestServer:  v.GetBool("use_test_server"),
		UseHTTPS:       v.GetBool("use_https"),
		ValidateParams: v.GetBool("validate"),
		BaseURL:        v.GetString("base_url"),
		Journal:        v.GetString("journal"),
		RequestTimeout: v.GetDuration("request_timeout"),
		LogLevel:       v.GetString("log.level"),
		LogFormat:      v.GetString("log.format"),
		CollectorAddr:  v.GetString("collector.addr"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %v", c.RequestTimeout)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text, got %q", c.LogFormat)
	}
	if c.BaseURL != "" && !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("base_url must be an http(s) URL, got %q", c.BaseURL)
	}
	return nil
}

// RequireAPIKey fails when no API key is configured.
func (c *Config) RequireAPIKey() error {
	if c.APIKey == "" {
		return fmt.Errorf("api key required (set api_key in the config file, BEACON_API_KEY or --api-key)")
	}
	return nil
}
