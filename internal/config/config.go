// Package config loads server configuration from defaults and
// environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Config holds the full server configuration.
type Config struct {
	Server ServerConfig `koanf:"server"`
	DB     DBConfig     `koanf:"db"`
	Auth   AuthConfig   `koanf:"auth"`
	Webpay WebpayConfig `koanf:"webpay"`
	Log    LogConfig    `koanf:"log"`
}

type ServerConfig struct {
	Port int `koanf:"port" validate:"required,gt=0,lte=65535"`
}

type DBConfig struct {
	Path string `koanf:"path" validate:"required"`
}

type AuthConfig struct {
	// JWTSecret signs session tokens. The default is only suitable for
	// local development; override it in any real deployment.
	JWTSecret string `koanf:"jwt_secret" validate:"required,min=16"`

	// TokenTTL is a Go duration string (e.g. "24h").
	TokenTTL string `koanf:"token_ttl" validate:"required"`
}

// WebpayConfig carries the Transbank Webpay Plus credentials. The
// defaults point at Transbank's public integration environment.
type WebpayConfig struct {
	BaseURL      string `koanf:"base_url" validate:"required,url"`
	CommerceCode string `koanf:"commerce_code" validate:"required"`
	APIKey       string `koanf:"api_key" validate:"required"`

	// ReturnURL is where the gateway redirects the payer after the
	// transaction; it must resolve to the public commit endpoint.
	ReturnURL string `koanf:"return_url" validate:"required,url"`
}

type LogConfig struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
}

// TokenDuration parses the configured token TTL.
func (c AuthConfig) TokenDuration() (time.Duration, error) {
	return time.ParseDuration(c.TokenTTL)
}

// Default returns the built-in configuration values.
func Default() Config {
	return Config{
		Server: ServerConfig{Port: 8080},
		DB:     DBConfig{Path: "./data/parcelhub.db"},
		Auth: AuthConfig{
			JWTSecret: "dev-only-secret-change-me",
			TokenTTL:  "24h",
		},
		Webpay: WebpayConfig{
			BaseURL:      "https://webpay3gint.transbank.cl",
			CommerceCode: "597055555532",
			APIKey:       "579B532A7440BB0C9079DED94D31EA1615BACEB56610332264630D42D0A36B1C",
			ReturnURL:    "http://localhost:8080/payments/webpay/commit-trx",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load builds the configuration from defaults overridden by environment
// variables. Variables map to keys by lowercasing and splitting on the
// first underscore: SERVER_PORT -> server.port, WEBPAY_BASE_URL ->
// webpay.base_url.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := k.Load(env.Provider(".", env.Opt{
		TransformFunc: func(key, value string) (string, any) {
			return transformEnvKey(key), value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := cfg.Auth.TokenDuration(); err != nil {
		return nil, fmt.Errorf("invalid auth token_ttl: %w", err)
	}

	return cfg, nil
}

// transformEnvKey converts an environment variable name to a koanf path.
// The first underscore separates the section from the field; later
// underscores are kept so multi-word fields survive (WEBPAY_BASE_URL ->
// webpay.base_url). Variables without a section prefix are ignored by
// the unmarshal step.
func transformEnvKey(s string) string {
	s = strings.ToLower(s)
	section, field, found := strings.Cut(s, "_")
	if !found || section == "" || field == "" {
		return s
	}
	return section + "." + field
}
