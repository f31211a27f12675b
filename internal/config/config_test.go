package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.Server.Port != 8080 {
			t.Errorf("port: expected 8080, got %d", cfg.Server.Port)
		}
		if cfg.Webpay.CommerceCode != "597055555532" {
			t.Errorf("commerce code: expected integration default, got %s", cfg.Webpay.CommerceCode)
		}

		ttl, err := cfg.Auth.TokenDuration()
		if err != nil {
			t.Fatalf("TokenDuration failed: %v", err)
		}
		if ttl != 24*time.Hour {
			t.Errorf("token ttl: expected 24h, got %s", ttl)
		}
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "9090")
		t.Setenv("WEBPAY_BASE_URL", "https://webpay3g.transbank.cl")
		t.Setenv("AUTH_TOKEN_TTL", "1h")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.Server.Port != 9090 {
			t.Errorf("port: expected 9090, got %d", cfg.Server.Port)
		}
		if cfg.Webpay.BaseURL != "https://webpay3g.transbank.cl" {
			t.Errorf("base url not overridden: %s", cfg.Webpay.BaseURL)
		}

		ttl, err := cfg.Auth.TokenDuration()
		if err != nil {
			t.Fatalf("TokenDuration failed: %v", err)
		}
		if ttl != time.Hour {
			t.Errorf("token ttl: expected 1h, got %s", ttl)
		}
	})

	t.Run("invalid values rejected", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "loud")

		if _, err := Load(); err == nil {
			t.Error("expected invalid log level to fail validation")
		}
	})

	t.Run("unparseable token ttl rejected", func(t *testing.T) {
		t.Setenv("AUTH_TOKEN_TTL", "soon")

		if _, err := Load(); err == nil {
			t.Error("expected unparseable ttl to fail")
		}
	})
}

func TestTransformEnvKey(t *testing.T) {
	cases := map[string]string{
		"SERVER_PORT":     "server.port",
		"WEBPAY_BASE_URL": "webpay.base_url",
		"AUTH_JWT_SECRET": "auth.jwt_secret",
		"HOME":            "home",
	}
	for in, want := range cases {
		if got := transformEnvKey(in); got != want {
			t.Errorf("transformEnvKey(%q): expected %q, got %q", in, want, got)
		}
	}
}
