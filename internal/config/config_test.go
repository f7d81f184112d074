package config

import (
	"testing"
	"time"
)

func TestDurationEnv(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{name: "unset uses fallback", value: "", want: 168 * time.Hour},
		{name: "valid value parsed", value: "24h", want: 24 * time.Hour},
		{name: "malformed keeps per-key fallback", value: "one-week", want: 168 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv("JWT_REFRESH_EXPIRY", tt.value)
			}
			if got := durationEnv("JWT_REFRESH_EXPIRY", 168*time.Hour); got != tt.want {
				t.Fatalf("durationEnv = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.JWTAccessExpiry != 15*time.Minute {
		t.Fatalf("access expiry default = %v, want 15m", cfg.JWTAccessExpiry)
	}
	if cfg.JWTRefreshExpiry != 168*time.Hour {
		t.Fatalf("refresh expiry default = %v, want 168h", cfg.JWTRefreshExpiry)
	}
	if cfg.Port != "8080" {
		t.Fatalf("port default = %q, want 8080", cfg.Port)
	}
}
