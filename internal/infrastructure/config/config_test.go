package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" || cfg.Env != "development" {
		t.Errorf("unexpected server defaults: port=%q env=%q", cfg.Port, cfg.Env)
	}
	if cfg.Auth.TokenTTL != 24*time.Hour {
		t.Errorf("expected 24h ttl, got %s", cfg.Auth.TokenTTL)
	}
	if cfg.Auth.BcryptCost != 12 {
		t.Errorf("expected bcrypt cost 12, got %d", cfg.Auth.BcryptCost)
	}
	if !cfg.UsesDevSecret() {
		t.Error("expected development secret when JWT_SECRET is unset")
	}
	if len(cfg.Auth.PublicPaths) != 0 {
		t.Errorf("expected no public path override, got %v", cfg.Auth.PublicPaths)
	}
	if cfg.Redis.StatsCacheTTL != 5*time.Minute {
		t.Errorf("expected 5m stats ttl, got %s", cfg.Redis.StatsCacheTTL)
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"ENV":               "production",
		"JWT_SECRET":        strings.Repeat("s", 40),
		"JWT_TTL":           "90m",
		"AUTH_PUBLIC_PATHS": "/auth/login,/health/**",
		"AUDIT_WORKERS":     "2",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Auth.TokenTTL != 90*time.Minute {
		t.Errorf("expected 90m, got %s", cfg.Auth.TokenTTL)
	}
	if len(cfg.Auth.PublicPaths) != 2 || cfg.Auth.PublicPaths[1] != "/health/**" {
		t.Errorf("unexpected public paths: %v", cfg.Auth.PublicPaths)
	}
	if cfg.Audit.Workers != 2 {
		t.Errorf("expected 2 audit workers, got %d", cfg.Audit.Workers)
	}
}

func TestLoad_SeedUsersDefaultsToEnvironment(t *testing.T) {
	strong := strings.Repeat("s", 40)
	cases := []struct {
		name string
		env  map[string]string
		want bool
	}{
		{"development default", map[string]string{}, true},
		{"production default", map[string]string{"ENV": "production", "JWT_SECRET": strong}, false},
		{"development opt out", map[string]string{"AUTH_SEED_USERS": "false"}, false},
		{"production opt in", map[string]string{"ENV": "production", "JWT_SECRET": strong, "AUTH_SEED_USERS": "true"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := load(context.Background(), envconfig.MapLookuper(tc.env))
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if cfg.Auth.SeedUsers != tc.want {
				t.Fatalf("SeedUsers = %v, want %v", cfg.Auth.SeedUsers, tc.want)
			}
		})
	}
}

func TestLoad_ProductionRequiresStrongSecret(t *testing.T) {
	for name, secret := range map[string]string{"missing": "", "short": "too-short"} {
		t.Run(name, func(t *testing.T) {
			env := map[string]string{"ENV": "production"}
			if secret != "" {
				env["JWT_SECRET"] = secret
			}
			if _, err := load(context.Background(), envconfig.MapLookuper(env)); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cfg := &Config{
		Env:   "development",
		Auth:  AuthConfig{JWTSecret: "x", TokenTTL: 0, BcryptCost: 2},
		Audit: AuditConfig{Workers: 0},
	}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected errors")
	}
	for _, want := range []string{"JWT_TTL", "BCRYPT_COST", "AUDIT_WORKERS"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %s in %q", want, err)
		}
	}
}
