package config

import (
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPPort != "9090" {
		t.Errorf("HTTPPort = %q", cfg.HTTPPort)
	}
	if cfg.JWTTTL != 2*time.Hour {
		t.Errorf("JWTTTL = %v", cfg.JWTTTL)
	}
	origins := cfg.AllowedOrigins()
	if len(origins) != 2 || origins[1] != "https://b.example" {
		t.Errorf("AllowedOrigins = %v", origins)
	}
	if cfg.DBMaxOpenConns != 25 {
		t.Errorf("DBMaxOpenConns default = %d", cfg.DBMaxOpenConns)
	}
}

func TestLoadRejectsWeakSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "short")
	if _, err := Load(""); err == nil || !strings.Contains(err.Error(), "32") {
		t.Fatalf("err = %v, want length error", err)
	}
}

func TestWarningsOnDefaults(t *testing.T) {
	cfg := &Config{DatabaseDSN: defaultDSN, CORSOrigins: defaultCORSOrigins, JWTSecret: testSecret}
	if got := len(cfg.Warnings()); got != 3 {
		t.Errorf("warnings = %d, want 3", got)
	}
}
