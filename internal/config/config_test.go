package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != "8090" {
		t.Errorf("default port = %s, want 8090", cfg.Server.Port)
	}
	if cfg.Backend.BaseURL != "http://localhost:8000/api" {
		t.Errorf("default backend url = %s", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Timeout != 15*time.Second {
		t.Errorf("default backend timeout = %v", cfg.Backend.Timeout)
	}
	if cfg.Terminal.Currency != "BOB" {
		t.Errorf("default currency = %s", cfg.Terminal.Currency)
	}
	if !cfg.IsDevelopment() {
		t.Error("default environment should be development")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9000")
	t.Setenv("BACKEND_BASE_URL", "https://pos.example.com/api")
	t.Setenv("BACKEND_TIMEOUT", "5s")
	t.Setenv("TERMINAL_ID", "caja-2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != "9000" {
		t.Errorf("port = %s, want 9000", cfg.Server.Port)
	}
	if cfg.Backend.BaseURL != "https://pos.example.com/api" {
		t.Errorf("backend url = %s", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Timeout != 5*time.Second {
		t.Errorf("backend timeout = %v", cfg.Backend.Timeout)
	}
	if cfg.Terminal.ID != "caja-2" {
		t.Errorf("terminal id = %s", cfg.Terminal.ID)
	}
}

func TestValidateRejectsBadBackendURL(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "pos.example.com/api")

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error for non-http backend url")
	}
}

func TestGetRedisAddr(t *testing.T) {
	cfg := &Config{Redis: RedisConfig{Host: "localhost", Port: "6379"}}
	if addr := cfg.GetRedisAddr(); addr != "localhost:6379" {
		t.Errorf("redis addr = %s", addr)
	}
}
