package config

import (
	"os"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Storage.Backend != "redis" {
		t.Errorf("Expected default backend redis, got %q", cfg.Storage.Backend)
	}
	if cfg.Balance.SettlementDelay() != 1500*time.Millisecond {
		t.Errorf("Expected 1.5s settlement delay, got %v", cfg.Balance.SettlementDelay())
	}
	if cfg.Payment.DeclineRate != 0.1 {
		t.Errorf("Expected decline rate 0.1, got %v", cfg.Payment.DeclineRate)
	}
	if cfg.Reminders.Schedule != "@every 1m" {
		t.Errorf("Expected reminder schedule @every 1m, got %q", cfg.Reminders.Schedule)
	}
	if cfg.Auth.TokenTTL() != 24*time.Hour {
		t.Errorf("Expected 24h token ttl, got %v", cfg.Auth.TokenTTL())
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	defer os.Chdir(wd)

	t.Setenv("HUSHHLY_WEBSERVER_PORT", "9090")

	yaml := []byte("storage:\n  backend: memory\nbalance:\n  initial_balance: 25\n")
	if err := os.WriteFile("config.yaml", yaml, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Storage.Backend != "memory" {
		t.Errorf("Expected backend from file, got %q", cfg.Storage.Backend)
	}
	if cfg.Balance.InitialBalance != 25 {
		t.Errorf("Expected initial balance 25, got %v", cfg.Balance.InitialBalance)
	}
	if cfg.WebServer.Port != "9090" {
		t.Errorf("Expected port from environment, got %q", cfg.WebServer.Port)
	}
	if cfg.Redis.Address != "localhost:6379" {
		t.Errorf("Expected default redis address, got %q", cfg.Redis.Address)
	}
}

func TestLoadConfig_NoFile(t *testing.T) {
	dir := t.TempDir()
	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	defer os.Chdir(wd)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() without file should use defaults, got %v", err)
	}
	if cfg.WebServer.Port != "8080" {
		t.Errorf("Expected default port 8080, got %q", cfg.WebServer.Port)
	}
}

func TestAuthConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		wantErr bool
	}{
		{"Default", Defaults().Auth.JWTSecret, true},
		{"Empty", "", true},
		{"Placeholder", "change-me", true},
		{"Whitespace", "   ", true},
		{"TooShort", "abc123", true},
		{"Private", "9f2c1e7a4b6d8e0f3a5c7e9b", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AuthConfig{JWTSecret: tt.secret}.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%q) error = %v, wantErr %v", tt.secret, err, tt.wantErr)
			}
		})
	}
}
