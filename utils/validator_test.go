package utils

import (
	"errors"
	"math"
	"strings"
	"testing"

	"hushhly/config"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr error
	}{
		{"Valid", "user@example.com", nil},
		{"Subdomain", "user@mail.example.co", nil},
		{"Empty", "", ErrInvalidEmail},
		{"Missing at", "user.example.com", ErrInvalidEmail},
		{"No TLD", "user@localhost", ErrInvalidEmail},
		{"Display name", "User <user@example.com>", ErrInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if err != tt.wantErr {
				t.Errorf("ValidateEmail(%q) = %v, want %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  User@Example.COM "); got != "user@example.com" {
		t.Errorf("NormalizeEmail() = %q", got)
	}
}

func TestValidatePagePath(t *testing.T) {
	if err := ValidatePagePath("/sleep-stories"); err != nil {
		t.Errorf("Expected valid path, got %v", err)
	}
	if err := ValidatePagePath("home"); err != ErrInvalidPagePath {
		t.Errorf("Expected ErrInvalidPagePath, got %v", err)
	}
}

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		name    string
		amount  float64
		wantErr bool
	}{
		{"Positive", 10.5, false},
		{"Zero", 0, true},
		{"Negative", -1, true},
		{"NaN", math.NaN(), true},
		{"Inf", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAmount(tt.amount)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAmount(%v) error = %v, wantErr %v", tt.amount, err, tt.wantErr)
			}
		})
	}
}

func TestRoundCents(t *testing.T) {
	if got := RoundCents(47.992); got != 47.99 {
		t.Errorf("RoundCents() = %v, want 47.99", got)
	}
	if got := RoundCents(12.345678); got != 12.35 {
		t.Errorf("RoundCents() = %v, want 12.35", got)
	}
}

func TestValidatePassword(t *testing.T) {
	rules := config.PasswordRulesConfig{
		MinLength:        8,
		MaxLength:        32,
		RequireLowercase: true,
		RequireDigit:     true,
	}

	tests := []struct {
		name     string
		password string
		email    string
		wantErr  bool
	}{
		{"Valid", "calmmind42", "mira@example.com", false},
		{"Valid multibyte", "ruhigeatmung9ü", "mira@example.com", false},
		{"Too short", "calm4", "mira@example.com", true},
		{"Too long", strings.Repeat("a1", 20), "mira@example.com", true},
		{"No digit", "calmmindful", "mira@example.com", true},
		{"No lowercase", "CALMMIND42", "mira@example.com", true},
		{"Contains email name", "Mira-breathes1", "mira@example.com", true},
		{"Short email name ignored", "jo-breathes1", "jo@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password, tt.email, rules)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrWeakPassword) {
				t.Errorf("Expected ErrWeakPassword, got %v", err)
			}
		})
	}
}

func TestValidatePassword_ListsEveryUnmetRule(t *testing.T) {
	rules := config.PasswordRulesConfig{MinLength: 8, MaxLength: 32, RequireDigit: true, RequireUppercase: true}

	err := ValidatePassword("calm", "mira@example.com", rules)
	if err == nil {
		t.Fatal("Expected error")
	}
	for _, want := range []string{"8-32 characters", "an uppercase letter", "a digit"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Error %q should mention %q", err, want)
		}
	}
}

func TestValidatePassword_BcryptLimit(t *testing.T) {
	rules := config.PasswordRulesConfig{MinLength: 8, MaxLength: 128}

	// 31 runes but 91 bytes
	if err := ValidatePassword(strings.Repeat("€", 30)+"1", "mira@example.com", rules); err == nil {
		t.Error("Expected passwords beyond 72 bytes to be rejected")
	}
	if got := GetPasswordRequirements(rules); !strings.Contains(got, "8-72 characters") {
		t.Errorf("Requirements should cap at 72, got %q", got)
	}
}

func TestGetPasswordRequirements(t *testing.T) {
	rules := config.PasswordRulesConfig{MinLength: 8, MaxLength: 64, RequireDigit: true}
	got := GetPasswordRequirements(rules)
	if !strings.Contains(got, "8-64 characters") || !strings.Contains(got, "at least a digit") {
		t.Errorf("Unexpected requirements: %q", got)
	}
	if !strings.Contains(got, "email name") {
		t.Errorf("Requirements should mention the email rule: %q", got)
	}
}
