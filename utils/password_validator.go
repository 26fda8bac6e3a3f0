package utils

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"hushhly/config"
)

// bcrypt ignores or rejects anything past 72 bytes
const maxPasswordBytes = 72

// minEmailNameLength is the shortest email local part worth rejecting inside
// a password; "jo" would match too much.
const minEmailNameLength = 3

// passwordRule is one account password requirement
type passwordRule struct {
	requirement string
	satisfied   func(password string) bool
}

// passwordRules expands the configured toggles into the rules an account
// password is checked against, in display order
func passwordRules(cfg config.PasswordRulesConfig) []passwordRule {
	maxLength := cfg.MaxLength
	if maxLength <= 0 || maxLength > maxPasswordBytes {
		maxLength = maxPasswordBytes
	}

	rules := []passwordRule{{
		requirement: fmt.Sprintf("%d-%d characters", cfg.MinLength, maxLength),
		satisfied: func(p string) bool {
			n := utf8.RuneCountInString(p)
			return n >= cfg.MinLength && n <= maxLength && len(p) <= maxPasswordBytes
		},
	}}
	if cfg.RequireUppercase {
		rules = append(rules, passwordRule{"an uppercase letter", hasRune(unicode.IsUpper)})
	}
	if cfg.RequireLowercase {
		rules = append(rules, passwordRule{"a lowercase letter", hasRune(unicode.IsLower)})
	}
	if cfg.RequireDigit {
		rules = append(rules, passwordRule{"a digit", hasRune(unicode.IsDigit)})
	}
	if cfg.RequireSpecial {
		rules = append(rules, passwordRule{"a symbol or punctuation mark", hasRune(func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})})
	}
	return rules
}

func hasRune(match func(rune) bool) func(string) bool {
	return func(s string) bool {
		return strings.IndexFunc(s, match) >= 0
	}
}

// ValidatePassword checks a new account password and reports every unmet
// requirement at once, wrapped in ErrWeakPassword. A password that contains
// the local part of the account email is rejected too.
func ValidatePassword(password, email string, cfg config.PasswordRulesConfig) error {
	var unmet []string
	for _, rule := range passwordRules(cfg) {
		if !rule.satisfied(password) {
			unmet = append(unmet, rule.requirement)
		}
	}

	name, _, _ := strings.Cut(NormalizeEmail(email), "@")
	if len(name) >= minEmailNameLength && strings.Contains(strings.ToLower(password), name) {
		unmet = append(unmet, "not containing your email name")
	}

	if len(unmet) > 0 {
		return fmt.Errorf("%w: needs %s", ErrWeakPassword, strings.Join(unmet, ", "))
	}
	return nil
}

// GetPasswordRequirements describes the account password rules for sign-up forms
func GetPasswordRequirements(cfg config.PasswordRulesConfig) string {
	rules := passwordRules(cfg)
	parts := make([]string, 0, len(rules)+1)
	for i, rule := range rules {
		if i == 0 {
			parts = append(parts, rule.requirement)
			continue
		}
		parts = append(parts, "at least "+rule.requirement)
	}
	parts = append(parts, "not containing your email name")
	return strings.Join(parts, ", ")
}
