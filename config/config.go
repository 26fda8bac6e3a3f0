package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type WebServerConfig struct {
	Port            string `mapstructure:"port"`
	IP              string `mapstructure:"ip"`
	BaseURL         string `mapstructure:"base_url"`
	ReadTimeout     int    `mapstructure:"read_timeout"`
	WriteTimeout    int    `mapstructure:"write_timeout"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
	AllowedOrigin   string `mapstructure:"allowed_origin"`
}

type RedisConfig struct {
	Address          string `mapstructure:"address"`
	Password         string `mapstructure:"password"`
	DB               int    `mapstructure:"db"`
	PoolSize         int    `mapstructure:"pool_size"`
	MinIdleConns     int    `mapstructure:"min_idle_conns"`
	OperationTimeout int    `mapstructure:"operation_timeout"`
}

// StorageConfig selects the key-value backend behind the document store.
type StorageConfig struct {
	Backend    string `mapstructure:"backend"` // redis, sqlite or memory
	SQLitePath string `mapstructure:"sqlite_path"`
}

type CacheConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	MaxSizeMB   int  `mapstructure:"max_size_mb"`
	TTLSeconds  int  `mapstructure:"ttl_seconds"`
	CounterSize int  `mapstructure:"counter_size"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type AuthConfig struct {
	JWTSecret       string `mapstructure:"jwt_secret"`
	TokenTTLMinutes int    `mapstructure:"token_ttl_minutes"`
}

type AdminConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	APIKey  string `mapstructure:"api_key"`
}

type PasswordRulesConfig struct {
	MinLength        int  `mapstructure:"min_length"`
	MaxLength        int  `mapstructure:"max_length"`
	RequireUppercase bool `mapstructure:"require_uppercase"`
	RequireLowercase bool `mapstructure:"require_lowercase"`
	RequireDigit     bool `mapstructure:"require_digit"`
	RequireSpecial   bool `mapstructure:"require_special"`
}

type BalanceConfig struct {
	InitialBalance    float64 `mapstructure:"initial_balance"`
	Currency          string  `mapstructure:"currency"`
	SettlementDelayMS int     `mapstructure:"settlement_delay_ms"`
}

type PaymentConfig struct {
	DeclineRate float64 `mapstructure:"decline_rate"`
	LatencyMS   int     `mapstructure:"latency_ms"`
}

type RemindersConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

type EmailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	SMTPHost string `mapstructure:"smtp_host"`
	SMTPPort string `mapstructure:"smtp_port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	FromName string `mapstructure:"from_name"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	WebServer WebServerConfig     `mapstructure:"webserver"`
	Redis     RedisConfig         `mapstructure:"redis"`
	Storage   StorageConfig       `mapstructure:"storage"`
	Cache     CacheConfig         `mapstructure:"cache"`
	RateLimit RateLimitConfig     `mapstructure:"ratelimit"`
	Auth      AuthConfig          `mapstructure:"auth"`
	Admin     AdminConfig         `mapstructure:"admin"`
	Password  PasswordRulesConfig `mapstructure:"password"`
	Balance   BalanceConfig       `mapstructure:"balance"`
	Payment   PaymentConfig       `mapstructure:"payment"`
	Reminders RemindersConfig     `mapstructure:"reminders"`
	Email     EmailConfig         `mapstructure:"email"`
	Logging   LoggingConfig       `mapstructure:"logging"`
}

// SettlementDelay is the simulated settlement latency of balance transactions.
func (c BalanceConfig) SettlementDelay() time.Duration {
	return time.Duration(c.SettlementDelayMS) * time.Millisecond
}

// Latency is the simulated round trip of the payment gateway.
func (c PaymentConfig) Latency() time.Duration {
	return time.Duration(c.LatencyMS) * time.Millisecond
}

// minJWTSecretLength is the shortest HMAC secret accepted for signing tokens.
const minJWTSecretLength = 16

// ErrInsecureJWTSecret reports a token signing secret that is missing, too
// short or a known placeholder.
var ErrInsecureJWTSecret = errors.New("auth.jwt_secret must be set to a private value of at least 16 characters")

// Validate rejects signing secrets that would let anyone forge access tokens.
func (c AuthConfig) Validate() error {
	secret := strings.TrimSpace(c.JWTSecret)
	switch strings.ToLower(secret) {
	case "", "change-me", "changeme", "secret":
		return ErrInsecureJWTSecret
	}
	if len(secret) < minJWTSecretLength {
		return ErrInsecureJWTSecret
	}
	return nil
}

// TokenTTL is the lifetime of issued access tokens.
func (c AuthConfig) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}

func LoadConfig() (Config, error) {
	var config Config

	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(".")
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("HUSHHLY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("Error reading config file: %v", err)
			return config, err
		}
		log.Println("No config file found, using defaults and environment")
	}

	if err := v.Unmarshal(&config); err != nil {
		log.Printf("Unable to decode into struct: %v", err)
		return config, err
	}

	return config, nil
}

func MustLoadConfig() Config {
	config, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	return config
}

// Defaults returns the configuration obtained from the default table alone.
func Defaults() Config {
	v := viper.New()
	setDefaults(v)

	var config Config
	_ = v.Unmarshal(&config)
	return config
}

func setDefaults(v *viper.Viper) {
	// WebServer defaults
	v.SetDefault("webserver.port", "8080")
	v.SetDefault("webserver.ip", "127.0.0.1")
	v.SetDefault("webserver.base_url", "")
	v.SetDefault("webserver.read_timeout", 15)
	v.SetDefault("webserver.write_timeout", 15)
	v.SetDefault("webserver.shutdown_timeout", 30)
	v.SetDefault("webserver.allowed_origin", "*")

	// Redis defaults
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 5)
	v.SetDefault("redis.operation_timeout", 5)

	// Storage defaults
	v.SetDefault("storage.backend", "redis")
	v.SetDefault("storage.sqlite_path", "hushhly.db")

	// Cache defaults
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.max_size_mb", 64)
	v.SetDefault("cache.ttl_seconds", 300)
	v.SetDefault("cache.counter_size", 100000)

	// RateLimit defaults
	v.SetDefault("ratelimit.requests_per_second", 10.0)
	v.SetDefault("ratelimit.burst", 20)

	// Auth defaults
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl_minutes", 60*24)

	// Admin defaults
	v.SetDefault("admin.enabled", true)
	v.SetDefault("admin.api_key", "")

	// Password defaults
	v.SetDefault("password.min_length", 8)
	v.SetDefault("password.max_length", 128)
	v.SetDefault("password.require_uppercase", false)
	v.SetDefault("password.require_lowercase", true)
	v.SetDefault("password.require_digit", true)
	v.SetDefault("password.require_special", false)

	// Balance defaults
	v.SetDefault("balance.initial_balance", 0.0)
	v.SetDefault("balance.currency", "USD")
	v.SetDefault("balance.settlement_delay_ms", 1500)

	// Payment defaults
	v.SetDefault("payment.decline_rate", 0.1)
	v.SetDefault("payment.latency_ms", 2000)

	// Reminders defaults
	v.SetDefault("reminders.enabled", true)
	v.SetDefault("reminders.schedule", "@every 1m")

	// Email defaults
	v.SetDefault("email.enabled", false)
	v.SetDefault("email.smtp_host", "")
	v.SetDefault("email.smtp_port", "587")
	v.SetDefault("email.username", "")
	v.SetDefault("email.password", "")
	v.SetDefault("email.from", "noreply@hushhly.app")
	v.SetDefault("email.from_name", "Hushhly")

	// Logging defaults
	v.SetDefault("logging.level", "info")
}
