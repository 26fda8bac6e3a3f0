package app

import (
	"fmt"
	"strings"
	"time"

	"hushhly/account"
	"hushhly/activity"
	"hushhly/auth"
	"hushhly/balance"
	"hushhly/cache"
	"hushhly/chat"
	"hushhly/config"
	"hushhly/email"
	"hushhly/handler"
	"hushhly/payment"
	"hushhly/promo"
	"hushhly/recommend"
	redisClient "hushhly/redis"
	"hushhly/reminder"
	"hushhly/store"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
)

// App owns the storage connections and the domain services built on them.
// The server and the operator CLI share it.
type App struct {
	Config   config.Config
	Redis    *redis.Client // nil unless storage.backend is redis
	Cache    *cache.Cache
	KV       store.KV
	Services handler.Services
	JWT      *auth.JWTManager
}

// New connects the configured storage backend and wires every service.
// now may be nil to use the wall clock.
func New(cfg config.Config, now func() time.Time) (*App, error) {
	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	a := &App{Config: cfg}

	if cfg.Storage.Backend == "redis" {
		rdb, err := redisClient.NewClient(cfg.Redis)
		if err != nil {
			return nil, err
		}
		a.Redis = rdb
	}

	kv, err := store.NewKV(cfg.Storage, a.Redis)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	a.KV = kv

	if cfg.Cache.Enabled {
		a.Cache, err = cache.New(cfg.Cache)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize cache: %w", err)
		}
	} else {
		log.Info().Msg("Cache disabled in configuration")
	}

	docs := store.NewDocumentStore(kv, a.Cache)
	if err := cfg.Auth.Validate(); err != nil {
		log.Warn().Err(err).Msg("Access tokens are signed with an insecure secret")
	}
	a.JWT = auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())

	accounts := account.NewService(docs, a.JWT, cfg.Password, now)
	ledger := activity.NewLedger(docs, now)
	bal := balance.NewService(docs, cfg.Balance, now)
	promos := promo.NewService(docs, accounts, now)
	catalog := recommend.DefaultCatalog()

	a.Services = handler.Services{
		Docs:          docs,
		Accounts:      accounts,
		Activity:      ledger,
		Recommender:   recommend.NewEngine(docs, ledger, catalog, now),
		Balance:       bal,
		Promos:        promos,
		Subscriptions: payment.NewSubscriptionService(docs, promos, bal, payment.NewSimulatedGateway(cfg.Payment, nil), accounts, now),
		Reminders:     reminder.NewService(docs, now),
		Chat:          chat.NewService(docs, catalog, now),
		Mail:          email.NewEmailService(cfg.Email),
	}

	log.Info().
		Str("backend", cfg.Storage.Backend).
		Bool("cache", a.Cache != nil).
		Msg("Storage initialized")

	return a, nil
}

// Notifier picks email delivery for reminders when mail is enabled and
// logging otherwise
func (a *App) Notifier() reminder.Notifier {
	if a.Config.Email.Enabled {
		return reminder.NewEmailNotifier(a.Services.Mail, a.Services.Accounts)
	}
	return reminder.LogNotifier{}
}

// Close releases the cache and storage connections
func (a *App) Close() {
	if a.Cache != nil {
		a.Cache.Close()
	}
	if closer, ok := a.KV.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close storage")
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close Redis connection")
		}
	}
}
