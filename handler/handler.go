package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"hushhly/account"
	"hushhly/activity"
	"hushhly/balance"
	"hushhly/cache"
	"hushhly/chat"
	"hushhly/config"
	"hushhly/email"
	"hushhly/payment"
	"hushhly/promo"
	"hushhly/recommend"
	"hushhly/reminder"
	"hushhly/store"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
)

// requestTimeout bounds every API call. It has to cover simulated settlement
// and gateway latency.
const requestTimeout = 15 * time.Second

// Services are the domain services the API exposes
type Services struct {
	Docs          *store.DocumentStore
	Accounts      *account.Service
	Activity      *activity.Ledger
	Recommender   *recommend.Engine
	Balance       *balance.Service
	Promos        *promo.Service
	Subscriptions *payment.SubscriptionService
	Reminders     *reminder.Service
	Chat          *chat.Service
	Mail          *email.EmailService
}

// Handler serves the Hushhly JSON API
type Handler struct {
	Services

	redis   *redis.Client // nil unless storage runs on Redis
	cache   *cache.Cache
	config  config.Config
	baseURL string
}

// NewHandler creates a new API handler. rdb may be nil when the store is not
// backed by Redis.
func NewHandler(svc Services, rdb *redis.Client, cacheClient *cache.Cache, cfg config.Config) *Handler {
	baseURL := cfg.WebServer.BaseURL
	if baseURL == "" {
		baseURL = "http://" + cfg.WebServer.IP + ":" + cfg.WebServer.Port
	}

	return &Handler{
		Services: svc,
		redis:    rdb,
		cache:    cacheClient,
		config:   cfg,
		baseURL:  baseURL,
	}
}

func requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), requestTimeout)
}

// queryInt reads a non-negative integer query parameter, def when absent
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.New("invalid " + name + " parameter")
	}
	return n, nil
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{
		"status":  "healthy",
		"storage": h.config.Storage.Backend,
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			log.Error().Err(err).Msg("Redis health check failed")
			status["status"] = "unhealthy"
			status["redis"] = "unavailable"
			SendJSONSuccess(w, http.StatusServiceUnavailable, status)
			return
		}
		status["redis"] = "connected"
	}

	SendJSONSuccess(w, http.StatusOK, status)
}

// CacheMetrics handles GET /cache/metrics
func (h *Handler) CacheMetrics(w http.ResponseWriter, r *http.Request) {
	if !h.config.Cache.Enabled || h.cache == nil {
		SendJSONError(w, http.StatusServiceUnavailable, errors.New("cache is disabled"), "")
		return
	}

	SendJSONSuccess(w, http.StatusOK, h.cache.GetMetricsSnapshot())
}
