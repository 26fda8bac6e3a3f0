package handler

import (
	"net/http"
	"time"

	"hushhly/model"
	"hushhly/store"

	"github.com/rs/zerolog/log"
)

// AdminStats represents operator statistics across the document store
type AdminStats struct {
	TotalUsers          int       `json:"totalUsers"`
	ActiveUsers         int       `json:"activeUsers"` // Users with an activity record
	PromoCodes          int       `json:"promoCodes"`
	ActiveSubscriptions int       `json:"activeSubscriptions"`
	PendingReminders    int       `json:"pendingReminders"`
	CacheEnabled        bool      `json:"cacheEnabled"`
	CacheHitRate        float64   `json:"cacheHitRate"`
	LastUpdated         time.Time `json:"lastUpdated"`
}

// GetAdminStats handles GET /api/admin/stats
func (h *Handler) GetAdminStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	stats := AdminStats{
		LastUpdated:  time.Now(),
		CacheEnabled: h.config.Cache.Enabled,
	}

	counts := []struct {
		namespace string
		target    *int
	}{
		{store.NamespaceUsers, &stats.TotalUsers},
		{store.NamespaceUserActivity, &stats.ActiveUsers},
		{store.NamespacePromoCodes, &stats.PromoCodes},
	}
	for _, c := range counts {
		keys, err := h.Docs.Keys(ctx, c.namespace)
		if err != nil {
			sendServiceError(w, r, err, "Failed to retrieve statistics")
			return
		}
		*c.target = len(keys)
	}

	subscribers, err := h.Docs.Keys(ctx, store.NamespaceSubscriptions)
	if err != nil {
		sendServiceError(w, r, err, "Failed to retrieve statistics")
		return
	}
	for _, userID := range subscribers {
		sub, found, err := h.Subscriptions.GetSubscription(ctx, userID)
		if err != nil {
			sendServiceError(w, r, err, "Failed to retrieve statistics")
			return
		}
		if found && sub.Status == model.SubscriptionActive {
			stats.ActiveSubscriptions++
		}
	}

	due, err := h.Reminders.Pending(ctx)
	if err != nil {
		sendServiceError(w, r, err, "Failed to retrieve statistics")
		return
	}
	stats.PendingReminders = due

	if h.config.Cache.Enabled && h.cache != nil {
		stats.CacheHitRate = h.cache.GetMetricsSnapshot().HitRatio
	}

	log.Info().
		Int("total_users", stats.TotalUsers).
		Int("active_subscriptions", stats.ActiveSubscriptions).
		Msg("Admin stats retrieved")

	SendJSONSuccess(w, http.StatusOK, stats)
}
