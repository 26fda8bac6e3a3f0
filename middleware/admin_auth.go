package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/rs/zerolog/log"
)

// AdminAuth protects operator endpoints such as promo code management with
// a shared API key sent in X-Admin-Key
type AdminAuth struct {
	apiKey  string
	enabled bool
}

// NewAdminAuth creates a new admin authentication middleware
func NewAdminAuth(apiKey string, enabled bool) *AdminAuth {
	if enabled && apiKey == "" {
		log.Warn().Msg("Admin routes enabled without an API key - they will refuse every request")
	}
	return &AdminAuth{apiKey: apiKey, enabled: enabled}
}

// Protect wraps an HTTP handler with admin authentication. Disabled admin
// routes answer 404 so they are indistinguishable from missing ones.
func (a *AdminAuth) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.enabled {
			writeError(w, http.StatusNotFound, "not found", "Admin routes are disabled")
			return
		}
		if a.apiKey == "" {
			writeError(w, http.StatusServiceUnavailable, "admin not configured", "Admin authentication not configured")
			return
		}

		provided := r.Header.Get("X-Admin-Key")
		if provided == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized", "Missing admin API key. Provide it via the X-Admin-Key header")
			return
		}
		if subtle.ConstantTimeCompare([]byte(provided), []byte(a.apiKey)) != 1 {
			log.Warn().
				Str("path", r.URL.Path).
				Str("ip", ClientIP(r)).
				Msg("Admin route accessed with invalid API key")
			writeError(w, http.StatusForbidden, "forbidden", "Invalid admin API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}
