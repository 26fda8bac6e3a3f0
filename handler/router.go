package handler

import (
	"hushhly/middleware"

	"github.com/gorilla/mux"
)

// NewRouter registers every API route. Global middleware (logging, CORS,
// rate limiting) is applied by the caller.
func NewRouter(h *Handler, userAuth *middleware.UserAuth, adminAuth *middleware.AdminAuth) *mux.Router {
	r := mux.NewRouter()

	// System
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/cache/metrics", h.CacheMetrics).Methods("GET")

	// Public API
	r.HandleFunc("/api/auth/register", h.Register).Methods("POST")
	r.HandleFunc("/api/auth/login", h.Login).Methods("POST")
	r.HandleFunc("/api/auth/password-requirements", h.PasswordRequirements).Methods("GET")
	r.HandleFunc("/api/subscription/tiers", h.Tiers).Methods("GET")
	r.HandleFunc("/api/promo/{code}/qr", h.PromoQR).Methods("GET")

	// Admin API
	admin := r.PathPrefix("/api/admin").Subrouter()
	admin.Use(adminAuth.Protect)

	admin.HandleFunc("/stats", h.GetAdminStats).Methods("GET")
	admin.HandleFunc("/promo", h.SavePromo).Methods("POST")
	admin.HandleFunc("/promo/{code}/usage", h.PromoUsage).Methods("GET")
	admin.HandleFunc("/users/{id}/tags", h.AddTag).Methods("POST")

	// Authenticated API
	api := r.PathPrefix("/api").Subrouter()
	api.Use(userAuth.Protect)

	api.HandleFunc("/user/me", h.Me).Methods("GET")
	api.HandleFunc("/user/actions", h.RecordAction).Methods("POST")

	api.HandleFunc("/activity/session/start", h.StartSession).Methods("POST")
	api.HandleFunc("/activity/session/end", h.EndSession).Methods("POST")
	api.HandleFunc("/activity/pages", h.TrackPageVisit).Methods("POST")
	api.HandleFunc("/activity/meditations", h.StartMeditation).Methods("POST")
	api.HandleFunc("/activity/meditations/{id}/end", h.EndMeditation).Methods("POST")
	api.HandleFunc("/activity/summary", h.ActivitySummary).Methods("GET")

	api.HandleFunc("/preferences", h.GetPreferences).Methods("GET")
	api.HandleFunc("/preferences", h.SavePreferences).Methods("PUT")
	api.HandleFunc("/recommendations", h.Recommendations).Methods("GET")
	api.HandleFunc("/insights", h.Insights).Methods("GET")
	api.HandleFunc("/plans", h.GetPlans).Methods("GET")
	api.HandleFunc("/plans", h.CreatePlan).Methods("POST")

	api.HandleFunc("/balance", h.GetBalance).Methods("GET")
	api.HandleFunc("/balance/add", h.AddBalance).Methods("POST")
	api.HandleFunc("/balance/deduct", h.DeductBalance).Methods("POST")
	api.HandleFunc("/balance/transactions", h.Transactions).Methods("GET")

	api.HandleFunc("/promo/validate", h.ValidatePromo).Methods("POST")

	api.HandleFunc("/subscription", h.GetSubscription).Methods("GET")
	api.HandleFunc("/subscription", h.Subscribe).Methods("POST")

	api.HandleFunc("/reminders", h.ListReminders).Methods("GET")
	api.HandleFunc("/reminders", h.ScheduleReminder).Methods("POST")
	api.HandleFunc("/reminders/{id}", h.CancelReminder).Methods("DELETE")

	api.HandleFunc("/chat", h.SendChat).Methods("POST")
	api.HandleFunc("/chat/history", h.ChatHistory).Methods("GET")

	return r
}
