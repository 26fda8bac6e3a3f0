package store

// Top-level keys of the shared store. Each holds one JSON object keyed by
// user id (or entity id for promo codes).
const (
	NamespaceUserActivity      = "hushhly_user_activity"
	NamespaceSessionStart      = "hushhly_session_start"
	NamespaceUserBalances      = "hushhly_user_balances"
	NamespacePromoCodes        = "hushhly_promo_codes"
	NamespacePromoUsage        = "hushhly_promo_usage"
	NamespaceUsers             = "hushhly_users"
	NamespaceUserEmails        = "hushhly_user_emails"
	NamespacePreferences       = "hushhly_ai_preferences"
	NamespacePlans             = "hushhly_ai_plans"
	NamespaceScheduledSessions = "hushhly_scheduled_sessions"
	NamespaceSubscriptions     = "hushhly_subscriptions"
	NamespaceChatHistory       = "hushhly_chat_history"
)
