package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hushhly/account"
	"hushhly/activity"
	"hushhly/auth"
	"hushhly/balance"
	"hushhly/chat"
	"hushhly/config"
	"hushhly/email"
	"hushhly/middleware"
	"hushhly/model"
	"hushhly/payment"
	"hushhly/promo"
	"hushhly/recommend"
	"hushhly/reminder"
	"hushhly/store"
	"hushhly/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAdminKey = "admin-secret"

type testServer struct {
	router  *mux.Router
	handler *Handler
	jwt     *auth.JWTManager
}

func newTestServer(t *testing.T, rdb *redis.Client) *testServer {
	t.Helper()

	cfg := config.Defaults()
	cfg.Storage.Backend = "memory"
	cfg.Cache.Enabled = false
	cfg.WebServer.BaseURL = "https://hushhly.test"
	cfg.Balance.SettlementDelayMS = 0
	cfg.Payment.LatencyMS = 0
	cfg.Payment.DeclineRate = 0

	docs := store.NewDocumentStore(store.NewMemoryKV(), nil)
	jwt := auth.NewJWTManager("test-secret", time.Hour)

	accounts := account.NewService(docs, jwt, cfg.Password, nil)
	ledger := activity.NewLedger(docs, nil)
	bal := balance.NewService(docs, cfg.Balance, nil)
	promos := promo.NewService(docs, accounts, nil)
	catalog := recommend.DefaultCatalog()
	gateway := payment.NewSimulatedGateway(cfg.Payment, func() float64 { return 1 })

	_, err := promos.Seed(context.Background())
	require.NoError(t, err)

	h := NewHandler(Services{
		Docs:          docs,
		Accounts:      accounts,
		Activity:      ledger,
		Recommender:   recommend.NewEngine(docs, ledger, catalog, nil),
		Balance:       bal,
		Promos:        promos,
		Subscriptions: payment.NewSubscriptionService(docs, promos, bal, gateway, accounts, nil),
		Reminders:     reminder.NewService(docs, nil),
		Chat:          chat.NewService(docs, catalog, nil),
		Mail:          email.NewEmailService(cfg.Email),
	}, rdb, nil, cfg)

	router := NewRouter(h, middleware.NewUserAuth(jwt), middleware.NewAdminAuth(testAdminKey, true))
	return &testServer{router: router, handler: h, jwt: jwt}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) admin(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("X-Admin-Key", testAdminKey)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) token(t *testing.T, userID string) string {
	t.Helper()
	token, err := s.jwt.GenerateToken(userID, userID+"@example.com")
	require.NoError(t, err)
	return token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestHealthCheck(t *testing.T) {
	t.Run("Without Redis", func(t *testing.T) {
		s := newTestServer(t, nil)
		rec := s.do(t, http.MethodGet, "/health", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		var body map[string]string
		decode(t, rec, &body)
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, "memory", body["storage"])
	})

	t.Run("Redis up then down", func(t *testing.T) {
		mr, err := miniredis.Run()
		require.NoError(t, err)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		defer rdb.Close()

		s := newTestServer(t, rdb)
		rec := s.do(t, http.MethodGet, "/health", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		mr.Close()
		rec = s.do(t, http.MethodGet, "/health", "", nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestCacheMetrics_Disabled(t *testing.T) {
	s := newTestServer(t, nil)
	rec := s.do(t, http.MethodGet, "/cache/metrics", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t, nil)

	creds := model.RegisterRequest{Email: "Mira@Example.com", Password: "calm-breath42", Name: "Mira"}
	rec := s.do(t, http.MethodPost, "/api/auth/register", "", creds)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var user model.UserResponse
	decode(t, rec, &user)
	assert.Equal(t, "mira@example.com", user.Email)
	assert.Equal(t, model.UserTypeNew, user.UserType)
	assert.NotContains(t, rec.Body.String(), "passwordHash")

	rec = s.do(t, http.MethodPost, "/api/auth/register", "", creds)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/login", "", model.LoginRequest{Email: creds.Email, Password: "wrong-pass1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/login", "", model.LoginRequest{Email: creds.Email, Password: creds.Password})
	require.Equal(t, http.StatusOK, rec.Code)
	var login model.LoginResponse
	decode(t, rec, &login)
	require.NotEmpty(t, login.AccessToken)

	rec = s.do(t, http.MethodGet, "/api/user/me", login.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &user)
	assert.Equal(t, "Mira", user.Name)

	rec = s.do(t, http.MethodPost, "/api/user/actions", login.AccessToken, map[string]string{"value": model.ActionFirstMeditation})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &user)
	assert.Contains(t, user.Actions, model.ActionFirstMeditation)

	rec = s.do(t, http.MethodGet, "/api/user/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGatedPromo_TagsAreOperatorOnly(t *testing.T) {
	s := newTestServer(t, nil)

	creds := model.RegisterRequest{Email: "tess@example.com", Password: "calm-breath42"}
	rec := s.do(t, http.MethodPost, "/api/auth/register", "", creds)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = s.do(t, http.MethodPost, "/api/auth/login", "", model.LoginRequest{Email: creds.Email, Password: creds.Password})
	require.Equal(t, http.StatusOK, rec.Code)
	var login model.LoginResponse
	decode(t, rec, &login)
	token := login.AccessToken

	validate := func() model.PromoValidationResult {
		rec := s.do(t, http.MethodPost, "/api/promo/validate", token, model.ValidatePromoRequest{Code: "BETAZEN", Tier: "Monthly"})
		require.Equal(t, http.StatusOK, rec.Code)
		var res model.PromoValidationResult
		decode(t, rec, &res)
		return res
	}

	rec = s.do(t, http.MethodPost, "/api/user/actions", token, map[string]string{"value": model.ActionCompletedOnboarding})
	require.Equal(t, http.StatusOK, rec.Code)

	// Neither route lets a user claim the beta cohort
	rec = s.do(t, http.MethodPost, "/api/user/tags", token, map[string]string{"value": "beta"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/user/actions", token, map[string]string{"value": "beta"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/admin/users/"+login.User.ID+"/tags", token, map[string]string{"value": "beta"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	assert.False(t, validate().IsValid)

	rec = s.admin(t, http.MethodPost, "/api/admin/users/"+login.User.ID+"/tags", map[string]string{"value": "beta"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var user model.UserResponse
	decode(t, rec, &user)
	assert.Contains(t, user.Tags, "beta")

	assert.True(t, validate().IsValid)

	rec = s.admin(t, http.MethodPost, "/api/admin/users/missing/tags", map[string]string{"value": "beta"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRegister_Validation(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name string
		body interface{}
	}{
		{"Invalid email", model.RegisterRequest{Email: "nope", Password: "calm-breath42"}},
		{"Weak password", model.RegisterRequest{Email: "a@example.com", Password: "short"}},
		{"Malformed JSON", "not an object"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/api/auth/register", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestActivityEndpoints(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.token(t, "u1")

	rec := s.do(t, http.MethodPost, "/api/activity/session/start", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/activity/pages", token, map[string]string{"path": "/home"})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/activity/pages", token, map[string]string{"path": "home"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/activity/meditations", token, map[string]string{"type": "breathing"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var session model.MeditationSession
	decode(t, rec, &session)

	path := fmt.Sprintf("/api/activity/meditations/%s/end", session.ID)
	rec = s.do(t, http.MethodPost, path, token, map[string]bool{"completed": true})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, path, token, map[string]bool{"completed": true})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/activity/meditations/missing/end", token, map[string]bool{"completed": true})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/activity/summary", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary model.ActivitySummary
	decode(t, rec, &summary)
	assert.Equal(t, 1, summary.CurrentStreak)
	assert.Equal(t, 1, summary.CompletedMeditations)
	assert.Equal(t, "/home", summary.MostVisitedPage)

	rec = s.do(t, http.MethodGet, "/api/activity/summary?format=pretty", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var pretty model.FormattedActivitySummary
	decode(t, rec, &pretty)
	assert.Equal(t, "1 day", pretty.CurrentStreak)
}

func TestRecommendationEndpoints(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.token(t, "u1")

	rec := s.do(t, http.MethodPut, "/api/preferences", token, model.UserPreferences{Mood: "stressed", PreferredDuration: 10})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPut, "/api/preferences", token, model.UserPreferences{Mood: "grumpy-ish"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/recommendations?count=2", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var recs []model.AIRecommendation
	decode(t, rec, &recs)
	assert.Len(t, recs, 2)

	rec = s.do(t, http.MethodGet, "/api/recommendations?count=x", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/insights", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/plans", token, model.CreatePlanRequest{Goal: "sleep", Days: 3})
	require.Equal(t, http.StatusCreated, rec.Code)
	var plan model.AIPersonalizedPlan
	decode(t, rec, &plan)
	assert.Len(t, plan.Days, 3)

	rec = s.do(t, http.MethodGet, "/api/plans", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var plans []model.AIPersonalizedPlan
	decode(t, rec, &plans)
	assert.Len(t, plans, 1)
}

func TestBalanceEndpoints(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.token(t, "u1")

	rec := s.do(t, http.MethodPost, "/api/balance/add", token, model.BalanceRequest{Amount: 20, PaymentMethod: "card"})
	require.Equal(t, http.StatusOK, rec.Code)
	var res model.BalanceResult
	decode(t, rec, &res)
	assert.True(t, res.Success)
	assert.Equal(t, 20.0, res.Balance)

	rec = s.do(t, http.MethodPost, "/api/balance/deduct", token, model.BalanceRequest{Amount: 50})
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	res = model.BalanceResult{}
	decode(t, rec, &res)
	assert.False(t, res.Success)
	assert.Equal(t, balance.MsgInsufficientFunds, res.Message)

	rec = s.do(t, http.MethodPost, "/api/balance/deduct", token, model.BalanceRequest{Amount: -1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/balance/deduct", token, model.BalanceRequest{Amount: 5})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/balance/transactions?limit=1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var txs []model.Transaction
	decode(t, rec, &txs)
	require.Len(t, txs, 1)
	assert.Equal(t, model.TransactionDebit, txs[0].Type)

	rec = s.do(t, http.MethodGet, "/api/balance", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var bal model.UserBalance
	decode(t, rec, &bal)
	assert.Equal(t, 15.0, bal.Balance)
}

func TestPromoEndpoints(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.token(t, "u1")

	rec := s.do(t, http.MethodPost, "/api/promo/validate", token, model.ValidatePromoRequest{Code: "free100", Tier: "Annual", Price: 59.99})
	require.Equal(t, http.StatusOK, rec.Code)
	var applied model.PromoApplyResult
	decode(t, rec, &applied)
	assert.True(t, applied.IsValid)
	assert.Equal(t, 0.0, applied.DiscountedPrice)

	rec = s.do(t, http.MethodPost, "/api/promo/validate", token, model.ValidatePromoRequest{Code: "BOGUS", Tier: "Annual"})
	require.Equal(t, http.StatusOK, rec.Code)
	var res model.PromoValidationResult
	decode(t, rec, &res)
	assert.False(t, res.IsValid)
	assert.Equal(t, promo.MsgInvalidCode, res.Message)
}

func TestPromoQR(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, "/api/promo/free100/qr?size=200&level=high", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"Unknown code", "/api/promo/NOPE/qr", http.StatusNotFound},
		{"Inactive code", "/api/promo/SUMMER2023/qr", http.StatusNotFound},
		{"Size too small", "/api/promo/FREE100/qr?size=64", http.StatusBadRequest},
		{"Size not a number", "/api/promo/FREE100/qr?size=big", http.StatusBadRequest},
		{"Bad level", "/api/promo/FREE100/qr?level=max", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodGet, tt.path, "", nil)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestSubscriptionEndpoints(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.token(t, "u1")

	rec := s.do(t, http.MethodGet, "/api/subscription", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/subscription/tiers", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var tiers []model.SubscriptionTier
	decode(t, rec, &tiers)
	assert.Len(t, tiers, 3)

	rec = s.do(t, http.MethodPost, "/api/subscription", token, model.SubscribeRequest{Tier: "Monthly", PaymentMethod: "balance"})
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/subscription", token, model.SubscribeRequest{Tier: "Weekly", PaymentMethod: "card"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/subscription", token, model.SubscribeRequest{Tier: "Monthly", PaymentMethod: "card", PromoCode: "ANNUAL10"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var errResp ErrorResponse
	decode(t, rec, &errResp)
	assert.Equal(t, fmt.Sprintf(promo.MsgWrongTier, "Monthly"), errResp.Message)

	rec = s.do(t, http.MethodPost, "/api/subscription", token, model.SubscribeRequest{Tier: "Annual", PaymentMethod: "card", PromoCode: "FREE100"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var sub model.SubscriptionDetails
	decode(t, rec, &sub)
	assert.Equal(t, 0.0, sub.PaidAmount)
	assert.Equal(t, "FREE100", sub.PromoCode)

	rec = s.do(t, http.MethodPost, "/api/subscription", token, model.SubscribeRequest{Tier: "Annual", PaymentMethod: "card"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/subscription", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReminderEndpoints(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.token(t, "u1")

	rec := s.do(t, http.MethodPost, "/api/reminders", token, model.ScheduleSessionRequest{Title: "Past", ScheduledAt: time.Now().Add(-time.Hour)})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/reminders", token, model.ScheduleSessionRequest{Title: "Evening wind down", ScheduledAt: time.Now().Add(3 * time.Hour)})
	require.Equal(t, http.StatusCreated, rec.Code)
	var session model.ScheduledSession
	decode(t, rec, &session)

	rec = s.do(t, http.MethodGet, "/api/reminders", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var sessions []model.ScheduledSession
	decode(t, rec, &sessions)
	assert.Len(t, sessions, 1)

	rec = s.do(t, http.MethodDelete, "/api/reminders/"+session.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/reminders/"+session.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChatEndpoints(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.token(t, "u1")

	rec := s.do(t, http.MethodPost, "/api/chat", token, model.ChatRequest{Message: "I can't sleep"})
	require.Equal(t, http.StatusOK, rec.Code)
	var reply model.ChatMessage
	decode(t, rec, &reply)
	assert.Equal(t, "assistant", reply.Role)
	assert.NotEmpty(t, reply.Text)

	rec = s.do(t, http.MethodPost, "/api/chat", token, model.ChatRequest{Message: "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/chat/history", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history []model.ChatMessage
	decode(t, rec, &history)
	assert.Len(t, history, 2)
}

func TestAdminEndpoints(t *testing.T) {
	s := newTestServer(t, nil)

	newCode := model.PromoCode{
		Code:          "spring15",
		DiscountType:  model.DiscountPercentage,
		DiscountValue: 15,
		Active:        true,
	}

	rec := s.do(t, http.MethodPost, "/api/admin/promo", "", newCode)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	adminDo := func(method, path string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("X-Admin-Key", testAdminKey)
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		return rec
	}

	rec = adminDo(http.MethodPost, "/api/admin/promo", newCode)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var saved model.PromoCode
	decode(t, rec, &saved)
	assert.Equal(t, "SPRING15", saved.Code)
	assert.Equal(t, []string{model.AnyTier}, saved.Tiers)

	rec = adminDo(http.MethodPost, "/api/admin/promo", model.PromoCode{Code: "BAD", DiscountType: model.DiscountPercentage, DiscountValue: 150})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = adminDo(http.MethodGet, "/api/admin/promo/spring15/usage", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var usage struct {
		Code string `json:"code"`
		Uses int    `json:"uses"`
	}
	decode(t, rec, &usage)
	assert.Equal(t, "SPRING15", usage.Code)
	assert.Zero(t, usage.Uses)

	rec = adminDo(http.MethodGet, "/api/admin/promo/none/usage", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = adminDo(http.MethodGet, "/api/admin/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats AdminStats
	decode(t, rec, &stats)
	assert.Equal(t, len(promo.DefaultPromoCodes(time.Now()))+1, stats.PromoCodes)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{utils.ErrEmptyField, http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", utils.ErrInvalidAmount), http.StatusBadRequest},
		{&payment.PromoError{Message: "Invalid promo code"}, http.StatusBadRequest},
		{utils.ErrInvalidCredentials, http.StatusUnauthorized},
		{payment.ErrPaymentDeclined, http.StatusPaymentRequired},
		{utils.ErrNotFound, http.StatusNotFound},
		{activity.ErrSessionNotFound, http.StatusNotFound},
		{utils.ErrEmailTaken, http.StatusConflict},
		{payment.ErrAlreadySubscribed, http.StatusConflict},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.status, statusFor(tt.err))
		})
	}
}
