package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hushhly/balance"
	"hushhly/model"
	"hushhly/promo"
	"hushhly/store"
	"hushhly/utils"

	"github.com/rs/zerolog/log"
)

var (
	ErrUnknownTier         = errors.New("unknown subscription tier")
	ErrAlreadySubscribed   = errors.New("already subscribed to this tier")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// PromoError carries the validator's message for a rejected promo code
type PromoError struct {
	Message string
}

func (e *PromoError) Error() string {
	return "promo code rejected: " + e.Message
}

// UserTypeSetter promotes subscribers
type UserTypeSetter interface {
	SetUserType(ctx context.Context, userID, userType string) (model.User, error)
}

// DefaultTiers are the purchasable plans
func DefaultTiers() []model.SubscriptionTier {
	return []model.SubscriptionTier{
		{Name: "Monthly", Price: 9.99, DurationDays: 30},
		{Name: "Annual", Price: 59.99, DurationDays: 365},
		{Name: "Lifetime", Price: 149.99, DurationDays: 0},
	}
}

// SubscriptionService runs the purchase flow: promo pricing, payment through
// the balance ledger or a gateway, persistence and promo redemption
type SubscriptionService struct {
	docs    *store.DocumentStore
	promos  *promo.Service
	balance *balance.Service
	gateway Gateway
	users   UserTypeSetter
	tiers   []model.SubscriptionTier
	now     func() time.Time
}

func NewSubscriptionService(docs *store.DocumentStore, promos *promo.Service, bal *balance.Service, gateway Gateway, users UserTypeSetter, now func() time.Time) *SubscriptionService {
	if now == nil {
		now = time.Now
	}
	return &SubscriptionService{
		docs:    docs,
		promos:  promos,
		balance: bal,
		gateway: gateway,
		users:   users,
		tiers:   DefaultTiers(),
		now:     now,
	}
}

func (s *SubscriptionService) Tiers() []model.SubscriptionTier {
	return s.tiers
}

// Tier looks a plan up by name, case-insensitively
func (s *SubscriptionService) Tier(name string) (model.SubscriptionTier, bool) {
	for _, t := range s.tiers {
		if strings.EqualFold(t.Name, strings.TrimSpace(name)) {
			return t, true
		}
	}
	return model.SubscriptionTier{}, false
}

// GetSubscription returns the user's subscription; found is false when none
func (s *SubscriptionService) GetSubscription(ctx context.Context, userID string) (model.SubscriptionDetails, bool, error) {
	if userID == "" {
		return model.SubscriptionDetails{}, false, utils.ErrEmptyUserID
	}
	var sub model.SubscriptionDetails
	found, err := s.docs.Get(ctx, store.NamespaceSubscriptions, userID, &sub)
	return sub, found, err
}

// Subscribe purchases a tier. Zero-priced purchases skip payment.
func (s *SubscriptionService) Subscribe(ctx context.Context, userID string, req model.SubscribeRequest) (model.SubscriptionDetails, error) {
	if userID == "" {
		return model.SubscriptionDetails{}, utils.ErrEmptyUserID
	}
	tier, ok := s.Tier(req.Tier)
	if !ok {
		return model.SubscriptionDetails{}, fmt.Errorf("%w: %q", ErrUnknownTier, req.Tier)
	}
	method := strings.ToLower(strings.TrimSpace(req.PaymentMethod))
	if method != model.PaymentMethodBalance && !GatewayMethod(method) {
		return model.SubscriptionDetails{}, fmt.Errorf("%w: %q", ErrUnknownPaymentMethod, req.PaymentMethod)
	}

	current, found, err := s.GetSubscription(ctx, userID)
	if err != nil {
		return model.SubscriptionDetails{}, err
	}
	if found && current.Status == model.SubscriptionActive && current.Tier == tier.Name {
		return model.SubscriptionDetails{}, ErrAlreadySubscribed
	}

	price := tier.Price
	code := promo.NormalizeCode(req.PromoCode)
	if code != "" {
		applied, err := s.promos.Apply(ctx, code, tier.Name, userID, tier.Price)
		if err != nil {
			return model.SubscriptionDetails{}, err
		}
		if !applied.IsValid {
			return model.SubscriptionDetails{}, &PromoError{Message: applied.Message}
		}
		price = applied.DiscountedPrice

		// Claim the code before charging so a parallel purchase cannot reuse it
		redeemed, err := s.promos.Redeem(ctx, code, userID, tier.Name)
		if err != nil {
			return model.SubscriptionDetails{}, err
		}
		if !redeemed.IsValid {
			return model.SubscriptionDetails{}, &PromoError{Message: redeemed.Message}
		}
	}

	txID, err := s.collect(ctx, userID, tier, method, price)
	if err != nil {
		s.releasePromo(ctx, code, userID)
		return model.SubscriptionDetails{}, err
	}

	now := s.now()
	sub := model.SubscriptionDetails{
		UserID:        userID,
		Tier:          tier.Name,
		Price:         tier.Price,
		PaidAmount:    price,
		PromoCode:     code,
		PaymentMethod: method,
		TransactionID: txID,
		StartedAt:     now,
		Status:        model.SubscriptionActive,
	}
	if tier.DurationDays > 0 {
		renews := now.AddDate(0, 0, tier.DurationDays)
		sub.RenewsAt = &renews
	}

	if err := s.docs.Set(ctx, store.NamespaceSubscriptions, userID, sub); err != nil {
		s.releasePromo(ctx, code, userID)
		return model.SubscriptionDetails{}, err
	}

	if s.users != nil {
		if _, err := s.users.SetUserType(ctx, userID, model.UserTypePremium); err != nil && !errors.Is(err, utils.ErrUserNotFound) {
			log.Error().Err(err).Str("user_id", userID).Msg("Failed to promote subscriber")
		}
	}

	log.Info().
		Str("user_id", userID).
		Str("tier", tier.Name).
		Str("method", method).
		Float64("paid", price).
		Str("promo", code).
		Msg("Subscription purchased")

	return sub, nil
}

// releasePromo undoes a redemption for a purchase that did not complete.
// It runs even when the request context is already cancelled.
func (s *SubscriptionService) releasePromo(ctx context.Context, code, userID string) {
	if code == "" {
		return
	}
	if err := s.promos.Release(context.WithoutCancel(ctx), code, userID); err != nil {
		log.Error().Err(err).Str("code", code).Str("user_id", userID).Msg("Failed to release promo redemption")
	}
}

// collect takes payment and returns the transaction id
func (s *SubscriptionService) collect(ctx context.Context, userID string, tier model.SubscriptionTier, method string, price float64) (string, error) {
	if price <= 0 {
		return "", nil
	}
	description := fmt.Sprintf("Hushhly %s subscription", tier.Name)

	if method == model.PaymentMethodBalance {
		res, err := s.balance.DeductBalance(ctx, userID, price, description)
		if err != nil {
			return "", err
		}
		if !res.Success {
			return "", fmt.Errorf("%w: %s", ErrInsufficientBalance, res.Message)
		}
		return res.Transaction.ID, nil
	}

	charge, err := s.gateway.Charge(ctx, ChargeRequest{
		UserID:      userID,
		Amount:      price,
		Method:      method,
		Description: description,
	})
	if err != nil {
		return "", err
	}
	return charge.TransactionID, nil
}
