package promo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hushhly/model"
	"hushhly/store"
	"hushhly/utils"

	"github.com/rs/zerolog/log"
)

// Result messages
const (
	MsgInvalidCode   = "Invalid promo code"
	MsgInactive      = "This promo code is no longer active"
	MsgWrongTier     = "This promo code is not valid for the %s plan"
	MsgMaxUses       = "This promo code has reached its usage limit"
	MsgNotYetActive  = "This promo code is not yet active"
	MsgExpired       = "This promo code has expired"
	MsgUserType      = "This promo code is only available to %s users"
	MsgUserTag       = "You are not eligible for this promo code"
	MsgUserAction    = "Complete the required steps to unlock this promo code"
	MsgAlreadyUsed   = "You have already used this promo code"
	MsgApplied       = "Promo code applied successfully"
	MsgUnknownFilter = "Unsupported promo condition"
)

var ErrInvalidPromo = errors.New("invalid promo code definition")

// UserLookup supplies the user snapshot conditions are evaluated against
type UserLookup interface {
	GetUser(ctx context.Context, userID string) (model.User, error)
}

// Service validates promo codes and tracks their usage
type Service struct {
	docs  *store.DocumentStore
	users UserLookup
	now   func() time.Time
}

func NewService(docs *store.DocumentStore, users UserLookup, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{docs: docs, users: users, now: now}
}

// NormalizeCode is the storage key form of a code
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Get loads a promo definition; found is false for unknown codes
func (s *Service) Get(ctx context.Context, code string) (model.PromoCode, bool, error) {
	var p model.PromoCode
	code = NormalizeCode(code)
	if code == "" {
		return p, false, nil
	}
	found, err := s.docs.Get(ctx, store.NamespacePromoCodes, code, &p)
	return p, found, err
}

// Usage lists the recorded redemptions of a code
func (s *Service) Usage(ctx context.Context, code string) ([]model.PromoCodeUsage, error) {
	return store.Load(ctx, s.docs, store.NamespacePromoUsage, NormalizeCode(code), func() []model.PromoCodeUsage {
		return []model.PromoCodeUsage{}
	})
}

// Validate checks code for tier and user. Checks run in order and the first
// failure decides the message: existence, active flag, tier, each condition,
// then prior use by this user.
func (s *Service) Validate(ctx context.Context, code, tier, userID string) (model.PromoValidationResult, error) {
	promo, found, err := s.Get(ctx, code)
	if err != nil {
		return model.PromoValidationResult{}, err
	}
	if !found {
		return invalid(MsgInvalidCode), nil
	}
	if !promo.Active {
		return invalid(MsgInactive), nil
	}
	if !tierAllowed(promo.Tiers, tier) {
		return invalid(fmt.Sprintf(MsgWrongTier, tier)), nil
	}

	usages, err := s.Usage(ctx, promo.Code)
	if err != nil {
		return model.PromoValidationResult{}, err
	}

	if len(promo.Conditions) > 0 {
		user, err := s.lookupUser(ctx, userID)
		if err != nil {
			return model.PromoValidationResult{}, err
		}
		for _, c := range promo.Conditions {
			if msg, ok := s.checkCondition(c, user, len(usages)); !ok {
				log.Debug().
					Str("code", promo.Code).
					Str("user_id", userID).
					Str("condition", string(c.Type)).
					Msg("Promo condition failed")
				return invalid(msg), nil
			}
		}
	}

	for _, u := range usages {
		if u.UserID == userID {
			return invalid(MsgAlreadyUsed), nil
		}
	}

	details := promo
	return model.PromoValidationResult{IsValid: true, Message: MsgApplied, PromoDetails: &details}, nil
}

// Apply validates the code and prices it against price
func (s *Service) Apply(ctx context.Context, code, tier, userID string, price float64) (model.PromoApplyResult, error) {
	v, err := s.Validate(ctx, code, tier, userID)
	if err != nil {
		return model.PromoApplyResult{}, err
	}
	res := model.PromoApplyResult{
		PromoValidationResult: v,
		OriginalPrice:         price,
		DiscountedPrice:       price,
	}
	if v.IsValid {
		res.DiscountedPrice = ApplyDiscount(*v.PromoDetails, price)
		res.Savings = utils.RoundCents(price - res.DiscountedPrice)
	}
	return res, nil
}

// ApplyDiscount prices promo against price, never below zero, in cents
func ApplyDiscount(promo model.PromoCode, price float64) float64 {
	var discounted float64
	switch promo.DiscountType {
	case model.DiscountPercentage:
		discounted = price * (1 - promo.DiscountValue/100)
	case model.DiscountFixed:
		discounted = price - promo.DiscountValue
	default:
		discounted = price
	}
	if discounted < 0 {
		discounted = 0
	}
	return utils.RoundCents(discounted)
}

// errRefused aborts a usage-list write when a redemption is over a limit
var errRefused = errors.New("promo redemption refused")

// Redeem claims one use of code for userID. The per-user and maxUses limits
// are checked again while the usage list is locked, so of two concurrent
// redemptions at most the allowed number succeed. A refused claim records
// nothing and carries the validator message.
func (s *Service) Redeem(ctx context.Context, code, userID, tier string) (model.PromoValidationResult, error) {
	code = NormalizeCode(code)
	if code == "" {
		return model.PromoValidationResult{}, fmt.Errorf("code: %w", utils.ErrEmptyField)
	}
	if userID == "" {
		return model.PromoValidationResult{}, utils.ErrEmptyUserID
	}

	promo, found, err := s.Get(ctx, code)
	if err != nil {
		return model.PromoValidationResult{}, err
	}
	if !found {
		return invalid(MsgInvalidCode), nil
	}
	maxUses := usageLimit(promo.Conditions)
	usage := model.PromoCodeUsage{Code: code, UserID: userID, Tier: tier, UsedAt: s.now()}

	var refused string
	_, err = store.Mutate(ctx, s.docs, store.NamespacePromoUsage, code, func() []model.PromoCodeUsage {
		return []model.PromoCodeUsage{}
	}, func(list *[]model.PromoCodeUsage) error {
		for _, u := range *list {
			if u.UserID == userID {
				refused = MsgAlreadyUsed
				return errRefused
			}
		}
		if maxUses > 0 && len(*list) >= maxUses {
			refused = MsgMaxUses
			return errRefused
		}
		*list = append(*list, usage)
		return nil
	})
	if errors.Is(err, errRefused) {
		return invalid(refused), nil
	}
	if err != nil {
		return model.PromoValidationResult{}, err
	}

	log.Info().Str("code", code).Str("user_id", userID).Str("tier", tier).Msg("Promo code redeemed")
	details := promo
	return model.PromoValidationResult{IsValid: true, Message: MsgApplied, PromoDetails: &details}, nil
}

// Release gives back userID's redemption of code after the purchase it
// was claimed for failed
func (s *Service) Release(ctx context.Context, code, userID string) error {
	code = NormalizeCode(code)
	_, err := store.Mutate(ctx, s.docs, store.NamespacePromoUsage, code, func() []model.PromoCodeUsage {
		return []model.PromoCodeUsage{}
	}, func(list *[]model.PromoCodeUsage) error {
		kept := (*list)[:0]
		for _, u := range *list {
			if u.UserID != userID {
				kept = append(kept, u)
			}
		}
		*list = kept
		return nil
	})
	if err == nil {
		log.Info().Str("code", code).Str("user_id", userID).Msg("Promo redemption released")
	}
	return err
}

// usageLimit is the tightest maxUses condition, 0 when unlimited
func usageLimit(conditions []model.PromoCondition) int {
	limit := 0
	for _, c := range conditions {
		if c.Type == model.ConditionMaxUses && c.MaxUses > 0 && (limit == 0 || c.MaxUses < limit) {
			limit = c.MaxUses
		}
	}
	return limit
}

// Save validates and stores a promo definition, replacing any with the same code
func (s *Service) Save(ctx context.Context, promo model.PromoCode) (model.PromoCode, error) {
	promo.Code = NormalizeCode(promo.Code)
	if err := validateDefinition(promo); err != nil {
		return model.PromoCode{}, err
	}
	if len(promo.Tiers) == 0 {
		promo.Tiers = []string{model.AnyTier}
	}
	if promo.Conditions == nil {
		promo.Conditions = []model.PromoCondition{}
	}
	if promo.CreatedAt.IsZero() {
		promo.CreatedAt = s.now()
	}
	if err := s.docs.Set(ctx, store.NamespacePromoCodes, promo.Code, promo); err != nil {
		return model.PromoCode{}, err
	}
	return promo, nil
}

// Seed stores every default code that is not already defined and reports
// how many were added
func (s *Service) Seed(ctx context.Context) (int, error) {
	added := 0
	for _, p := range DefaultPromoCodes(s.now()) {
		_, found, err := s.Get(ctx, p.Code)
		if err != nil {
			return added, err
		}
		if found {
			continue
		}
		if _, err := s.Save(ctx, p); err != nil {
			return added, err
		}
		added++
	}
	if added > 0 {
		log.Info().Int("count", added).Msg("Seeded default promo codes")
	}
	return added, nil
}

func (s *Service) lookupUser(ctx context.Context, userID string) (model.User, error) {
	anonymous := model.User{ID: userID, UserType: model.UserTypeNew}
	if s.users == nil || userID == "" {
		return anonymous, nil
	}
	user, err := s.users.GetUser(ctx, userID)
	if errors.Is(err, utils.ErrUserNotFound) {
		return anonymous, nil
	}
	return user, err
}

func (s *Service) checkCondition(c model.PromoCondition, user model.User, uses int) (string, bool) {
	switch c.Type {
	case model.ConditionMaxUses:
		if c.MaxUses > 0 && uses >= c.MaxUses {
			return MsgMaxUses, false
		}
	case model.ConditionDateRange:
		now := s.now()
		if c.StartDate != nil && now.Before(*c.StartDate) {
			return MsgNotYetActive, false
		}
		if c.EndDate != nil && now.After(*c.EndDate) {
			return MsgExpired, false
		}
	case model.ConditionUserType:
		if !containsFold(c.Values, user.UserType) {
			return fmt.Sprintf(MsgUserType, strings.Join(c.Values, " or ")), false
		}
	case model.ConditionUserTag:
		if !anyOf(c.Values, user.HasTag) {
			return MsgUserTag, false
		}
	case model.ConditionUserAction:
		if !anyOf(c.Values, user.HasAction) {
			return MsgUserAction, false
		}
	default:
		return MsgUnknownFilter, false
	}
	return "", true
}

func validateDefinition(p model.PromoCode) error {
	if p.Code == "" {
		return fmt.Errorf("%w: code is empty", ErrInvalidPromo)
	}
	switch p.DiscountType {
	case model.DiscountPercentage:
		if p.DiscountValue <= 0 || p.DiscountValue > 100 {
			return fmt.Errorf("%w: percentage must be in (0, 100]", ErrInvalidPromo)
		}
	case model.DiscountFixed:
		if p.DiscountValue <= 0 {
			return fmt.Errorf("%w: fixed discount must be positive", ErrInvalidPromo)
		}
	default:
		return fmt.Errorf("%w: unknown discount type %q", ErrInvalidPromo, p.DiscountType)
	}
	for _, c := range p.Conditions {
		switch c.Type {
		case model.ConditionMaxUses:
			if c.MaxUses <= 0 {
				return fmt.Errorf("%w: maxUses must be positive", ErrInvalidPromo)
			}
		case model.ConditionDateRange:
			if c.StartDate != nil && c.EndDate != nil && c.EndDate.Before(*c.StartDate) {
				return fmt.Errorf("%w: date range ends before it starts", ErrInvalidPromo)
			}
		case model.ConditionUserType, model.ConditionUserTag, model.ConditionUserAction:
			if len(c.Values) == 0 {
				return fmt.Errorf("%w: %s condition needs values", ErrInvalidPromo, c.Type)
			}
		default:
			return fmt.Errorf("%w: unknown condition %q", ErrInvalidPromo, c.Type)
		}
	}
	return nil
}

func invalid(msg string) model.PromoValidationResult {
	return model.PromoValidationResult{IsValid: false, Message: msg}
}

func tierAllowed(tiers []string, tier string) bool {
	for _, t := range tiers {
		if t == model.AnyTier || strings.EqualFold(t, tier) {
			return true
		}
	}
	return false
}

func containsFold(list []string, v string) bool {
	for _, s := range list {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

func anyOf(values []string, has func(string) bool) bool {
	for _, v := range values {
		if has(v) {
			return true
		}
	}
	return false
}
