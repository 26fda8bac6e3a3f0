package model

import "time"

// AnyTier in PromoCode.Tiers makes a code valid for every plan
const AnyTier = "Any"

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

type ConditionType string

const (
	ConditionMaxUses    ConditionType = "maxUses"
	ConditionDateRange  ConditionType = "dateRange"
	ConditionUserType   ConditionType = "userType"
	ConditionUserTag    ConditionType = "userTag"
	ConditionUserAction ConditionType = "userAction"
)

// PromoCondition is one AND-ed rule; which fields apply depends on Type
type PromoCondition struct {
	Type      ConditionType `json:"type"`
	MaxUses   int           `json:"maxUses,omitempty"`
	StartDate *time.Time    `json:"startDate,omitempty"`
	EndDate   *time.Time    `json:"endDate,omitempty"`
	Values    []string      `json:"values,omitempty"` // user types, tags or actions
}

// PromoCode is a discount definition
type PromoCode struct {
	Code          string           `json:"code"`
	Description   string           `json:"description"`
	DiscountType  DiscountType     `json:"discountType"`
	DiscountValue float64          `json:"discountValue"`
	Tiers         []string         `json:"tiers"`
	Active        bool             `json:"active"`
	Conditions    []PromoCondition `json:"conditions"`
	CreatedAt     time.Time        `json:"createdAt"`
}

// PromoCodeUsage records one redemption
type PromoCodeUsage struct {
	Code   string    `json:"code"`
	UserID string    `json:"userId"`
	Tier   string    `json:"tier"`
	UsedAt time.Time `json:"usedAt"`
}

// PromoValidationResult is the outcome of validating a code
type PromoValidationResult struct {
	IsValid      bool       `json:"isValid"`
	Message      string     `json:"message"`
	PromoDetails *PromoCode `json:"promoDetails,omitempty"`
}

// PromoApplyResult adds the priced outcome to a validation
type PromoApplyResult struct {
	PromoValidationResult
	OriginalPrice   float64 `json:"originalPrice"`
	DiscountedPrice float64 `json:"discountedPrice"`
	Savings         float64 `json:"savings"`
}

// ValidatePromoRequest is the body of a promo validation request
type ValidatePromoRequest struct {
	Code  string  `json:"code"`
	Tier  string  `json:"tier"`
	Price float64 `json:"price,omitempty"`
}
