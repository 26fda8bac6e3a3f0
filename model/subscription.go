package model

import "time"

type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

// Payment methods accepted by the purchase flow
const (
	PaymentMethodBalance   = "balance"
	PaymentMethodApplePay  = "apple_pay"
	PaymentMethodGooglePay = "google_pay"
	PaymentMethodCard      = "card"
)

// SubscriptionTier is a purchasable plan
type SubscriptionTier struct {
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	DurationDays int     `json:"durationDays"` // 0 for lifetime
}

// SubscriptionDetails is persisted per user
type SubscriptionDetails struct {
	UserID        string             `json:"userId"`
	Tier          string             `json:"tier"`
	Price         float64            `json:"price"`
	PaidAmount    float64            `json:"paidAmount"`
	PromoCode     string             `json:"promoCode,omitempty"`
	PaymentMethod string             `json:"paymentMethod"`
	TransactionID string             `json:"transactionId,omitempty"`
	StartedAt     time.Time          `json:"startedAt"`
	RenewsAt      *time.Time         `json:"renewsAt,omitempty"`
	Status        SubscriptionStatus `json:"status"`
}

// SubscribeRequest is the body of a purchase request
type SubscribeRequest struct {
	Tier          string `json:"tier"`
	PaymentMethod string `json:"paymentMethod"`
	PromoCode     string `json:"promoCode,omitempty"`
}
