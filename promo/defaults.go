package promo

import (
	"time"

	"hushhly/model"
)

// DefaultPromoCodes is the built-in set seeded into an empty store
func DefaultPromoCodes(now time.Time) []model.PromoCode {
	yearEnd := time.Date(now.Year(), time.December, 31, 23, 59, 59, 0, now.Location())

	return []model.PromoCode{
		{
			Code:          "FREE100",
			Description:   "Full access on us",
			DiscountType:  model.DiscountPercentage,
			DiscountValue: 100,
			Tiers:         []string{model.AnyTier},
			Active:        true,
			Conditions:    []model.PromoCondition{},
			CreatedAt:     now,
		},
		{
			Code:          "WELCOME20",
			Description:   "20% off your first subscription",
			DiscountType:  model.DiscountPercentage,
			DiscountValue: 20,
			Tiers:         []string{model.AnyTier},
			Active:        true,
			Conditions: []model.PromoCondition{
				{Type: model.ConditionUserType, Values: []string{model.UserTypeNew}},
			},
			CreatedAt: now,
		},
		{
			Code:          "ANNUAL10",
			Description:   "$10 off the annual plan",
			DiscountType:  model.DiscountFixed,
			DiscountValue: 10,
			Tiers:         []string{"Annual"},
			Active:        true,
			Conditions:    []model.PromoCondition{},
			CreatedAt:     now,
		},
		{
			Code:          "CALMYEAR",
			Description:   "30% off any plan until the end of the year",
			DiscountType:  model.DiscountPercentage,
			DiscountValue: 30,
			Tiers:         []string{model.AnyTier},
			Active:        true,
			Conditions: []model.PromoCondition{
				{Type: model.ConditionDateRange, StartDate: &now, EndDate: &yearEnd},
				{Type: model.ConditionMaxUses, MaxUses: 500},
			},
			CreatedAt: now,
		},
		{
			Code:          "BETAZEN",
			Description:   "50% off for beta testers who finished onboarding",
			DiscountType:  model.DiscountPercentage,
			DiscountValue: 50,
			Tiers:         []string{"Monthly", "Annual"},
			Active:        true,
			Conditions: []model.PromoCondition{
				{Type: model.ConditionUserTag, Values: []string{"beta"}},
				{Type: model.ConditionUserAction, Values: []string{"completed_onboarding"}},
			},
			CreatedAt: now,
		},
		{
			Code:          "SUMMER2023",
			Description:   "Retired seasonal offer",
			DiscountType:  model.DiscountPercentage,
			DiscountValue: 25,
			Tiers:         []string{model.AnyTier},
			Active:        false,
			Conditions:    []model.PromoCondition{},
			CreatedAt:     now,
		},
	}
}
