package model

import "time"

// User types understood by promo rules
const (
	UserTypeNew       = "new"
	UserTypeReturning = "returning"
	UserTypePremium   = "premium"
)

// Product actions a user may record for themselves. Promo rules gate on
// these, so anything else is rejected.
const (
	ActionCompletedOnboarding = "completed_onboarding"
	ActionFirstMeditation     = "first_meditation"
	ActionSetPreferences      = "set_preferences"
	ActionEnabledReminders    = "enabled_reminders"
)

// IsUserAction reports whether action is one of the recordable product actions
func IsUserAction(action string) bool {
	switch action {
	case ActionCompletedOnboarding, ActionFirstMeditation, ActionSetPreferences, ActionEnabledReminders:
		return true
	}
	return false
}

// User represents a registered user (for internal storage)
type User struct {
	ID           string    `json:"id"`           // UUID
	Email        string    `json:"email"`        // Email address (unique)
	Name         string    `json:"name"`         // Display name
	PasswordHash string    `json:"passwordHash"` // Bcrypt password hash (never exposed in API)
	UserType     string    `json:"userType"`     // new, returning or premium
	Tags         []string  `json:"tags"`         // Marketing / cohort tags
	Actions      []string  `json:"actions"`      // Completed product actions, e.g. completed_onboarding
	CreatedAt    time.Time `json:"createdAt"`
	LastLoginAt  time.Time `json:"lastLoginAt"`
}

// UserResponse represents user data for API responses (excludes sensitive fields)
type UserResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	UserType    string    `json:"userType"`
	Tags        []string  `json:"tags"`
	Actions     []string  `json:"actions"`
	CreatedAt   time.Time `json:"createdAt"`
	LastLoginAt time.Time `json:"lastLoginAt"`
}

// ToResponse converts User to UserResponse (removes sensitive data)
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		UserType:    u.UserType,
		Tags:        u.Tags,
		Actions:     u.Actions,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

// HasTag reports whether the user carries the tag
func (u *User) HasTag(tag string) bool {
	return containsString(u.Tags, tag)
}

// HasAction reports whether the user performed the action
func (u *User) HasAction(action string) bool {
	return containsString(u.Actions, action)
}

// RegisterRequest represents user registration data
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents successful login response
type LoginResponse struct {
	AccessToken string       `json:"accessToken"`
	User        UserResponse `json:"user"`
}

func containsString(list []string, item string) bool {
	for _, s := range list {
		if s == item {
			return true
		}
	}
	return false
}
