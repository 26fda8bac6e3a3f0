package model

import "time"

// Meditation is a catalog entry
type Meditation struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Duration    int      `json:"duration"` // Minutes
	BestFor     []string `json:"bestFor"`  // Time-of-day buckets and moods
	Tags        []string `json:"tags"`
}

// UserPreferences drives recommendation scoring
type UserPreferences struct {
	Mood              string    `json:"mood"`
	PreferredDuration int       `json:"preferredDuration"` // Minutes, 0 when unknown
	PreferVariety     bool      `json:"preferVariety"`
	Goals             []string  `json:"goals"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// AIRecommendation is a scored catalog entry
type AIRecommendation struct {
	Meditation Meditation `json:"meditation"`
	Score      int        `json:"score"`
	Reasons    []string   `json:"reasons"`
}

// AIInsight is a derived, non-persistent observation about a user's practice
type AIInsight struct {
	Type    string `json:"type"` // streak, time, habit, suggestion
	Title   string `json:"title"`
	Message string `json:"message"`
}

// PlanDay is one day of a personalized plan
type PlanDay struct {
	Day        int        `json:"day"`
	Meditation Meditation `json:"meditation"`
	Focus      string     `json:"focus"`
}

// AIPersonalizedPlan is persisted per user as an array
type AIPersonalizedPlan struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Goal      string    `json:"goal"`
	CreatedAt time.Time `json:"createdAt"`
	Days      []PlanDay `json:"days"`
}

// CreatePlanRequest is the body of a plan creation request
type CreatePlanRequest struct {
	Goal string `json:"goal"`
	Days int    `json:"days"`
}
