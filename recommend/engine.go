package recommend

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hushhly/activity"
	"hushhly/model"
	"hushhly/store"
	"hushhly/utils"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	recentHistoryLimit = 10
	defaultPlanDays    = 7
	maxPlanDays        = 30
)

// goalTags maps plan goals onto catalog categories and tags
var goalTags = map[string][]string{
	"sleep":  {"sleep", "relaxation", "body"},
	"stress": {"stress", "relaxation", "breathing"},
	"focus":  {"focus", "attention", "intention"},
	"energy": {"energy", "movement", "breathing"},
	"mood":   {"gratitude", "reflection", "intention"},
}

// Engine serves recommendations, insights and plans from stored preferences
// and activity history
type Engine struct {
	docs    *store.DocumentStore
	ledger  *activity.Ledger
	catalog []model.Meditation
	now     func() time.Time
}

func NewEngine(docs *store.DocumentStore, ledger *activity.Ledger, catalog []model.Meditation, now func() time.Time) *Engine {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if now == nil {
		now = time.Now
	}
	return &Engine{docs: docs, ledger: ledger, catalog: catalog, now: now}
}

// Catalog returns the meditation library the engine scores
func (e *Engine) Catalog() []model.Meditation {
	return e.catalog
}

func defaultPreferences() model.UserPreferences {
	return model.UserPreferences{Goals: []string{}}
}

func (e *Engine) GetPreferences(ctx context.Context, userID string) (model.UserPreferences, error) {
	if userID == "" {
		return model.UserPreferences{}, utils.ErrEmptyUserID
	}
	return store.Load(ctx, e.docs, store.NamespacePreferences, userID, defaultPreferences)
}

// SavePreferences replaces the stored preferences. Mood must be empty or a
// known mood.
func (e *Engine) SavePreferences(ctx context.Context, userID string, prefs model.UserPreferences) (model.UserPreferences, error) {
	if userID == "" {
		return model.UserPreferences{}, utils.ErrEmptyUserID
	}
	prefs.Mood = strings.ToLower(strings.TrimSpace(prefs.Mood))
	if prefs.Mood != "" && !contains(Moods, prefs.Mood) {
		return model.UserPreferences{}, fmt.Errorf("unknown mood %q: %w", prefs.Mood, utils.ErrEmptyField)
	}
	if prefs.PreferredDuration < 0 {
		prefs.PreferredDuration = 0
	}
	if prefs.Goals == nil {
		prefs.Goals = []string{}
	}
	prefs.UpdatedAt = e.now()

	if err := e.docs.Set(ctx, store.NamespacePreferences, userID, prefs); err != nil {
		return model.UserPreferences{}, err
	}
	return prefs, nil
}

// GetRecommendations scores the catalog for the current hour, the user's
// preferences and their recently completed meditations
func (e *Engine) GetRecommendations(ctx context.Context, userID string, count int) ([]model.AIRecommendation, error) {
	prefs, err := e.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	rec, err := e.ledger.GetRecord(ctx, userID)
	if err != nil {
		return nil, err
	}

	recent := activity.RecentCompletedTypes(rec, recentHistoryLimit)
	tod := TimeOfDayAt(e.now().Hour())

	log.Debug().
		Str("user_id", userID).
		Str("time_of_day", string(tod)).
		Str("mood", prefs.Mood).
		Int("history", len(recent)).
		Msg("Scoring recommendations")

	return Score(e.catalog, tod, prefs, recent, count), nil
}

// GetInsights derives observations from the activity summary and preferences
func (e *Engine) GetInsights(ctx context.Context, userID string) ([]model.AIInsight, error) {
	summary, err := e.ledger.GetActivitySummary(ctx, userID)
	if err != nil {
		return nil, err
	}
	prefs, err := e.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	insights := []model.AIInsight{}

	switch {
	case summary.CurrentStreak >= 7:
		insights = append(insights, model.AIInsight{
			Type:    "streak",
			Title:   "Week-long streak",
			Message: fmt.Sprintf("You have practiced %d days in a row. Keep the rhythm going.", summary.CurrentStreak),
		})
	case summary.CurrentStreak >= 3:
		insights = append(insights, model.AIInsight{
			Type:    "streak",
			Title:   "Building momentum",
			Message: fmt.Sprintf("%d days in a row. A few more and it becomes a habit.", summary.CurrentStreak),
		})
	case summary.LongestStreak > summary.CurrentStreak && summary.LongestStreak >= 3:
		insights = append(insights, model.AIInsight{
			Type:    "streak",
			Title:   "Start a new streak",
			Message: fmt.Sprintf("Your best run was %d days. Today is a good day to begin again.", summary.LongestStreak),
		})
	}

	if summary.TotalTimeToday == 0 {
		insights = append(insights, model.AIInsight{
			Type:    "time",
			Title:   "A quiet moment",
			Message: "You have not taken any time for yourself today. Even five minutes helps.",
		})
	}

	if summary.CompletedMeditations > 0 {
		minutes := summary.TotalMeditationTime / time.Minute.Milliseconds()
		insights = append(insights, model.AIInsight{
			Type:    "habit",
			Title:   "Your practice so far",
			Message: fmt.Sprintf("%d completed meditations, %d minutes in total.", summary.CompletedMeditations, minutes),
		})
	}

	if top := Score(e.catalog, TimeOfDayAt(e.now().Hour()), prefs, summary.RecentMeditationTypes, 1); len(top) > 0 {
		insights = append(insights, model.AIInsight{
			Type:    "suggestion",
			Title:   "Try next",
			Message: fmt.Sprintf("%s (%d min) suits you right now.", top[0].Meditation.Title, top[0].Meditation.Duration),
		})
	}

	return insights, nil
}

// CreatePlan builds a day-by-day plan for a goal and appends it to the
// user's stored plans
func (e *Engine) CreatePlan(ctx context.Context, userID, goal string, days int) (model.AIPersonalizedPlan, error) {
	if userID == "" {
		return model.AIPersonalizedPlan{}, utils.ErrEmptyUserID
	}
	goal = strings.ToLower(strings.TrimSpace(goal))
	if goal == "" {
		return model.AIPersonalizedPlan{}, fmt.Errorf("goal: %w", utils.ErrEmptyField)
	}
	if days <= 0 {
		days = defaultPlanDays
	}
	if days > maxPlanDays {
		days = maxPlanDays
	}

	prefs, err := e.GetPreferences(ctx, userID)
	if err != nil {
		return model.AIPersonalizedPlan{}, err
	}

	pool := e.planPool(goal, prefs)
	plan := model.AIPersonalizedPlan{
		ID:        uuid.NewString(),
		UserID:    userID,
		Goal:      goal,
		CreatedAt: e.now(),
		Days:      make([]model.PlanDay, 0, days),
	}
	for d := 0; d < days; d++ {
		m := pool[d%len(pool)]
		plan.Days = append(plan.Days, model.PlanDay{
			Day:        d + 1,
			Meditation: m,
			Focus:      planFocus(d, days),
		})
	}

	_, err = store.Mutate(ctx, e.docs, store.NamespacePlans, userID, func() []model.AIPersonalizedPlan {
		return []model.AIPersonalizedPlan{}
	}, func(plans *[]model.AIPersonalizedPlan) error {
		*plans = append(*plans, plan)
		return nil
	})
	if err != nil {
		return model.AIPersonalizedPlan{}, err
	}

	log.Info().Str("user_id", userID).Str("goal", goal).Int("days", days).Msg("Personalized plan created")
	return plan, nil
}

// GetPlans lists the user's plans, oldest first
func (e *Engine) GetPlans(ctx context.Context, userID string) ([]model.AIPersonalizedPlan, error) {
	if userID == "" {
		return nil, utils.ErrEmptyUserID
	}
	return store.Load(ctx, e.docs, store.NamespacePlans, userID, func() []model.AIPersonalizedPlan {
		return []model.AIPersonalizedPlan{}
	})
}

// planPool picks catalog entries matching the goal, ranked by the user's
// preferences. Unknown goals use the whole ranked catalog.
func (e *Engine) planPool(goal string, prefs model.UserPreferences) []model.Meditation {
	ranked := Score(e.catalog, TimeOfDayAt(e.now().Hour()), prefs, nil, 0)

	wanted := goalTags[goal]
	var pool []model.Meditation
	for _, r := range ranked {
		m := r.Meditation
		if len(wanted) == 0 || contains(wanted, m.Category) || overlaps(m.Tags, toSet(wanted)) {
			pool = append(pool, m)
		}
	}
	if len(pool) == 0 {
		for _, r := range ranked {
			pool = append(pool, r.Meditation)
		}
	}
	return pool
}

func planFocus(day, total int) string {
	switch {
	case day == 0:
		return "Settle in"
	case day == total-1:
		return "Reflect on your progress"
	case day < total/2:
		return "Build the habit"
	default:
		return "Deepen the practice"
	}
}

func toSet(list []string) map[string]bool {
	set := make(map[string]bool, len(list))
	for _, s := range list {
		set[strings.ToLower(s)] = true
	}
	return set
}
