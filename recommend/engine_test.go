package recommend

import (
	"context"
	"testing"
	"time"

	"hushhly/activity"
	"hushhly/model"
	"hushhly/store"
	"hushhly/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, hour int) (*Engine, *activity.Ledger) {
	t.Helper()
	now := func() time.Time { return time.Date(2024, 5, 1, hour, 0, 0, 0, time.Local) }
	docs := store.NewDocumentStore(store.NewMemoryKV(), nil)
	ledger := activity.NewLedger(docs, now)
	return NewEngine(docs, ledger, nil, now), ledger
}

func TestEngine_Preferences(t *testing.T) {
	engine, _ := newTestEngine(t, 9)
	ctx := context.Background()

	prefs, err := engine.GetPreferences(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, prefs.Mood)

	saved, err := engine.SavePreferences(ctx, "u1", model.UserPreferences{Mood: " Tired ", PreferredDuration: 20})
	require.NoError(t, err)
	assert.Equal(t, "tired", saved.Mood)
	assert.False(t, saved.UpdatedAt.IsZero())

	prefs, err = engine.GetPreferences(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "tired", prefs.Mood)
	assert.Equal(t, 20, prefs.PreferredDuration)

	_, err = engine.SavePreferences(ctx, "u1", model.UserPreferences{Mood: "furious"})
	assert.ErrorIs(t, err, utils.ErrEmptyField)

	_, err = engine.GetPreferences(ctx, "")
	assert.ErrorIs(t, err, utils.ErrEmptyUserID)
}

func TestEngine_RecommendationsAtNight(t *testing.T) {
	engine, _ := newTestEngine(t, 23)
	ctx := context.Background()

	_, err := engine.SavePreferences(ctx, "u1", model.UserPreferences{Mood: "tired"})
	require.NoError(t, err)

	recs, err := engine.GetRecommendations(ctx, "u1", 1)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Deep Sleep", recs[0].Meditation.Title)
}

func TestEngine_RecommendationsUseHistory(t *testing.T) {
	engine, ledger := newTestEngine(t, 23)
	ctx := context.Background()

	_, err := engine.SavePreferences(ctx, "u1", model.UserPreferences{Mood: "tired", PreferVariety: true})
	require.NoError(t, err)

	s, err := ledger.StartMeditationSession(ctx, "u1", "Deep Sleep")
	require.NoError(t, err)
	_, err = ledger.EndMeditationSession(ctx, "u1", s.ID, true)
	require.NoError(t, err)

	recs, err := engine.GetRecommendations(ctx, "u1", 0)
	require.NoError(t, err)
	for _, r := range recs {
		if r.Meditation.ID == "deep-sleep" {
			assert.Equal(t, baseScore+timeOfDayBonus+moodBonus-repeatPenalty, r.Score)
		}
	}
}

func TestEngine_Insights(t *testing.T) {
	engine, ledger := newTestEngine(t, 8)
	ctx := context.Background()

	insights, err := engine.GetInsights(ctx, "u1")
	require.NoError(t, err)
	types := make([]string, 0, len(insights))
	for _, i := range insights {
		types = append(types, i.Type)
	}
	assert.Contains(t, types, "time")
	assert.Contains(t, types, "suggestion")
	assert.NotContains(t, types, "habit")

	s, _ := ledger.StartMeditationSession(ctx, "u1", "Morning Calm")
	_, err = ledger.EndMeditationSession(ctx, "u1", s.ID, true)
	require.NoError(t, err)

	insights, err = engine.GetInsights(ctx, "u1")
	require.NoError(t, err)
	found := false
	for _, i := range insights {
		if i.Type == "habit" {
			found = true
		}
	}
	assert.True(t, found, "completed meditation should produce a habit insight")
}

func TestEngine_Plans(t *testing.T) {
	engine, _ := newTestEngine(t, 21)
	ctx := context.Background()

	plan, err := engine.CreatePlan(ctx, "u1", "Sleep", 5)
	require.NoError(t, err)
	assert.Equal(t, "sleep", plan.Goal)
	require.Len(t, plan.Days, 5)
	assert.Equal(t, 1, plan.Days[0].Day)
	assert.Equal(t, "Settle in", plan.Days[0].Focus)
	assert.Equal(t, "Reflect on your progress", plan.Days[4].Focus)
	for _, d := range plan.Days {
		assert.True(t, d.Meditation.Category == "sleep" || overlaps(d.Meditation.Tags, toSet(goalTags["sleep"])),
			"day %d meditation %s does not serve the goal", d.Day, d.Meditation.ID)
	}

	_, err = engine.CreatePlan(ctx, "u1", "anything", 0)
	require.NoError(t, err)

	plans, err := engine.GetPlans(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, plan.ID, plans[0].ID)
	assert.Len(t, plans[1].Days, defaultPlanDays)

	_, err = engine.CreatePlan(ctx, "u1", "", 3)
	assert.ErrorIs(t, err, utils.ErrEmptyField)
}
