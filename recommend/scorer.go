package recommend

import (
	"fmt"
	"sort"
	"strings"

	"hushhly/model"
)

type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
	Night     TimeOfDay = "night"
)

// Score weights
const (
	baseScore      = 50
	timeOfDayBonus = 15
	moodBonus      = 20
	durationBonus  = 10
	durationWindow = 5
	repeatPenalty  = 10
	repeatReward   = 15
	minScore       = 0
	maxScore       = 100
)

// TimeOfDayAt buckets an hour of the day with cutoffs at 5, 12, 17 and 22
func TimeOfDayAt(hour int) TimeOfDay {
	switch {
	case hour >= 5 && hour < 12:
		return Morning
	case hour >= 12 && hour < 17:
		return Afternoon
	case hour >= 17 && hour < 22:
		return Evening
	default:
		return Night
	}
}

// Score ranks the catalog for a user. recent holds titles, ids or types of
// meditations the user has done; an item sharing a tag with any of them is a
// repeat. Equal scores keep catalog order. count <= 0 returns every item.
func Score(catalog []model.Meditation, tod TimeOfDay, prefs model.UserPreferences, recent []string, count int) []model.AIRecommendation {
	history := historyTags(catalog, recent)

	recs := make([]model.AIRecommendation, 0, len(catalog))
	for _, m := range catalog {
		score := baseScore
		var reasons []string

		if contains(m.BestFor, string(tod)) {
			score += timeOfDayBonus
			reasons = append(reasons, fmt.Sprintf("Great for the %s", tod))
		}
		if prefs.Mood != "" && contains(m.BestFor, prefs.Mood) {
			score += moodBonus
			reasons = append(reasons, fmt.Sprintf("Helps when you feel %s", prefs.Mood))
		}
		if prefs.PreferredDuration > 0 && abs(m.Duration-prefs.PreferredDuration) <= durationWindow {
			score += durationBonus
			reasons = append(reasons, "Fits your preferred session length")
		}
		if overlaps(m.Tags, history) {
			if prefs.PreferVariety {
				score -= repeatPenalty
			} else {
				score += repeatReward
				reasons = append(reasons, "Similar to sessions you enjoyed")
			}
		} else if prefs.PreferVariety && len(history) > 0 {
			reasons = append(reasons, "Something new to try")
		}

		if score < minScore {
			score = minScore
		}
		if score > maxScore {
			score = maxScore
		}
		if reasons == nil {
			reasons = []string{}
		}
		recs = append(recs, model.AIRecommendation{Meditation: m, Score: score, Reasons: reasons})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})

	if count > 0 && count < len(recs) {
		recs = recs[:count]
	}
	return recs
}

func historyTags(catalog []model.Meditation, recent []string) map[string]bool {
	tags := make(map[string]bool)
	for _, r := range recent {
		r = strings.ToLower(strings.TrimSpace(r))
		if r == "" {
			continue
		}
		if m, ok := FindByTitle(catalog, r); ok {
			for _, t := range m.Tags {
				tags[strings.ToLower(t)] = true
			}
			continue
		}
		tags[r] = true
	}
	return tags
}

func overlaps(tags []string, set map[string]bool) bool {
	for _, t := range tags {
		if set[strings.ToLower(t)] {
			return true
		}
	}
	return false
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if equalFold(s, v) {
			return true
		}
	}
	return false
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
