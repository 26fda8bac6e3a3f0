package recommend

import "hushhly/model"

// DefaultCatalog is the built-in meditation library. Order matters: equal
// scores keep catalog order.
func DefaultCatalog() []model.Meditation {
	return []model.Meditation{
		{
			ID:          "morning-calm",
			Title:       "Morning Calm",
			Description: "Ease into the day with slow breathing and a gentle intention.",
			Category:    "mindfulness",
			Duration:    10,
			BestFor:     []string{"morning", "anxious", "calm"},
			Tags:        []string{"breathing", "intention"},
		},
		{
			ID:          "energy-boost",
			Title:       "Energy Boost",
			Description: "A brisk body activation practice for a sluggish afternoon.",
			Category:    "energy",
			Duration:    5,
			BestFor:     []string{"afternoon", "morning", "tired"},
			Tags:        []string{"energy", "movement"},
		},
		{
			ID:          "focus-flow",
			Title:       "Focus Flow",
			Description: "Single-point attention training before deep work.",
			Category:    "focus",
			Duration:    15,
			BestFor:     []string{"morning", "afternoon", "distracted"},
			Tags:        []string{"focus", "attention"},
		},
		{
			ID:          "stress-release",
			Title:       "Stress Release",
			Description: "Progressive muscle relaxation to let go of tension.",
			Category:    "stress",
			Duration:    12,
			BestFor:     []string{"afternoon", "evening", "stressed", "anxious"},
			Tags:        []string{"relaxation", "body"},
		},
		{
			ID:          "evening-unwind",
			Title:       "Evening Unwind",
			Description: "Review the day kindly and settle the mind.",
			Category:    "relaxation",
			Duration:    15,
			BestFor:     []string{"evening", "stressed", "sad"},
			Tags:        []string{"reflection", "relaxation"},
		},
		{
			ID:          "body-scan",
			Title:       "Body Scan",
			Description: "Move awareness slowly from head to toe.",
			Category:    "mindfulness",
			Duration:    20,
			BestFor:     []string{"evening", "night", "anxious"},
			Tags:        []string{"body", "awareness"},
		},
		{
			ID:          "deep-sleep",
			Title:       "Deep Sleep",
			Description: "A guided descent into restful sleep.",
			Category:    "sleep",
			Duration:    30,
			BestFor:     []string{"night", "tired"},
			Tags:        []string{"sleep", "relaxation"},
		},
		{
			ID:          "gratitude-practice",
			Title:       "Gratitude Practice",
			Description: "Notice three good things and let them land.",
			Category:    "mindfulness",
			Duration:    8,
			BestFor:     []string{"morning", "evening", "sad", "happy"},
			Tags:        []string{"gratitude", "intention"},
		},
	}
}

// Moods accepted in preferences
var Moods = []string{"tired", "anxious", "stressed", "sad", "happy", "calm", "distracted"}

// FindByTitle returns the catalog entry matching title or id, case-insensitively
func FindByTitle(catalog []model.Meditation, title string) (model.Meditation, bool) {
	for _, m := range catalog {
		if equalFold(m.Title, title) || equalFold(m.ID, title) {
			return m, true
		}
	}
	return model.Meditation{}, false
}
