package model

import "time"

// UserActivityRecord is the per-user activity document kept by the ledger
type UserActivityRecord struct {
	UserID             string              `json:"userId"`
	SessionStartTime   time.Time           `json:"sessionStartTime"`
	TotalTimeToday     int64               `json:"totalTimeToday"` // Milliseconds accumulated today
	TotalSessions      int                 `json:"totalSessions"`
	CurrentStreak      int                 `json:"currentStreak"`
	LongestStreak      int                 `json:"longestStreak"`
	LastActiveDate     string              `json:"lastActiveDate"` // "YYYY-MM-DD" in local time
	PagesVisited       []PageVisit         `json:"pagesVisited"`
	MeditationSessions []MeditationSession `json:"meditationSessions"`
}

// PageVisit is one route visit; Duration is filled when the next visit starts
type PageVisit struct {
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
	Duration  int64     `json:"duration"` // Milliseconds, 0 while open
}

// MeditationSession is started once and ended at most once
type MeditationSession struct {
	ID        string     `json:"id"`
	Type      string     `json:"type"`
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime,omitempty"`
	Duration  int64      `json:"duration"` // Milliseconds
	Completed bool       `json:"completed"`
}

// Open reports whether the session has not been ended yet
func (s MeditationSession) Open() bool {
	return s.EndTime == nil
}

// ActivitySummary is derived from the stored record on every call
type ActivitySummary struct {
	UserID                string   `json:"userId"`
	TotalTimeToday        int64    `json:"totalTimeToday"`
	CurrentStreak         int      `json:"currentStreak"`
	LongestStreak         int      `json:"longestStreak"`
	TotalSessions         int      `json:"totalSessions"`
	LastActiveDate        string   `json:"lastActiveDate"`
	TotalMeditationTime   int64    `json:"totalMeditationTime"`
	CompletedMeditations  int      `json:"completedMeditations"`
	MostVisitedPage       string   `json:"mostVisitedPage,omitempty"`
	SessionInProgress     bool     `json:"sessionInProgress"`
	RecentMeditationTypes []string `json:"recentMeditationTypes,omitempty"`
}

// FormattedActivitySummary is the display form of ActivitySummary
type FormattedActivitySummary struct {
	TotalTimeToday       string `json:"totalTimeToday"` // Decimal hours, e.g. "1.4"
	CurrentStreak        string `json:"currentStreak"`
	LongestStreak        string `json:"longestStreak"`
	TotalSessions        string `json:"totalSessions"`
	TotalMeditationTime  string `json:"totalMeditationTime"`
	CompletedMeditations string `json:"completedMeditations"`
}
