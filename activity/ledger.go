package activity

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"hushhly/model"
	"hushhly/store"
	"hushhly/utils"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	// MaxPageVisits is how many page visits a record keeps
	MaxPageVisits = 100

	recentTypesLimit = 5
	dateLayout       = "2006-01-02"
)

var (
	ErrSessionNotFound     = errors.New("meditation session not found")
	ErrSessionAlreadyEnded = errors.New("meditation session already ended")
)

type sessionMarker struct {
	StartedAt time.Time `json:"startedAt"`
}

// Ledger records app sessions, page visits and meditation sessions per user
// and derives streak and time aggregates from them.
type Ledger struct {
	docs *store.DocumentStore
	now  func() time.Time
}

// NewLedger creates a ledger; now defaults to time.Now when nil
func NewLedger(docs *store.DocumentStore, now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{docs: docs, now: now}
}

func newRecord(userID string) func() model.UserActivityRecord {
	return func() model.UserActivityRecord {
		return model.UserActivityRecord{
			UserID:             userID,
			PagesVisited:       []model.PageVisit{},
			MeditationSessions: []model.MeditationSession{},
		}
	}
}

func validateUser(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return utils.ErrEmptyUserID
	}
	return nil
}

// GetRecord returns the stored record, or a fresh one for unknown users
func (l *Ledger) GetRecord(ctx context.Context, userID string) (model.UserActivityRecord, error) {
	if err := validateUser(userID); err != nil {
		return model.UserActivityRecord{}, err
	}
	return store.Load(ctx, l.docs, store.NamespaceUserActivity, userID, newRecord(userID))
}

// StartSession opens an app session. The first session of a calendar day
// resets today's time and advances or resets the streak. Every call counts
// as a session.
func (l *Ledger) StartSession(ctx context.Context, userID string) (model.UserActivityRecord, error) {
	if err := validateUser(userID); err != nil {
		return model.UserActivityRecord{}, err
	}

	now := l.now()
	today := now.Format(dateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(dateLayout)

	rec, err := store.Mutate(ctx, l.docs, store.NamespaceUserActivity, userID, newRecord(userID), func(r *model.UserActivityRecord) error {
		if r.LastActiveDate != today {
			r.TotalTimeToday = 0
			if r.LastActiveDate == yesterday {
				r.CurrentStreak++
			} else {
				r.CurrentStreak = 1
			}
			if r.CurrentStreak > r.LongestStreak {
				r.LongestStreak = r.CurrentStreak
			}
			r.LastActiveDate = today
		}
		r.TotalSessions++
		r.SessionStartTime = now
		return nil
	})
	if err != nil {
		return rec, err
	}

	if err := l.docs.Set(ctx, store.NamespaceSessionStart, userID, sessionMarker{StartedAt: now}); err != nil {
		return rec, err
	}

	log.Debug().Str("user_id", userID).Int("streak", rec.CurrentStreak).Msg("Session started")
	return rec, nil
}

// EndSession adds the time since the open session marker to today's total
// and clears the marker. Without a marker the record is returned unchanged.
func (l *Ledger) EndSession(ctx context.Context, userID string) (model.UserActivityRecord, error) {
	if err := validateUser(userID); err != nil {
		return model.UserActivityRecord{}, err
	}

	var marker sessionMarker
	found, err := l.docs.Get(ctx, store.NamespaceSessionStart, userID, &marker)
	if err != nil {
		return model.UserActivityRecord{}, err
	}
	if !found {
		return l.GetRecord(ctx, userID)
	}

	elapsed := l.now().Sub(marker.StartedAt).Milliseconds()
	if elapsed < 0 {
		elapsed = 0
	}

	rec, err := store.Mutate(ctx, l.docs, store.NamespaceUserActivity, userID, newRecord(userID), func(r *model.UserActivityRecord) error {
		r.TotalTimeToday += elapsed
		return nil
	})
	if err != nil {
		return rec, err
	}

	if err := l.docs.Delete(ctx, store.NamespaceSessionStart, userID); err != nil {
		return rec, err
	}

	log.Debug().Str("user_id", userID).Int64("elapsed_ms", elapsed).Msg("Session ended")
	return rec, nil
}

// TrackPageVisit appends a page visit and closes the previous one
func (l *Ledger) TrackPageVisit(ctx context.Context, userID, path string) (model.PageVisit, error) {
	if err := validateUser(userID); err != nil {
		return model.PageVisit{}, err
	}
	if err := utils.ValidatePagePath(path); err != nil {
		return model.PageVisit{}, err
	}

	now := l.now()
	visit := model.PageVisit{Path: path, Timestamp: now}

	_, err := store.Mutate(ctx, l.docs, store.NamespaceUserActivity, userID, newRecord(userID), func(r *model.UserActivityRecord) error {
		if n := len(r.PagesVisited); n > 0 && r.PagesVisited[n-1].Duration == 0 {
			r.PagesVisited[n-1].Duration = now.Sub(r.PagesVisited[n-1].Timestamp).Milliseconds()
		}
		r.PagesVisited = append(r.PagesVisited, visit)
		if len(r.PagesVisited) > MaxPageVisits {
			r.PagesVisited = r.PagesVisited[len(r.PagesVisited)-MaxPageVisits:]
		}
		return nil
	})
	return visit, err
}

// StartMeditationSession opens a meditation session of the given type
func (l *Ledger) StartMeditationSession(ctx context.Context, userID, meditationType string) (model.MeditationSession, error) {
	if err := validateUser(userID); err != nil {
		return model.MeditationSession{}, err
	}
	if strings.TrimSpace(meditationType) == "" {
		return model.MeditationSession{}, fmt.Errorf("meditation type: %w", utils.ErrEmptyField)
	}

	session := model.MeditationSession{
		ID:        uuid.NewString(),
		Type:      meditationType,
		StartTime: l.now(),
	}

	_, err := store.Mutate(ctx, l.docs, store.NamespaceUserActivity, userID, newRecord(userID), func(r *model.UserActivityRecord) error {
		r.MeditationSessions = append(r.MeditationSessions, session)
		return nil
	})
	return session, err
}

// EndMeditationSession closes an open meditation session. A session ends
// exactly once.
func (l *Ledger) EndMeditationSession(ctx context.Context, userID, sessionID string, completed bool) (model.MeditationSession, error) {
	if err := validateUser(userID); err != nil {
		return model.MeditationSession{}, err
	}

	now := l.now()
	var ended model.MeditationSession

	_, err := store.Mutate(ctx, l.docs, store.NamespaceUserActivity, userID, newRecord(userID), func(r *model.UserActivityRecord) error {
		for i := range r.MeditationSessions {
			s := &r.MeditationSessions[i]
			if s.ID != sessionID {
				continue
			}
			if !s.Open() {
				return ErrSessionAlreadyEnded
			}
			end := now
			s.EndTime = &end
			s.Duration = now.Sub(s.StartTime).Milliseconds()
			s.Completed = completed
			ended = *s
			return nil
		}
		return ErrSessionNotFound
	})
	return ended, err
}

// GetActivitySummary derives aggregates from the stored record. Time of an
// app session still in progress is not included.
func (l *Ledger) GetActivitySummary(ctx context.Context, userID string) (model.ActivitySummary, error) {
	rec, err := l.GetRecord(ctx, userID)
	if err != nil {
		return model.ActivitySummary{}, err
	}

	inProgress, err := l.docs.Get(ctx, store.NamespaceSessionStart, userID, &sessionMarker{})
	if err != nil {
		return model.ActivitySummary{}, err
	}

	summary := model.ActivitySummary{
		UserID:            userID,
		CurrentStreak:     rec.CurrentStreak,
		LongestStreak:     rec.LongestStreak,
		TotalSessions:     rec.TotalSessions,
		LastActiveDate:    rec.LastActiveDate,
		SessionInProgress: inProgress,
	}
	if rec.LastActiveDate == l.now().Format(dateLayout) {
		summary.TotalTimeToday = rec.TotalTimeToday
	}

	for _, s := range rec.MeditationSessions {
		if s.Open() {
			continue
		}
		summary.TotalMeditationTime += s.Duration
		if s.Completed {
			summary.CompletedMeditations++
		}
	}

	summary.MostVisitedPage = mostVisited(rec.PagesVisited)
	summary.RecentMeditationTypes = RecentCompletedTypes(rec, recentTypesLimit)
	return summary, nil
}

// GetFormattedActivitySummary renders the summary for display
func (l *Ledger) GetFormattedActivitySummary(ctx context.Context, userID string) (model.FormattedActivitySummary, error) {
	s, err := l.GetActivitySummary(ctx, userID)
	if err != nil {
		return model.FormattedActivitySummary{}, err
	}
	return model.FormattedActivitySummary{
		TotalTimeToday:       FormatHours(s.TotalTimeToday),
		CurrentStreak:        formatDays(s.CurrentStreak),
		LongestStreak:        formatDays(s.LongestStreak),
		TotalSessions:        fmt.Sprintf("%d", s.TotalSessions),
		TotalMeditationTime:  FormatHours(s.TotalMeditationTime),
		CompletedMeditations: fmt.Sprintf("%d", s.CompletedMeditations),
	}, nil
}

// RecentCompletedTypes lists distinct types of completed meditation sessions,
// most recent first
func RecentCompletedTypes(rec model.UserActivityRecord, limit int) []string {
	seen := make(map[string]bool)
	var types []string
	for i := len(rec.MeditationSessions) - 1; i >= 0 && len(types) < limit; i-- {
		s := rec.MeditationSessions[i]
		if !s.Completed || seen[s.Type] {
			continue
		}
		seen[s.Type] = true
		types = append(types, s.Type)
	}
	return types
}

// FormatHours renders milliseconds as "<hours>.<tenths>", where the tenths
// digit is the leftover minutes rounded to the nearest 10. 1h25m is "1.3".
func FormatHours(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	totalMinutes := ms / int64(time.Minute/time.Millisecond)
	hours := totalMinutes / 60
	tenths := int64(math.Round(float64(totalMinutes%60) / 10))
	return fmt.Sprintf("%d.%d", hours, tenths)
}

func formatDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

// mostVisited returns the most frequent path; ties go to the first seen
func mostVisited(visits []model.PageVisit) string {
	counts := make(map[string]int)
	best, bestCount := "", 0
	for _, v := range visits {
		counts[v.Path]++
	}
	for _, v := range visits {
		if c := counts[v.Path]; c > bestCount {
			best, bestCount = v.Path, c
		}
	}
	return best
}
