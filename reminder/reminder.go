package reminder

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"hushhly/model"
	"hushhly/store"
	"hushhly/utils"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	defaultDurationMinutes = 10
	defaultReminderMinutes = 10
	maxReminderMinutes     = 24 * 60
)

// Service keeps each user's scheduled meditation sessions, ordered by start
type Service struct {
	docs *store.DocumentStore
	now  func() time.Time
}

func NewService(docs *store.DocumentStore, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{docs: docs, now: now}
}

func emptySessions() []model.ScheduledSession {
	return []model.ScheduledSession{}
}

// Schedule stores a future session with its reminder offset
func (s *Service) Schedule(ctx context.Context, userID string, req model.ScheduleSessionRequest) (model.ScheduledSession, error) {
	if userID == "" {
		return model.ScheduledSession{}, utils.ErrEmptyUserID
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return model.ScheduledSession{}, fmt.Errorf("title: %w", utils.ErrEmptyField)
	}
	now := s.now()
	if !req.ScheduledAt.After(now) {
		return model.ScheduledSession{}, utils.ErrInvalidSchedule
	}

	session := model.ScheduledSession{
		ID:                    uuid.NewString(),
		UserID:                userID,
		Title:                 title,
		MeditationType:        strings.TrimSpace(req.MeditationType),
		ScheduledAt:           req.ScheduledAt,
		DurationMinutes:       req.DurationMinutes,
		ReminderMinutesBefore: req.ReminderMinutesBefore,
		CreatedAt:             now,
	}
	if session.DurationMinutes <= 0 {
		session.DurationMinutes = defaultDurationMinutes
	}
	if session.ReminderMinutesBefore <= 0 {
		session.ReminderMinutesBefore = defaultReminderMinutes
	}
	if session.ReminderMinutesBefore > maxReminderMinutes {
		session.ReminderMinutesBefore = maxReminderMinutes
	}

	_, err := store.Mutate(ctx, s.docs, store.NamespaceScheduledSessions, userID, emptySessions, func(list *[]model.ScheduledSession) error {
		*list = append(*list, session)
		sort.SliceStable(*list, func(i, j int) bool {
			return (*list)[i].ScheduledAt.Before((*list)[j].ScheduledAt)
		})
		return nil
	})
	if err != nil {
		return model.ScheduledSession{}, err
	}

	log.Info().
		Str("user_id", userID).
		Str("session_id", session.ID).
		Time("scheduled_at", session.ScheduledAt).
		Msg("Meditation session scheduled")
	return session, nil
}

// Upcoming lists sessions that have not started yet
func (s *Service) Upcoming(ctx context.Context, userID string) ([]model.ScheduledSession, error) {
	if userID == "" {
		return nil, utils.ErrEmptyUserID
	}
	all, err := store.Load(ctx, s.docs, store.NamespaceScheduledSessions, userID, emptySessions)
	if err != nil {
		return nil, err
	}
	now := s.now()
	upcoming := make([]model.ScheduledSession, 0, len(all))
	for _, sess := range all {
		if sess.ScheduledAt.After(now) {
			upcoming = append(upcoming, sess)
		}
	}
	return upcoming, nil
}

// Cancel removes a scheduled session
func (s *Service) Cancel(ctx context.Context, userID, sessionID string) error {
	if userID == "" {
		return utils.ErrEmptyUserID
	}
	_, err := store.Mutate(ctx, s.docs, store.NamespaceScheduledSessions, userID, emptySessions, func(list *[]model.ScheduledSession) error {
		for i, sess := range *list {
			if sess.ID == sessionID {
				*list = append((*list)[:i], (*list)[i+1:]...)
				return nil
			}
		}
		return utils.ErrNotFound
	})
	return err
}

// Due returns sessions whose reminder time has passed, that have not been
// notified and have not started yet
func (s *Service) Due(ctx context.Context) ([]model.ScheduledSession, error) {
	now := s.now()
	return s.scan(ctx, func(sess model.ScheduledSession) bool {
		return !sess.Notified && !sess.RemindAt().After(now) && sess.ScheduledAt.After(now)
	})
}

// Pending counts future sessions still waiting for their reminder
func (s *Service) Pending(ctx context.Context) (int, error) {
	now := s.now()
	pending, err := s.scan(ctx, func(sess model.ScheduledSession) bool {
		return !sess.Notified && sess.ScheduledAt.After(now)
	})
	return len(pending), err
}

func (s *Service) scan(ctx context.Context, keep func(model.ScheduledSession) bool) ([]model.ScheduledSession, error) {
	users, err := s.docs.Keys(ctx, store.NamespaceScheduledSessions)
	if err != nil {
		return nil, err
	}
	var out []model.ScheduledSession
	for _, userID := range users {
		list, err := store.Load(ctx, s.docs, store.NamespaceScheduledSessions, userID, emptySessions)
		if err != nil {
			return nil, err
		}
		for _, sess := range list {
			if keep(sess) {
				out = append(out, sess)
			}
		}
	}
	return out, nil
}

// MarkNotified flags a session so it is not reminded again
func (s *Service) MarkNotified(ctx context.Context, userID, sessionID string) error {
	_, err := store.Mutate(ctx, s.docs, store.NamespaceScheduledSessions, userID, emptySessions, func(list *[]model.ScheduledSession) error {
		for i := range *list {
			if (*list)[i].ID == sessionID {
				(*list)[i].Notified = true
				return nil
			}
		}
		return utils.ErrNotFound
	})
	return err
}
