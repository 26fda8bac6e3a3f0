package model

import "time"

// ScheduledSession is a planned meditation with a reminder
type ScheduledSession struct {
	ID                    string    `json:"id"`
	UserID                string    `json:"userId"`
	Title                 string    `json:"title"`
	MeditationType        string    `json:"meditationType"`
	ScheduledAt           time.Time `json:"scheduledAt"`
	DurationMinutes       int       `json:"durationMinutes"`
	ReminderMinutesBefore int       `json:"reminderMinutesBefore"`
	Notified              bool      `json:"notified"`
	CreatedAt             time.Time `json:"createdAt"`
}

// RemindAt is the moment the reminder becomes due
func (s ScheduledSession) RemindAt() time.Time {
	return s.ScheduledAt.Add(-time.Duration(s.ReminderMinutesBefore) * time.Minute)
}

// ScheduleSessionRequest is the body of a schedule request
type ScheduleSessionRequest struct {
	Title                 string    `json:"title"`
	MeditationType        string    `json:"meditationType"`
	ScheduledAt           time.Time `json:"scheduledAt"`
	DurationMinutes       int       `json:"durationMinutes"`
	ReminderMinutesBefore int       `json:"reminderMinutesBefore"`
}
