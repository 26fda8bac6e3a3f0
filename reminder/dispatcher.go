package reminder

import (
	"context"
	"fmt"
	"time"

	"hushhly/email"
	"hushhly/model"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Notifier delivers a reminder for a scheduled session
type Notifier interface {
	Notify(ctx context.Context, session model.ScheduledSession) error
}

// LogNotifier only logs reminders
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, session model.ScheduledSession) error {
	log.Info().
		Str("user_id", session.UserID).
		Str("session_id", session.ID).
		Str("title", session.Title).
		Time("scheduled_at", session.ScheduledAt).
		Msg("Meditation reminder")
	return nil
}

// UserLookup resolves the recipient of an email reminder
type UserLookup interface {
	GetUser(ctx context.Context, userID string) (model.User, error)
}

// EmailNotifier mails reminders to the session owner
type EmailNotifier struct {
	mail  *email.EmailService
	users UserLookup
}

func NewEmailNotifier(mail *email.EmailService, users UserLookup) *EmailNotifier {
	return &EmailNotifier{mail: mail, users: users}
}

func (n *EmailNotifier) Notify(ctx context.Context, session model.ScheduledSession) error {
	user, err := n.users.GetUser(ctx, session.UserID)
	if err != nil {
		return fmt.Errorf("failed to resolve reminder recipient: %w", err)
	}
	return n.mail.SendReminder(user.Email, user.Name, session)
}

// Dispatcher periodically hands due reminders to a Notifier
type Dispatcher struct {
	service  *Service
	notifier Notifier
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
}

func NewDispatcher(service *Service, notifier Notifier, schedule string) *Dispatcher {
	c := cron.New(cron.WithChain(cron.Recover(cronLogger{})))
	return &Dispatcher{
		service:  service,
		notifier: notifier,
		schedule: schedule,
		timeout:  30 * time.Second,
		cron:     c,
	}
}

// Start registers the dispatch job and starts the scheduler
func (d *Dispatcher) Start() error {
	if _, err := d.cron.AddFunc(d.schedule, d.run); err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", d.schedule, err)
	}
	d.cron.Start()
	log.Info().Str("schedule", d.schedule).Msg("Reminder dispatcher started")
	return nil
}

// Stop stops the scheduler; the returned context is done when a running
// dispatch finishes
func (d *Dispatcher) Stop() context.Context {
	return d.cron.Stop()
}

func (d *Dispatcher) run() {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if _, err := d.RunOnce(ctx); err != nil {
		log.Error().Err(err).Msg("Reminder dispatch failed")
	}
}

// RunOnce notifies every due session and reports how many were delivered.
// Failed deliveries stay due and are retried on the next run.
func (d *Dispatcher) RunOnce(ctx context.Context) (int, error) {
	due, err := d.service.Due(ctx)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, session := range due {
		if err := d.notifier.Notify(ctx, session); err != nil {
			log.Warn().Err(err).Str("session_id", session.ID).Msg("Reminder delivery failed")
			continue
		}
		if err := d.service.MarkNotified(ctx, session.UserID, session.ID); err != nil {
			log.Error().Err(err).Str("session_id", session.ID).Msg("Failed to mark reminder as sent")
			continue
		}
		sent++
	}
	if sent > 0 {
		log.Info().Int("count", sent).Msg("Reminders dispatched")
	}
	return sent, nil
}

// cronLogger routes cron's internal logging to zerolog
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.Debug().Fields(keysAndValues).Msg(msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
