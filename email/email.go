package email

import (
	"fmt"
	"html"
	"net/smtp"
	"time"

	"hushhly/config"
	"hushhly/model"

	"github.com/rs/zerolog/log"
)

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailService handles sending emails
type EmailService struct {
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
	Enabled      bool

	send sendFunc
}

// NewEmailService creates a new email service
func NewEmailService(cfg config.EmailConfig) *EmailService {
	return &EmailService{
		SMTPHost:     cfg.SMTPHost,
		SMTPPort:     cfg.SMTPPort,
		SMTPUsername: cfg.Username,
		SMTPPassword: cfg.Password,
		FromEmail:    cfg.From,
		FromName:     cfg.FromName,
		Enabled:      cfg.Enabled,
		send:         smtp.SendMail,
	}
}

const layout = `
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: linear-gradient(135deg, #5b8def 0%%, #8e7cf0 100%%); color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0; }
        .content { background: #f7f8fc; padding: 30px; border-radius: 0 0 10px 10px; }
        .session { background: #ffffff; border-left: 4px solid #5b8def; padding: 15px; margin: 20px 0; }
        .footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>%s</h1>
        </div>
        <div class="content">
%s
        </div>
        <div class="footer">
            <p>Hushhly. Breathe easy.</p>
        </div>
    </div>
</body>
</html>
`

// SendWelcomeEmail greets a newly registered user
func (es *EmailService) SendWelcomeEmail(toEmail, name string) error {
	if !es.Enabled {
		log.Debug().Str("email", toEmail).Msg("Email service disabled - Welcome email not sent")
		return nil
	}

	subject := "Welcome to Hushhly"
	content := fmt.Sprintf(`            <p>Hello %s,</p>
            <p>Your account is ready. Take a slow breath, pick a meditation that fits your mood, and we will keep track of your streak.</p>`,
		html.EscapeString(name))

	return es.sendEmail(toEmail, subject, fmt.Sprintf(layout, "Welcome", content))
}

// SendReminder tells a user a scheduled meditation is coming up
func (es *EmailService) SendReminder(toEmail, name string, session model.ScheduledSession) error {
	if !es.Enabled {
		log.Info().
			Str("email", toEmail).
			Str("session_id", session.ID).
			Time("scheduled_at", session.ScheduledAt).
			Msg("Reminder (email disabled)")
		return nil
	}

	subject := fmt.Sprintf("Reminder: %s at %s", session.Title, session.ScheduledAt.Format(time.Kitchen))
	content := fmt.Sprintf(`            <p>Hello %s,</p>
            <p>Your meditation starts soon.</p>
            <div class="session">
                <strong>%s</strong><br>
                %s, %d minutes<br>
                %s
            </div>`,
		html.EscapeString(name),
		html.EscapeString(session.Title),
		html.EscapeString(session.MeditationType),
		session.DurationMinutes,
		session.ScheduledAt.Format("Mon Jan 2, 15:04"))

	return es.sendEmail(toEmail, subject, fmt.Sprintf(layout, "Time to breathe", content))
}

// sendEmail sends an email using SMTP
func (es *EmailService) sendEmail(to, subject, body string) error {
	from := fmt.Sprintf("%s <%s>", es.FromName, es.FromEmail)

	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s\r\n",
		from, to, subject, body,
	))

	auth := smtp.PlainAuth("", es.SMTPUsername, es.SMTPPassword, es.SMTPHost)
	addr := fmt.Sprintf("%s:%s", es.SMTPHost, es.SMTPPort)

	send := es.send
	if send == nil {
		send = smtp.SendMail
	}
	if err := send(addr, auth, es.FromEmail, []string{to}, msg); err != nil {
		log.Error().Err(err).Str("to", to).Msg("Failed to send email")
		return err
	}

	log.Info().Str("to", to).Str("subject", subject).Msg("Email sent successfully")
	return nil
}
