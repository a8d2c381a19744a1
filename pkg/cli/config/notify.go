package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/salonevoice/salonevoice/pkg/domain/interfaces"
	"github.com/salonevoice/salonevoice/pkg/service/mail"
	"github.com/salonevoice/salonevoice/pkg/service/notify"
	"github.com/urfave/cli/v3"
)

// Notify holds CLI flags for outbound notifications: the Slack incoming
// webhook for feedback alerts and the Resend mailer for invitations.
type Notify struct {
	slackWebhookURL string
	resendAPIKey    string
	mailFrom        string
	baseURL         string
}

// Flags returns CLI flags for notification configuration
func (x *Notify) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-webhook-url",
			Usage:       "Slack incoming webhook URL for feedback notifications",
			Category:    "Notification",
			Sources:     cli.EnvVars("SALONEVOICE_SLACK_WEBHOOK_URL"),
			Destination: &x.slackWebhookURL,
		},
		&cli.StringFlag{
			Name:        "resend-api-key",
			Usage:       "Resend API key for invitation email",
			Category:    "Notification",
			Sources:     cli.EnvVars("SALONEVOICE_RESEND_API_KEY"),
			Destination: &x.resendAPIKey,
		},
		&cli.StringFlag{
			Name:        "mail-from",
			Usage:       "From address for invitation email",
			Category:    "Notification",
			Sources:     cli.EnvVars("SALONEVOICE_MAIL_FROM"),
			Destination: &x.mailFrom,
		},
		&cli.StringFlag{
			Name:        "base-url",
			Usage:       "Public base URL of the dashboard, linked from invitation email",
			Category:    "Notification",
			Sources:     cli.EnvVars("SALONEVOICE_BASE_URL"),
			Destination: &x.baseURL,
		},
	}
}

// HasNotifier reports whether a Slack webhook is configured
func (x *Notify) HasNotifier() bool {
	return x.slackWebhookURL != ""
}

// HasMailer reports whether the invitation mailer is configured
func (x *Notify) HasMailer() bool {
	return x.resendAPIKey != ""
}

// Notifier builds the Slack webhook notifier
func (x *Notify) Notifier() (interfaces.Notifier, error) {
	n, err := notify.NewSlackNotifier(x.slackWebhookURL)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize slack notifier")
	}
	return n, nil
}

// Mailer builds the invitation mailer
func (x *Notify) Mailer() (interfaces.Mailer, error) {
	if x.mailFrom == "" {
		return nil, goerr.New("mail-from is required when resend-api-key is set")
	}
	m, err := mail.NewResendMailer(x.resendAPIKey, x.mailFrom, x.baseURL)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize resend mailer")
	}
	return m, nil
}
