// Package mail sends transactional email through Resend.
package mail

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/resend/resend-go/v2"
	"github.com/salonevoice/salonevoice/pkg/domain/interfaces"
)

// ResendMailer sends invitation email via the Resend API
type ResendMailer struct {
	client  *resend.Client
	from    string
	baseURL string
}

var _ interfaces.Mailer = &ResendMailer{}

// NewResendMailer creates a mailer. from is the sender address, baseURL is
// the public address of the dashboard used in the invitation link.
func NewResendMailer(apiKey, from, baseURL string) (*ResendMailer, error) {
	if apiKey == "" {
		return nil, goerr.New("resend API key is required")
	}
	if from == "" {
		return nil, goerr.New("sender address is required")
	}
	return &ResendMailer{
		client:  resend.NewClient(apiKey),
		from:    from,
		baseURL: baseURL,
	}, nil
}

// SendInvite emails an admin invitation. The invitee sets a password
// through the identity provider's recovery flow before first login.
func (m *ResendMailer) SendInvite(ctx context.Context, email string) error {
	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{email},
		Subject: "You have been invited to the SaloneVoice admin dashboard",
		Html: fmt.Sprintf(`
			<div style="font-family: sans-serif; max-width: 480px; margin: 0 auto; padding: 24px;">
				<h2>SaloneVoice admin invitation</h2>
				<p>An administrator has invited you to the SaloneVoice dashboard.</p>
				<p>Set your password via the reset flow, then sign in here:</p>
				<p><a href="%s/admin/login">%s/admin/login</a></p>
				<p style="color: #888; font-size: 12px;">
					If you did not expect this invitation, you can ignore this email.
				</p>
			</div>
		`, m.baseURL, m.baseURL),
	}

	if _, err := m.client.Emails.SendWithContext(ctx, params); err != nil {
		return goerr.Wrap(err, "failed to send invitation email", goerr.V("email", email))
	}
	return nil
}
