// Package notify posts short notifications about new feedback to a Slack
// incoming webhook. Notification failures are logged and never surfaced to
// the submitting caller.
package notify

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/salonevoice/salonevoice/pkg/domain/interfaces"
	"github.com/salonevoice/salonevoice/pkg/domain/model"
	"github.com/slack-go/slack"
)

// SlackNotifier posts to a Slack incoming webhook URL
type SlackNotifier struct {
	webhookURL string
}

var _ interfaces.Notifier = &SlackNotifier{}

// NewSlackNotifier creates a notifier for the given incoming webhook URL
func NewSlackNotifier(webhookURL string) (*SlackNotifier, error) {
	if webhookURL == "" {
		return nil, goerr.New("slack webhook URL is required")
	}
	return &SlackNotifier{webhookURL: webhookURL}, nil
}

// Notify posts the text to the webhook
func (n *SlackNotifier) Notify(ctx context.Context, text string) error {
	msg := &slack.WebhookMessage{Text: text}
	if err := slack.PostWebhookContext(ctx, n.webhookURL, msg); err != nil {
		return goerr.Wrap(err, "failed to post slack webhook")
	}
	return nil
}

// FeedbackText renders the notification line for a new feedback entry
func FeedbackText(entry *model.FeedbackEntry) string {
	return fmt.Sprintf("New feedback (#%d, %s): %s", entry.ID, entry.Sentiment, entry.Message)
}
