package interfaces

import (
	"context"

	"github.com/salonevoice/salonevoice/pkg/domain/model"
)

// MessagePublisher delivers message-created events to connected dashboard
// sessions. Delivery is best-effort and at-most-once; it is not a durable
// queue.
type MessagePublisher interface {
	Publish(ctx context.Context, msg *model.InboundMessage)
}

// Notifier posts a short human-readable notification to an external
// channel (e.g. a Slack incoming webhook). Failures are logged, never
// surfaced to the caller.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Mailer sends transactional email
type Mailer interface {
	SendInvite(ctx context.Context, email string) error
}
