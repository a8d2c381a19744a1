package usecase

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/salonevoice/salonevoice/pkg/domain/interfaces"
	"github.com/salonevoice/salonevoice/pkg/domain/model"
	"github.com/salonevoice/salonevoice/pkg/utils/errutil"
	"github.com/salonevoice/salonevoice/pkg/utils/logging"
)

// unknownSender is recorded when neither a contact wa_id nor a message
// from field is present
const unknownSender = "Unknown"

// MessageUseCase handles webhook ingestion and admin triage of inbound
// WhatsApp messages
type MessageUseCase struct {
	repo      interfaces.Repository
	publisher interfaces.MessagePublisher
}

// HandleWebhookEvent processes a verified webhook delivery. Each
// recognized message is inserted independently; a failed insert is logged
// and does not abort siblings, so the caller can always acknowledge the
// delivery. Delivery-status updates are logged only.
func (uc *MessageUseCase) HandleWebhookEvent(ctx context.Context, event *model.WebhookEvent) {
	logger := logging.From(ctx)

	if event.Object != "whatsapp_business_account" {
		logger.Warn("ignoring webhook for unknown object", "object", event.Object)
		return
	}

	for _, entry := range event.Entry {
		for _, change := range entry.Changes {
			value := change.Value

			for i, msg := range value.Messages {
				body, ok := messageBody(&msg)
				if !ok {
					logger.Warn("skipping message with no content",
						"message_id", msg.ID, "type", msg.Type)
					continue
				}

				record := &model.InboundMessage{
					Sender: resolveSender(value.Contacts, i, msg.From),
					Body:   body,
				}

				created, err := uc.repo.Message().Create(ctx, record)
				if err != nil {
					_ = errutil.Handle(ctx, goerr.Wrap(err, "failed to store inbound message",
						goerr.V("message_id", msg.ID), goerr.V("sender", record.Sender)),
						"inbound message insert failed")
					continue
				}

				logger.Info("stored inbound message",
					"id", created.ID, "sender", created.Sender, "platform_message_id", msg.ID)

				if uc.publisher != nil {
					uc.publisher.Publish(ctx, created)
				}
			}

			// No outbound-message entity exists, so status updates have
			// no side effect on persisted state
			for _, st := range value.Statuses {
				logger.Info("message status update",
					"message_id", st.ID, "status", st.Status, "recipient", st.RecipientID)
			}
		}
	}
}

// resolveSender prefers the explicit contact identifier over the
// message's own sender field
func resolveSender(contacts []model.WebhookContact, idx int, from string) string {
	if idx < len(contacts) && contacts[idx].WaID != "" {
		return contacts[idx].WaID
	}
	if len(contacts) > 0 && contacts[0].WaID != "" {
		return contacts[0].WaID
	}
	if from != "" {
		return from
	}
	return unknownSender
}

// messageBody resolves the stored body for a webhook message. Text
// messages store their literal text; media messages store a placeholder
// naming the kind. Empty or unrecognized content is skipped.
func messageBody(msg *model.WebhookMessage) (string, bool) {
	switch msg.Type {
	case "text":
		if msg.Text == nil || msg.Text.Body == "" {
			return "", false
		}
		return msg.Text.Body, true
	case "image":
		return "[Image message received]", true
	case "document":
		return "[Document message received]", true
	case "audio":
		return "[Audio message received]", true
	case "video":
		return "[Video message received]", true
	case "":
		return "", false
	default:
		return fmt.Sprintf("[%s message received]", msg.Type), true
	}
}

// List returns all inbound messages, newest first
func (uc *MessageUseCase) List(ctx context.Context) ([]*model.InboundMessage, error) {
	messages, err := uc.repo.Message().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list messages")
	}
	return messages, nil
}

// ListBySender returns messages from one sender, newest first
func (uc *MessageUseCase) ListBySender(ctx context.Context, sender string) ([]*model.InboundMessage, error) {
	if sender == "" {
		return nil, goerr.Wrap(ErrInvalidInput, "sender is required")
	}

	messages, err := uc.repo.Message().ListBySender(ctx, sender)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list messages", goerr.V("sender", sender))
	}
	return messages, nil
}

// Delete removes an inbound message
func (uc *MessageUseCase) Delete(ctx context.Context, id int64) error {
	if err := uc.repo.Message().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete message", goerr.V("id", id))
	}
	return nil
}
