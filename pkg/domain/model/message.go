package model

import "time"

// InboundMessage represents a message received through the WhatsApp
// webhook channel. Sender is the platform user ID (wa_id); Body holds the
// literal text, or a placeholder tag for non-text media.
type InboundMessage struct {
	ID         int64     `firestore:"id" json:"id"`
	Sender     string    `firestore:"sender" json:"sender"`
	Body       string    `firestore:"body" json:"body"`
	ReceivedAt time.Time `firestore:"received_at" json:"received_at"`
}
