package model

// WhatsApp Business webhook envelope. The platform batches deliveries: an
// envelope carries zero or more entries, each with zero or more changes.

// WebhookEvent is the top-level envelope of a webhook delivery
type WebhookEvent struct {
	Object string         `json:"object"`
	Entry  []WebhookEntry `json:"entry"`
}

// WebhookEntry is one batched entry within a delivery
type WebhookEntry struct {
	ID      string          `json:"id"`
	Changes []WebhookChange `json:"changes"`
}

// WebhookChange is a single change notification within an entry
type WebhookChange struct {
	Field string       `json:"field"`
	Value WebhookValue `json:"value"`
}

// WebhookValue carries the actual payload of a change: inbound messages,
// delivery status updates for outbound messages, or both
type WebhookValue struct {
	MessagingProduct string           `json:"messaging_product"`
	Metadata         WebhookMetadata  `json:"metadata"`
	Contacts         []WebhookContact `json:"contacts"`
	Messages         []WebhookMessage `json:"messages"`
	Statuses         []DeliveryStatus `json:"statuses"`
}

// WebhookMetadata identifies the receiving business phone number
type WebhookMetadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

// WebhookContact describes the sender of an inbound message
type WebhookContact struct {
	WaID    string         `json:"wa_id"`
	Profile ContactProfile `json:"profile"`
}

// ContactProfile holds the sender's profile information
type ContactProfile struct {
	Name string `json:"name"`
}

// WebhookMessage is a single inbound message
type WebhookMessage struct {
	From      string       `json:"from"`
	ID        string       `json:"id"`
	Timestamp string       `json:"timestamp"`
	Type      string       `json:"type"`
	Text      *MessageText `json:"text,omitempty"`
}

// MessageText holds the body of a text-typed message
type MessageText struct {
	Body string `json:"body"`
}

// DeliveryStatus is a status update (sent/delivered/read/failed) for a
// previously sent outbound message. There is no outbound-message entity in
// this system, so these are observed only.
type DeliveryStatus struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	RecipientID string `json:"recipient_id"`
}
