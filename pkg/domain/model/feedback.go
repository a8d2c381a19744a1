package model

import (
	"time"

	"github.com/salonevoice/salonevoice/pkg/domain/types"
)

// FeedbackEntry represents a single piece of community feedback submitted
// through the public page
type FeedbackEntry struct {
	ID        int64           `firestore:"id" json:"id"`
	Message   string          `firestore:"message" json:"message"`
	Email     string          `firestore:"email,omitempty" json:"email,omitempty"`
	Sentiment types.Sentiment `firestore:"sentiment" json:"sentiment"`
	CreatedAt time.Time       `firestore:"created_at" json:"created_at"`
}
