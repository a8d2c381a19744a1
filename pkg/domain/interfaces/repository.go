package interfaces

import (
	"context"
	"errors"

	"github.com/salonevoice/salonevoice/pkg/domain/model"
	"github.com/salonevoice/salonevoice/pkg/domain/model/auth"
	"github.com/salonevoice/salonevoice/pkg/domain/types"
)

// ErrNotFound is the backend-agnostic sentinel wrapped by every
// repository implementation when a record does not exist
var ErrNotFound = errors.New("record not found")

// Repository defines the interface for data persistence
type Repository interface {
	Feedback() FeedbackRepository
	Message() MessageRepository
	Admin() AdminRepository

	// Auth methods
	PutToken(ctx context.Context, token *auth.Token) error
	GetToken(ctx context.Context, tokenID auth.TokenID) (*auth.Token, error)
	DeleteToken(ctx context.Context, tokenID auth.TokenID) error

	Close() error
}

// FeedbackRepository persists public feedback entries
type FeedbackRepository interface {
	Create(ctx context.Context, entry *model.FeedbackEntry) (*model.FeedbackEntry, error)
	Get(ctx context.Context, id int64) (*model.FeedbackEntry, error)
	// List returns entries ordered by creation time descending
	List(ctx context.Context) ([]*model.FeedbackEntry, error)
	// ListBySentiment returns entries with the given sentiment, ordered by
	// creation time descending
	ListBySentiment(ctx context.Context, sentiment types.Sentiment) ([]*model.FeedbackEntry, error)
	// Delete removes the entry; deleting a non-existent ID is not an error
	Delete(ctx context.Context, id int64) error
}

// MessageRepository persists inbound WhatsApp messages
type MessageRepository interface {
	Create(ctx context.Context, msg *model.InboundMessage) (*model.InboundMessage, error)
	Get(ctx context.Context, id int64) (*model.InboundMessage, error)
	// List returns messages ordered by received time descending
	List(ctx context.Context) ([]*model.InboundMessage, error)
	// ListBySender returns messages from one sender, ordered by received
	// time descending
	ListBySender(ctx context.Context, sender string) ([]*model.InboundMessage, error)
	Delete(ctx context.Context, id int64) error
}

// AdminRepository persists admin accounts
type AdminRepository interface {
	Create(ctx context.Context, account *model.AdminAccount) (*model.AdminAccount, error)
	Get(ctx context.Context, id string) (*model.AdminAccount, error)
	GetByEmail(ctx context.Context, email string) (*model.AdminAccount, error)
	// List returns accounts ordered by creation time ascending
	List(ctx context.Context) ([]*model.AdminAccount, error)
	Count(ctx context.Context) (int, error)
	UpdateRole(ctx context.Context, id string, role types.Role) error
	Delete(ctx context.Context, id string) error
}
