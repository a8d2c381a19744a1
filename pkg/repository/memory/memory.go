package memory

import (
	"github.com/salonevoice/salonevoice/pkg/domain/interfaces"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = interfaces.ErrNotFound

// Repository is an alias for Memory to match the pattern
type Repository = Memory

// Memory is the in-memory repository backend used for development and tests
type Memory struct {
	feedback *feedbackRepository
	message  *messageRepository
	admin    *adminRepository
	tokens   *tokenStore
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		feedback: newFeedbackRepository(),
		message:  newMessageRepository(),
		admin:    newAdminRepository(),
		tokens:   newTokenStore(),
	}
}

func (m *Memory) Feedback() interfaces.FeedbackRepository {
	return m.feedback
}

func (m *Memory) Message() interfaces.MessageRepository {
	return m.message
}

func (m *Memory) Admin() interfaces.AdminRepository {
	return m.admin
}

func (m *Memory) Close() error {
	return nil
}
