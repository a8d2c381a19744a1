package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/salonevoice/salonevoice/pkg/domain/model"
)

type messageRepository struct {
	mu       sync.RWMutex
	messages map[int64]*model.InboundMessage
	nextID   int64
}

func newMessageRepository() *messageRepository {
	return &messageRepository{
		messages: make(map[int64]*model.InboundMessage),
		nextID:   1,
	}
}

func copyMessage(m *model.InboundMessage) *model.InboundMessage {
	copied := *m
	return &copied
}

func (r *messageRepository) Create(ctx context.Context, msg *model.InboundMessage) (*model.InboundMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyMessage(msg)
	created.ID = r.nextID
	created.ReceivedAt = time.Now().UTC()
	r.nextID++

	r.messages[created.ID] = created
	return copyMessage(created), nil
}

func (r *messageRepository) Get(ctx context.Context, id int64) (*model.InboundMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	msg, ok := r.messages[id]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "message not found", goerr.V("id", id))
	}
	return copyMessage(msg), nil
}

func (r *messageRepository) List(ctx context.Context) ([]*model.InboundMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	messages := make([]*model.InboundMessage, 0, len(r.messages))
	for _, m := range r.messages {
		messages = append(messages, copyMessage(m))
	}
	sort.Slice(messages, func(i, j int) bool {
		if messages[i].ReceivedAt.Equal(messages[j].ReceivedAt) {
			return messages[i].ID > messages[j].ID
		}
		return messages[i].ReceivedAt.After(messages[j].ReceivedAt)
	})
	return messages, nil
}

func (r *messageRepository) ListBySender(ctx context.Context, sender string) ([]*model.InboundMessage, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	messages := make([]*model.InboundMessage, 0, len(all))
	for _, m := range all {
		if m.Sender == sender {
			messages = append(messages, m)
		}
	}
	return messages, nil
}

func (r *messageRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.messages, id)
	return nil
}
