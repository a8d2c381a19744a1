package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/salonevoice/salonevoice/pkg/domain/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type messageRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newMessageRepository(client *firestore.Client) *messageRepository {
	return &messageRepository{client: client}
}

func (r *messageRepository) collection() string {
	return prefixed(r.collectionPrefix, "messages")
}

func (r *messageRepository) counterCollection() string {
	return prefixed(r.collectionPrefix, "counters")
}

func (r *messageRepository) Create(ctx context.Context, msg *model.InboundMessage) (*model.InboundMessage, error) {
	id, err := nextID(ctx, r.client, r.counterCollection(), "message_counter")
	if err != nil {
		return nil, err
	}

	created := &model.InboundMessage{
		ID:         id,
		Sender:     msg.Sender,
		Body:       msg.Body,
		ReceivedAt: time.Now().UTC(),
	}

	docID := fmt.Sprintf("%d", created.ID)
	if _, err := r.client.Collection(r.collection()).Doc(docID).Set(ctx, created); err != nil {
		return nil, goerr.Wrap(err, "failed to create message", goerr.V("id", created.ID))
	}

	return created, nil
}

func (r *messageRepository) Get(ctx context.Context, id int64) (*model.InboundMessage, error) {
	docID := fmt.Sprintf("%d", id)
	docSnap, err := r.client.Collection(r.collection()).Doc(docID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "message not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get message", goerr.V("id", id))
	}

	var msg model.InboundMessage
	if err := docSnap.DataTo(&msg); err != nil {
		return nil, goerr.Wrap(err, "failed to decode message", goerr.V("id", id))
	}
	return &msg, nil
}

func (r *messageRepository) List(ctx context.Context) ([]*model.InboundMessage, error) {
	iter := r.client.Collection(r.collection()).
		OrderBy("received_at", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var messages []*model.InboundMessage
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate messages")
		}

		var msg model.InboundMessage
		if err := docSnap.DataTo(&msg); err != nil {
			return nil, goerr.Wrap(err, "failed to decode message")
		}
		messages = append(messages, &msg)
	}
	return messages, nil
}

// ListBySender requires the (sender ASC, received_at DESC) composite
// index managed by the migrate command
func (r *messageRepository) ListBySender(ctx context.Context, sender string) ([]*model.InboundMessage, error) {
	iter := r.client.Collection(r.collection()).
		Where("sender", "==", sender).
		OrderBy("received_at", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var messages []*model.InboundMessage
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate messages", goerr.V("sender", sender))
		}

		var msg model.InboundMessage
		if err := docSnap.DataTo(&msg); err != nil {
			return nil, goerr.Wrap(err, "failed to decode message")
		}
		messages = append(messages, &msg)
	}
	return messages, nil
}

func (r *messageRepository) Delete(ctx context.Context, id int64) error {
	docID := fmt.Sprintf("%d", id)
	if _, err := r.client.Collection(r.collection()).Doc(docID).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete message", goerr.V("id", id))
	}
	return nil
}
