package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/salonevoice/salonevoice/pkg/domain/model"
	"github.com/salonevoice/salonevoice/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type feedbackRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newFeedbackRepository(client *firestore.Client) *feedbackRepository {
	return &feedbackRepository{client: client}
}

func (r *feedbackRepository) collection() string {
	return prefixed(r.collectionPrefix, "feedback")
}

func (r *feedbackRepository) counterCollection() string {
	return prefixed(r.collectionPrefix, "counters")
}

func (r *feedbackRepository) Create(ctx context.Context, entry *model.FeedbackEntry) (*model.FeedbackEntry, error) {
	id, err := nextID(ctx, r.client, r.counterCollection(), "feedback_counter")
	if err != nil {
		return nil, err
	}

	created := &model.FeedbackEntry{
		ID:        id,
		Message:   entry.Message,
		Email:     entry.Email,
		Sentiment: entry.Sentiment.Normalize(),
		CreatedAt: time.Now().UTC(),
	}

	docID := fmt.Sprintf("%d", created.ID)
	if _, err := r.client.Collection(r.collection()).Doc(docID).Set(ctx, created); err != nil {
		return nil, goerr.Wrap(err, "failed to create feedback entry", goerr.V("id", created.ID))
	}

	return created, nil
}

func (r *feedbackRepository) Get(ctx context.Context, id int64) (*model.FeedbackEntry, error) {
	docID := fmt.Sprintf("%d", id)
	docSnap, err := r.client.Collection(r.collection()).Doc(docID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "feedback entry not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get feedback entry", goerr.V("id", id))
	}

	var entry model.FeedbackEntry
	if err := docSnap.DataTo(&entry); err != nil {
		return nil, goerr.Wrap(err, "failed to decode feedback entry", goerr.V("id", id))
	}
	return &entry, nil
}

func (r *feedbackRepository) List(ctx context.Context) ([]*model.FeedbackEntry, error) {
	iter := r.client.Collection(r.collection()).
		OrderBy("created_at", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var entries []*model.FeedbackEntry
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate feedback entries")
		}

		var entry model.FeedbackEntry
		if err := docSnap.DataTo(&entry); err != nil {
			return nil, goerr.Wrap(err, "failed to decode feedback entry")
		}
		entries = append(entries, &entry)
	}
	return entries, nil
}

// ListBySentiment requires the (sentiment ASC, created_at DESC) composite
// index managed by the migrate command
func (r *feedbackRepository) ListBySentiment(ctx context.Context, sentiment types.Sentiment) ([]*model.FeedbackEntry, error) {
	iter := r.client.Collection(r.collection()).
		Where("sentiment", "==", string(sentiment)).
		OrderBy("created_at", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var entries []*model.FeedbackEntry
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate feedback entries", goerr.V("sentiment", sentiment))
		}

		var entry model.FeedbackEntry
		if err := docSnap.DataTo(&entry); err != nil {
			return nil, goerr.Wrap(err, "failed to decode feedback entry")
		}
		entries = append(entries, &entry)
	}
	return entries, nil
}

func (r *feedbackRepository) Delete(ctx context.Context, id int64) error {
	docID := fmt.Sprintf("%d", id)
	// Firestore deletes are idempotent; a missing document is not an error
	if _, err := r.client.Collection(r.collection()).Doc(docID).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete feedback entry", goerr.V("id", id))
	}
	return nil
}
