package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/salonevoice/salonevoice/pkg/domain/model"
	"github.com/salonevoice/salonevoice/pkg/domain/types"
)

type feedbackRepository struct {
	mu      sync.RWMutex
	entries map[int64]*model.FeedbackEntry
	nextID  int64
}

func newFeedbackRepository() *feedbackRepository {
	return &feedbackRepository{
		entries: make(map[int64]*model.FeedbackEntry),
		nextID:  1,
	}
}

func copyFeedback(e *model.FeedbackEntry) *model.FeedbackEntry {
	copied := *e
	return &copied
}

func (r *feedbackRepository) Create(ctx context.Context, entry *model.FeedbackEntry) (*model.FeedbackEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyFeedback(entry)
	created.ID = r.nextID
	created.Sentiment = entry.Sentiment.Normalize()
	created.CreatedAt = time.Now().UTC()
	r.nextID++

	r.entries[created.ID] = created
	return copyFeedback(created), nil
}

func (r *feedbackRepository) Get(ctx context.Context, id int64) (*model.FeedbackEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[id]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "feedback entry not found", goerr.V("id", id))
	}
	return copyFeedback(entry), nil
}

func (r *feedbackRepository) List(ctx context.Context) ([]*model.FeedbackEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]*model.FeedbackEntry, 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, copyFeedback(e))
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].ID > entries[j].ID
		}
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries, nil
}

func (r *feedbackRepository) ListBySentiment(ctx context.Context, sentiment types.Sentiment) ([]*model.FeedbackEntry, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]*model.FeedbackEntry, 0, len(all))
	for _, e := range all {
		if e.Sentiment == sentiment {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (r *feedbackRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, id)
	return nil
}
