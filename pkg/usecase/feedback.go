package usecase

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/salonevoice/salonevoice/pkg/domain/interfaces"
	"github.com/salonevoice/salonevoice/pkg/domain/model"
	"github.com/salonevoice/salonevoice/pkg/domain/types"
	"github.com/salonevoice/salonevoice/pkg/service/notify"
	"github.com/salonevoice/salonevoice/pkg/utils/async"
)

// FeedbackUseCase handles public feedback submission and admin triage
type FeedbackUseCase struct {
	repo     interfaces.Repository
	notifier interfaces.Notifier
}

// Submit records a public feedback entry. Sentiment defaults to neutral
// when absent; an invalid sentiment is rejected before any write.
func (uc *FeedbackUseCase) Submit(ctx context.Context, message, email string, sentiment types.Sentiment) (*model.FeedbackEntry, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, goerr.Wrap(ErrInvalidInput, "message is required")
	}

	sentiment = sentiment.Normalize()
	if !sentiment.IsValid() {
		return nil, goerr.Wrap(ErrInvalidInput, "invalid sentiment", goerr.V("sentiment", sentiment))
	}

	created, err := uc.repo.Feedback().Create(ctx, &model.FeedbackEntry{
		Message:   message,
		Email:     strings.TrimSpace(email),
		Sentiment: sentiment,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to store feedback entry")
	}

	// Notification is fire-and-forget; a webhook outage must not fail the
	// public submission
	if uc.notifier != nil {
		entry := *created
		async.Dispatch(ctx, func(ctx context.Context) error {
			return uc.notifier.Notify(ctx, notify.FeedbackText(&entry))
		})
	}

	return created, nil
}

// List returns all feedback entries, newest first
func (uc *FeedbackUseCase) List(ctx context.Context) ([]*model.FeedbackEntry, error) {
	entries, err := uc.repo.Feedback().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list feedback entries")
	}
	return entries, nil
}

// ListBySentiment returns entries with the given sentiment, newest first.
// The sentiment is validated before the query.
func (uc *FeedbackUseCase) ListBySentiment(ctx context.Context, sentiment types.Sentiment) ([]*model.FeedbackEntry, error) {
	if !sentiment.IsValid() {
		return nil, goerr.Wrap(ErrInvalidInput, "invalid sentiment", goerr.V("sentiment", sentiment))
	}

	entries, err := uc.repo.Feedback().ListBySentiment(ctx, sentiment)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list feedback entries", goerr.V("sentiment", sentiment))
	}
	return entries, nil
}

// Delete removes a feedback entry. A non-existent ID is not an error.
func (uc *FeedbackUseCase) Delete(ctx context.Context, id int64) error {
	if err := uc.repo.Feedback().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete feedback entry", goerr.V("id", id))
	}
	return nil
}
