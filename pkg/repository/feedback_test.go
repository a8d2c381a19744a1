package repository_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/salonevoice/salonevoice/pkg/domain/interfaces"
	"github.com/salonevoice/salonevoice/pkg/domain/model"
	"github.com/salonevoice/salonevoice/pkg/domain/types"
	"github.com/salonevoice/salonevoice/pkg/repository/memory"
)

func runFeedbackRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create assigns ID, timestamp and default sentiment", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Feedback().Create(ctx, &model.FeedbackEntry{
			Message: "The new water point works well",
		})
		gt.NoError(t, err).Required()

		gt.Value(t, created.ID).NotEqual(int64(0))
		gt.Value(t, created.Message).Equal("The new water point works well")
		gt.Value(t, created.Sentiment).Equal(types.SentimentNeutral)
		gt.Bool(t, created.CreatedAt.IsZero()).False()

		second, err := repo.Feedback().Create(ctx, &model.FeedbackEntry{
			Message:   "Clinic queues are too long",
			Email:     "aminata@example.sl",
			Sentiment: types.SentimentNegative,
		})
		gt.NoError(t, err).Required()
		gt.Value(t, second.ID).NotEqual(created.ID)
		gt.Value(t, second.Sentiment).Equal(types.SentimentNegative)
	})

	t.Run("Get retrieves existing entry", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Feedback().Create(ctx, &model.FeedbackEntry{
			Message:   "Street lights restored",
			Sentiment: types.SentimentPositive,
		})
		gt.NoError(t, err).Required()

		retrieved, err := repo.Feedback().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, retrieved.ID).Equal(created.ID)
		gt.Value(t, retrieved.Message).Equal(created.Message)
		gt.Value(t, retrieved.Sentiment).Equal(types.SentimentPositive)
	})

	t.Run("Get returns error for non-existent entry", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Feedback().Get(ctx, 999999)
		gt.Error(t, err)
	})

	t.Run("List orders by creation time descending", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		first, err := repo.Feedback().Create(ctx, &model.FeedbackEntry{Message: "first"})
		gt.NoError(t, err).Required()
		second, err := repo.Feedback().Create(ctx, &model.FeedbackEntry{Message: "second"})
		gt.NoError(t, err).Required()

		entries, err := repo.Feedback().List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, entries).Length(2)
		gt.Value(t, entries[0].ID).Equal(second.ID)
		gt.Value(t, entries[1].ID).Equal(first.ID)
	})

	t.Run("Delete removes exactly one entry", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		keep, err := repo.Feedback().Create(ctx, &model.FeedbackEntry{Message: "keep"})
		gt.NoError(t, err).Required()
		drop, err := repo.Feedback().Create(ctx, &model.FeedbackEntry{Message: "drop"})
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.Feedback().Delete(ctx, drop.ID))

		entries, err := repo.Feedback().List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, entries).Length(1)
		gt.Value(t, entries[0].ID).Equal(keep.ID)
	})

	t.Run("Delete of non-existent ID is not an error", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		gt.NoError(t, repo.Feedback().Delete(ctx, 424242))
	})

	t.Run("ListBySentiment filters and keeps ordering", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Feedback().Create(ctx, &model.FeedbackEntry{Message: "good", Sentiment: types.SentimentPositive})
		gt.NoError(t, err).Required()
		olderNeg, err := repo.Feedback().Create(ctx, &model.FeedbackEntry{Message: "bad", Sentiment: types.SentimentNegative})
		gt.NoError(t, err).Required()
		newerNeg, err := repo.Feedback().Create(ctx, &model.FeedbackEntry{Message: "worse", Sentiment: types.SentimentNegative})
		gt.NoError(t, err).Required()

		entries, err := repo.Feedback().ListBySentiment(ctx, types.SentimentNegative)
		gt.NoError(t, err).Required()
		gt.Array(t, entries).Length(2)
		gt.Value(t, entries[0].ID).Equal(newerNeg.ID)
		gt.Value(t, entries[1].ID).Equal(olderNeg.ID)
	})
}

func TestFeedbackRepository_Memory(t *testing.T) {
	runFeedbackRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestFeedbackRepository_Firestore(t *testing.T) {
	runFeedbackRepositoryTest(t, newFirestoreRepository)
}
