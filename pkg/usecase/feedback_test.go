package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/salonevoice/salonevoice/pkg/domain/types"
	"github.com/salonevoice/salonevoice/pkg/repository/memory"
	"github.com/salonevoice/salonevoice/pkg/usecase"
)

func TestFeedbackSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("entry stored with trimmed fields", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo, nil)

		entry, err := uc.Feedback.Submit(ctx, "  the market road floods every rainy season  ", " ab@example.sl ", types.SentimentNegative)
		gt.NoError(t, err).Required()
		gt.Value(t, entry.Message).Equal("the market road floods every rainy season")
		gt.Value(t, entry.Email).Equal("ab@example.sl")
		gt.Value(t, entry.Sentiment).Equal(types.SentimentNegative)
		gt.Number(t, entry.ID).Equal(1)
	})

	t.Run("missing sentiment defaults to neutral", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo, nil)

		entry, err := uc.Feedback.Submit(ctx, "no opinion either way", "", "")
		gt.NoError(t, err).Required()
		gt.Value(t, entry.Sentiment).Equal(types.SentimentNeutral)
	})

	t.Run("blank message rejected", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo, nil)

		_, err := uc.Feedback.Submit(ctx, "   ", "", types.SentimentPositive)
		gt.Bool(t, errors.Is(err, usecase.ErrInvalidInput)).True()
	})

	t.Run("unrecognized sentiment rejected", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo, nil)

		_, err := uc.Feedback.Submit(ctx, "some message", "", types.Sentiment("angry"))
		gt.Bool(t, errors.Is(err, usecase.ErrInvalidInput)).True()

		entries, err := uc.Feedback.List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, entries).Length(0)
	})

	t.Run("notifier receives the submission", func(t *testing.T) {
		repo := memory.New()
		notifier := &captureNotifier{texts: make(chan string, 1)}
		uc := usecase.New(repo, nil, usecase.WithNotifier(notifier))

		_, err := uc.Feedback.Submit(ctx, "clinic has no nurse", "", types.SentimentNegative)
		gt.NoError(t, err).Required()

		select {
		case text := <-notifier.texts:
			gt.Bool(t, strings.Contains(text, "clinic has no nurse")).True()
		case <-time.After(time.Second):
			t.Fatal("notifier was not called")
		}
	})
}

func TestFeedbackListAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	uc := usecase.New(repo, nil)

	for _, msg := range []string{"first", "second", "third"} {
		_, err := uc.Feedback.Submit(ctx, msg, "", types.SentimentNeutral)
		gt.NoError(t, err).Required()
	}

	entries, err := uc.Feedback.List(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, entries).Length(3)
	gt.Value(t, entries[0].Message).Equal("third")

	gt.NoError(t, uc.Feedback.Delete(ctx, entries[0].ID))

	entries, err = uc.Feedback.List(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, entries).Length(2)
	gt.Value(t, entries[0].Message).Equal("second")
}

type captureNotifier struct {
	texts chan string
}

func (n *captureNotifier) Notify(ctx context.Context, text string) error {
	n.texts <- text
	return nil
}
