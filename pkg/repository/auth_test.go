package repository_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/salonevoice/salonevoice/pkg/domain/model/auth"
	"github.com/salonevoice/salonevoice/pkg/repository/memory"
)

func TestTokenStore_Memory(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	token := auth.NewToken("user-1", "fatmata@example.sl")

	t.Run("put and get", func(t *testing.T) {
		gt.NoError(t, repo.PutToken(ctx, token)).Required()

		got, err := repo.GetToken(ctx, token.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Sub).Equal("user-1")
		gt.Value(t, got.Secret).Equal(token.Secret)
	})

	t.Run("delete", func(t *testing.T) {
		gt.NoError(t, repo.DeleteToken(ctx, token.ID))

		_, err := repo.GetToken(ctx, token.ID)
		gt.Error(t, err)
	})

	t.Run("invalid token rejected", func(t *testing.T) {
		gt.Error(t, repo.PutToken(ctx, &auth.Token{}))

		_, err := repo.GetToken(ctx, auth.TokenID(""))
		gt.Error(t, err)
	})
}
