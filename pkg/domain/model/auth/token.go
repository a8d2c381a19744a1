package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// TokenID identifies a session token
type TokenID string

// TokenSecret is the secret half of a session token pair
type TokenSecret string

func (x TokenID) String() string     { return string(x) }
func (x TokenSecret) String() string { return string(x) }

// Validate checks the token ID is present
func (x TokenID) Validate() error {
	if x == "" {
		return goerr.New("token ID is empty")
	}
	return nil
}

// Validate checks the token secret is present
func (x TokenSecret) Validate() error {
	if x == "" {
		return goerr.New("token secret is empty")
	}
	return nil
}

// TokenTTL is the lifetime of a dashboard session
const TokenTTL = 24 * time.Hour

// Token is a dashboard session issued after a successful login against
// the identity provider. Sub is the identity-provider user ID.
type Token struct {
	ID        TokenID     `firestore:"id" json:"id"`
	Secret    TokenSecret `firestore:"secret" json:"secret"`
	Sub       string      `firestore:"sub" json:"sub"`
	Email     string      `firestore:"email" json:"email"`
	ExpiresAt time.Time   `firestore:"expires_at" json:"expires_at"`
	CreatedAt time.Time   `firestore:"created_at" json:"created_at"`
}

// NewToken creates a session token for an identity-provider user
func NewToken(sub, email string) *Token {
	now := time.Now().UTC()
	return &Token{
		ID:        TokenID(uuid.NewString()),
		Secret:    TokenSecret(uuid.NewString()),
		Sub:       sub,
		Email:     email,
		ExpiresAt: now.Add(TokenTTL),
		CreatedAt: now,
	}
}

// Validate checks the token fields are consistent
func (x *Token) Validate() error {
	if err := x.ID.Validate(); err != nil {
		return err
	}
	if err := x.Secret.Validate(); err != nil {
		return err
	}
	if x.Sub == "" {
		return goerr.New("token subject is empty", goerr.V("id", x.ID))
	}
	return nil
}

// IsExpired reports whether the token has passed its expiry
func (x *Token) IsExpired(now time.Time) bool {
	return now.After(x.ExpiresAt)
}

type ctxTokenKey struct{}

// ContextWithToken attaches a validated session token to the context
func ContextWithToken(ctx context.Context, token *Token) context.Context {
	return context.WithValue(ctx, ctxTokenKey{}, token)
}

// TokenFromContext retrieves the session token from the context
func TokenFromContext(ctx context.Context) (*Token, bool) {
	token, ok := ctx.Value(ctxTokenKey{}).(*Token)
	return token, ok
}
