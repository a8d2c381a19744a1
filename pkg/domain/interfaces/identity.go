package interfaces

import (
	"context"
	"errors"
)

// ErrEmailRegistered is returned by CreateUser when the provider already
// holds an account for the email
var ErrEmailRegistered = errors.New("email already registered")

// IdentityUser is an account held by the external identity provider
type IdentityUser struct {
	ID    string
	Email string
}

// IdentityClient is the managed identity provider. It owns credential
// storage, password hashing and session issuance; this service only calls
// its admin and token endpoints.
type IdentityClient interface {
	// CreateUser provisions a provider account. An empty password means
	// the provider generates one that is unset for login (invitation flow).
	// Wraps ErrEmailRegistered when the email is already held.
	CreateUser(ctx context.Context, email, password string) (*IdentityUser, error)
	// DeleteUser removes a provider account. Used as best-effort cleanup
	// when the role-record insert fails after account creation.
	DeleteUser(ctx context.Context, id string) error
	// SignIn performs a password grant and returns the verified user
	// identity from the provider-issued session token.
	SignIn(ctx context.Context, email, password string) (*IdentityUser, error)
}
