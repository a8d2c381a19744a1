package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/salonevoice/salonevoice/pkg/domain/interfaces"
	"github.com/salonevoice/salonevoice/pkg/domain/model/auth"
	"github.com/salonevoice/salonevoice/pkg/utils/logging"
)

// AuthUseCaseInterface is the session layer used by the HTTP controller
type AuthUseCaseInterface interface {
	Login(ctx context.Context, email, password string) (*auth.Token, error)
	ValidateToken(ctx context.Context, tokenID auth.TokenID, tokenSecret auth.TokenSecret) (*auth.Token, error)
	Logout(ctx context.Context, tokenID auth.TokenID) error
	IsNoAuthn() bool
}

// AuthUseCase authenticates against the managed identity provider and
// manages repository-stored session tokens
type AuthUseCase struct {
	repo     interfaces.Repository
	identity interfaces.IdentityClient
	admin    *AdminUseCase
}

var _ AuthUseCaseInterface = &AuthUseCase{}

// NewAuthUseCase creates the session use case. admin resolves role
// records; a valid provider session with no role record is rejected.
func NewAuthUseCase(repo interfaces.Repository, identity interfaces.IdentityClient, admin *AdminUseCase) *AuthUseCase {
	return &AuthUseCase{
		repo:     repo,
		identity: identity,
		admin:    admin,
	}
}

// IsNoAuthn returns false for the regular AuthUseCase
func (uc *AuthUseCase) IsNoAuthn() bool {
	return false
}

// Login exchanges credentials with the identity provider, requires a
// matching role record, and issues a session token
func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*auth.Token, error) {
	if email == "" || password == "" {
		return nil, goerr.Wrap(ErrInvalidInput, "email and password are required")
	}

	user, err := uc.identity.SignIn(ctx, email, password)
	if err != nil {
		return nil, goerr.Wrap(ErrUnauthorized, "identity provider rejected credentials")
	}

	// Authentication and authorization are evaluated independently: a
	// valid provider session without a role record must not log in
	account, err := uc.admin.Resolve(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	token := auth.NewToken(account.ID, account.Email)
	if err := uc.repo.PutToken(ctx, token); err != nil {
		return nil, goerr.Wrap(err, "failed to store session token")
	}

	logging.From(ctx).Info("admin logged in", "id", account.ID, "role", account.Role)
	return token, nil
}

// ValidateToken checks the cookie token pair against the stored session
func (uc *AuthUseCase) ValidateToken(ctx context.Context, tokenID auth.TokenID, tokenSecret auth.TokenSecret) (*auth.Token, error) {
	token, err := uc.repo.GetToken(ctx, tokenID)
	if err != nil {
		return nil, goerr.Wrap(ErrUnauthorized, "unknown session token")
	}

	if token.Secret != tokenSecret {
		return nil, goerr.Wrap(ErrUnauthorized, "session token secret mismatch")
	}

	if token.IsExpired(time.Now()) {
		// Expired tokens are removed eagerly; failure to delete only
		// delays cleanup
		if err := uc.repo.DeleteToken(ctx, tokenID); err != nil {
			logging.From(ctx).Warn("failed to delete expired token", "error", err)
		}
		return nil, goerr.Wrap(ErrUnauthorized, "session token expired")
	}

	return token, nil
}

// Logout deletes the stored session token
func (uc *AuthUseCase) Logout(ctx context.Context, tokenID auth.TokenID) error {
	if err := uc.repo.DeleteToken(ctx, tokenID); err != nil {
		return goerr.Wrap(err, "failed to delete session token")
	}
	return nil
}
