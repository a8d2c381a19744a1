package usecase

import (
	"context"

	"github.com/salonevoice/salonevoice/pkg/domain/model/auth"
)

// NoAuthnUseCase bypasses the identity provider and runs every request as
// a fixed account (development only)
type NoAuthnUseCase struct {
	sub   string
	email string
}

var _ AuthUseCaseInterface = &NoAuthnUseCase{}

// NewNoAuthnUseCase creates a NoAuthnUseCase for the given account
func NewNoAuthnUseCase(sub, email string) *NoAuthnUseCase {
	return &NoAuthnUseCase{sub: sub, email: email}
}

// Login always succeeds with the configured account
func (uc *NoAuthnUseCase) Login(ctx context.Context, email, password string) (*auth.Token, error) {
	return auth.NewToken(uc.sub, uc.email), nil
}

// ValidateToken always returns a token for the configured account
func (uc *NoAuthnUseCase) ValidateToken(ctx context.Context, tokenID auth.TokenID, tokenSecret auth.TokenSecret) (*auth.Token, error) {
	return auth.NewToken(uc.sub, uc.email), nil
}

// Logout does nothing in no-auth mode
func (uc *NoAuthnUseCase) Logout(ctx context.Context, tokenID auth.TokenID) error {
	return nil
}

// IsNoAuthn returns true for NoAuthnUseCase
func (uc *NoAuthnUseCase) IsNoAuthn() bool {
	return true
}
