package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/salonevoice/salonevoice/pkg/domain/interfaces"
	"github.com/salonevoice/salonevoice/pkg/service/identity"
	"github.com/urfave/cli/v3"
)

// Identity holds CLI flags for the managed identity provider
type Identity struct {
	baseURL    string
	serviceKey string
	jwtSecret  string
}

// Flags returns CLI flags for identity provider configuration
func (x *Identity) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "identity-base-url",
			Usage:       "Base URL of the identity provider's auth API",
			Category:    "Identity",
			Sources:     cli.EnvVars("SALONEVOICE_IDENTITY_BASE_URL"),
			Destination: &x.baseURL,
		},
		&cli.StringFlag{
			Name:        "identity-service-key",
			Usage:       "Service role key for admin user management",
			Category:    "Identity",
			Sources:     cli.EnvVars("SALONEVOICE_IDENTITY_SERVICE_KEY"),
			Destination: &x.serviceKey,
		},
		&cli.StringFlag{
			Name:        "identity-jwt-secret",
			Usage:       "HS256 secret used to verify access tokens issued by the provider",
			Category:    "Identity",
			Sources:     cli.EnvVars("SALONEVOICE_IDENTITY_JWT_SECRET"),
			Destination: &x.jwtSecret,
		},
	}
}

// IsConfigured reports whether the identity provider can be reached
func (x *Identity) IsConfigured() bool {
	return x.baseURL != ""
}

// Configure builds the identity provider client
func (x *Identity) Configure() (interfaces.IdentityClient, error) {
	if !x.IsConfigured() {
		return nil, goerr.New("identity-base-url is required")
	}
	if x.serviceKey == "" {
		return nil, goerr.New("identity-service-key is required")
	}
	if x.jwtSecret == "" {
		return nil, goerr.New("identity-jwt-secret is required")
	}

	client, err := identity.New(x.baseURL, x.serviceKey, x.jwtSecret)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize identity client")
	}
	return client, nil
}

// LogValue renders the configuration without exposing the secrets
func (x Identity) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("base_url", x.baseURL),
		slog.Bool("service_key_set", x.serviceKey != ""),
		slog.Bool("jwt_secret_set", x.jwtSecret != ""),
	)
}
