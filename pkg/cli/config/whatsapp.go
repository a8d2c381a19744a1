package config

import (
	"log/slog"

	"github.com/urfave/cli/v3"
)

// WhatsApp holds CLI flags for the webhook ingress
type WhatsApp struct {
	appSecret   string
	verifyToken string
}

// Flags returns CLI flags for WhatsApp webhook configuration
func (x *WhatsApp) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "whatsapp-app-secret",
			Usage:       "Meta app secret used to verify X-Hub-Signature-256 on webhook deliveries",
			Category:    "WhatsApp",
			Sources:     cli.EnvVars("SALONEVOICE_WHATSAPP_APP_SECRET"),
			Destination: &x.appSecret,
		},
		&cli.StringFlag{
			Name:        "whatsapp-verify-token",
			Usage:       "Token expected in the hub.verify_token challenge handshake",
			Category:    "WhatsApp",
			Sources:     cli.EnvVars("SALONEVOICE_WHATSAPP_VERIFY_TOKEN"),
			Destination: &x.verifyToken,
		},
	}
}

// AppSecret returns the configured app secret
func (x *WhatsApp) AppSecret() string {
	return x.appSecret
}

// VerifyToken returns the configured verify token
func (x *WhatsApp) VerifyToken() string {
	return x.verifyToken
}

// IsConfigured reports whether webhook deliveries can be verified
func (x *WhatsApp) IsConfigured() bool {
	return x.appSecret != ""
}

// LogValue renders the configuration without exposing the secrets
func (x WhatsApp) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("app_secret_set", x.appSecret != ""),
		slog.Bool("verify_token_set", x.verifyToken != ""),
	)
}
