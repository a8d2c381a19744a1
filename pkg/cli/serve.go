package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/salonevoice/salonevoice/pkg/cli/config"
	httpctrl "github.com/salonevoice/salonevoice/pkg/controller/http"
	"github.com/salonevoice/salonevoice/pkg/domain/interfaces"
	"github.com/salonevoice/salonevoice/pkg/service/pubsub"
	"github.com/salonevoice/salonevoice/pkg/usecase"
	"github.com/salonevoice/salonevoice/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var sentryDSN string
	var noAuthEmail string
	var repoCfg config.Repository
	var identityCfg config.Identity
	var whatsappCfg config.WhatsApp
	var notifyCfg config.Notify
	var permCfg config.Permissions

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("SALONEVOICE_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "sentry-dsn",
			Usage:       "Sentry DSN for server error reporting",
			Sources:     cli.EnvVars("SALONEVOICE_SENTRY_DSN"),
			Destination: &sentryDSN,
		},
		&cli.StringFlag{
			Name:        "no-auth",
			Usage:       "Skip authentication and run as the named account (development only). Example: --no-auth=dev@example.com",
			Category:    "Authentication",
			Sources:     cli.EnvVars("SALONEVOICE_NO_AUTH"),
			Destination: &noAuthEmail,
		},
	}

	// Add shared config flags
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, identityCfg.Flags()...)
	flags = append(flags, whatsappCfg.Flags()...)
	flags = append(flags, notifyCfg.Flags()...)
	flags = append(flags, permCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if sentryDSN != "" {
				if err := sentry.Init(sentry.ClientOptions{Dsn: sentryDSN}); err != nil {
					return goerr.Wrap(err, "failed to initialize sentry")
				}
				defer sentry.Flush(2 * time.Second)
				logging.Default().Info("Sentry error reporting enabled")
			}

			permissions, err := permCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load permission table")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			hub := pubsub.NewHub()
			defer hub.Close()

			ucOpts := []usecase.Option{
				usecase.WithPublisher(hub),
			}

			var idClient interfaces.IdentityClient
			if identityCfg.IsConfigured() {
				idClient, err = identityCfg.Configure()
				if err != nil {
					return goerr.Wrap(err, "failed to configure identity provider")
				}
				ucOpts = append(ucOpts, usecase.WithIdentity(idClient))
				logging.Default().Info("Identity provider enabled", "identity", identityCfg)
			} else if noAuthEmail == "" {
				return goerr.New("identity provider must be configured unless --no-auth is set")
			}

			if notifyCfg.HasNotifier() {
				notifier, err := notifyCfg.Notifier()
				if err != nil {
					return err
				}
				ucOpts = append(ucOpts, usecase.WithNotifier(notifier))
				logging.Default().Info("Slack feedback notifications enabled")
			}

			if notifyCfg.HasMailer() {
				mailer, err := notifyCfg.Mailer()
				if err != nil {
					return err
				}
				ucOpts = append(ucOpts, usecase.WithMailer(mailer))
				logging.Default().Info("Invitation mailer enabled")
			}

			uc := usecase.New(repo, permissions, ucOpts...)

			if noAuthEmail != "" {
				logging.Default().Warn("Running in no-auth mode (development only)", "email", noAuthEmail)
				uc.Auth = usecase.NewNoAuthnUseCase("no-auth", noAuthEmail)
			} else {
				uc.Auth = usecase.NewAuthUseCase(repo, idClient, uc.Admin)
			}

			if whatsappCfg.IsConfigured() {
				logging.Default().Info("WhatsApp webhook enabled", "whatsapp", whatsappCfg)
			} else {
				logging.Default().Warn("WhatsApp app secret not configured, webhook deliveries will be rejected")
			}

			srv := httpctrl.New(uc,
				httpctrl.WithAuth(uc.Auth),
				httpctrl.WithWhatsAppWebhook(whatsappCfg.AppSecret(), whatsappCfg.VerifyToken()),
				httpctrl.WithEventHub(hub),
			)

			server := &http.Server{
				Addr:              addr,
				Handler:           srv,
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
