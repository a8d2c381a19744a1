package usecase

import (
	"github.com/salonevoice/salonevoice/pkg/domain/interfaces"
	"github.com/salonevoice/salonevoice/pkg/domain/model/config"
)

// UseCases aggregates all application use cases
type UseCases struct {
	repo        interfaces.Repository
	permissions *config.PermissionTable
	identity    interfaces.IdentityClient
	notifier    interfaces.Notifier
	mailer      interfaces.Mailer
	publisher   interfaces.MessagePublisher

	Feedback *FeedbackUseCase
	Message  *MessageUseCase
	Admin    *AdminUseCase
	Auth     AuthUseCaseInterface
}

type Option func(*UseCases)

// WithIdentity sets the identity provider client
func WithIdentity(client interfaces.IdentityClient) Option {
	return func(uc *UseCases) {
		uc.identity = client
	}
}

// WithNotifier sets the feedback notifier
func WithNotifier(n interfaces.Notifier) Option {
	return func(uc *UseCases) {
		uc.notifier = n
	}
}

// WithMailer sets the invitation mailer
func WithMailer(m interfaces.Mailer) Option {
	return func(uc *UseCases) {
		uc.mailer = m
	}
}

// WithPublisher sets the message-created event publisher
func WithPublisher(p interfaces.MessagePublisher) Option {
	return func(uc *UseCases) {
		uc.publisher = p
	}
}

// New builds the use case set. permissions defaults to the built-in table
// when nil.
func New(repo interfaces.Repository, permissions *config.PermissionTable, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:        repo,
		permissions: permissions,
	}
	if uc.permissions == nil {
		uc.permissions = config.DefaultPermissionTable()
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Feedback = &FeedbackUseCase{repo: repo, notifier: uc.notifier}
	uc.Message = &MessageUseCase{repo: repo, publisher: uc.publisher}
	uc.Admin = &AdminUseCase{
		repo:        repo,
		permissions: uc.permissions,
		identity:    uc.identity,
		mailer:      uc.mailer,
	}

	return uc
}
