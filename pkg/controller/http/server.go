package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/salonevoice/salonevoice/pkg/service/pubsub"
	"github.com/salonevoice/salonevoice/pkg/usecase"
	"github.com/salonevoice/salonevoice/pkg/utils/logging"
)

type Server struct {
	router        *chi.Mux
	uc            *usecase.UseCases
	authUC        AuthUseCase
	webhookSecret string
	verifyToken   string
	hub           *pubsub.Hub
}

type Options func(*Server)

// WithAuth enables session authentication on the admin surface
func WithAuth(authUC AuthUseCase) Options {
	return func(s *Server) {
		s.authUC = authUC
	}
}

// WithWhatsAppWebhook sets the webhook app secret and the challenge
// verify token
func WithWhatsAppWebhook(appSecret, verifyToken string) Options {
	return func(s *Server) {
		s.webhookSecret = appSecret
		s.verifyToken = verifyToken
	}
}

// WithEventHub enables the SSE message-created stream
func WithEventHub(hub *pubsub.Hub) Options {
	return func(s *Server) {
		s.hub = hub
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// WhatsApp webhook - no session auth, uses signature verification
	r.Route("/hooks/whatsapp", func(r chi.Router) {
		r.Get("/", whatsAppVerifyHandler(s.verifyToken))
		r.With(WhatsAppSignatureMiddleware(s.webhookSecret)).
			Post("/", whatsAppWebhookHandler(uc.Message))
	})

	// Public surface: feedback submission and bootstrap state
	r.Post("/api/feedback", feedbackSubmitHandler(uc.Feedback))
	r.Get("/api/admin/setup", adminSetupStateHandler(uc.Admin))
	r.Post("/api/admin/setup", adminSetupHandler(uc.Admin))
	r.Post("/api/admin/signup", adminSignupHandler(uc.Admin))

	// Auth endpoints
	if s.authUC != nil {
		r.Route("/api/auth", func(r chi.Router) {
			r.Post("/login", authLoginHandler(s.authUC))
			r.Post("/logout", authLogoutHandler(s.authUC))
			r.With(authMiddleware(s.authUC, uc.Admin)).
				Get("/me", authMeHandler(uc.Admin))
		})
	}

	// Session-gated admin surface
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware(s.authUC, uc.Admin))

		r.Get("/api/feedback", feedbackListHandler(uc))
		r.Delete("/api/feedback/{id}", feedbackDeleteHandler(uc))

		r.Get("/api/messages", messageListHandler(uc))
		r.Delete("/api/messages/{id}", messageDeleteHandler(uc))

		r.Post("/api/admin/invite", adminInviteHandler(uc.Admin))
		r.Put("/api/admin/role", adminChangeRoleHandler(uc.Admin))
		r.Get("/api/admin/admins", adminListHandler(uc.Admin))

		if s.hub != nil {
			r.Get("/api/events/messages", messageEventsHandler(uc, s.hub))
		}
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
