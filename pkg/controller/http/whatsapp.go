package http

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/salonevoice/salonevoice/pkg/domain/model"
	"github.com/salonevoice/salonevoice/pkg/usecase"
	"github.com/salonevoice/salonevoice/pkg/utils/errutil"
	"github.com/salonevoice/salonevoice/pkg/utils/logging"
)

// verifyWhatsAppSignature checks the X-Hub-Signature-256 header against an
// HMAC-SHA256 of the exact raw body. A missing configured secret is a
// server error, not a client one: the endpoint fails closed.
func verifyWhatsAppSignature(appSecret, signature string, body []byte) error {
	if signature == "" {
		return goerr.New("missing signature header")
	}

	received := strings.TrimPrefix(signature, "sha256=")

	mac := hmac.New(sha256.New, []byte(appSecret))
	if _, err := mac.Write(body); err != nil {
		return goerr.Wrap(err, "failed to compute HMAC")
	}
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(received)) {
		return goerr.New("signature mismatch")
	}

	return nil
}

// WhatsAppSignatureMiddleware verifies webhook deliveries before any
// payload processing
func WhatsAppSignatureMiddleware(appSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if appSecret == "" {
				errutil.HandleHTTP(ctx, w,
					goerr.New("webhook app secret is not configured"),
					http.StatusInternalServerError)
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to read request body"), http.StatusBadRequest)
				return
			}
			defer func() {
				if err := r.Body.Close(); err != nil {
					logging.From(ctx).Error("failed to close request body", "error", err)
				}
			}()

			signature := r.Header.Get("X-Hub-Signature-256")
			if err := verifyWhatsAppSignature(appSecret, signature, body); err != nil {
				errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "webhook signature verification failed"), http.StatusUnauthorized)
				return
			}

			r.Body = io.NopCloser(bytes.NewBuffer(body))
			next.ServeHTTP(w, r)
		})
	}
}

// whatsAppVerifyHandler answers the platform's challenge handshake. The
// challenge is echoed verbatim only when the verify token matches.
func whatsAppVerifyHandler(verifyToken string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("hub.verify_token")
		challenge := r.URL.Query().Get("hub.challenge")

		if verifyToken == "" || token != verifyToken {
			logging.From(r.Context()).Warn("webhook verification rejected",
				"mode", r.URL.Query().Get("hub.mode"))
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(challenge)); err != nil {
			logging.From(r.Context()).Error("failed to write challenge response", "error", err)
		}
	}
}

// whatsAppWebhookHandler processes a signature-verified delivery. Once the
// signature has passed, the response is always 200: per-message failures
// are logged, and a non-200 would only make the platform redeliver a
// payload we cannot process any better.
func whatsAppWebhookHandler(messageUC *usecase.MessageUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		body, err := io.ReadAll(r.Body)
		if err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to read request body"), http.StatusBadRequest)
			return
		}

		var event model.WebhookEvent
		if err := json.Unmarshal(body, &event); err != nil {
			logging.From(ctx).Warn("unparseable webhook payload", "error", err)
			writeJSON(ctx, w, http.StatusOK, successResponse{Success: true})
			return
		}

		messageUC.HandleWebhookEvent(ctx, &event)

		writeJSON(ctx, w, http.StatusOK, successResponse{Success: true})
	}
}
