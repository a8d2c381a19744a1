package http_test

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"
	httpctrl "github.com/salonevoice/salonevoice/pkg/controller/http"
	"github.com/salonevoice/salonevoice/pkg/repository/memory"
	"github.com/salonevoice/salonevoice/pkg/usecase"
)

// Export the private function for testing
var VerifyWhatsAppSignature = httpctrl.VerifyWhatsAppSignature

// computeWebhookSignature computes the X-Hub-Signature-256 value for
// testing
func computeWebhookSignature(appSecret string, body []byte) string {
	h := hmac.New(sha256.New, []byte(appSecret))
	h.Write(body)
	return "sha256=" + hex.EncodeToString(h.Sum(nil))
}

const webhookBody = `{
	"object": "whatsapp_business_account",
	"entry": [{
		"id": "ENTRY_ID",
		"changes": [{
			"field": "messages",
			"value": {
				"messaging_product": "whatsapp",
				"contacts": [{"wa_id": "23276123456", "profile": {"name": "Fatmata"}}],
				"messages": [{"from": "23276123456", "id": "wamid.test1", "type": "text", "text": {"body": "the well pump is broken"}}]
			}
		}]
	}]
}`

func TestVerifyWhatsAppSignature(t *testing.T) {
	appSecret := "test-app-secret"
	body := []byte(webhookBody)

	t.Run("valid signature", func(t *testing.T) {
		signature := computeWebhookSignature(appSecret, body)
		gt.NoError(t, VerifyWhatsAppSignature(appSecret, signature, body))
	})

	t.Run("missing signature", func(t *testing.T) {
		gt.Error(t, VerifyWhatsAppSignature(appSecret, "", body))
	})

	t.Run("mangled signature", func(t *testing.T) {
		gt.Error(t, VerifyWhatsAppSignature(appSecret, "sha256=deadbeef", body))
	})

	t.Run("wrong secret produces different signature", func(t *testing.T) {
		signature := computeWebhookSignature("wrong-secret", body)
		gt.Error(t, VerifyWhatsAppSignature(appSecret, signature, body))
	})

	t.Run("different body produces different signature", func(t *testing.T) {
		signature := computeWebhookSignature(appSecret, []byte("different body"))
		gt.Error(t, VerifyWhatsAppSignature(appSecret, signature, body))
	})
}

func newWebhookServer(t *testing.T, appSecret, verifyToken string) (*httpctrl.Server, *usecase.UseCases) {
	t.Helper()
	uc := usecase.New(memory.New(), nil)
	srv := httpctrl.New(uc, httpctrl.WithWhatsAppWebhook(appSecret, verifyToken))
	return srv, uc
}

func TestWhatsAppVerifyHandler(t *testing.T) {
	srv, _ := newWebhookServer(t, "app-secret", "verify-me")

	t.Run("matching token echoes challenge", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet,
			"/hooks/whatsapp?hub.mode=subscribe&hub.verify_token=verify-me&hub.challenge=1158201444", nil)
		rec := httptest.NewRecorder()

		srv.ServeHTTP(rec, req)

		gt.Number(t, rec.Code).Equal(http.StatusOK)
		gt.Value(t, rec.Body.String()).Equal("1158201444")
	})

	t.Run("wrong token rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet,
			"/hooks/whatsapp?hub.verify_token=nope&hub.challenge=1158201444", nil)
		rec := httptest.NewRecorder()

		srv.ServeHTTP(rec, req)

		gt.Number(t, rec.Code).Equal(http.StatusForbidden)
	})

	t.Run("unconfigured token rejects everything", func(t *testing.T) {
		unconfigured, _ := newWebhookServer(t, "app-secret", "")

		req := httptest.NewRequest(http.MethodGet,
			"/hooks/whatsapp?hub.verify_token=&hub.challenge=x", nil)
		rec := httptest.NewRecorder()

		unconfigured.ServeHTTP(rec, req)

		gt.Number(t, rec.Code).Equal(http.StatusForbidden)
	})
}

func TestWhatsAppWebhook(t *testing.T) {
	ctx := context.Background()
	appSecret := "test-app-secret"

	post := func(srv *httpctrl.Server, body []byte, signature string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/hooks/whatsapp", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if signature != "" {
			req.Header.Set("X-Hub-Signature-256", signature)
		}
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		return rec
	}

	t.Run("signed delivery is stored and acknowledged", func(t *testing.T) {
		srv, uc := newWebhookServer(t, appSecret, "verify-me")
		body := []byte(webhookBody)

		rec := post(srv, body, computeWebhookSignature(appSecret, body))

		gt.Number(t, rec.Code).Equal(http.StatusOK)
		gt.Value(t, rec.Body.String()).Equal("{\"success\":true}\n")

		messages, err := uc.Message.List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, messages).Length(1)
		gt.Value(t, messages[0].Sender).Equal("23276123456")
		gt.Value(t, messages[0].Body).Equal("the well pump is broken")
	})

	t.Run("bad signature rejected before any write", func(t *testing.T) {
		srv, uc := newWebhookServer(t, appSecret, "verify-me")
		body := []byte(webhookBody)

		rec := post(srv, body, "sha256=0000")

		gt.Number(t, rec.Code).Equal(http.StatusUnauthorized)

		messages, err := uc.Message.List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, messages).Length(0)
	})

	t.Run("missing signature header rejected", func(t *testing.T) {
		srv, _ := newWebhookServer(t, appSecret, "verify-me")

		rec := post(srv, []byte(webhookBody), "")

		gt.Number(t, rec.Code).Equal(http.StatusUnauthorized)
	})

	t.Run("unconfigured secret fails closed", func(t *testing.T) {
		srv, _ := newWebhookServer(t, "", "verify-me")
		body := []byte(webhookBody)

		rec := post(srv, body, computeWebhookSignature("", body))

		gt.Number(t, rec.Code).Equal(http.StatusInternalServerError)
	})

	t.Run("signed but unparseable payload still acknowledged", func(t *testing.T) {
		srv, uc := newWebhookServer(t, appSecret, "verify-me")
		body := []byte("not json at all")

		rec := post(srv, body, computeWebhookSignature(appSecret, body))

		gt.Number(t, rec.Code).Equal(http.StatusOK)

		messages, err := uc.Message.List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, messages).Length(0)
	})
}
