package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	httpctrl "github.com/salonevoice/salonevoice/pkg/controller/http"
	"github.com/salonevoice/salonevoice/pkg/domain/model"
	"github.com/salonevoice/salonevoice/pkg/domain/types"
	"github.com/salonevoice/salonevoice/pkg/repository/memory"
	"github.com/salonevoice/salonevoice/pkg/service/identity"
	"github.com/salonevoice/salonevoice/pkg/usecase"
)

type testEnv struct {
	srv *httpctrl.Server
	uc  *usecase.UseCases
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo := memory.New()
	idp := identity.NewMemory()
	uc := usecase.New(repo, nil, usecase.WithIdentity(idp))
	uc.Auth = usecase.NewAuthUseCase(repo, idp, uc.Admin)

	srv := httpctrl.New(uc,
		httpctrl.WithAuth(uc.Auth),
		httpctrl.WithWhatsAppWebhook("app-secret", "verify-me"),
	)
	return &testEnv{srv: srv, uc: uc}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		gt.NoError(t, err).Required()
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	e.srv.ServeHTTP(rec, req)
	return rec
}

// signupAndLogin provisions an account and returns its session cookies
func (e *testEnv) signupAndLogin(t *testing.T, email string) []*http.Cookie {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/api/admin/signup",
		map[string]string{"email": email, "password": "longenough"}, nil)
	gt.Number(t, rec.Code).Equal(http.StatusCreated)

	return e.login(t, email)
}

func (e *testEnv) login(t *testing.T, email string) []*http.Cookie {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/api/auth/login",
		map[string]string{"email": email, "password": "longenough"}, nil)
	gt.Number(t, rec.Code).Equal(http.StatusOK)

	cookies := rec.Result().Cookies()
	gt.Array(t, cookies).Length(2)
	return cookies
}

func TestSetupFlow(t *testing.T) {
	env := newTestEnv(t)

	t.Run("fresh deployment reports no admin", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/admin/setup", nil, nil)
		gt.Number(t, rec.Code).Equal(http.StatusOK)

		var state usecase.BootstrapState
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state)).Required()
		gt.Bool(t, state.Exists).False()
	})

	t.Run("setup creates the first super_admin", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/admin/setup",
			map[string]string{"email": "founder@example.sl", "password": "longenough"}, nil)
		gt.Number(t, rec.Code).Equal(http.StatusCreated)

		var account model.AdminAccount
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &account)).Required()
		gt.Value(t, account.Role).Equal(types.RoleSuperAdmin)
	})

	t.Run("second setup rejected", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/admin/setup",
			map[string]string{"email": "other@example.sl", "password": "longenough"}, nil)
		gt.Number(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("state now reports existing admin", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/admin/setup", nil, nil)
		gt.Number(t, rec.Code).Equal(http.StatusOK)

		var state usecase.BootstrapState
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state)).Required()
		gt.Bool(t, state.Exists).True()
		gt.Number(t, state.Count).Equal(1)
	})
}

func TestAuthFlow(t *testing.T) {
	t.Run("login sets session cookies and me resolves", func(t *testing.T) {
		env := newTestEnv(t)
		cookies := env.signupAndLogin(t, "boss@example.sl")

		rec := env.do(t, http.MethodGet, "/api/auth/me", nil, cookies)
		gt.Number(t, rec.Code).Equal(http.StatusOK)

		var session struct {
			model.AdminAccount
			Permissions      []types.Permission `json:"permissions"`
			SessionExpiresAt time.Time          `json:"session_expires_at"`
		}
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session)).Required()
		gt.Value(t, session.Email).Equal("boss@example.sl")
		gt.Value(t, session.Role).Equal(types.RoleSuperAdmin)
		gt.Array(t, session.Permissions).Has(types.PermAdminsSetRole)
		gt.Bool(t, session.SessionExpiresAt.After(time.Now())).True()
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		env := newTestEnv(t)
		env.signupAndLogin(t, "boss@example.sl")

		rec := env.do(t, http.MethodPost, "/api/auth/login",
			map[string]string{"email": "boss@example.sl", "password": "wrongpass"}, nil)
		gt.Number(t, rec.Code).Equal(http.StatusUnauthorized)
	})

	t.Run("protected surface rejects missing cookies", func(t *testing.T) {
		env := newTestEnv(t)

		rec := env.do(t, http.MethodGet, "/api/feedback", nil, nil)
		gt.Number(t, rec.Code).Equal(http.StatusUnauthorized)
	})

	t.Run("logout invalidates the session", func(t *testing.T) {
		env := newTestEnv(t)
		cookies := env.signupAndLogin(t, "boss@example.sl")

		rec := env.do(t, http.MethodPost, "/api/auth/logout", nil, cookies)
		gt.Number(t, rec.Code).Equal(http.StatusOK)

		rec = env.do(t, http.MethodGet, "/api/feedback", nil, cookies)
		gt.Number(t, rec.Code).Equal(http.StatusUnauthorized)
	})
}

func TestFeedbackEndpoints(t *testing.T) {
	t.Run("public submission needs no session", func(t *testing.T) {
		env := newTestEnv(t)

		rec := env.do(t, http.MethodPost, "/api/feedback",
			map[string]string{"message": "school roof leaks", "sentiment": "negative"}, nil)
		gt.Number(t, rec.Code).Equal(http.StatusCreated)

		var entry model.FeedbackEntry
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entry)).Required()
		gt.Value(t, entry.Message).Equal("school roof leaks")
		gt.Value(t, entry.Sentiment).Equal(types.SentimentNegative)
	})

	t.Run("blank message rejected", func(t *testing.T) {
		env := newTestEnv(t)

		rec := env.do(t, http.MethodPost, "/api/feedback",
			map[string]string{"message": "  "}, nil)
		gt.Number(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("list and delete require matching grants", func(t *testing.T) {
		env := newTestEnv(t)
		superCookies := env.signupAndLogin(t, "boss@example.sl")
		adminCookies := env.signupAndLogin(t, "worker@example.sl")

		rec := env.do(t, http.MethodPost, "/api/feedback",
			map[string]string{"message": "bridge is out"}, nil)
		gt.Number(t, rec.Code).Equal(http.StatusCreated)

		// Both roles may read
		rec = env.do(t, http.MethodGet, "/api/feedback", nil, adminCookies)
		gt.Number(t, rec.Code).Equal(http.StatusOK)

		var entries []*model.FeedbackEntry
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries)).Required()
		gt.Array(t, entries).Length(1)

		// The lowest role lacks the delete grant
		rec = env.do(t, http.MethodDelete, fmt.Sprintf("/api/feedback/%d", entries[0].ID), nil, adminCookies)
		gt.Number(t, rec.Code).Equal(http.StatusForbidden)

		rec = env.do(t, http.MethodDelete, fmt.Sprintf("/api/feedback/%d", entries[0].ID), nil, superCookies)
		gt.Number(t, rec.Code).Equal(http.StatusOK)

		rec = env.do(t, http.MethodGet, "/api/feedback", nil, superCookies)
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries)).Required()
		gt.Array(t, entries).Length(0)
	})
}

func TestAdminEndpoints(t *testing.T) {
	t.Run("invite and list", func(t *testing.T) {
		env := newTestEnv(t)
		cookies := env.signupAndLogin(t, "boss@example.sl")

		rec := env.do(t, http.MethodPost, "/api/admin/invite",
			map[string]string{"email": "invited@example.sl"}, cookies)
		gt.Number(t, rec.Code).Equal(http.StatusCreated)

		var invited model.AdminAccount
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &invited)).Required()
		gt.Value(t, invited.Role).Equal(types.RoleAdmin)

		rec = env.do(t, http.MethodGet, "/api/admin/admins", nil, cookies)
		gt.Number(t, rec.Code).Equal(http.StatusOK)

		var accounts []*model.AdminAccount
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &accounts)).Required()
		gt.Array(t, accounts).Length(2)
	})

	t.Run("duplicate signup rejected", func(t *testing.T) {
		env := newTestEnv(t)
		env.signupAndLogin(t, "boss@example.sl")

		rec := env.do(t, http.MethodPost, "/api/admin/signup",
			map[string]string{"email": "boss@example.sl", "password": "longenough"}, nil)
		gt.Number(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("duplicate invite rejected", func(t *testing.T) {
		env := newTestEnv(t)
		cookies := env.signupAndLogin(t, "boss@example.sl")

		rec := env.do(t, http.MethodPost, "/api/admin/invite",
			map[string]string{"email": "boss@example.sl"}, cookies)
		gt.Number(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("role change restricted to super_admin", func(t *testing.T) {
		env := newTestEnv(t)
		superCookies := env.signupAndLogin(t, "boss@example.sl")
		adminCookies := env.signupAndLogin(t, "worker@example.sl")

		rec := env.do(t, http.MethodGet, "/api/auth/me", nil, adminCookies)
		var worker model.AdminAccount
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &worker)).Required()

		rec = env.do(t, http.MethodPut, "/api/admin/role",
			map[string]string{"adminId": worker.ID, "role": "moderator"}, adminCookies)
		gt.Number(t, rec.Code).Equal(http.StatusForbidden)

		rec = env.do(t, http.MethodPut, "/api/admin/role",
			map[string]string{"adminId": worker.ID, "role": "moderator"}, superCookies)
		gt.Number(t, rec.Code).Equal(http.StatusOK)

		rec = env.do(t, http.MethodGet, "/api/auth/me", nil, adminCookies)
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &worker)).Required()
		gt.Value(t, worker.Role).Equal(types.RoleModerator)
	})

	t.Run("unrecognized role rejected", func(t *testing.T) {
		env := newTestEnv(t)
		cookies := env.signupAndLogin(t, "boss@example.sl")

		rec := env.do(t, http.MethodPut, "/api/admin/role",
			map[string]string{"adminId": "whoever", "role": "superuser"}, cookies)
		gt.Number(t, rec.Code).Equal(http.StatusBadRequest)
	})
}

func TestMessageEndpoints(t *testing.T) {
	env := newTestEnv(t)
	cookies := env.signupAndLogin(t, "boss@example.sl")

	body := []byte(webhookBody)
	req := httptest.NewRequest(http.MethodPost, "/hooks/whatsapp", bytes.NewReader(body))
	req.Header.Set("X-Hub-Signature-256", computeWebhookSignature("app-secret", body))
	rec := httptest.NewRecorder()
	env.srv.ServeHTTP(rec, req)
	gt.Number(t, rec.Code).Equal(http.StatusOK)

	listRec := env.do(t, http.MethodGet, "/api/messages", nil, cookies)
	gt.Number(t, listRec.Code).Equal(http.StatusOK)

	var messages []*model.InboundMessage
	gt.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &messages)).Required()
	gt.Array(t, messages).Length(1)

	delRec := env.do(t, http.MethodDelete, fmt.Sprintf("/api/messages/%d", messages[0].ID), nil, cookies)
	gt.Number(t, delRec.Code).Equal(http.StatusOK)

	listRec = env.do(t, http.MethodGet, "/api/messages", nil, cookies)
	gt.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &messages)).Required()
	gt.Array(t, messages).Length(0)
}
