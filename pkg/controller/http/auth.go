package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/salonevoice/salonevoice/pkg/domain/model"
	"github.com/salonevoice/salonevoice/pkg/domain/model/auth"
	"github.com/salonevoice/salonevoice/pkg/domain/types"
	"github.com/salonevoice/salonevoice/pkg/usecase"
	"github.com/salonevoice/salonevoice/pkg/utils/errutil"
)

type AuthUseCase = usecase.AuthUseCaseInterface

type errorResponse struct {
	Error string `json:"error"`
}

type successResponse struct {
	Success bool `json:"success"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// writeJSON writes a JSON response with proper error handling
func writeJSON(ctx context.Context, w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		errutil.Handle(ctx, err, "failed to encode JSON response")
	}
}

func sessionCookie(r *http.Request, name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	}
}

// authLoginHandler exchanges credentials for a session token pair set as
// HttpOnly cookies
func authLoginHandler(authUC AuthUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if authUC.IsNoAuthn() {
			writeJSON(ctx, w, http.StatusOK, successResponse{Success: true})
			return
		}

		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid login request body"), http.StatusBadRequest)
			return
		}

		token, err := authUC.Login(ctx, req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, usecase.ErrInvalidInput):
				writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "email and password are required"})
			case errors.Is(err, usecase.ErrUnauthorized):
				writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
			default:
				errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
			}
			return
		}

		maxAge := int(auth.TokenTTL.Seconds())
		http.SetCookie(w, sessionCookie(r, "token_id", token.ID.String(), maxAge))
		http.SetCookie(w, sessionCookie(r, "token_secret", token.Secret.String(), maxAge))

		writeJSON(ctx, w, http.StatusOK, successResponse{Success: true})
	}
}

// authLogoutHandler deletes the stored session and clears the cookies
func authLogoutHandler(authUC AuthUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if tokenIDCookie, err := r.Cookie("token_id"); err == nil {
			tokenID := auth.TokenID(tokenIDCookie.Value)
			if err := authUC.Logout(ctx, tokenID); err != nil {
				errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to logout"), http.StatusInternalServerError)
				return
			}
		}

		http.SetCookie(w, sessionCookie(r, "token_id", "", -1))
		http.SetCookie(w, sessionCookie(r, "token_secret", "", -1))

		writeJSON(ctx, w, http.StatusOK, successResponse{Success: true})
	}
}

type meResponse struct {
	*model.AdminAccount
	Permissions      []types.Permission `json:"permissions"`
	SessionExpiresAt time.Time          `json:"session_expires_at"`
}

// authMeHandler returns the resolved account of the current session,
// the operations its role grants, and the session expiry
func authMeHandler(adminUC *usecase.AdminUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		account, ok := accountFromContext(ctx)
		if !ok {
			writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
			return
		}

		resp := meResponse{
			AdminAccount: account,
			Permissions:  adminUC.Permissions(account),
		}
		if token, ok := auth.TokenFromContext(ctx); ok {
			resp.SessionExpiresAt = token.ExpiresAt
		}
		writeJSON(ctx, w, http.StatusOK, resp)
	}
}
