package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/salonevoice/salonevoice/pkg/domain/types"
	"github.com/salonevoice/salonevoice/pkg/usecase"
	"github.com/salonevoice/salonevoice/pkg/utils/errutil"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type inviteRequest struct {
	Email string `json:"email"`
}

type changeRoleRequest struct {
	AdminID string `json:"adminId"`
	Role    string `json:"role"`
}

// adminSetupStateHandler reports whether the first admin exists yet. The
// endpoint is public so a fresh deployment can show the setup screen.
func adminSetupStateHandler(adminUC *usecase.AdminUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		state, err := adminUC.CheckBootstrap(ctx)
		if err != nil {
			errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
			return
		}
		writeJSON(ctx, w, http.StatusOK, state)
	}
}

// adminSetupHandler creates the very first admin account
func adminSetupHandler(adminUC *usecase.AdminUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid setup request body"), http.StatusBadRequest)
			return
		}

		account, err := adminUC.Setup(ctx, req.Email, req.Password)
		if err != nil {
			writeAdminError(w, r, err)
			return
		}
		writeJSON(ctx, w, http.StatusCreated, account)
	}
}

// adminSignupHandler creates an admin account through self-service signup
func adminSignupHandler(adminUC *usecase.AdminUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid signup request body"), http.StatusBadRequest)
			return
		}

		account, err := adminUC.Signup(ctx, req.Email, req.Password)
		if err != nil {
			writeAdminError(w, r, err)
			return
		}
		writeJSON(ctx, w, http.StatusCreated, account)
	}
}

// adminInviteHandler provisions an account for a new admin email
func adminInviteHandler(adminUC *usecase.AdminUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		account, ok := accountFromContext(ctx)
		if !ok {
			writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
			return
		}

		var req inviteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid invite request body"), http.StatusBadRequest)
			return
		}

		invited, err := adminUC.Invite(ctx, account, req.Email)
		if err != nil {
			writeAdminError(w, r, err)
			return
		}
		writeJSON(ctx, w, http.StatusCreated, invited)
	}
}

// adminChangeRoleHandler updates another account's role
func adminChangeRoleHandler(adminUC *usecase.AdminUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		account, ok := accountFromContext(ctx)
		if !ok {
			writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
			return
		}

		var req changeRoleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid role request body"), http.StatusBadRequest)
			return
		}

		if err := adminUC.ChangeRole(ctx, account, req.AdminID, types.Role(req.Role)); err != nil {
			writeAdminError(w, r, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, successResponse{Success: true})
	}
}

// adminListHandler returns every admin account
func adminListHandler(adminUC *usecase.AdminUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		account, ok := accountFromContext(ctx)
		if !ok {
			writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
			return
		}

		accounts, err := adminUC.List(ctx, account)
		if err != nil {
			writeAdminError(w, r, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, accounts)
	}
}

// writeAdminError maps usecase sentinel errors to HTTP status codes
func writeAdminError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()

	switch {
	case errors.Is(err, usecase.ErrInvalidInput),
		errors.Is(err, usecase.ErrWeakPassword),
		errors.Is(err, usecase.ErrInvalidRole),
		errors.Is(err, usecase.ErrAdminExists),
		errors.Is(err, usecase.ErrEmailTaken):
		writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrAdminNotFound):
		writeJSON(ctx, w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrUnauthorized):
		writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
	case errors.Is(err, usecase.ErrPermissionDenied):
		writeJSON(ctx, w, http.StatusForbidden, errorResponse{Error: "operation not allowed"})
	default:
		errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
	}
}
