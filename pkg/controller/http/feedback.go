package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/salonevoice/salonevoice/pkg/domain/model"
	"github.com/salonevoice/salonevoice/pkg/domain/types"
	"github.com/salonevoice/salonevoice/pkg/usecase"
	"github.com/salonevoice/salonevoice/pkg/utils/errutil"
)

type feedbackRequest struct {
	Message   string `json:"message"`
	Email     string `json:"email"`
	Sentiment string `json:"sentiment"`
}

// feedbackSubmitHandler accepts a public feedback submission
func feedbackSubmitHandler(feedbackUC *usecase.FeedbackUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req feedbackRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid feedback request body"), http.StatusBadRequest)
			return
		}

		entry, err := feedbackUC.Submit(ctx, req.Message, req.Email, types.Sentiment(req.Sentiment))
		if err != nil {
			if errors.Is(err, usecase.ErrInvalidInput) {
				writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: err.Error()})
				return
			}
			errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
			return
		}

		writeJSON(ctx, w, http.StatusCreated, entry)
	}
}

// feedbackListHandler returns all feedback entries, newest first
func feedbackListHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if !requirePermission(w, r, uc, types.PermFeedbackRead) {
			return
		}

		var entries []*model.FeedbackEntry
		var err error
		if sentiment := r.URL.Query().Get("sentiment"); sentiment != "" {
			entries, err = uc.Feedback.ListBySentiment(ctx, types.Sentiment(sentiment))
		} else {
			entries, err = uc.Feedback.List(ctx)
		}
		if err != nil {
			if errors.Is(err, usecase.ErrInvalidInput) {
				writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "invalid sentiment filter"})
				return
			}
			errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
			return
		}
		writeJSON(ctx, w, http.StatusOK, entries)
	}
}

// feedbackDeleteHandler removes a single feedback entry
func feedbackDeleteHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if !requirePermission(w, r, uc, types.PermFeedbackDelete) {
			return
		}

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "invalid feedback ID"})
			return
		}

		if err := uc.Feedback.Delete(ctx, id); err != nil {
			errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
			return
		}
		writeJSON(ctx, w, http.StatusOK, successResponse{Success: true})
	}
}

// requirePermission resolves the session account and checks the
// permission table. It writes the error response itself and reports
// whether the handler may proceed.
func requirePermission(w http.ResponseWriter, r *http.Request, uc *usecase.UseCases, perm types.Permission) bool {
	ctx := r.Context()

	account, ok := accountFromContext(ctx)
	if !ok {
		writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
		return false
	}

	if err := uc.Admin.Authorize(account, perm); err != nil {
		if errors.Is(err, usecase.ErrPermissionDenied) {
			writeJSON(ctx, w, http.StatusForbidden, errorResponse{Error: "operation not allowed"})
			return false
		}
		writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
		return false
	}

	return true
}
