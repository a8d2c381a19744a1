package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/salonevoice/salonevoice/pkg/domain/model"
	"github.com/salonevoice/salonevoice/pkg/domain/types"
	"github.com/salonevoice/salonevoice/pkg/usecase"
	"github.com/salonevoice/salonevoice/pkg/utils/errutil"
)

// messageListHandler returns all inbound messages, newest first
func messageListHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if !requirePermission(w, r, uc, types.PermMessagesRead) {
			return
		}

		var messages []*model.InboundMessage
		var err error
		if sender := r.URL.Query().Get("sender"); sender != "" {
			messages, err = uc.Message.ListBySender(ctx, sender)
		} else {
			messages, err = uc.Message.List(ctx)
		}
		if err != nil {
			errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
			return
		}
		writeJSON(ctx, w, http.StatusOK, messages)
	}
}

// messageDeleteHandler removes a single inbound message
func messageDeleteHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if !requirePermission(w, r, uc, types.PermMessagesDelete) {
			return
		}

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "invalid message ID"})
			return
		}

		if err := uc.Message.Delete(ctx, id); err != nil {
			errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
			return
		}
		writeJSON(ctx, w, http.StatusOK, successResponse{Success: true})
	}
}
