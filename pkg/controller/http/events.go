package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/salonevoice/salonevoice/pkg/domain/types"
	"github.com/salonevoice/salonevoice/pkg/service/pubsub"
	"github.com/salonevoice/salonevoice/pkg/usecase"
	"github.com/salonevoice/salonevoice/pkg/utils/logging"
)

// messageEventsHandler streams message-created events over SSE. Delivery
// is at-most-once: events published while the client's buffer is full are
// dropped, and there is no replay of events missed between connections.
func messageEventsHandler(uc *usecase.UseCases, hub *pubsub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if !requirePermission(w, r, uc, types.PermMessagesRead) {
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming not supported", http.StatusInternalServerError)
			return
		}

		events, unsubscribe := hub.Subscribe()
		defer unsubscribe()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		logger := logging.From(ctx)

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-events:
				if !ok {
					return
				}
				data, err := json.Marshal(msg)
				if err != nil {
					logger.Error("failed to marshal message event", "error", err)
					continue
				}
				if _, err := fmt.Fprintf(w, "event: message\ndata: %s\n\n", data); err != nil {
					return
				}
				flusher.Flush()
			}
		}
	}
}
