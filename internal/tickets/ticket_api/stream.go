package ticket_api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// StreamTickets handles GET /api/tickets/stream[?movie=Title] as Server-Sent
// Events, one "ticket" event per issued seat.
func (h *Handler) StreamTickets(w http.ResponseWriter, r *http.Request) {
	if h.Events == nil {
		http.Error(w, "ticket stream disabled", http.StatusServiceUnavailable)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ctx := r.Context()
	movie := r.URL.Query().Get("movie")
	events := h.Events.Subscribe(ctx, movie)

	fmt.Fprintf(w, "event: connected\ndata: {\"movie\":%q}\n\n", movie)
	flusher.Flush()
	h.Logger.Debug("SSE", fmt.Sprintf("Client connected to ticket stream (movie=%q)", movie))

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event)
			if err != nil {
				h.Logger.Error("SSE", fmt.Sprintf("Failed to serialize ticket event: %v", err))
				continue
			}
			fmt.Fprintf(w, "event: ticket\ndata: %s\n\n", data)
			flusher.Flush()
		case <-ctx.Done():
			h.Logger.Debug("SSE", "Client disconnected from ticket stream")
			return
		}
	}
}
