package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/chub-app/chub-backend-go/internal/domain/message"
	"github.com/chub-app/chub-backend-go/internal/handler/http/response"
	"github.com/chub-app/chub-backend-go/internal/pkg/jwt"
	"github.com/chub-app/chub-backend-go/internal/pkg/sse"
	"github.com/go-chi/jwtauth/v5"
)

// EventsHandler serves the real-time message stream
type EventsHandler interface {
	GetToken(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type EventsHandlerImpl struct {
	jwtService jwt.Service
	hub        *sse.Hub
}

func NewEventsHandler(jwtService jwt.Service, hub *sse.Hub) EventsHandler {
	return &EventsHandlerImpl{
		jwtService: jwtService,
		hub:        hub,
	}
}

// getUserIDFromContext extracts user_id from JWT context
func getUserIDFromContext(r *http.Request) string {
	_, claims, _ := jwtauth.FromContext(r.Context())
	if userID, ok := claims["user_id"].(string); ok {
		return userID
	}
	return ""
}

// GetToken generates a short-lived token for SSE connections
func (h *EventsHandlerImpl) GetToken(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r)
	if userID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	token, expiresIn, err := h.jwtService.GenerateSSEToken(userID)
	if err != nil {
		response.InternalServerError(w, "Failed to generate SSE token")
		return
	}

	response.Success(w, message.SSETokenResponse{
		Token:     token,
		ExpiresIn: expiresIn,
	})
}

// Stream handles the SSE connection for real-time message events
func (h *EventsHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	// Token comes from a query parameter (SSE doesn't support custom headers)
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}

	userID, err := h.jwtService.ValidateSSEToken(tokenStr)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	events, cleanup := h.hub.Subscribe(userID)
	defer cleanup()

	// Send initial connection event
	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"user_id\":\"%s\"}\n\n", userID)
	flusher.Flush()

	keepalive := time.NewTicker(30 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
