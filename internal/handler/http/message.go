package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/chub-app/chub-backend-go/internal/domain/message"
	"github.com/chub-app/chub-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type MessageHandler interface {
	Send(w http.ResponseWriter, r *http.Request)
	SendFollowUp(w http.ResponseWriter, r *http.Request)
	GetMyMessages(w http.ResponseWriter, r *http.Request)
	UnreadCount(w http.ResponseWriter, r *http.Request)
	MarkAsRead(w http.ResponseWriter, r *http.Request)
	Reply(w http.ResponseWriter, r *http.Request)
}

type MessageHandlerImpl struct {
	messageService message.Service
}

func NewMessageHandler(messageService message.Service) MessageHandler {
	return &MessageHandlerImpl{messageService: messageService}
}

// Send implements MessageHandler.
func (h *MessageHandlerImpl) Send(w http.ResponseWriter, r *http.Request) {
	var sendReq message.SendMessageRequest

	if err := json.NewDecoder(r.Body).Decode(&sendReq); err != nil {
		slog.Error("Send message decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	sent, err := h.messageService.Send(r.Context(), sendReq)
	if err != nil {
		slog.Error("Send message service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Message sent successfully", sent)
}

// SendFollowUp implements MessageHandler.
func (h *MessageHandlerImpl) SendFollowUp(w http.ResponseWriter, r *http.Request) {
	var followUpReq message.FollowUpRequest

	if err := json.NewDecoder(r.Body).Decode(&followUpReq); err != nil {
		slog.Error("Follow-up decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	sent, err := h.messageService.SendFollowUp(r.Context(), followUpReq)
	if err != nil {
		slog.Error("Follow-up service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Follow-up sent successfully", sent)
}

// GetMyMessages implements MessageHandler.
func (h *MessageHandlerImpl) GetMyMessages(w http.ResponseWriter, r *http.Request) {
	filter := message.MessageFilter{
		Page:     getIntQueryParam(r, "page", 1),
		PageSize: getIntQueryParam(r, "page_size", 20),
	}
	if unread := r.URL.Query().Get("unread"); unread != "" {
		unreadOnly := unread == "true" || unread == "1"
		filter.Unread = &unreadOnly
	}

	messages, err := h.messageService.GetMyMessages(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, messages)
}

// UnreadCount implements MessageHandler.
func (h *MessageHandlerImpl) UnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.messageService.GetUnreadCount(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, count)
}

// MarkAsRead implements MessageHandler.
func (h *MessageHandlerImpl) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	messageID := chi.URLParam(r, "id")
	if messageID == "" {
		response.BadRequest(w, "Message ID is required", nil)
		return
	}

	if err := h.messageService.MarkAsRead(r.Context(), messageID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Message marked as read", nil)
}

// Reply implements MessageHandler.
func (h *MessageHandlerImpl) Reply(w http.ResponseWriter, r *http.Request) {
	replyReq := message.ReplyRequest{
		MessageID: chi.URLParam(r, "id"),
	}

	if err := json.NewDecoder(r.Body).Decode(&replyReq); err != nil {
		slog.Error("Reply decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	sent, err := h.messageService.Reply(r.Context(), replyReq)
	if err != nil {
		slog.Error("Reply service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Reply sent successfully", sent)
}
