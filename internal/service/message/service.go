package message

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chub-app/chub-backend-go/internal/domain/message"
	"github.com/chub-app/chub-backend-go/internal/domain/user"
	"github.com/chub-app/chub-backend-go/internal/pkg/sse"
	"github.com/go-chi/jwtauth/v5"
)

type MessageServiceImpl struct {
	message.MessageRepository
	user.UserRepository
	hub    *sse.Hub
	logger *slog.Logger
}

func NewMessageService(
	messageRepository message.MessageRepository,
	userRepository user.UserRepository,
	hub *sse.Hub,
	logger *slog.Logger,
) message.Service {
	return &MessageServiceImpl{
		MessageRepository: messageRepository,
		UserRepository:    userRepository,
		hub:               hub,
		logger:            logger,
	}
}

func callerFromContext(ctx context.Context) (userID string, role user.Role, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", "", fmt.Errorf("user_id claim is missing or invalid")
	}

	roleStr, ok := claims["role"].(string)
	if !ok || roleStr == "" {
		return "", "", fmt.Errorf("role claim is missing or invalid")
	}

	return userID, user.Role(roleStr), nil
}

// Send implements message.Service.
func (s *MessageServiceImpl) Send(ctx context.Context, req message.SendMessageRequest) (message.MessageResponse, error) {
	if err := req.Validate(); err != nil {
		return message.MessageResponse{}, err
	}

	callerID, role, err := callerFromContext(ctx)
	if err != nil {
		return message.MessageResponse{}, err
	}
	if !user.HasPermission(role, user.PermissionMessagesSend) {
		return message.MessageResponse{}, user.ErrPermissionDenied
	}

	if _, err := s.UserRepository.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return message.MessageResponse{}, message.ErrRecipientMissing
		}
		return message.MessageResponse{}, fmt.Errorf("failed to look up recipient: %w", err)
	}

	priority := message.PriorityNormal
	if req.Priority != nil && *req.Priority != "" {
		priority = message.Priority(*req.Priority)
	}

	m := message.Message{
		UserID:   req.UserID,
		SenderID: callerID,
		Type:     message.MessageType(req.Type),
		Priority: priority,
		Title:    req.Title,
		Content:  req.Content,
	}

	created, err := s.MessageRepository.Create(ctx, m)
	if err != nil {
		return message.MessageResponse{}, fmt.Errorf("failed to create message: %w", err)
	}

	s.notify(created)

	return toMessageResponse(created), nil
}

// SendFollowUp implements message.Service. The template is rendered from the
// target's first name and missed count; the kind decides message type and
// priority.
func (s *MessageServiceImpl) SendFollowUp(ctx context.Context, req message.FollowUpRequest) (message.MessageResponse, error) {
	if err := req.Validate(); err != nil {
		return message.MessageResponse{}, err
	}

	callerID, role, err := callerFromContext(ctx)
	if err != nil {
		return message.MessageResponse{}, err
	}
	if !user.HasPermission(role, user.PermissionMessagesSend) {
		return message.MessageResponse{}, user.ErrPermissionDenied
	}

	target, err := s.UserRepository.GetByID(ctx, req.TargetUserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return message.MessageResponse{}, message.ErrRecipientMissing
		}
		return message.MessageResponse{}, fmt.Errorf("failed to look up target member: %w", err)
	}

	title, content, msgType, priority, err := renderFollowUp(message.TemplateKind(req.TemplateKind), target.FirstName, req.MissedCount)
	if err != nil {
		return message.MessageResponse{}, err
	}

	m := message.Message{
		UserID:   target.ID,
		SenderID: callerID,
		Type:     msgType,
		Priority: priority,
		Title:    title,
		Content:  content,
	}

	created, err := s.MessageRepository.Create(ctx, m)
	if err != nil {
		return message.MessageResponse{}, fmt.Errorf("failed to create follow-up message: %w", err)
	}

	s.notify(created)

	return toMessageResponse(created), nil
}

// GetMyMessages implements message.Service.
func (s *MessageServiceImpl) GetMyMessages(ctx context.Context, filter message.MessageFilter) (message.MessageListResponse, error) {
	callerID, _, err := callerFromContext(ctx)
	if err != nil {
		return message.MessageListResponse{}, err
	}

	messages, total, err := s.MessageRepository.ListByRecipient(ctx, callerID, filter)
	if err != nil {
		return message.MessageListResponse{}, fmt.Errorf("failed to list messages: %w", err)
	}

	unread, err := s.MessageRepository.UnreadCount(ctx, callerID)
	if err != nil {
		return message.MessageListResponse{}, fmt.Errorf("failed to count unread messages: %w", err)
	}

	pageSize := filter.PageSize
	if pageSize == 0 {
		pageSize = 20
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}

	resp := message.MessageListResponse{
		Messages:    []message.MessageResponse{},
		Total:       int(total),
		UnreadCount: int(unread),
		Page:        page,
		PageSize:    pageSize,
	}
	for _, m := range messages {
		resp.Messages = append(resp.Messages, toMessageResponse(m))
	}

	return resp, nil
}

// GetUnreadCount implements message.Service.
func (s *MessageServiceImpl) GetUnreadCount(ctx context.Context) (message.UnreadCountResponse, error) {
	callerID, _, err := callerFromContext(ctx)
	if err != nil {
		return message.UnreadCountResponse{}, err
	}

	unread, err := s.MessageRepository.UnreadCount(ctx, callerID)
	if err != nil {
		return message.UnreadCountResponse{}, fmt.Errorf("failed to count unread messages: %w", err)
	}

	return message.UnreadCountResponse{UnreadCount: int(unread)}, nil
}

// MarkAsRead implements message.Service. Only the recipient may mark their
// message; repeat calls are no-ops.
func (s *MessageServiceImpl) MarkAsRead(ctx context.Context, messageID string) error {
	callerID, _, err := callerFromContext(ctx)
	if err != nil {
		return err
	}

	m, err := s.MessageRepository.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, message.ErrMessageNotFound) {
			return message.ErrMessageNotFound
		}
		return fmt.Errorf("failed to get message: %w", err)
	}

	if m.UserID != callerID {
		return message.ErrNotRecipient
	}

	if m.IsRead {
		return nil
	}

	if err := s.MessageRepository.MarkAsRead(ctx, messageID); err != nil {
		return fmt.Errorf("failed to mark message as read: %w", err)
	}

	return nil
}

// Reply implements message.Service. The reply goes back to the original
// sender as a fresh unread message linked through ReplyToID.
func (s *MessageServiceImpl) Reply(ctx context.Context, req message.ReplyRequest) (message.MessageResponse, error) {
	if err := req.Validate(); err != nil {
		return message.MessageResponse{}, err
	}

	callerID, _, err := callerFromContext(ctx)
	if err != nil {
		return message.MessageResponse{}, err
	}

	original, err := s.MessageRepository.GetByID(ctx, req.MessageID)
	if err != nil {
		if errors.Is(err, message.ErrMessageNotFound) {
			return message.MessageResponse{}, message.ErrMessageNotFound
		}
		return message.MessageResponse{}, fmt.Errorf("failed to get original message: %w", err)
	}

	if original.UserID != callerID {
		return message.MessageResponse{}, message.ErrNotRecipient
	}

	replyTo := original.ID
	m := message.Message{
		UserID:    original.SenderID,
		SenderID:  callerID,
		Type:      original.Type,
		Priority:  message.PriorityNormal,
		Title:     "Re: " + original.Title,
		Content:   req.Content,
		ReplyToID: &replyTo,
	}

	created, err := s.MessageRepository.Create(ctx, m)
	if err != nil {
		return message.MessageResponse{}, fmt.Errorf("failed to create reply: %w", err)
	}

	s.notify(created)

	return toMessageResponse(created), nil
}

// notify fans the new message out to the recipient's open connections. The
// write already committed; delivery failure is logged and never surfaced.
func (s *MessageServiceImpl) notify(m message.Message) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("message notification panicked",
				slog.String("message_id", m.ID),
				slog.Any("panic", r),
			)
		}
	}()

	s.hub.Publish(m.UserID, sse.Event{
		UserID: m.UserID,
		Event:  "new_message",
		Data:   toMessageResponse(m),
	})
}

func renderFollowUp(kind message.TemplateKind, firstName string, missedCount int) (title, content string, msgType message.MessageType, priority message.Priority, err error) {
	switch kind {
	case message.TemplateReminder:
		title = "We miss you!"
		content = fmt.Sprintf(
			"Hi %s, we noticed you've missed %d recent services. We'd love to see you again this week!",
			firstName, missedCount,
		)
		return title, content, message.TypeGeneral, message.PriorityNormal, nil
	case message.TemplateConcern:
		title = "Checking in on you"
		content = fmt.Sprintf(
			"Hi %s, it's been %d services since we last saw you. Is everything okay? We're here if you need anything.",
			firstName, missedCount,
		)
		return title, content, message.TypePastoral, message.PriorityNormal, nil
	case message.TemplatePastoral:
		title = "A note from your pastoral team"
		content = fmt.Sprintf(
			"Hi %s, our pastoral team would like to connect with you. You've been missed at the last %d services, and we'd love to hear how you're doing.",
			firstName, missedCount,
		)
		return title, content, message.TypePastoral, message.PriorityHigh, nil
	default:
		return "", "", "", "", message.ErrUnknownTemplate
	}
}

func toMessageResponse(m message.Message) message.MessageResponse {
	resp := message.MessageResponse{
		ID:         m.ID,
		UserID:     m.UserID,
		SenderID:   m.SenderID,
		SenderName: m.SenderName,
		Type:       string(m.Type),
		Priority:   string(m.Priority),
		Title:      m.Title,
		Content:    m.Content,
		ReplyToID:  m.ReplyToID,
		IsRead:     m.IsRead,
		CreatedAt:  m.CreatedAt.Format(time.RFC3339),
	}
	if m.ReadAt != nil {
		s := m.ReadAt.Format(time.RFC3339)
		resp.ReadAt = &s
	}
	return resp
}
