package message

import (
	"context"
)

// Service defines business logic for member messaging and follow-up.
type Service interface {
	// Send delivers a direct message to a member (leaders)
	Send(ctx context.Context, req SendMessageRequest) (MessageResponse, error)

	// SendFollowUp renders a follow-up template for an absence-flagged member
	// and delivers it as a message
	SendFollowUp(ctx context.Context, req FollowUpRequest) (MessageResponse, error)

	// GetMyMessages retrieves the authenticated member's inbox
	GetMyMessages(ctx context.Context, filter MessageFilter) (MessageListResponse, error)

	// GetUnreadCount returns the authenticated member's unread count
	GetUnreadCount(ctx context.Context) (UnreadCountResponse, error)

	// MarkAsRead marks one of the authenticated member's messages read
	MarkAsRead(ctx context.Context, messageID string) error

	// Reply sends a response back to the original sender of a message the
	// authenticated member received
	Reply(ctx context.Context, req ReplyRequest) (MessageResponse, error)
}
