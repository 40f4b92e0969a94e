package message

import (
	"context"
)

// MessageRepository defines data access methods for member messages.
type MessageRepository interface {
	// Create inserts a new message
	Create(ctx context.Context, m Message) (Message, error)

	// GetByID retrieves a message by ID
	GetByID(ctx context.Context, id string) (Message, error)

	// ListByRecipient retrieves a recipient's messages, newest first
	ListByRecipient(ctx context.Context, userID string, filter MessageFilter) ([]Message, int64, error)

	// UnreadCount returns the recipient's unread message count
	UnreadCount(ctx context.Context, userID string) (int64, error)

	// MarkAsRead marks a message read. Already-read messages keep their
	// original read_at timestamp.
	MarkAsRead(ctx context.Context, id string) error
}
