package message

import (
	"github.com/chub-app/chub-backend-go/internal/pkg/validator"
)

// ============= Request DTOs =============

type SendMessageRequest struct {
	UserID   string  `json:"user_id"`
	Type     string  `json:"type"`
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	Priority *string `json:"priority,omitempty"`
}

func (r *SendMessageRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	if validator.IsEmpty(r.Type) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type is required",
		})
	} else if !MessageType(r.Type).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be one of ABSENCE_ALERT, GENERAL, PASTORAL, ANNOUNCEMENT",
		})
	}

	if validator.IsEmpty(r.Title) {
		errs = append(errs, validator.ValidationError{
			Field:   "title",
			Message: "title is required",
		})
	}

	if validator.IsEmpty(r.Content) {
		errs = append(errs, validator.ValidationError{
			Field:   "content",
			Message: "content is required",
		})
	}

	if r.Priority != nil && *r.Priority != "" && !Priority(*r.Priority).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "priority",
			Message: "priority must be one of high, normal, low",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type FollowUpRequest struct {
	TargetUserID string `json:"target_user_id"`
	TemplateKind string `json:"template_kind"`
	MissedCount  int    `json:"missed_count"`
}

func (r *FollowUpRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.TargetUserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "target_user_id",
			Message: "target_user_id is required",
		})
	}

	if validator.IsEmpty(r.TemplateKind) {
		errs = append(errs, validator.ValidationError{
			Field:   "template_kind",
			Message: "template_kind is required",
		})
	} else if !TemplateKind(r.TemplateKind).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "template_kind",
			Message: "template_kind must be one of REMINDER, CONCERN, PASTORAL",
		})
	}

	if r.MissedCount < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "missed_count",
			Message: "missed_count must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ReplyRequest struct {
	MessageID string `json:"-"` // from URL path
	Content   string `json:"content"`
}

func (r *ReplyRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Content) {
		errs = append(errs, validator.ValidationError{
			Field:   "content",
			Message: "content is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type MessageFilter struct {
	Unread   *bool
	Page     int
	PageSize int
}

// ============= Response DTOs =============

type MessageResponse struct {
	ID         string  `json:"id"`
	UserID     string  `json:"user_id"`
	SenderID   string  `json:"sender_id"`
	SenderName *string `json:"sender_name,omitempty"`
	Type       string  `json:"type"`
	Priority   string  `json:"priority"`
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	ReplyToID  *string `json:"reply_to_id,omitempty"`
	IsRead     bool    `json:"is_read"`
	ReadAt     *string `json:"read_at,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

type MessageListResponse struct {
	Messages    []MessageResponse `json:"messages"`
	Total       int               `json:"total"`
	UnreadCount int               `json:"unread_count"`
	Page        int               `json:"page"`
	PageSize    int               `json:"page_size"`
}

type UnreadCountResponse struct {
	UnreadCount int `json:"unread_count"`
}

// ============= SSE Event =============

// NewMessageEvent is the real-time payload pushed to the recipient's open
// connections when a message is created.
type NewMessageEvent struct {
	Event string          `json:"event"`
	Data  MessageResponse `json:"data"`
}

// SSETokenResponse carries the short-lived token a client exchanges for a
// stream connection. EventSource cannot set headers, hence the query token.
type SSETokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}
