package message

import (
	"time"
)

// MessageType categorizes a member message.
type MessageType string

const (
	TypeAbsenceAlert MessageType = "ABSENCE_ALERT"
	TypeGeneral      MessageType = "GENERAL"
	TypePastoral     MessageType = "PASTORAL"
	TypeAnnouncement MessageType = "ANNOUNCEMENT"
)

// IsValid reports whether t is a known message type.
func (t MessageType) IsValid() bool {
	switch t {
	case TypeAbsenceAlert, TypeGeneral, TypePastoral, TypeAnnouncement:
		return true
	}
	return false
}

// Priority indicates delivery urgency.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

// IsValid reports whether p is a known priority.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityNormal, PriorityLow:
		return true
	}
	return false
}

// TemplateKind selects a follow-up template for absence-flagged members.
type TemplateKind string

const (
	TemplateReminder TemplateKind = "REMINDER"
	TemplateConcern  TemplateKind = "CONCERN"
	TemplatePastoral TemplateKind = "PASTORAL"
)

// IsValid reports whether k is a known template kind.
func (k TemplateKind) IsValid() bool {
	switch k {
	case TemplateReminder, TemplateConcern, TemplatePastoral:
		return true
	}
	return false
}

// Message is a leader-to-member communication. It belongs to its recipient
// for read/unread purposes; reply chains are linked through ReplyToID.
type Message struct {
	ID        string
	UserID    string // recipient
	SenderID  string
	Type      MessageType
	Priority  Priority
	Title     string
	Content   string
	ReplyToID *string
	IsRead    bool
	ReadAt    *time.Time
	CreatedAt time.Time

	// DTO / Join
	SenderName *string
}
