package message

import "errors"

var (
	ErrMessageNotFound  = errors.New("message not found")
	ErrNotRecipient     = errors.New("unauthorized to access this message")
	ErrUnknownTemplate  = errors.New("unknown follow-up template")
	ErrRecipientMissing = errors.New("recipient does not exist")
)
