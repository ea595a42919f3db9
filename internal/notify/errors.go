package notify

import "errors"

// Notification-related errors.
var (
	// ErrMissingToken indicates no bot token is configured
	ErrMissingToken = errors.New("telegram bot token is not configured")

	// ErrMissingChatID indicates no chat id is configured
	ErrMissingChatID = errors.New("telegram chat id is not configured")
)
