package attendance

import "errors"

// Attendance domain errors
var (
	// Check-in errors
	ErrInvalidServiceType = errors.New("invalid service type")
	ErrNotOnlineService   = errors.New("service type is not an online service")
	ErrTargetNotFound     = errors.New("target member not found")

	// Link errors
	ErrLinkNotFound  = errors.New("attendance link not found")
	ErrLinkInactive  = errors.New("attendance link has been deactivated")
	ErrLinkExpired   = errors.New("attendance link has expired")
	ErrTokenConflict = errors.New("attendance link token already exists")

	// General errors
	ErrRecordNotFound = errors.New("attendance record not found")
	ErrUnauthorized   = errors.New("unauthorized to access this attendance record")
)
