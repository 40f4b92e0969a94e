package schedule

import "errors"

var (
	ErrScheduleNotFound = errors.New("service schedule not found")
)
