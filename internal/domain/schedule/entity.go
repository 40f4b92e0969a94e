package schedule

import (
	"time"

	"github.com/chub-app/chub-backend-go/internal/domain/attendance"
)

// ServiceSchedule is one recurring weekly gathering, e.g. "Sunday Service,
// every Sunday at 09:00". The set of active schedules is the canonical
// calendar of expected service occurrences; absence detection is always
// measured against this calendar, never against logged attendance.
type ServiceSchedule struct {
	ID          string
	Name        string
	ServiceType attendance.ServiceType
	Weekday     time.Weekday
	StartTime   string // wall-clock "15:04"
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Occurrence is one concrete dated instance of a recurring schedule.
type Occurrence struct {
	ScheduleID  string
	Name        string
	ServiceType attendance.ServiceType
	Date        time.Time // midnight UTC of the service day
}
