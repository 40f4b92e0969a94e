package schedule

import (
	"context"
)

// ScheduleRepository defines data access methods for the recurring service
// calendar configuration.
type ScheduleRepository interface {
	Create(ctx context.Context, s ServiceSchedule) (ServiceSchedule, error)

	GetByID(ctx context.Context, id string) (ServiceSchedule, error)

	// ListActive returns the schedules that currently generate expected
	// occurrences.
	ListActive(ctx context.Context) ([]ServiceSchedule, error)

	List(ctx context.Context) ([]ServiceSchedule, error)

	Update(ctx context.Context, s ServiceSchedule) error

	Delete(ctx context.Context, id string) error
}
