package schedule

import (
	"context"
)

// Service defines business logic for managing the recurring service calendar.
type Service interface {
	Create(ctx context.Context, req CreateScheduleRequest) (ScheduleResponse, error)
	Get(ctx context.Context, id string) (ScheduleResponse, error)
	List(ctx context.Context) (ListSchedulesResponse, error)
	Update(ctx context.Context, req UpdateScheduleRequest) (ScheduleResponse, error)
	Delete(ctx context.Context, id string) error
}
