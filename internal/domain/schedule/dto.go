package schedule

import (
	"github.com/chub-app/chub-backend-go/internal/domain/attendance"
	"github.com/chub-app/chub-backend-go/internal/pkg/validator"
)

type CreateScheduleRequest struct {
	Name        string `json:"name"`
	ServiceType string `json:"service_type"`
	Weekday     int    `json:"weekday"` // 0 = Sunday
	StartTime   string `json:"start_time"`
	IsActive    *bool  `json:"is_active,omitempty"`
}

func (r *CreateScheduleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if validator.IsEmpty(r.ServiceType) {
		errs = append(errs, validator.ValidationError{
			Field:   "service_type",
			Message: "service_type is required",
		})
	} else if !attendance.ServiceType(r.ServiceType).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "service_type",
			Message: "service_type must be one of SUNDAY_SERVICE, MIDWEEK_SERVICE, SPECIAL_EVENT, ONLINE_LIVE, ONLINE_REPLAY",
		})
	}

	if r.Weekday < 0 || r.Weekday > 6 {
		errs = append(errs, validator.ValidationError{
			Field:   "weekday",
			Message: "weekday must be between 0 (Sunday) and 6 (Saturday)",
		})
	}

	if validator.IsEmpty(r.StartTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_time",
			Message: "start_time is required",
		})
	} else if _, ok := validator.IsValidClockTime(r.StartTime); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "start_time",
			Message: "start_time must be in HH:MM format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateScheduleRequest struct {
	ID string `json:"-"` // from URL path
	CreateScheduleRequest
}

type ScheduleResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ServiceType string `json:"service_type"`
	Weekday     int    `json:"weekday"`
	StartTime   string `json:"start_time"`
	IsActive    bool   `json:"is_active"`
	CreatedAt   string `json:"created_at"`
}

type ListSchedulesResponse struct {
	Schedules []ScheduleResponse `json:"schedules"`
}
