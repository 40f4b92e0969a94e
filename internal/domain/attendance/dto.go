package attendance

import (
	"github.com/chub-app/chub-backend-go/internal/pkg/validator"
)

// ========================================
// CHECK-IN DTOs
// ========================================

type SelfCheckInRequest struct {
	ServiceType string  `json:"service_type"`
	ServiceID   *string `json:"service_id,omitempty"`
	ServiceName string  `json:"service_name"`
	ServiceDate string  `json:"service_date"`
	Notes       *string `json:"notes,omitempty"`
}

func (r *SelfCheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ServiceType) {
		errs = append(errs, validator.ValidationError{
			Field:   "service_type",
			Message: "service_type is required",
		})
	} else if !ServiceType(r.ServiceType).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "service_type",
			Message: "service_type must be one of SUNDAY_SERVICE, MIDWEEK_SERVICE, SPECIAL_EVENT, ONLINE_LIVE, ONLINE_REPLAY",
		})
	}

	if validator.IsEmpty(r.ServiceName) {
		errs = append(errs, validator.ValidationError{
			Field:   "service_name",
			Message: "service_name is required",
		})
	}

	if validator.IsEmpty(r.ServiceDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "service_date",
			Message: "service_date is required",
		})
	} else if _, ok := validator.IsValidDate(r.ServiceDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "service_date",
			Message: "service_date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ManualCheckInRequest struct {
	TargetUserID string  `json:"target_user_id"`
	ServiceType  string  `json:"service_type"`
	ServiceID    *string `json:"service_id,omitempty"`
	ServiceName  string  `json:"service_name"`
	ServiceDate  string  `json:"service_date"`
	Notes        *string `json:"notes,omitempty"`
}

func (r *ManualCheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.TargetUserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "target_user_id",
			Message: "target_user_id is required",
		})
	}

	base := SelfCheckInRequest{
		ServiceType: r.ServiceType,
		ServiceName: r.ServiceName,
		ServiceDate: r.ServiceDate,
	}
	if err := base.Validate(); err != nil {
		errs = append(errs, err.(validator.ValidationErrors)...)
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type LinkCheckInRequest struct {
	Token string  `json:"-"` // from URL path
	Notes *string `json:"notes,omitempty"`
}

func (r *LinkCheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Token) {
		errs = append(errs, validator.ValidationError{
			Field:   "token",
			Message: "token is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type OnlineCheckInRequest struct {
	UserID        string  `json:"user_id"`
	ServiceType   string  `json:"service_type"`
	ServiceID     *string `json:"service_id,omitempty"`
	ServiceName   string  `json:"service_name"`
	ServiceDate   string  `json:"service_date"`
	WatchDuration int     `json:"watch_duration"`
	IsReplay      bool    `json:"is_replay,omitempty"`
}

func (r *OnlineCheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	if validator.IsEmpty(r.ServiceType) {
		errs = append(errs, validator.ValidationError{
			Field:   "service_type",
			Message: "service_type is required",
		})
	} else if !ServiceType(r.ServiceType).IsOnline() {
		errs = append(errs, validator.ValidationError{
			Field:   "service_type",
			Message: "service_type must be ONLINE_LIVE or ONLINE_REPLAY",
		})
	}

	if validator.IsEmpty(r.ServiceName) {
		errs = append(errs, validator.ValidationError{
			Field:   "service_name",
			Message: "service_name is required",
		})
	}

	if validator.IsEmpty(r.ServiceDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "service_date",
			Message: "service_date is required",
		})
	} else if _, ok := validator.IsValidDate(r.ServiceDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "service_date",
			Message: "service_date must be in YYYY-MM-DD format",
		})
	}

	if r.WatchDuration <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "watch_duration",
			Message: "watch_duration must be a positive number of seconds",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ========================================
// LINK DTOs
// ========================================

type CreateLinkRequest struct {
	ServiceType string  `json:"service_type"`
	ServiceID   *string `json:"service_id,omitempty"`
	ServiceName string  `json:"service_name"`
	ServiceDate string  `json:"service_date"`
	ExpiresAt   *string `json:"expires_at,omitempty"` // RFC3339
}

func (r *CreateLinkRequest) Validate() error {
	var errs validator.ValidationErrors

	base := SelfCheckInRequest{
		ServiceType: r.ServiceType,
		ServiceName: r.ServiceName,
		ServiceDate: r.ServiceDate,
	}
	if err := base.Validate(); err != nil {
		errs = append(errs, err.(validator.ValidationErrors)...)
	}

	if r.ExpiresAt != nil && *r.ExpiresAt != "" {
		if _, ok := validator.IsValidDateTime(*r.ExpiresAt); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "expires_at",
				Message: "expires_at must be an RFC3339 timestamp",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ========================================
// FILTERS
// ========================================

type RecordFilter struct {
	UserID      *string
	ServiceType *string
	StartDate   *string
	EndDate     *string
	Page        int
	Limit       int
	SortBy      string
	SortOrder   string
}

func (f *RecordFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.ServiceType != nil && *f.ServiceType != "" && !ServiceType(*f.ServiceType).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "service_type",
			Message: "unknown service_type filter",
		})
	}

	if f.StartDate != nil && *f.StartDate != "" {
		if _, ok := validator.IsValidDate(*f.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}
	if f.EndDate != nil && *f.EndDate != "" {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type StatsFilter struct {
	StartDate   string
	EndDate     string
	ServiceType *string
}

func (f *StatsFilter) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(f.StartDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date is required",
		})
	} else if _, ok := validator.IsValidDate(f.StartDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	if validator.IsEmpty(f.EndDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date is required",
		})
	} else if _, ok := validator.IsValidDate(f.EndDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if f.ServiceType != nil && *f.ServiceType != "" && !ServiceType(*f.ServiceType).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "service_type",
			Message: "unknown service_type filter",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ========================================
// RESPONSES
// ========================================

type RecordResponse struct {
	ID            string  `json:"id"`
	UserID        *string `json:"user_id,omitempty"`
	MemberName    *string `json:"member_name,omitempty"`
	ServiceType   string  `json:"service_type"`
	ServiceID     *string `json:"service_id,omitempty"`
	ServiceName   string  `json:"service_name"`
	ServiceDate   string  `json:"service_date"`
	CheckInType   string  `json:"check_in_type"`
	CheckInTime   *string `json:"check_in_time,omitempty"`
	WatchDuration *int    `json:"watch_duration,omitempty"`
	IsOnline      bool    `json:"is_online"`
	Notes         *string `json:"notes,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

type ListRecordsResponse struct {
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
	Records    []RecordResponse `json:"records"`
}

type LinkResponse struct {
	ID          string  `json:"id"`
	Token       string  `json:"token"`
	URL         string  `json:"url"`
	ServiceType string  `json:"service_type"`
	ServiceID   *string `json:"service_id,omitempty"`
	ServiceName string  `json:"service_name"`
	ServiceDate string  `json:"service_date"`
	IsActive    bool    `json:"is_active"`
	ExpiresAt   *string `json:"expires_at,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// LinkPreviewResponse is the public, pre-login view of a scanned link. It
// deliberately omits who created the link.
type LinkPreviewResponse struct {
	ServiceType string `json:"service_type"`
	ServiceName string `json:"service_name"`
	ServiceDate string `json:"service_date"`
	IsActive    bool   `json:"is_active"`
	IsExpired   bool   `json:"is_expired"`
}

type ServiceCountResponse struct {
	ServiceType string `json:"service_type"`
	Count       int64  `json:"count"`
}

type StatsResponse struct {
	Total     int64                  `json:"total"`
	Online    int64                  `json:"online"`
	Offline   int64                  `json:"offline"`
	ByService []ServiceCountResponse `json:"by_service"`
}

type AbsentMemberResponse struct {
	UserID          string  `json:"user_id"`
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	Email           string  `json:"email"`
	Phone           *string `json:"phone,omitempty"`
	MissedCount     int     `json:"missed_count"`
	LastAttendance  *string `json:"last_attendance,omitempty"`
	LastServiceDate *string `json:"last_service_date,omitempty"`
}
