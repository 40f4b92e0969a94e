package attendance

import (
	"time"
)

// ServiceType identifies the kind of gathering a record belongs to.
type ServiceType string

const (
	ServiceSunday       ServiceType = "SUNDAY_SERVICE"
	ServiceMidweek      ServiceType = "MIDWEEK_SERVICE"
	ServiceSpecialEvent ServiceType = "SPECIAL_EVENT"
	ServiceOnlineLive   ServiceType = "ONLINE_LIVE"
	ServiceOnlineReplay ServiceType = "ONLINE_REPLAY"
)

// AllServiceTypes returns every valid service type.
func AllServiceTypes() []ServiceType {
	return []ServiceType{
		ServiceSunday,
		ServiceMidweek,
		ServiceSpecialEvent,
		ServiceOnlineLive,
		ServiceOnlineReplay,
	}
}

// IsOnline reports whether a service type is an online watch mode.
func (s ServiceType) IsOnline() bool {
	return s == ServiceOnlineLive || s == ServiceOnlineReplay
}

// IsValid reports whether s is a known service type.
func (s ServiceType) IsValid() bool {
	for _, t := range AllServiceTypes() {
		if s == t {
			return true
		}
	}
	return false
}

// CheckInType records how an attendance entry was created. It never changes
// after creation.
type CheckInType string

const (
	CheckInSelf   CheckInType = "SELF_CHECKIN"
	CheckInManual CheckInType = "MANUAL"
	CheckInOnline CheckInType = "ONLINE_AUTO"
	CheckInQR     CheckInType = "QR_CHECKIN"
)

// Record is one durable attendance fact: a member attended (or is asserted to
// have attended) one service occurrence.
type Record struct {
	ID            string
	UserID        *string // nil only for anonymous/legacy rows
	ServiceType   ServiceType
	ServiceID     *string
	ServiceName   string
	ServiceDate   time.Time // date component only, stored at midnight UTC
	CheckInType   CheckInType
	CheckInTime   *time.Time // nil for online records
	WatchDuration *int       // seconds watched; set only for online records
	IsOnline      bool
	Notes         *string
	CreatedBy     *string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// DTO / Join
	MemberName *string
}

// Link is a shareable check-in token bound to one service occurrence.
// Multiple members may redeem the same link; it stays usable until it is
// deactivated or expires.
type Link struct {
	ID          string
	Token       string
	ServiceType ServiceType
	ServiceID   *string
	ServiceName string
	ServiceDate time.Time
	IsActive    bool
	ExpiresAt   *time.Time
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsExpired checks if the link deadline has passed (query-time check).
func (l *Link) IsExpired() bool {
	return l.ExpiresAt != nil && time.Now().After(*l.ExpiresAt)
}

// CanRedeem checks if the link can still be used for check-in.
func (l *Link) CanRedeem() bool {
	return l.IsActive && !l.IsExpired()
}

// ServiceCount is one per-service-type bucket of the stats summary.
type ServiceCount struct {
	ServiceType ServiceType
	Count       int64
}

// Stats is the aggregate attendance summary over a date range.
type Stats struct {
	Total     int64
	Online    int64
	Offline   int64
	ByService []ServiceCount
}

// AbsentMember is a derived projection, recomputed on every query: a member
// whose consecutive-missed streak reached the caller's threshold.
type AbsentMember struct {
	UserID          string
	FirstName       string
	LastName        string
	Email           string
	Phone           *string
	MissedCount     int
	LastAttendance  *time.Time
	LastServiceDate *time.Time
}
