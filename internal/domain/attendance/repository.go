package attendance

import (
	"context"
	"time"
)

// RecordRepository defines data access methods for the attendance ledger.
// The ledger is append-mostly: check-ins are pure creates, duplicates are
// accepted rather than rejected.
type RecordRepository interface {
	// Create appends a new attendance record
	Create(ctx context.Context, record Record) (Record, error)

	// GetByID retrieves a record by ID
	GetByID(ctx context.Context, id string) (Record, error)

	// List retrieves records with filters and pagination (leader/admin view)
	List(ctx context.Context, filter RecordFilter) ([]Record, int64, error)

	// ListByUser retrieves records for one member
	ListByUser(ctx context.Context, userID string, filter RecordFilter) ([]Record, int64, error)

	// Stats aggregates totals, online/offline split and per-service counts
	// over an inclusive date range in a single grouped query.
	Stats(ctx context.Context, filter StatsFilter) (Stats, error)

	// AttendedDatesByUser returns, per member, the set of service dates on
	// which they have at least one counting record since the given date.
	// Online records count only when watch_duration >= minWatchSeconds.
	AttendedDatesByUser(ctx context.Context, since time.Time, minWatchSeconds int) (map[string][]time.Time, error)

	// LastAttendanceByUser returns, per member, the created-at timestamp and
	// service date of their most recent record.
	LastAttendanceByUser(ctx context.Context) (map[string]LastSeen, error)
}

// LastSeen is the most recent attendance fact known for one member.
type LastSeen struct {
	RecordedAt  time.Time
	ServiceDate time.Time
}

// LinkRepository defines data access methods for check-in links.
type LinkRepository interface {
	// Create inserts a new link; returns ErrTokenConflict if the token is
	// already taken so the issuer can retry with a fresh one.
	Create(ctx context.Context, link Link) (Link, error)

	// GetByToken resolves a link by its opaque token
	GetByToken(ctx context.Context, token string) (Link, error)

	// SetActive toggles a link on or off
	SetActive(ctx context.Context, id string, active bool) error

	// DeactivateExpired flips is_active off for links whose deadline has
	// passed; returns the number of links touched.
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}
