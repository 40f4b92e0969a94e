package attendance

import (
	"context"
)

// Service defines business logic for check-in ingestion, link issuance and
// analytics.
type Service interface {
	// SelfCheckIn records the authenticated member's own attendance
	SelfCheckIn(ctx context.Context, req SelfCheckInRequest) (RecordResponse, error)

	// ManualCheckIn records attendance on behalf of another member (leaders)
	ManualCheckIn(ctx context.Context, req ManualCheckInRequest) (RecordResponse, error)

	// LinkCheckIn redeems a QR/link token for the authenticated member
	LinkCheckIn(ctx context.Context, req LinkCheckInRequest) (RecordResponse, error)

	// OnlineCheckIn records a client-reported online watch session.
	// The watch duration is taken at face value; threshold gating happens in
	// analytics and absence detection, not here.
	OnlineCheckIn(ctx context.Context, req OnlineCheckInRequest) (RecordResponse, error)

	// CreateLink issues a tokenized check-in link bound to one occurrence
	CreateLink(ctx context.Context, req CreateLinkRequest) (LinkResponse, error)

	// ResolveLink returns the public preview for a scanned token
	ResolveLink(ctx context.Context, token string) (LinkPreviewResponse, error)

	// GetMyAttendance retrieves the authenticated member's records
	GetMyAttendance(ctx context.Context, filter RecordFilter) (ListRecordsResponse, error)

	// List retrieves records across members (requires view_all)
	List(ctx context.Context, filter RecordFilter) (ListRecordsResponse, error)

	// ComputeStats aggregates attendance over an inclusive date range
	ComputeStats(ctx context.Context, filter StatsFilter) (StatsResponse, error)
}
