package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chub-app/chub-backend-go/internal/domain/attendance"
	"github.com/chub-app/chub-backend-go/internal/domain/user"
	"github.com/chub-app/chub-backend-go/internal/pkg/token"
	"github.com/chub-app/chub-backend-go/internal/pkg/validator"
	"github.com/go-chi/jwtauth/v5"
)

// tokenCreateAttempts bounds the retry loop on link token collisions.
const tokenCreateAttempts = 3

type AttendanceServiceImpl struct {
	attendance.RecordRepository
	attendance.LinkRepository
	user.UserRepository
	linkBaseURL string
}

func NewAttendanceService(
	recordRepository attendance.RecordRepository,
	linkRepository attendance.LinkRepository,
	userRepository user.UserRepository,
	linkBaseURL string,
) attendance.Service {
	return &AttendanceServiceImpl{
		RecordRepository: recordRepository,
		LinkRepository:   linkRepository,
		UserRepository:   userRepository,
		linkBaseURL:      linkBaseURL,
	}
}

func callerFromContext(ctx context.Context) (userID string, role user.Role, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", "", fmt.Errorf("user_id claim is missing or invalid")
	}

	roleStr, ok := claims["role"].(string)
	if !ok || roleStr == "" {
		return "", "", fmt.Errorf("role claim is missing or invalid")
	}

	return userID, user.Role(roleStr), nil
}

// SelfCheckIn implements attendance.Service. The record is always attributed
// to the caller's identity from the token, never to anything in the body.
func (a *AttendanceServiceImpl) SelfCheckIn(ctx context.Context, req attendance.SelfCheckInRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	callerID, _, err := callerFromContext(ctx)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	serviceDate, _ := validator.IsValidDate(req.ServiceDate)
	now := time.Now().UTC()

	record := attendance.Record{
		UserID:      &callerID,
		ServiceType: attendance.ServiceType(req.ServiceType),
		ServiceID:   req.ServiceID,
		ServiceName: req.ServiceName,
		ServiceDate: serviceDate,
		CheckInType: attendance.CheckInSelf,
		CheckInTime: &now,
		IsOnline:    attendance.ServiceType(req.ServiceType).IsOnline(),
		Notes:       req.Notes,
	}

	created, err := a.RecordRepository.Create(ctx, record)
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to create self check-in: %w", err)
	}

	return toRecordResponse(created), nil
}

// ManualCheckIn implements attendance.Service. Route middleware already gates
// on attendance.manage; the check repeats here so the rule holds even for
// callers that bypass HTTP.
func (a *AttendanceServiceImpl) ManualCheckIn(ctx context.Context, req attendance.ManualCheckInRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	callerID, role, err := callerFromContext(ctx)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	if !user.HasPermission(role, user.PermissionAttendanceManage) {
		return attendance.RecordResponse{}, user.ErrPermissionDenied
	}

	// Target must be a known member
	if _, err := a.UserRepository.GetByID(ctx, req.TargetUserID); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return attendance.RecordResponse{}, attendance.ErrTargetNotFound
		}
		return attendance.RecordResponse{}, fmt.Errorf("failed to look up target member: %w", err)
	}

	serviceDate, _ := validator.IsValidDate(req.ServiceDate)
	now := time.Now().UTC()

	record := attendance.Record{
		UserID:      &req.TargetUserID,
		ServiceType: attendance.ServiceType(req.ServiceType),
		ServiceID:   req.ServiceID,
		ServiceName: req.ServiceName,
		ServiceDate: serviceDate,
		CheckInType: attendance.CheckInManual,
		CheckInTime: &now,
		IsOnline:    attendance.ServiceType(req.ServiceType).IsOnline(),
		Notes:       req.Notes,
		CreatedBy:   &callerID,
	}

	created, err := a.RecordRepository.Create(ctx, record)
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to create manual check-in: %w", err)
	}

	return toRecordResponse(created), nil
}

// LinkCheckIn implements attendance.Service. The link is shared: redeeming it
// never consumes it, so any number of members can check in through the same
// token until it expires or is switched off.
func (a *AttendanceServiceImpl) LinkCheckIn(ctx context.Context, req attendance.LinkCheckInRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	callerID, _, err := callerFromContext(ctx)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	link, err := a.LinkRepository.GetByToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, attendance.ErrLinkNotFound) {
			return attendance.RecordResponse{}, attendance.ErrLinkNotFound
		}
		return attendance.RecordResponse{}, fmt.Errorf("failed to resolve attendance link: %w", err)
	}

	if !link.IsActive {
		return attendance.RecordResponse{}, attendance.ErrLinkInactive
	}
	if link.IsExpired() {
		return attendance.RecordResponse{}, attendance.ErrLinkExpired
	}

	now := time.Now().UTC()

	record := attendance.Record{
		UserID:      &callerID,
		ServiceType: link.ServiceType,
		ServiceID:   link.ServiceID,
		ServiceName: link.ServiceName,
		ServiceDate: link.ServiceDate,
		CheckInType: attendance.CheckInQR,
		CheckInTime: &now,
		IsOnline:    link.ServiceType.IsOnline(),
		Notes:       req.Notes,
	}

	created, err := a.RecordRepository.Create(ctx, record)
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to create link check-in: %w", err)
	}

	return toRecordResponse(created), nil
}

// OnlineCheckIn implements attendance.Service. The watch duration is
// client-reported and stored as-is; threshold gating happens downstream in
// analytics and absence detection.
func (a *AttendanceServiceImpl) OnlineCheckIn(ctx context.Context, req attendance.OnlineCheckInRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	serviceDate, _ := validator.IsValidDate(req.ServiceDate)
	watchDuration := req.WatchDuration

	record := attendance.Record{
		UserID:        &req.UserID,
		ServiceType:   attendance.ServiceType(req.ServiceType),
		ServiceID:     req.ServiceID,
		ServiceName:   req.ServiceName,
		ServiceDate:   serviceDate,
		CheckInType:   attendance.CheckInOnline,
		WatchDuration: &watchDuration,
		IsOnline:      true,
	}

	created, err := a.RecordRepository.Create(ctx, record)
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to create online check-in: %w", err)
	}

	return toRecordResponse(created), nil
}

// CreateLink implements attendance.Service.
func (a *AttendanceServiceImpl) CreateLink(ctx context.Context, req attendance.CreateLinkRequest) (attendance.LinkResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.LinkResponse{}, err
	}

	callerID, role, err := callerFromContext(ctx)
	if err != nil {
		return attendance.LinkResponse{}, err
	}
	if !user.HasPermission(role, user.PermissionAttendanceLinksManage) {
		return attendance.LinkResponse{}, user.ErrPermissionDenied
	}

	serviceDate, _ := validator.IsValidDate(req.ServiceDate)

	var expiresAt *time.Time
	if req.ExpiresAt != nil && *req.ExpiresAt != "" {
		t, _ := validator.IsValidDateTime(*req.ExpiresAt)
		expiresAt = &t
	}

	var created attendance.Link
	for attempt := 0; attempt < tokenCreateAttempts; attempt++ {
		tok, err := token.Generate(token.DefaultByteLength)
		if err != nil {
			return attendance.LinkResponse{}, fmt.Errorf("failed to generate link token: %w", err)
		}

		link := attendance.Link{
			Token:       tok,
			ServiceType: attendance.ServiceType(req.ServiceType),
			ServiceID:   req.ServiceID,
			ServiceName: req.ServiceName,
			ServiceDate: serviceDate,
			IsActive:    true,
			ExpiresAt:   expiresAt,
			CreatedBy:   callerID,
		}

		created, err = a.LinkRepository.Create(ctx, link)
		if err == nil {
			break
		}
		if errors.Is(err, attendance.ErrTokenConflict) && attempt < tokenCreateAttempts-1 {
			continue
		}
		return attendance.LinkResponse{}, fmt.Errorf("failed to create attendance link: %w", err)
	}

	return a.toLinkResponse(created), nil
}

// ResolveLink implements attendance.Service. Public pre-login preview.
func (a *AttendanceServiceImpl) ResolveLink(ctx context.Context, tok string) (attendance.LinkPreviewResponse, error) {
	link, err := a.LinkRepository.GetByToken(ctx, tok)
	if err != nil {
		if errors.Is(err, attendance.ErrLinkNotFound) {
			return attendance.LinkPreviewResponse{}, attendance.ErrLinkNotFound
		}
		return attendance.LinkPreviewResponse{}, fmt.Errorf("failed to resolve attendance link: %w", err)
	}

	return attendance.LinkPreviewResponse{
		ServiceType: string(link.ServiceType),
		ServiceName: link.ServiceName,
		ServiceDate: link.ServiceDate.Format("2006-01-02"),
		IsActive:    link.IsActive,
		IsExpired:   link.IsExpired(),
	}, nil
}

// GetMyAttendance implements attendance.Service.
func (a *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, filter attendance.RecordFilter) (attendance.ListRecordsResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListRecordsResponse{}, err
	}

	callerID, _, err := callerFromContext(ctx)
	if err != nil {
		return attendance.ListRecordsResponse{}, err
	}

	records, total, err := a.RecordRepository.ListByUser(ctx, callerID, filter)
	if err != nil {
		return attendance.ListRecordsResponse{}, fmt.Errorf("failed to list own attendance: %w", err)
	}

	return toListResponse(records, total, filter), nil
}

// List implements attendance.Service.
func (a *AttendanceServiceImpl) List(ctx context.Context, filter attendance.RecordFilter) (attendance.ListRecordsResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListRecordsResponse{}, err
	}

	_, role, err := callerFromContext(ctx)
	if err != nil {
		return attendance.ListRecordsResponse{}, err
	}
	if !user.HasPermission(role, user.PermissionAttendanceViewAll) {
		return attendance.ListRecordsResponse{}, user.ErrPermissionDenied
	}

	records, total, err := a.RecordRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListRecordsResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	return toListResponse(records, total, filter), nil
}

// ComputeStats implements attendance.Service. The aggregation is a single
// grouped query; empty ranges come back as all-zero aggregates, not errors.
func (a *AttendanceServiceImpl) ComputeStats(ctx context.Context, filter attendance.StatsFilter) (attendance.StatsResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.StatsResponse{}, err
	}

	_, role, err := callerFromContext(ctx)
	if err != nil {
		return attendance.StatsResponse{}, err
	}
	if !user.HasPermission(role, user.PermissionAnalyticsView) {
		return attendance.StatsResponse{}, user.ErrPermissionDenied
	}

	stats, err := a.RecordRepository.Stats(ctx, filter)
	if err != nil {
		return attendance.StatsResponse{}, fmt.Errorf("failed to compute attendance stats: %w", err)
	}

	resp := attendance.StatsResponse{
		Total:     stats.Total,
		Online:    stats.Online,
		Offline:   stats.Offline,
		ByService: []attendance.ServiceCountResponse{},
	}
	for _, sc := range stats.ByService {
		resp.ByService = append(resp.ByService, attendance.ServiceCountResponse{
			ServiceType: string(sc.ServiceType),
			Count:       sc.Count,
		})
	}

	return resp, nil
}

func (a *AttendanceServiceImpl) toLinkResponse(link attendance.Link) attendance.LinkResponse {
	resp := attendance.LinkResponse{
		ID:          link.ID,
		Token:       link.Token,
		URL:         fmt.Sprintf("%s/%s", a.linkBaseURL, link.Token),
		ServiceType: string(link.ServiceType),
		ServiceID:   link.ServiceID,
		ServiceName: link.ServiceName,
		ServiceDate: link.ServiceDate.Format("2006-01-02"),
		IsActive:    link.IsActive,
		CreatedAt:   link.CreatedAt.Format(time.RFC3339),
	}
	if link.ExpiresAt != nil {
		s := link.ExpiresAt.Format(time.RFC3339)
		resp.ExpiresAt = &s
	}
	return resp
}

func toRecordResponse(rec attendance.Record) attendance.RecordResponse {
	resp := attendance.RecordResponse{
		ID:            rec.ID,
		UserID:        rec.UserID,
		MemberName:    rec.MemberName,
		ServiceType:   string(rec.ServiceType),
		ServiceID:     rec.ServiceID,
		ServiceName:   rec.ServiceName,
		ServiceDate:   rec.ServiceDate.Format("2006-01-02"),
		CheckInType:   string(rec.CheckInType),
		WatchDuration: rec.WatchDuration,
		IsOnline:      rec.IsOnline,
		Notes:         rec.Notes,
		CreatedAt:     rec.CreatedAt.Format(time.RFC3339),
	}
	if rec.CheckInTime != nil {
		s := rec.CheckInTime.Format(time.RFC3339)
		resp.CheckInTime = &s
	}
	return resp
}

func toListResponse(records []attendance.Record, total int64, filter attendance.RecordFilter) attendance.ListRecordsResponse {
	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))

	resp := attendance.ListRecordsResponse{
		TotalCount: total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		Records:    []attendance.RecordResponse{},
	}
	for _, rec := range records {
		resp.Records = append(resp.Records, toRecordResponse(rec))
	}
	return resp
}
