package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chub-app/chub-backend-go/internal/domain/attendance"
	"github.com/chub-app/chub-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type recordRepository struct {
	db *database.DB
}

func NewRecordRepository(db *database.DB) attendance.RecordRepository {
	return &recordRepository{db: db}
}

// Create implements attendance.RecordRepository.
func (r *recordRepository) Create(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_records (
			user_id, service_type, service_id, service_name, service_date,
			check_in_type, check_in_time, watch_duration, is_online, notes, created_by
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		record.UserID,
		record.ServiceType,
		record.ServiceID,
		record.ServiceName,
		record.ServiceDate,
		record.CheckInType,
		record.CheckInTime,
		record.WatchDuration,
		record.IsOnline,
		record.Notes,
		record.CreatedBy,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)

	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return record, nil
}

// GetByID implements attendance.RecordRepository.
func (r *recordRepository) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT a.id, a.user_id, a.service_type, a.service_id, a.service_name, a.service_date,
			   a.check_in_type, a.check_in_time, a.watch_duration, a.is_online, a.notes,
			   a.created_by, a.created_at, a.updated_at,
			   u.first_name || ' ' || u.last_name AS member_name
		FROM attendance_records a
		LEFT JOIN users u ON u.id = a.user_id
		WHERE a.id = $1
	`

	var rec attendance.Record
	err := q.QueryRow(ctx, query, id).Scan(
		&rec.ID, &rec.UserID, &rec.ServiceType, &rec.ServiceID, &rec.ServiceName, &rec.ServiceDate,
		&rec.CheckInType, &rec.CheckInTime, &rec.WatchDuration, &rec.IsOnline, &rec.Notes,
		&rec.CreatedBy, &rec.CreatedAt, &rec.UpdatedAt,
		&rec.MemberName,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Record{}, attendance.ErrRecordNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance record by ID: %w", err)
	}

	return rec, nil
}

// List implements attendance.RecordRepository.
func (r *recordRepository) List(ctx context.Context, filter attendance.RecordFilter) ([]attendance.Record, int64, error) {
	q := GetQuerier(ctx, r.db)

	// Build WHERE clause
	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.UserID != nil && *filter.UserID != "" {
		baseWhere += fmt.Sprintf(" AND a.user_id = $%d", argIdx)
		args = append(args, *filter.UserID)
		argIdx++
	}
	if filter.ServiceType != nil && *filter.ServiceType != "" {
		baseWhere += fmt.Sprintf(" AND a.service_type = $%d", argIdx)
		args = append(args, *filter.ServiceType)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND a.service_date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND a.service_date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	// Count total
	countQuery := "SELECT COUNT(*) FROM attendance_records a WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance records: %w", err)
	}

	// Build ORDER BY
	orderByField := "a.service_date"
	switch filter.SortBy {
	case "check_in_time":
		orderByField = "a.check_in_time"
	case "created_at":
		orderByField = "a.created_at"
	case "service_type":
		orderByField = "a.service_type"
	}
	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}

	// Build query with pagination
	selectQuery := fmt.Sprintf(`
		SELECT a.id, a.user_id, a.service_type, a.service_id, a.service_name, a.service_date,
			   a.check_in_type, a.check_in_time, a.watch_duration, a.is_online, a.notes,
			   a.created_by, a.created_at, a.updated_at,
			   u.first_name || ' ' || u.last_name AS member_name
		FROM attendance_records a
		LEFT JOIN users u ON u.id = a.user_id
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, baseWhere, orderByField, sortOrder, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		var rec attendance.Record
		err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.ServiceType, &rec.ServiceID, &rec.ServiceName, &rec.ServiceDate,
			&rec.CheckInType, &rec.CheckInTime, &rec.WatchDuration, &rec.IsOnline, &rec.Notes,
			&rec.CreatedBy, &rec.CreatedAt, &rec.UpdatedAt,
			&rec.MemberName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}

	return records, total, nil
}

// ListByUser implements attendance.RecordRepository.
func (r *recordRepository) ListByUser(ctx context.Context, userID string, filter attendance.RecordFilter) ([]attendance.Record, int64, error) {
	scoped := filter
	scoped.UserID = &userID
	return r.List(ctx, scoped)
}

// Stats implements attendance.RecordRepository. Totals, the online/offline
// split and per-service counts come back from one grouped query so the
// buckets always add up.
func (r *recordRepository) Stats(ctx context.Context, filter attendance.StatsFilter) (attendance.Stats, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "service_date >= $1 AND service_date <= $2"
	args := []interface{}{filter.StartDate, filter.EndDate}
	argIdx := 3

	if filter.ServiceType != nil && *filter.ServiceType != "" {
		baseWhere += fmt.Sprintf(" AND service_type = $%d", argIdx)
		args = append(args, *filter.ServiceType)
		argIdx++
	}

	query := `
		SELECT service_type,
			   COUNT(*) AS total,
			   SUM(CASE WHEN is_online THEN 1 ELSE 0 END) AS online
		FROM attendance_records
		WHERE ` + baseWhere + `
		GROUP BY service_type
		ORDER BY service_type
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return attendance.Stats{}, fmt.Errorf("failed to query attendance stats: %w", err)
	}
	defer rows.Close()

	var stats attendance.Stats
	for rows.Next() {
		var serviceType attendance.ServiceType
		var total, online int64
		if err := rows.Scan(&serviceType, &total, &online); err != nil {
			return attendance.Stats{}, fmt.Errorf("failed to scan attendance stats: %w", err)
		}

		stats.Total += total
		stats.Online += online
		stats.Offline += total - online
		stats.ByService = append(stats.ByService, attendance.ServiceCount{
			ServiceType: serviceType,
			Count:       total,
		})
	}

	return stats, nil
}

// AttendedDatesByUser implements attendance.RecordRepository. Online records
// only count toward absence detection once they clear the watch threshold;
// offline records always count.
func (r *recordRepository) AttendedDatesByUser(ctx context.Context, since time.Time, minWatchSeconds int) (map[string][]time.Time, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT DISTINCT user_id, service_date
		FROM attendance_records
		WHERE user_id IS NOT NULL
		  AND service_date >= $1
		  AND (is_online = FALSE OR COALESCE(watch_duration, 0) >= $2)
		ORDER BY user_id, service_date
	`

	rows, err := q.Query(ctx, query, since, minWatchSeconds)
	if err != nil {
		return nil, fmt.Errorf("failed to query attended dates: %w", err)
	}
	defer rows.Close()

	attended := make(map[string][]time.Time)
	for rows.Next() {
		var userID string
		var serviceDate time.Time
		if err := rows.Scan(&userID, &serviceDate); err != nil {
			return nil, fmt.Errorf("failed to scan attended date: %w", err)
		}
		attended[userID] = append(attended[userID], serviceDate)
	}

	return attended, nil
}

// LastAttendanceByUser implements attendance.RecordRepository.
func (r *recordRepository) LastAttendanceByUser(ctx context.Context) (map[string]attendance.LastSeen, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT DISTINCT ON (user_id) user_id, created_at, service_date
		FROM attendance_records
		WHERE user_id IS NOT NULL
		ORDER BY user_id, created_at DESC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query last attendance: %w", err)
	}
	defer rows.Close()

	lastSeen := make(map[string]attendance.LastSeen)
	for rows.Next() {
		var userID string
		var seen attendance.LastSeen
		if err := rows.Scan(&userID, &seen.RecordedAt, &seen.ServiceDate); err != nil {
			return nil, fmt.Errorf("failed to scan last attendance: %w", err)
		}
		lastSeen[userID] = seen
	}

	return lastSeen, nil
}
