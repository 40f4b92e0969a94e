package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/chub-app/chub-backend-go/internal/domain/schedule"
	"github.com/chub-app/chub-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type scheduleRepository struct {
	db *database.DB
}

func NewScheduleRepository(db *database.DB) schedule.ScheduleRepository {
	return &scheduleRepository{db: db}
}

// Create implements schedule.ScheduleRepository.
func (r *scheduleRepository) Create(ctx context.Context, s schedule.ServiceSchedule) (schedule.ServiceSchedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO service_schedules (
			name, service_type, weekday, start_time, is_active
		) VALUES (
			$1, $2, $3, $4, $5
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		s.Name,
		s.ServiceType,
		int(s.Weekday),
		s.StartTime,
		s.IsActive,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		return schedule.ServiceSchedule{}, fmt.Errorf("failed to create service schedule: %w", err)
	}

	return s, nil
}

// GetByID implements schedule.ScheduleRepository.
func (r *scheduleRepository) GetByID(ctx context.Context, id string) (schedule.ServiceSchedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, service_type, weekday, start_time, is_active, created_at, updated_at
		FROM service_schedules
		WHERE id = $1
	`

	var s schedule.ServiceSchedule
	var weekday int
	err := q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.ServiceType, &weekday, &s.StartTime, &s.IsActive,
		&s.CreatedAt, &s.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return schedule.ServiceSchedule{}, schedule.ErrScheduleNotFound
		}
		return schedule.ServiceSchedule{}, fmt.Errorf("failed to get service schedule by ID: %w", err)
	}
	s.Weekday = toWeekday(weekday)

	return s, nil
}

// ListActive implements schedule.ScheduleRepository.
func (r *scheduleRepository) ListActive(ctx context.Context) ([]schedule.ServiceSchedule, error) {
	return r.list(ctx, true)
}

// List implements schedule.ScheduleRepository.
func (r *scheduleRepository) List(ctx context.Context) ([]schedule.ServiceSchedule, error) {
	return r.list(ctx, false)
}

func (r *scheduleRepository) list(ctx context.Context, activeOnly bool) ([]schedule.ServiceSchedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, service_type, weekday, start_time, is_active, created_at, updated_at
		FROM service_schedules
	`
	if activeOnly {
		query += " WHERE is_active = TRUE"
	}
	query += " ORDER BY weekday, start_time"

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list service schedules: %w", err)
	}
	defer rows.Close()

	var schedules []schedule.ServiceSchedule
	for rows.Next() {
		var s schedule.ServiceSchedule
		var weekday int
		err := rows.Scan(
			&s.ID, &s.Name, &s.ServiceType, &weekday, &s.StartTime, &s.IsActive,
			&s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service schedule: %w", err)
		}
		s.Weekday = toWeekday(weekday)
		schedules = append(schedules, s)
	}

	return schedules, nil
}

// Update implements schedule.ScheduleRepository.
func (r *scheduleRepository) Update(ctx context.Context, s schedule.ServiceSchedule) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE service_schedules
		SET name = $1, service_type = $2, weekday = $3, start_time = $4, is_active = $5,
			updated_at = NOW()
		WHERE id = $6
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query,
		s.Name, s.ServiceType, int(s.Weekday), s.StartTime, s.IsActive, s.ID,
	).Scan(&updatedID)

	if err != nil {
		if err == pgx.ErrNoRows {
			return schedule.ErrScheduleNotFound
		}
		return fmt.Errorf("failed to update service schedule: %w", err)
	}

	return nil
}

// Delete implements schedule.ScheduleRepository.
func (r *scheduleRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM service_schedules WHERE id = $1`

	commandTag, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete service schedule: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return schedule.ErrScheduleNotFound
	}

	return nil
}

func toWeekday(d int) time.Weekday {
	return time.Weekday(d % 7)
}
