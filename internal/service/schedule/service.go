package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/chub-app/chub-backend-go/internal/domain/attendance"
	"github.com/chub-app/chub-backend-go/internal/domain/schedule"
	"github.com/chub-app/chub-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
)

type ScheduleServiceImpl struct {
	schedule.ScheduleRepository
}

func NewScheduleService(repo schedule.ScheduleRepository) schedule.Service {
	return &ScheduleServiceImpl{ScheduleRepository: repo}
}

func requireScheduleManage(ctx context.Context) error {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to extract claims from context: %w", err)
	}
	roleStr, ok := claims["role"].(string)
	if !ok || !user.HasPermission(user.Role(roleStr), user.PermissionScheduleManage) {
		return user.ErrPermissionDenied
	}
	return nil
}

// Create implements schedule.Service.
func (s *ScheduleServiceImpl) Create(ctx context.Context, req schedule.CreateScheduleRequest) (schedule.ScheduleResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.ScheduleResponse{}, err
	}
	if err := requireScheduleManage(ctx); err != nil {
		return schedule.ScheduleResponse{}, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	created, err := s.ScheduleRepository.Create(ctx, schedule.ServiceSchedule{
		Name:        req.Name,
		ServiceType: attendance.ServiceType(req.ServiceType),
		Weekday:     time.Weekday(req.Weekday),
		StartTime:   req.StartTime,
		IsActive:    isActive,
	})
	if err != nil {
		return schedule.ScheduleResponse{}, fmt.Errorf("failed to create service schedule: %w", err)
	}

	return toScheduleResponse(created), nil
}

// Get implements schedule.Service.
func (s *ScheduleServiceImpl) Get(ctx context.Context, id string) (schedule.ScheduleResponse, error) {
	if err := requireScheduleManage(ctx); err != nil {
		return schedule.ScheduleResponse{}, err
	}

	found, err := s.ScheduleRepository.GetByID(ctx, id)
	if err != nil {
		return schedule.ScheduleResponse{}, err
	}

	return toScheduleResponse(found), nil
}

// List implements schedule.Service.
func (s *ScheduleServiceImpl) List(ctx context.Context) (schedule.ListSchedulesResponse, error) {
	if err := requireScheduleManage(ctx); err != nil {
		return schedule.ListSchedulesResponse{}, err
	}

	schedules, err := s.ScheduleRepository.List(ctx)
	if err != nil {
		return schedule.ListSchedulesResponse{}, fmt.Errorf("failed to list service schedules: %w", err)
	}

	resp := schedule.ListSchedulesResponse{Schedules: []schedule.ScheduleResponse{}}
	for _, sch := range schedules {
		resp.Schedules = append(resp.Schedules, toScheduleResponse(sch))
	}

	return resp, nil
}

// Update implements schedule.Service.
func (s *ScheduleServiceImpl) Update(ctx context.Context, req schedule.UpdateScheduleRequest) (schedule.ScheduleResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.ScheduleResponse{}, err
	}
	if err := requireScheduleManage(ctx); err != nil {
		return schedule.ScheduleResponse{}, err
	}

	existing, err := s.ScheduleRepository.GetByID(ctx, req.ID)
	if err != nil {
		return schedule.ScheduleResponse{}, err
	}

	existing.Name = req.Name
	existing.ServiceType = attendance.ServiceType(req.ServiceType)
	existing.Weekday = time.Weekday(req.Weekday)
	existing.StartTime = req.StartTime
	if req.IsActive != nil {
		existing.IsActive = *req.IsActive
	}

	if err := s.ScheduleRepository.Update(ctx, existing); err != nil {
		return schedule.ScheduleResponse{}, fmt.Errorf("failed to update service schedule: %w", err)
	}

	return toScheduleResponse(existing), nil
}

// Delete implements schedule.Service.
func (s *ScheduleServiceImpl) Delete(ctx context.Context, id string) error {
	if err := requireScheduleManage(ctx); err != nil {
		return err
	}

	return s.ScheduleRepository.Delete(ctx, id)
}

func toScheduleResponse(s schedule.ServiceSchedule) schedule.ScheduleResponse {
	return schedule.ScheduleResponse{
		ID:          s.ID,
		Name:        s.Name,
		ServiceType: string(s.ServiceType),
		Weekday:     int(s.Weekday),
		StartTime:   s.StartTime,
		IsActive:    s.IsActive,
		CreatedAt:   s.CreatedAt.Format(time.RFC3339),
	}
}
