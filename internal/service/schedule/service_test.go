package schedule

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/chub-app/chub-backend-go/internal/domain/schedule"
	"github.com/chub-app/chub-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScheduleRepo struct {
	schedules map[string]schedule.ServiceSchedule
	nextID    int
}

func newFakeScheduleRepo(schedules ...schedule.ServiceSchedule) *fakeScheduleRepo {
	m := make(map[string]schedule.ServiceSchedule)
	for _, s := range schedules {
		m[s.ID] = s
	}
	return &fakeScheduleRepo{schedules: m}
}

func (f *fakeScheduleRepo) Create(ctx context.Context, s schedule.ServiceSchedule) (schedule.ServiceSchedule, error) {
	f.nextID++
	s.ID = fmt.Sprintf("sched-%d", f.nextID)
	s.CreatedAt = time.Now().UTC()
	f.schedules[s.ID] = s
	return s, nil
}

func (f *fakeScheduleRepo) GetByID(ctx context.Context, id string) (schedule.ServiceSchedule, error) {
	s, ok := f.schedules[id]
	if !ok {
		return schedule.ServiceSchedule{}, schedule.ErrScheduleNotFound
	}
	return s, nil
}

func (f *fakeScheduleRepo) ListActive(ctx context.Context) ([]schedule.ServiceSchedule, error) {
	var out []schedule.ServiceSchedule
	for _, s := range f.schedules {
		if s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeScheduleRepo) List(ctx context.Context) ([]schedule.ServiceSchedule, error) {
	var out []schedule.ServiceSchedule
	for _, s := range f.schedules {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeScheduleRepo) Update(ctx context.Context, s schedule.ServiceSchedule) error {
	if _, ok := f.schedules[s.ID]; !ok {
		return schedule.ErrScheduleNotFound
	}
	f.schedules[s.ID] = s
	return nil
}

func (f *fakeScheduleRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.schedules[id]; !ok {
		return schedule.ErrScheduleNotFound
	}
	delete(f.schedules, id)
	return nil
}

func authedCtx(t *testing.T, userID string, role user.Role) context.Context {
	t.Helper()

	tokenAuth := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"role":    string(role),
		"type":    "access",
	})
	require.NoError(t, err)

	return jwtauth.NewContext(context.Background(), token, nil)
}

func sundaySchedule() schedule.ServiceSchedule {
	return schedule.ServiceSchedule{
		ID:          "sched-sunday",
		Name:        "Sunday Service",
		ServiceType: "SUNDAY_SERVICE",
		Weekday:     time.Sunday,
		StartTime:   "09:00",
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
	}
}

func TestScheduleService_Create_Success(t *testing.T) {
	repo := newFakeScheduleRepo()
	svc := NewScheduleService(repo)
	ctx := authedCtx(t, "admin-1", user.RoleAdmin)

	created, err := svc.Create(ctx, schedule.CreateScheduleRequest{
		Name:        "Midweek Prayer",
		ServiceType: "MIDWEEK_SERVICE",
		Weekday:     3,
		StartTime:   "19:30",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Midweek Prayer", created.Name)
	assert.Equal(t, 3, created.Weekday)
	assert.True(t, created.IsActive, "schedules default to active")
}

func TestScheduleService_Create_RequiresManagePermission(t *testing.T) {
	svc := NewScheduleService(newFakeScheduleRepo())
	ctx := authedCtx(t, "member-1", user.RoleMember)

	_, err := svc.Create(ctx, schedule.CreateScheduleRequest{
		Name:        "Midweek Prayer",
		ServiceType: "MIDWEEK_SERVICE",
		Weekday:     3,
		StartTime:   "19:30",
	})

	assert.ErrorIs(t, err, user.ErrPermissionDenied)
}

func TestScheduleService_Create_InvalidWeekday(t *testing.T) {
	svc := NewScheduleService(newFakeScheduleRepo())
	ctx := authedCtx(t, "admin-1", user.RoleAdmin)

	_, err := svc.Create(ctx, schedule.CreateScheduleRequest{
		Name:        "Bad Day",
		ServiceType: "SUNDAY_SERVICE",
		Weekday:     7,
		StartTime:   "09:00",
	})

	assert.Error(t, err)
}

func TestScheduleService_Get_NotFound(t *testing.T) {
	svc := NewScheduleService(newFakeScheduleRepo())
	ctx := authedCtx(t, "admin-1", user.RoleAdmin)

	_, err := svc.Get(ctx, "missing")

	assert.ErrorIs(t, err, schedule.ErrScheduleNotFound)
}

func TestScheduleService_Update_TogglesActive(t *testing.T) {
	repo := newFakeScheduleRepo(sundaySchedule())
	svc := NewScheduleService(repo)
	ctx := authedCtx(t, "admin-1", user.RoleAdmin)

	inactive := false
	updated, err := svc.Update(ctx, schedule.UpdateScheduleRequest{
		ID: "sched-sunday",
		CreateScheduleRequest: schedule.CreateScheduleRequest{
			Name:        "Sunday Service",
			ServiceType: "SUNDAY_SERVICE",
			Weekday:     0,
			StartTime:   "09:00",
			IsActive:    &inactive,
		},
	})

	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	stored, err := repo.GetByID(context.Background(), "sched-sunday")
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}

func TestScheduleService_Delete_Success(t *testing.T) {
	repo := newFakeScheduleRepo(sundaySchedule())
	svc := NewScheduleService(repo)
	ctx := authedCtx(t, "admin-1", user.RoleAdmin)

	require.NoError(t, svc.Delete(ctx, "sched-sunday"))

	_, err := repo.GetByID(context.Background(), "sched-sunday")
	assert.ErrorIs(t, err, schedule.ErrScheduleNotFound)
}

func TestScheduleService_List_RequiresManagePermission(t *testing.T) {
	svc := NewScheduleService(newFakeScheduleRepo(sundaySchedule()))
	ctx := authedCtx(t, "leader-1", user.RoleLeader)

	_, err := svc.List(ctx)

	assert.ErrorIs(t, err, user.ErrPermissionDenied)
}
