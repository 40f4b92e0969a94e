package absence

import (
	"context"
	"fmt"
	"time"

	"github.com/chub-app/chub-backend-go/internal/domain/absence"
	"github.com/chub-app/chub-backend-go/internal/domain/attendance"
	"github.com/chub-app/chub-backend-go/internal/domain/schedule"
	"github.com/chub-app/chub-backend-go/internal/domain/user"
	"github.com/chub-app/chub-backend-go/internal/pkg/validator"
	"github.com/go-chi/jwtauth/v5"
)

type DetectorImpl struct {
	user.UserRepository
	attendance.RecordRepository
	calendar             schedule.Calendar
	lookbackDays         int
	onlineWatchThreshold int // minutes
}

func NewDetector(
	userRepository user.UserRepository,
	recordRepository attendance.RecordRepository,
	calendar schedule.Calendar,
	lookbackDays int,
	onlineWatchThresholdMinutes int,
) absence.Detector {
	return &DetectorImpl{
		UserRepository:       userRepository,
		RecordRepository:     recordRepository,
		calendar:             calendar,
		lookbackDays:         lookbackDays,
		onlineWatchThreshold: onlineWatchThresholdMinutes,
	}
}

// FindAbsentMembers implements absence.Detector.
//
// A member's streak is the count of most-recent expected occurrences with no
// counting attendance record, ending at now. Occurrences before a member
// joined are not expected of them. Online records only count once they clear
// the watch threshold.
func (d *DetectorImpl) FindAbsentMembers(ctx context.Context, consecutiveMissed int) ([]attendance.AbsentMemberResponse, error) {
	if consecutiveMissed < 1 {
		return nil, validator.ValidationErrors{{
			Field:   "consecutive_missed",
			Message: "consecutive_missed must be at least 1",
		}}
	}

	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to extract claims from context: %w", err)
	}
	roleStr, ok := claims["role"].(string)
	if !ok || !user.HasPermission(user.Role(roleStr), user.PermissionMembersViewAll) {
		return nil, user.ErrPermissionDenied
	}

	now := time.Now().UTC()
	since := now.AddDate(0, 0, -d.lookbackDays)

	occurrences, err := d.calendar.OccurrencesBetween(ctx, since, now)
	if err != nil {
		return nil, fmt.Errorf("failed to expand service calendar: %w", err)
	}
	if len(occurrences) == 0 {
		return []attendance.AbsentMemberResponse{}, nil
	}

	members, err := d.UserRepository.ListActiveMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active members: %w", err)
	}

	attended, err := d.RecordRepository.AttendedDatesByUser(ctx, since, d.onlineWatchThreshold*60)
	if err != nil {
		return nil, fmt.Errorf("failed to load attended dates: %w", err)
	}

	lastSeen, err := d.RecordRepository.LastAttendanceByUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load last attendance: %w", err)
	}

	// Distinct expected dates, deduplicated across schedules: missing one
	// Sunday with two services is one missed step, not two.
	expectedDates := distinctDates(occurrences)

	flagged := []attendance.AbsentMemberResponse{}
	for _, m := range members {
		attendedSet := make(map[string]struct{}, len(attended[m.ID]))
		for _, dte := range attended[m.ID] {
			attendedSet[dateKey(dte)] = struct{}{}
		}

		// Walk expected dates newest first until the first attended one
		streak := 0
		for i := len(expectedDates) - 1; i >= 0; i-- {
			dt := expectedDates[i]
			if dt.Before(truncateToDay(m.JoinedAt)) {
				break
			}
			if _, ok := attendedSet[dateKey(dt)]; ok {
				break
			}
			streak++
		}

		if streak < consecutiveMissed {
			continue
		}

		resp := attendance.AbsentMemberResponse{
			UserID:      m.ID,
			FirstName:   m.FirstName,
			LastName:    m.LastName,
			Email:       m.Email,
			Phone:       m.Phone,
			MissedCount: streak,
		}
		if seen, ok := lastSeen[m.ID]; ok {
			recordedAt := seen.RecordedAt.Format(time.RFC3339)
			serviceDate := seen.ServiceDate.Format("2006-01-02")
			resp.LastAttendance = &recordedAt
			resp.LastServiceDate = &serviceDate
		}
		flagged = append(flagged, resp)
	}

	return flagged, nil
}

func distinctDates(occurrences []schedule.Occurrence) []time.Time {
	var dates []time.Time
	seen := make(map[string]struct{})
	for _, occ := range occurrences {
		key := dateKey(occ.Date)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		dates = append(dates, occ.Date)
	}
	return dates
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
