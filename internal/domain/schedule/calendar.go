package schedule

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// Calendar enumerates expected service occurrences from the recurring
// schedule configuration.
type Calendar interface {
	// OccurrencesBetween expands active schedules into concrete dated
	// occurrences within [from, to] inclusive, ordered by date ascending.
	OccurrencesBetween(ctx context.Context, from, to time.Time) ([]Occurrence, error)
}

type calendar struct {
	repo ScheduleRepository
}

// NewCalendar creates a Calendar backed by the schedule repository.
func NewCalendar(repo ScheduleRepository) Calendar {
	return &calendar{repo: repo}
}

func (c *calendar) OccurrencesBetween(ctx context.Context, from, to time.Time) ([]Occurrence, error) {
	if to.Before(from) {
		return nil, nil
	}

	schedules, err := c.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active schedules: %w", err)
	}

	fromDay := truncateToDay(from)
	toDay := truncateToDay(to)

	var occurrences []Occurrence
	for _, s := range schedules {
		// First matching weekday on or after fromDay
		offset := (int(s.Weekday) - int(fromDay.Weekday()) + 7) % 7
		for d := fromDay.AddDate(0, 0, offset); !d.After(toDay); d = d.AddDate(0, 0, 7) {
			occurrences = append(occurrences, Occurrence{
				ScheduleID:  s.ID,
				Name:        s.Name,
				ServiceType: s.ServiceType,
				Date:        d,
			})
		}
	}

	sort.Slice(occurrences, func(i, j int) bool {
		return occurrences[i].Date.Before(occurrences[j].Date)
	})

	return occurrences, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
