package employmenttype

import (
	"time"

	employmenttypeerrors "go-payroll/internal/employmenttype/errors"
)

// ScheduleWindow is the resolved expectation for one employee-day: the
// configured in/out window, whether the day is a rest day, and whether
// the employment type tracks timestamps at all.
type ScheduleWindow struct {
	TimeIn               string
	TimeOut              string
	IsRestDay            bool
	RequiresTimeTracking bool
}

// ResolveSchedule looks up the weekday entry for the given date. Pure
// function of (employmentType, date), no side effects.
//
// Non-time-tracked types get no window; presence for them is binary and
// the calculator never derives lateness or overtime. A missing weekday
// entry on a tracked type is a configuration error the caller reports
// per employee without aborting batch runs.
func ResolveSchedule(et EmploymentType, date time.Time) (ScheduleWindow, error) {
	entry := findWeekday(et.Schedule, int(date.Weekday()))

	if !et.RequiresTimeTracking {
		w := ScheduleWindow{RequiresTimeTracking: false}
		if entry != nil {
			w.IsRestDay = entry.IsRestDay
		}
		return w, nil
	}

	if entry == nil {
		return ScheduleWindow{}, employmenttypeerrors.ErrScheduleNotConfigured
	}

	return ScheduleWindow{
		TimeIn:               entry.TimeIn,
		TimeOut:              entry.TimeOut,
		IsRestDay:            entry.IsRestDay,
		RequiresTimeTracking: true,
	}, nil
}

func findWeekday(schedule []EmploymentTypeSchedule, weekday int) *EmploymentTypeSchedule {
	for i := range schedule {
		if schedule[i].Weekday == weekday {
			return &schedule[i]
		}
	}
	return nil
}

// ParseTimeOnDate anchors a wall-clock string ("15:04" or "15:04:05")
// onto the given date in that date's location.
func ParseTimeOnDate(baseDate time.Time, timeStr string) (time.Time, error) {
	t, err := time.Parse("15:04", timeStr)
	if err != nil {
		t, err = time.Parse("15:04:05", timeStr)
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(baseDate.Year(), baseDate.Month(), baseDate.Day(), t.Hour(), t.Minute(), t.Second(), 0, baseDate.Location()), nil
}
