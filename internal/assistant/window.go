package assistant

import (
	"fmt"
	"time"

	"github.com/teemow/calbot/internal/command"
)

// Window is the [Start, End) range a period listing covers.
type Window struct {
	Start time.Time
	End   time.Time
}

// WindowFor returns the listing window for period anchored at now (JST).
//
// today ends at 23:59:59 rather than the next midnight; weeks start on Monday.
func WindowFor(period command.Period, now time.Time) (Window, error) {
	now = command.Moment(now)
	y, m, d := now.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, command.JST)

	switch period {
	case command.PeriodToday:
		return Window{Start: midnight, End: time.Date(y, m, d, 23, 59, 59, 0, command.JST)}, nil
	case command.PeriodWeek:
		monday := mondayOf(midnight)
		return Window{Start: monday, End: monday.AddDate(0, 0, 7)}, nil
	case command.PeriodNextWeek:
		monday := mondayOf(midnight).AddDate(0, 0, 7)
		return Window{Start: monday, End: monday.AddDate(0, 0, 7)}, nil
	case command.PeriodMonth:
		first := time.Date(y, m, 1, 0, 0, 0, 0, command.JST)
		return Window{Start: first, End: first.AddDate(0, 1, 0)}, nil
	default:
		return Window{}, fmt.Errorf("unknown period %q", period)
	}
}

// mondayOf returns the Monday at or before day.
func mondayOf(day time.Time) time.Time {
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
