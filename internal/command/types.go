package command

import (
	"fmt"
	"time"
)

// JST is the fixed UTC+9 zone every message is interpreted in.
var JST = time.FixedZone("JST", 9*60*60)

// TimeZoneName is the IANA label attached to timed events sent to the calendar.
const TimeZoneName = "Asia/Tokyo"

// Moment normalizes t to the interpretation zone.
func Moment(t time.Time) time.Time {
	return t.In(JST)
}

// Kind identifies a Command variant. It doubles as a low-cardinality label
// for logs and metrics.
type Kind string

const (
	KindCreateEvent  Kind = "create_event"
	KindListEvents   Kind = "list_events"
	KindDeleteEvent  Kind = "delete_event"
	KindHelp         Kind = "help"
	KindDebug        Kind = "debug"
	KindUnrecognized Kind = "unrecognized"
)

// Command is the parsed form of one chat message. The concrete types are
// CreateEvent, ListEvents, DeleteEvent, Help, Debug and Unrecognized.
type Command interface {
	Kind() Kind
}

// Period is the range a ListEvents command covers.
type Period string

const (
	PeriodToday    Period = "today"
	PeriodWeek     Period = "week"
	PeriodNextWeek Period = "nextweek"
	PeriodMonth    Period = "month"
)

// RelativeDay is a date word resolved against the interpretation moment.
type RelativeDay int

const (
	// Absolute means the DateSpec carries an explicit year, month and day.
	Absolute RelativeDay = iota
	Today
	Tomorrow
)

// DateSpec is either an explicit calendar date or a relative day word.
type DateSpec struct {
	Relative RelativeDay
	Year     int
	Month    int
	Day      int
}

// Resolve returns the civil date it refers to at the moment now.
// Explicit dates are returned as written, even if they do not exist.
func (d DateSpec) Resolve(now time.Time) Date {
	now = Moment(now)
	switch d.Relative {
	case Today:
		return dateOf(now)
	case Tomorrow:
		return dateOf(now.AddDate(0, 0, 1))
	default:
		return Date{Year: d.Year, Month: d.Month, Day: d.Day}
	}
}

// Date is a civil date without a zone. It is not normalized, so 2/30 stays 2/30.
type Date struct {
	Year  int
	Month int
	Day   int
}

func dateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: int(m), Day: d}
}

// Valid reports whether the date exists in the Gregorian calendar.
func (d Date) Valid() bool {
	if d.Month < 1 || d.Month > 12 || d.Day < 1 {
		return false
	}
	return dateOf(d.At(0, 0)) == d
}

// At returns the instant hour:minute on the date in JST. Out-of-range values
// are normalized by time.Date.
func (d Date) At(hour, minute int) time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, hour, minute, 0, 0, JST)
}

// AddDays moves the date by n days. Invalid dates only shift the day field.
func (d Date) AddDays(n int) Date {
	if !d.Valid() {
		return Date{Year: d.Year, Month: d.Month, Day: d.Day + n}
	}
	return dateOf(d.At(0, 0).AddDate(0, 0, n))
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Short formats the date as MM/DD.
func (d Date) Short() string {
	return fmt.Sprintf("%02d/%02d", d.Month, d.Day)
}

// TimeKind selects the shape of a TimeSpec.
type TimeKind int

const (
	AllDay TimeKind = iota + 1
	Range
	PointDuration
)

// DefaultDurationMinutes is used when a start time has no explicit length.
const DefaultDurationMinutes = 60

// MaxDurationMinutes is the longest explicit length the parser accepts
// (366 days). Longer values are not read as a time.
const MaxDurationMinutes = 366 * 24 * 60

// TimeSpec describes when on its date an event happens.
type TimeSpec struct {
	Kind        TimeKind
	StartHour   int
	StartMinute int
	// EndHour and EndMinute are set for Range.
	EndHour   int
	EndMinute int
	// DurationMinutes is set for PointDuration, at most MaxDurationMinutes.
	DurationMinutes int
}

// CreateEvent registers a new event.
type CreateEvent struct {
	Date  DateSpec
	Time  TimeSpec
	Title string
}

// ListEvents lists the events of a period.
type ListEvents struct {
	Period Period
}

// DeleteEvent removes the first event in the hour starting at Hour on Date
// whose title contains Title.
type DeleteEvent struct {
	Date  DateSpec
	Hour  int
	Title string
}

// Help asks for the usage text.
type Help struct{}

// Debug asks for the calendars visible to the backend credential.
type Debug struct{}

// Unrecognized carries text no rule matched.
type Unrecognized struct {
	Text string
}

func (CreateEvent) Kind() Kind  { return KindCreateEvent }
func (ListEvents) Kind() Kind   { return KindListEvents }
func (DeleteEvent) Kind() Kind  { return KindDeleteEvent }
func (Help) Kind() Kind         { return KindHelp }
func (Debug) Kind() Kind        { return KindDebug }
func (Unrecognized) Kind() Kind { return KindUnrecognized }
