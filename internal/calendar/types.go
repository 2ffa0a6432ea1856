package calendar

// EventTime is either a date-only value (all-day events) or a date-time with
// an optional time zone label. Values are kept as the strings the API uses so
// an unnormalized request reaches the backend unchanged.
type EventTime struct {
	// Date is YYYY-MM-DD for all-day events.
	Date string
	// DateTime is RFC3339 for timed events.
	DateTime string
	// TimeZone is an IANA zone name such as Asia/Tokyo.
	TimeZone string
}

// AllDay reports whether t is a date-only value.
func (t EventTime) AllDay() bool {
	return t.DateTime == "" && t.Date != ""
}

// EventInput represents the input for creating a calendar event
type EventInput struct {
	Summary string
	Start   EventTime
	End     EventTime
}

// Event represents a calendar event as returned by the backend.
// Summary is empty for untitled events.
type Event struct {
	ID       string
	Summary  string
	Start    EventTime
	End      EventTime
	HTMLLink string
}

// CalendarInfo represents information about a calendar
type CalendarInfo struct {
	ID         string
	Summary    string
	TimeZone   string
	Primary    bool
	AccessRole string // "owner", "writer", "reader", "freeBusyReader"
}
