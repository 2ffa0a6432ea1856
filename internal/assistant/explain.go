package assistant

import (
	"time"

	"github.com/teemow/calbot/internal/command"
)

// Explanation describes what a parsed command would do, without touching the
// backend. It is what the parse subcommand and the parse tool print.
type Explanation struct {
	Kind   string `json:"kind"`
	Now    string `json:"now"`
	Date   string `json:"date,omitempty"`
	Hour   *int   `json:"hour,omitempty"`
	Title  string `json:"title,omitempty"`
	Period string `json:"period,omitempty"`
	Text   string `json:"text,omitempty"`

	// Event is the insert request a create_event command sends.
	Event *ExplainedEvent `json:"event,omitempty"`
	// Window is the range a list_events command queries.
	Window *ExplainedWindow `json:"window,omitempty"`
}

// ExplainedEvent is the wire view of an insert request.
type ExplainedEvent struct {
	Summary  string `json:"summary"`
	Start    string `json:"start"`
	End      string `json:"end"`
	AllDay   bool   `json:"allDay"`
	TimeZone string `json:"timeZone,omitempty"`
}

// ExplainedWindow is a listing range in RFC3339.
type ExplainedWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Explain resolves cmd at now.
func Explain(cmd command.Command, now time.Time) Explanation {
	now = command.Moment(now)
	e := Explanation{
		Kind: string(cmd.Kind()),
		Now:  now.Format(time.RFC3339),
	}

	switch c := cmd.(type) {
	case command.CreateEvent:
		e.Date = c.Date.Resolve(now).String()
		e.Title = c.Title
		input := EventInput(c, now)
		ev := &ExplainedEvent{
			Summary:  input.Summary,
			AllDay:   input.Start.AllDay(),
			TimeZone: input.Start.TimeZone,
		}
		if ev.AllDay {
			ev.Start, ev.End = input.Start.Date, input.End.Date
		} else {
			ev.Start, ev.End = input.Start.DateTime, input.End.DateTime
		}
		e.Event = ev
	case command.ListEvents:
		e.Period = string(c.Period)
		if w, err := WindowFor(c.Period, now); err == nil {
			e.Window = &ExplainedWindow{
				Start: w.Start.Format(time.RFC3339),
				End:   w.End.Format(time.RFC3339),
			}
		}
	case command.DeleteEvent:
		hour := c.Hour
		e.Date = c.Date.Resolve(now).String()
		e.Hour = &hour
		e.Title = c.Title
	case command.Unrecognized:
		e.Text = c.Text
	}
	return e
}
