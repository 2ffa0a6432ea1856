package google

import (
	calendar "google.golang.org/api/calendar/v3"
)

// CalendarScopes are the OAuth scopes requested for the service account.
//
// The bot creates and deletes events, so read-only access is not enough.
var CalendarScopes = []string{
	calendar.CalendarScope,
}
