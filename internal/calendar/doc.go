// Package calendar provides a client for the Google Calendar API.
//
// The client covers the four operations the bot needs: listing single events
// in a time window, inserting an event, deleting an event and listing the
// calendars the credential can see. Every call takes a context, is traced as
// google.calendar.<op> and recorded in the google_api_operations_total metric.
//
// Failures are returned as *Error, whose Class tells callers which category of
// failure occurred (auth, quota, invalid, not_found, unavailable) without
// inspecting HTTP status codes themselves.
//
// Example usage:
//
//	client, err := calendar.NewServiceAccountClient(ctx, keyJSON, metrics)
//	if err != nil {
//	    return err
//	}
//	events, err := client.ListEvents(ctx, calendarID, dayStart, dayEnd)
package calendar
