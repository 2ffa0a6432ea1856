// Package digest pushes the day's agenda to LINE on a cron schedule.
//
// Each run asks the assistant for 今日の予定 and pushes the reply to every
// configured destination. Schedules are evaluated in JST.
package digest
