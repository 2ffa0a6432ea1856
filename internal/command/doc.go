// Package command parses Japanese chat messages into calendar commands.
//
// Parse evaluates an ordered rule table against the trimmed text and returns
// the command built by the first rule that claims it:
//
//  1. exact period phrases (今日の予定, 今週の予定, 来週の予定, 今月の予定)
//  2. the 削除 prefix
//  3. help and debug keywords, compared case-insensitively
//  4. an explicit date (2025-10-03, 10/3, 10月3日) followed by a time shape
//  5. 今日 or 明日 followed by a time shape
//
// A time shape is 終日, a HH:MM-HH:MM range, or a start hour with optional
// minutes and an optional 分 duration. Whatever follows is the title.
//
// Parsing never fails. Text no rule claims, and explicit-date text whose
// remainder is not a time shape, becomes Unrecognized. Clock values are not
// range-checked here; 25時 is parsed as hour 25.
//
// All relative words are interpreted in JST.
package command
