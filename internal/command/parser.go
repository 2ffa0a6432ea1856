package command

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const (
	deleteKeyword = "削除"
	allDayMarker  = "終日"
	wordToday     = "今日"
	wordTomorrow  = "明日"
)

var periodPhrases = map[string]Period{
	"今日の予定": PeriodToday,
	"今週の予定": PeriodWeek,
	"来週の予定": PeriodNextWeek,
	"今月の予定": PeriodMonth,
}

var (
	helpKeywords  = []string{"help", "ヘルプ", "使い方", "?", "？"}
	debugKeywords = []string{"debug", "デバッグ"}
)

var (
	ymdPrefix   = regexp.MustCompile(`^(\d{4})[-/](\d{1,2})[-/](\d{1,2})`)
	mdPrefix    = regexp.MustCompile(`^(\d{1,2})[-/](\d{1,2})`)
	kanjiPrefix = regexp.MustCompile(`^(\d{1,2})月(\d{1,2})日`)

	allDayShape = shape(`^_*` + allDayMarker + `_*(.*)$`)
	rangeShape  = shape(`^_*(\d{1,2}):(\d{2})_*[-〜~]_*(\d{1,2}):(\d{2})_*(.*)$`)
	pointShape  = shape(`^_*(\d{1,2})(?::(\d{2}))?時?_*(?:(\d+)分)?_*(.*)$`)

	// The hour must be closed by 時 or whitespace so "10時" alone is not
	// read as hour 1 with title "0時".
	deleteTail = shape(`^_*(\d{1,2})(?::\d{2})?(?:時_*|_+)(.+)$`)
)

// space matches ASCII whitespace and the ideographic space IMEs insert.
const space = `[\s\x{3000}]`

// shape compiles a pattern in which _ stands for one space character.
func shape(pattern string) *regexp.Regexp {
	return regexp.MustCompile(`(?s)` + strings.ReplaceAll(pattern, "_", space))
}

// rule is one entry of the precedence table. A rule that claims the text
// returns ok=true, even when the command it returns is Unrecognized.
type rule struct {
	name  string
	match func(text string, now time.Time) (Command, bool)
}

// rules is evaluated top to bottom; the first rule that claims the text wins.
var rules = []rule{
	{name: "period", match: matchPeriod},
	{name: "delete", match: matchDelete},
	{name: "keyword", match: matchKeyword},
	{name: "explicit_date", match: matchExplicitDate},
	{name: "relative_day", match: matchRelativeDay},
}

// Parse maps a chat message to exactly one Command. now is the interpretation
// moment; it is normalized to JST. Parse never fails: text no rule claims
// becomes Unrecognized.
func Parse(text string, now time.Time) Command {
	text = strings.TrimSpace(text)
	now = Moment(now)
	for _, r := range rules {
		if cmd, ok := r.match(text, now); ok {
			return cmd
		}
	}
	return Unrecognized{Text: text}
}

func matchPeriod(text string, _ time.Time) (Command, bool) {
	p, ok := periodPhrases[text]
	if !ok {
		return nil, false
	}
	return ListEvents{Period: p}, true
}

func matchDelete(text string, now time.Time) (Command, bool) {
	rest, ok := strings.CutPrefix(text, deleteKeyword)
	if !ok {
		return nil, false
	}
	miss := Unrecognized{Text: text}

	date, rest, ok := parseDate(strings.TrimLeftFunc(rest, unicode.IsSpace), now)
	if !ok {
		return miss, true
	}
	m := deleteTail.FindStringSubmatch(rest)
	if m == nil {
		return miss, true
	}
	hour, ok := atoi(m[1])
	if !ok {
		return miss, true
	}
	return DeleteEvent{Date: date, Hour: hour, Title: m[2]}, true
}

func matchKeyword(text string, _ time.Time) (Command, bool) {
	for _, kw := range helpKeywords {
		if strings.EqualFold(text, kw) {
			return Help{}, true
		}
	}
	for _, kw := range debugKeywords {
		if strings.EqualFold(text, kw) {
			return Debug{}, true
		}
	}
	return nil, false
}

func matchExplicitDate(text string, now time.Time) (Command, bool) {
	date, rest, ok := parseExplicitDate(text, now)
	if !ok {
		return nil, false
	}
	spec, title, ok := parseTimeShape(rest)
	if !ok {
		return Unrecognized{Text: text}, true
	}
	return CreateEvent{Date: date, Time: spec, Title: title}, true
}

func matchRelativeDay(text string, now time.Time) (Command, bool) {
	date, rest, ok := parseRelativeDate(text)
	if !ok {
		return nil, false
	}
	spec, title, ok := parseTimeShape(rest)
	if !ok {
		return nil, false
	}
	return CreateEvent{Date: date, Time: spec, Title: title}, true
}

// parseDate consumes a relative or explicit date at the start of s.
func parseDate(s string, now time.Time) (DateSpec, string, bool) {
	if d, rest, ok := parseRelativeDate(s); ok {
		return d, rest, true
	}
	return parseExplicitDate(s, now)
}

func parseRelativeDate(s string) (DateSpec, string, bool) {
	if rest, ok := strings.CutPrefix(s, wordToday); ok {
		return DateSpec{Relative: Today}, rest, true
	}
	if rest, ok := strings.CutPrefix(s, wordTomorrow); ok {
		return DateSpec{Relative: Tomorrow}, rest, true
	}
	return DateSpec{}, s, false
}

// parseExplicitDate consumes YYYY-M-D, M-D (either with / or -) or M月D日.
// A missing year is taken from now; past dates do not roll over.
func parseExplicitDate(s string, now time.Time) (DateSpec, string, bool) {
	if m := ymdPrefix.FindStringSubmatch(s); m != nil {
		y, ok1 := atoi(m[1])
		mo, ok2 := atoi(m[2])
		d, ok3 := atoi(m[3])
		if ok1 && ok2 && ok3 {
			return DateSpec{Year: y, Month: mo, Day: d}, s[len(m[0]):], true
		}
	}
	for _, re := range []*regexp.Regexp{mdPrefix, kanjiPrefix} {
		m := re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		mo, ok1 := atoi(m[1])
		d, ok2 := atoi(m[2])
		if ok1 && ok2 {
			return DateSpec{Year: now.Year(), Month: mo, Day: d}, s[len(m[0]):], true
		}
	}
	return DateSpec{}, s, false
}

// parseTimeShape tries all-day, then range, then start plus optional duration.
// The permissive start shape goes last so it cannot swallow the other two.
func parseTimeShape(s string) (TimeSpec, string, bool) {
	if m := allDayShape.FindStringSubmatch(s); m != nil {
		return TimeSpec{Kind: AllDay}, m[1], true
	}

	if m := rangeShape.FindStringSubmatch(s); m != nil {
		sh, ok1 := atoi(m[1])
		sm, ok2 := atoi(m[2])
		eh, ok3 := atoi(m[3])
		em, ok4 := atoi(m[4])
		if ok1 && ok2 && ok3 && ok4 {
			return TimeSpec{Kind: Range, StartHour: sh, StartMinute: sm, EndHour: eh, EndMinute: em}, m[5], true
		}
	}

	if m := pointShape.FindStringSubmatch(s); m != nil {
		hour, ok := atoi(m[1])
		if !ok {
			return TimeSpec{}, "", false
		}
		minute := 0
		if m[2] != "" {
			if minute, ok = atoi(m[2]); !ok {
				return TimeSpec{}, "", false
			}
		}
		duration := DefaultDurationMinutes
		if m[3] != "" {
			if duration, ok = atoi(m[3]); !ok || duration > MaxDurationMinutes {
				return TimeSpec{}, "", false
			}
		}
		return TimeSpec{Kind: PointDuration, StartHour: hour, StartMinute: minute, DurationMinutes: duration}, m[4], true
	}

	return TimeSpec{}, "", false
}

func atoi(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
