package command

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// now is Wednesday 2025-10-01 09:00 JST.
var now = time.Date(2025, 10, 1, 9, 0, 0, 0, JST)

func explicit(y, m, d int) DateSpec {
	return DateSpec{Year: y, Month: m, Day: d}
}

func point(h, m, dur int) TimeSpec {
	return TimeSpec{Kind: PointDuration, StartHour: h, StartMinute: m, DurationMinutes: dur}
}

func span(sh, sm, eh, em int) TimeSpec {
	return TimeSpec{Kind: Range, StartHour: sh, StartMinute: sm, EndHour: eh, EndMinute: em}
}

var allDay = TimeSpec{Kind: AllDay}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Command
	}{
		// period phrases
		{"today list", "今日の予定", ListEvents{Period: PeriodToday}},
		{"week list", "今週の予定", ListEvents{Period: PeriodWeek}},
		{"next week list", "来週の予定", ListEvents{Period: PeriodNextWeek}},
		{"month list", "今月の予定", ListEvents{Period: PeriodMonth}},
		{"list is trimmed", "  今週の予定 \n", ListEvents{Period: PeriodWeek}},
		{"list needs exact phrase", "今日の予定です", Unrecognized{Text: "今日の予定です"}},

		// delete
		{"delete relative", "削除 明日10時 会議", DeleteEvent{Date: DateSpec{Relative: Tomorrow}, Hour: 10, Title: "会議"}},
		{"delete explicit", "削除 2025-10-03 14時 面談", DeleteEvent{Date: explicit(2025, 10, 3), Hour: 14, Title: "面談"}},
		{"delete kanji date", "削除 10月3日 9時 歯医者", DeleteEvent{Date: explicit(2025, 10, 3), Hour: 9, Title: "歯医者"}},
		{"delete ignores minutes", "削除 今日10:30 打合せ", DeleteEvent{Date: DateSpec{Relative: Today}, Hour: 10, Title: "打合せ"}},
		{"delete without space", "削除明日10時 会議", DeleteEvent{Date: DateSpec{Relative: Tomorrow}, Hour: 10, Title: "会議"}},
		{"delete full-width space", "削除　明日10時 会議", DeleteEvent{Date: DateSpec{Relative: Tomorrow}, Hour: 10, Title: "会議"}},
		{"delete beats period phrase title", "削除 今日10時 今日の予定", DeleteEvent{Date: DateSpec{Relative: Today}, Hour: 10, Title: "今日の予定"}},
		{"delete without date", "削除 会議", Unrecognized{Text: "削除 会議"}},
		{"delete without title", "削除 明日10時", Unrecognized{Text: "削除 明日10時"}},
		{"delete keyword alone", "削除", Unrecognized{Text: "削除"}},

		// keywords
		{"help", "help", Help{}},
		{"help upper", "HELP", Help{}},
		{"help mixed", "Help", Help{}},
		{"help japanese", "ヘルプ", Help{}},
		{"usage", "使い方", Help{}},
		{"question mark", "?", Help{}},
		{"full-width question mark", "？", Help{}},
		{"debug", "debug", Debug{}},
		{"debug upper", "DEBUG", Debug{}},
		{"debug japanese", "デバッグ", Debug{}},
		{"help needs exact match", "help me", Unrecognized{Text: "help me"}},

		// explicit dates
		{"ymd range", "2025-10-03 10:00-11:30 面談", CreateEvent{Date: explicit(2025, 10, 3), Time: span(10, 0, 11, 30), Title: "面談"}},
		{"ymd slashes wave dash", "2025/10/3 10:00〜11:30 面談", CreateEvent{Date: explicit(2025, 10, 3), Time: span(10, 0, 11, 30), Title: "面談"}},
		{"md tilde", "10/3 10:00~11:30 面談", CreateEvent{Date: explicit(2025, 10, 3), Time: span(10, 0, 11, 30), Title: "面談"}},
		{"md all day", "10-3 終日 休暇", CreateEvent{Date: explicit(2025, 10, 3), Time: allDay, Title: "休暇"}},
		{"kanji point", "10月3日 14時 歯医者", CreateEvent{Date: explicit(2025, 10, 3), Time: point(14, 0, 60), Title: "歯医者"}},
		{"kanji point with duration", "10月3日14:00 120分 研修", CreateEvent{Date: explicit(2025, 10, 3), Time: point(14, 0, 120), Title: "研修"}},
		{"past date keeps year", "1/5 9時 新年会", CreateEvent{Date: explicit(2025, 1, 5), Time: point(9, 0, 60), Title: "新年会"}},
		{"impossible date kept", "2/30 10時 幻", CreateEvent{Date: explicit(2025, 2, 30), Time: point(10, 0, 60), Title: "幻"}},
		{"all day empty title", "12/31 終日", CreateEvent{Date: explicit(2025, 12, 31), Time: allDay, Title: ""}},
		{"date without time", "10/3 会議", Unrecognized{Text: "10/3 会議"}},
		{"date alone", "2025-10-03", Unrecognized{Text: "2025-10-03"}},

		// relative days
		{"tomorrow point", "明日10時 会議", CreateEvent{Date: DateSpec{Relative: Tomorrow}, Time: point(10, 0, 60), Title: "会議"}},
		{"today minutes and duration", "今日15:30 90分 打合せ", CreateEvent{Date: DateSpec{Relative: Today}, Time: point(15, 30, 90), Title: "打合せ"}},
		{"minutes token is a duration", "今日10時30分 打合せ", CreateEvent{Date: DateSpec{Relative: Today}, Time: point(10, 0, 30), Title: "打合せ"}},
		{"today range", "今日10:00-11:00 MTG", CreateEvent{Date: DateSpec{Relative: Today}, Time: span(10, 0, 11, 0), Title: "MTG"}},
		{"today all day", "今日 終日 休み", CreateEvent{Date: DateSpec{Relative: Today}, Time: allDay, Title: "休み"}},
		{"title keeps inner whitespace", "明日10時 会議 with  A社", CreateEvent{Date: DateSpec{Relative: Tomorrow}, Time: point(10, 0, 60), Title: "会議 with  A社"}},
		{"empty title", "明日10時", CreateEvent{Date: DateSpec{Relative: Tomorrow}, Time: point(10, 0, 60), Title: ""}},
		{"hour out of range", "今日25時 夜更かし", CreateEvent{Date: DateSpec{Relative: Today}, Time: point(25, 0, 60), Title: "夜更かし"}},
		{"relative without time", "明日 会議", Unrecognized{Text: "明日 会議"}},
		{"longest duration", "今日10時 527040分 出向", CreateEvent{Date: DateSpec{Relative: Today}, Time: point(10, 0, MaxDurationMinutes), Title: "出向"}},
		{"duration past limit", "今日10時 527041分 x", Unrecognized{Text: "今日10時 527041分 x"}},
		{"duration past time.Duration", "2025-10-03 10時 9223372036854775807分 x", Unrecognized{Text: "2025-10-03 10時 9223372036854775807分 x"}},
		{"duration overflow", "今日10時 99999999999999999999分 x", Unrecognized{Text: "今日10時 99999999999999999999分 x"}},

		// ideographic space
		{"ideographic space after relative day", "今日\u300010時 会議", CreateEvent{Date: DateSpec{Relative: Today}, Time: point(10, 0, 60), Title: "会議"}},
		{"ideographic space before title", "明日10時\u3000会議", CreateEvent{Date: DateSpec{Relative: Tomorrow}, Time: point(10, 0, 60), Title: "会議"}},
		{"ideographic space after explicit date", "10/3\u3000終日\u3000休暇", CreateEvent{Date: explicit(2025, 10, 3), Time: allDay, Title: "休暇"}},
		{"ideographic space around range", "今日\u300010:00\u3000-\u300011:00\u3000MTG", CreateEvent{Date: DateSpec{Relative: Today}, Time: span(10, 0, 11, 0), Title: "MTG"}},
		{"ideographic space before duration", "今日10時\u300090分\u3000打合せ", CreateEvent{Date: DateSpec{Relative: Today}, Time: point(10, 0, 90), Title: "打合せ"}},
		{"ideographic space in delete tail", "削除 明日10時\u3000会議", DeleteEvent{Date: DateSpec{Relative: Tomorrow}, Hour: 10, Title: "会議"}},
		{"ideographic space closes delete hour", "削除\u3000今日9\u3000朝会", DeleteEvent{Date: DateSpec{Relative: Today}, Hour: 9, Title: "朝会"}},

		// chit-chat
		{"greeting", "こんにちは", Unrecognized{Text: "こんにちは"}},
		{"thanks", "  ありがとう！ ", Unrecognized{Text: "ありがとう！"}},
		{"empty", "", Unrecognized{Text: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.text, now))
		})
	}
}

func TestParse_PeriodPhrasesWinOverRelativeDay(t *testing.T) {
	for phrase, period := range periodPhrases {
		got := Parse(phrase, now)
		assert.Equal(t, ListEvents{Period: period}, got, phrase)
	}
}

func TestParse_ExplicitDateNeverPartial(t *testing.T) {
	inputs := []string{
		"10/3",
		"10/3 ",
		"10/3 会議",
		"2025-10-03 午後 会議",
		"10月3日 ランチ",
	}
	for _, text := range inputs {
		got := Parse(text, now)
		_, isCreate := got.(CreateEvent)
		assert.False(t, isCreate, "%q parsed as %#v", text, got)
		assert.Equal(t, KindUnrecognized, got.Kind(), text)
	}
}

func TestParse_Idempotent(t *testing.T) {
	inputs := []string{
		"今日の予定",
		"削除 明日10時 会議",
		"2025-10-03 10:00-11:30 面談",
		"明日10時 会議",
		"ヘルプ",
		"こんにちは",
	}
	for _, text := range inputs {
		assert.Equal(t, Parse(text, now), Parse(text, now), text)
	}
}

func TestParse_YearFromJSTMoment(t *testing.T) {
	// 2025-12-31 16:00 UTC is already 2026-01-01 in JST.
	utc := time.Date(2025, 12, 31, 16, 0, 0, 0, time.UTC)

	got := Parse("3/1 9時 会議", utc)

	assert.Equal(t, CreateEvent{Date: explicit(2026, 3, 1), Time: point(9, 0, 60), Title: "会議"}, got)
}

func TestKinds(t *testing.T) {
	tests := []struct {
		cmd  Command
		want Kind
	}{
		{CreateEvent{}, KindCreateEvent},
		{ListEvents{}, KindListEvents},
		{DeleteEvent{}, KindDeleteEvent},
		{Help{}, KindHelp},
		{Debug{}, KindDebug},
		{Unrecognized{}, KindUnrecognized},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.cmd.Kind())
	}
}
