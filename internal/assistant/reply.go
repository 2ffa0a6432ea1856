package assistant

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/teemow/calbot/internal/calendar"
	"github.com/teemow/calbot/internal/command"
)

const untitled = "（無題）"

const helpReply = `使い方：
【登録】
明日10時 会議
今日15:30 90分 打合せ
10/3 10:00-11:30 面談
2025-10-03 終日 休暇
【一覧】
今日の予定 / 今週の予定 / 来週の予定 / 今月の予定
【削除】
削除 明日10時 会議
【その他】
ヘルプ / デバッグ`

const unexpectedErrorReply = "予期しないエラーが発生しました。時間をおいて再度お試しください。"

var periodLabels = map[command.Period]string{
	command.PeriodToday:    "今日の予定",
	command.PeriodWeek:     "今週の予定",
	command.PeriodNextWeek: "来週の予定",
	command.PeriodMonth:    "今月の予定",
}

var classLabels = map[calendar.Class]string{
	calendar.ClassAuth:        "認証エラー",
	calendar.ClassQuota:       "利用制限",
	calendar.ClassInvalid:     "入力内容の不備",
	calendar.ClassNotFound:    "対象が見つかりません",
	calendar.ClassUnavailable: "通信エラー",
}

// ErrorReply converts an Execute error to the text sent to the user.
func ErrorReply(err error) string {
	var ce *calendar.Error
	if errors.As(err, &ce) {
		label, ok := classLabels[ce.Class]
		if !ok {
			label = classLabels[calendar.ClassUnavailable]
		}
		return fmt.Sprintf("カレンダーの操作に失敗しました（%s）。", label)
	}
	return unexpectedErrorReply
}

func unrecognizedReply(text string) string {
	return fmt.Sprintf("受け取りました: %s\n使い方は「ヘルプ」と送ってください。", text)
}

func createdReply(date command.Date, start, end clock, title string) string {
	return fmt.Sprintf("%s %s〜%s『%s』を登録しました。", date.Short(), start, end, title)
}

func createdAllDayReply(date command.Date, title string) string {
	return fmt.Sprintf("%s 終日『%s』を登録しました。", date.Short(), title)
}

func deletedReply(date command.Date, ev calendar.Event) string {
	when := eventWhen(ev, "15:04")
	if ev.Start.AllDay() {
		when = "終日"
	}
	return fmt.Sprintf("%s %s『%s』を削除しました。", date.Short(), when, ev.Summary)
}

func notFoundReply(date command.Date, hour int, title string) string {
	return fmt.Sprintf("%s %02d時台に『%s』を含む予定が見つかりませんでした。", date.Short(), hour, title)
}

func listReply(period command.Period, events []calendar.Event) string {
	label := periodLabels[period]
	if len(events) == 0 {
		return label + "はありません。"
	}

	layout := "01/02 15:04"
	if period == command.PeriodToday {
		layout = "15:04"
	}

	var b strings.Builder
	b.WriteString(label + "：")
	for _, ev := range events {
		b.WriteString("\n- ")
		b.WriteString(eventWhen(ev, layout))
		b.WriteString(" ")
		b.WriteString(eventTitle(ev))
	}
	return b.String()
}

// eventWhen renders the start of ev. All-day events show their raw date and
// unparseable date-times are shown as received.
func eventWhen(ev calendar.Event, layout string) string {
	if ev.Start.DateTime == "" {
		return ev.Start.Date
	}
	if t, ok := startTime(ev); ok {
		return t.Format(layout)
	}
	return ev.Start.DateTime
}

func startTime(ev calendar.Event) (time.Time, bool) {
	if ev.Start.DateTime == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, ev.Start.DateTime)
	if err != nil {
		return time.Time{}, false
	}
	return command.Moment(t), true
}

func eventTitle(ev calendar.Event) string {
	if ev.Summary == "" {
		return untitled
	}
	return ev.Summary
}

func debugReply(calendarID string, cals []calendar.CalendarInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "登録先カレンダー：%s\n", calendarID)
	if len(cals) == 0 {
		b.WriteString("参照できるカレンダーがありません。")
		return b.String()
	}
	b.WriteString("参照できるカレンダー：")
	for _, c := range cals {
		fmt.Fprintf(&b, "\n- %s（%s）", c.ID, c.Summary)
	}
	return b.String()
}
