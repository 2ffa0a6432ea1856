package assistant

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/calbot/internal/command"
)

func TestExplain(t *testing.T) {
	ten := 10

	tests := []struct {
		name string
		text string
		want Explanation
	}{
		{
			name: "timed create",
			text: "明日10時 会議",
			want: Explanation{
				Kind:  "create_event",
				Date:  "2025-10-02",
				Title: "会議",
				Event: &ExplainedEvent{
					Summary:  "会議",
					Start:    "2025-10-02T10:00:00+09:00",
					End:      "2025-10-02T11:00:00+09:00",
					TimeZone: "Asia/Tokyo",
				},
			},
		},
		{
			name: "all-day create",
			text: "12/31 終日",
			want: Explanation{
				Kind: "create_event",
				Date: "2025-12-31",
				Event: &ExplainedEvent{
					Start:  "2025-12-31",
					End:    "2026-01-01",
					AllDay: true,
				},
			},
		},
		{
			name: "impossible create is passed raw",
			text: "2/30 10時 幻",
			want: Explanation{
				Kind:  "create_event",
				Date:  "2025-02-30",
				Title: "幻",
				Event: &ExplainedEvent{
					Summary:  "幻",
					Start:    "2025-02-30T10:00:00+09:00",
					End:      "2025-02-30T11:00:00+09:00",
					TimeZone: "Asia/Tokyo",
				},
			},
		},
		{
			name: "week list",
			text: "今週の予定",
			want: Explanation{
				Kind:   "list_events",
				Period: "week",
				Window: &ExplainedWindow{
					Start: "2025-09-29T00:00:00+09:00",
					End:   "2025-10-06T00:00:00+09:00",
				},
			},
		},
		{
			name: "delete",
			text: "削除 明日10時 会議",
			want: Explanation{Kind: "delete_event", Date: "2025-10-02", Hour: &ten, Title: "会議"},
		},
		{
			name: "help",
			text: "ヘルプ",
			want: Explanation{Kind: "help"},
		},
		{
			name: "unrecognized",
			text: "こんにちは",
			want: Explanation{Kind: "unrecognized", Text: "こんにちは"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.want.Now = "2025-10-01T09:00:00+09:00"
			got := Explain(command.Parse(tt.text, wednesday), wednesday)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExplain_JSON(t *testing.T) {
	got, err := json.Marshal(Explain(command.Help{}, wednesday))
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"help","now":"2025-10-01T09:00:00+09:00"}`, string(got))

	zero := 0
	got, err = json.Marshal(Explain(command.DeleteEvent{Date: command.DateSpec{Relative: command.Today}, Hour: zero, Title: "夜勤"}, wednesday))
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"delete_event","now":"2025-10-01T09:00:00+09:00","date":"2025-10-01","hour":0,"title":"夜勤"}`, string(got))
}
