package assistant

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/calbot/internal/command"
)

func jstDate(y int, m time.Month, d, h, min, s int) time.Time {
	return time.Date(y, m, d, h, min, s, 0, command.JST)
}

func TestWindowFor(t *testing.T) {
	tests := []struct {
		name   string
		period command.Period
		now    time.Time
		want   Window
	}{
		{
			name:   "today",
			period: command.PeriodToday,
			now:    jstDate(2025, 10, 1, 9, 0, 0),
			want:   Window{jstDate(2025, 10, 1, 0, 0, 0), jstDate(2025, 10, 1, 23, 59, 59)},
		},
		{
			name:   "week from wednesday",
			period: command.PeriodWeek,
			now:    jstDate(2025, 10, 1, 9, 0, 0),
			want:   Window{jstDate(2025, 9, 29, 0, 0, 0), jstDate(2025, 10, 6, 0, 0, 0)},
		},
		{
			name:   "week from monday",
			period: command.PeriodWeek,
			now:    jstDate(2025, 9, 29, 0, 0, 0),
			want:   Window{jstDate(2025, 9, 29, 0, 0, 0), jstDate(2025, 10, 6, 0, 0, 0)},
		},
		{
			name:   "week from sunday",
			period: command.PeriodWeek,
			now:    jstDate(2025, 10, 5, 23, 59, 0),
			want:   Window{jstDate(2025, 9, 29, 0, 0, 0), jstDate(2025, 10, 6, 0, 0, 0)},
		},
		{
			name:   "next week",
			period: command.PeriodNextWeek,
			now:    jstDate(2025, 10, 1, 9, 0, 0),
			want:   Window{jstDate(2025, 10, 6, 0, 0, 0), jstDate(2025, 10, 13, 0, 0, 0)},
		},
		{
			name:   "month",
			period: command.PeriodMonth,
			now:    jstDate(2025, 10, 15, 12, 0, 0),
			want:   Window{jstDate(2025, 10, 1, 0, 0, 0), jstDate(2025, 11, 1, 0, 0, 0)},
		},
		{
			name:   "december rolls into next year",
			period: command.PeriodMonth,
			now:    jstDate(2025, 12, 31, 23, 0, 0),
			want:   Window{jstDate(2025, 12, 1, 0, 0, 0), jstDate(2026, 1, 1, 0, 0, 0)},
		},
		{
			name:   "anchored in JST even when now is UTC",
			period: command.PeriodToday,
			now:    time.Date(2025, 9, 30, 16, 30, 0, 0, time.UTC), // 01:30 JST on 10/1
			want:   Window{jstDate(2025, 10, 1, 0, 0, 0), jstDate(2025, 10, 1, 23, 59, 59)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WindowFor(tt.period, tt.now)
			require.NoError(t, err)
			assert.True(t, tt.want.Start.Equal(got.Start), "start = %s, want %s", got.Start, tt.want.Start)
			assert.True(t, tt.want.End.Equal(got.End), "end = %s, want %s", got.End, tt.want.End)
		})
	}
}

func TestWindowFor_WeekIsSevenDays(t *testing.T) {
	for d := 0; d < 14; d++ {
		now := jstDate(2025, 10, 1, 12, 0, 0).AddDate(0, 0, d)
		w, err := WindowFor(command.PeriodWeek, now)
		require.NoError(t, err)
		assert.Equal(t, time.Monday, w.Start.Weekday())
		assert.Equal(t, 7*24*time.Hour, w.End.Sub(w.Start))
		assert.False(t, now.Before(w.Start))
		assert.True(t, now.Before(w.End))
	}
}

func TestWindowFor_UnknownPeriod(t *testing.T) {
	_, err := WindowFor("year", jstDate(2025, 10, 1, 0, 0, 0))
	assert.Error(t, err)
}
