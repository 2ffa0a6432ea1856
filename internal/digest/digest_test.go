package digest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/calbot/internal/assistant"
	"github.com/teemow/calbot/internal/command"
)

type fakeDispatcher struct {
	messages []assistant.Message
}

func (f *fakeDispatcher) Handle(_ context.Context, msg assistant.Message) string {
	f.messages = append(f.messages, msg)
	return "今日の予定：\n- 10:00 会議"
}

type push struct {
	to   string
	text string
}

type fakePusher struct {
	pushes []push
	failTo map[string]bool
}

func (f *fakePusher) Push(_ context.Context, to, text string) error {
	f.pushes = append(f.pushes, push{to, text})
	if f.failTo[to] {
		return errors.New("push to " + to + " rejected")
	}
	return nil
}

func newTestScheduler(t *testing.T, pusher *fakePusher, to ...string) (*Scheduler, *fakeDispatcher) {
	t.Helper()
	d := &fakeDispatcher{}
	s, err := New(Config{
		Schedule:   "0 8 * * *",
		To:         to,
		Dispatcher: d,
		Pusher:     pusher,
	})
	require.NoError(t, err)
	return s, d
}

func TestRunOnce(t *testing.T) {
	pusher := &fakePusher{}
	s, d := newTestScheduler(t, pusher, "U1", "C2")

	require.NoError(t, s.RunOnce(context.Background()))

	assert.Equal(t, []assistant.Message{{Text: "今日の予定", Source: "digest"}}, d.messages)
	assert.Equal(t, []push{
		{"U1", "今日の予定：\n- 10:00 会議"},
		{"C2", "今日の予定：\n- 10:00 会議"},
	}, pusher.pushes)
}

func TestRunOnce_FailedPushDoesNotStopOthers(t *testing.T) {
	pusher := &fakePusher{failTo: map[string]bool{"U1": true, "R3": true}}
	s, _ := newTestScheduler(t, pusher, "U1", "C2", "R3")

	err := s.RunOnce(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "U1")
	assert.Contains(t, err.Error(), "R3")
	assert.NotContains(t, err.Error(), "C2")
	assert.Len(t, pusher.pushes, 3)
}

func TestNext(t *testing.T) {
	s, _ := newTestScheduler(t, &fakePusher{}, "U1")

	// 2025-10-01 07:00 JST is 2025-09-30 22:00 UTC.
	before := time.Date(2025, 9, 30, 22, 0, 0, 0, time.UTC)
	assert.True(t, s.Next(before).Equal(time.Date(2025, 10, 1, 8, 0, 0, 0, command.JST)))

	after := time.Date(2025, 10, 1, 8, 0, 1, 0, command.JST)
	assert.True(t, s.Next(after).Equal(time.Date(2025, 10, 2, 8, 0, 0, 0, command.JST)))
}

func TestNew_Validation(t *testing.T) {
	valid := func() Config {
		return Config{
			Schedule:   "30 7 * * 1-5",
			To:         []string{"U1"},
			Dispatcher: &fakeDispatcher{},
			Pusher:     &fakePusher{},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"descriptor", func(c *Config) { c.Schedule = "@daily" }, false},
		{"bad schedule", func(c *Config) { c.Schedule = "every morning" }, true},
		{"empty schedule", func(c *Config) { c.Schedule = "" }, true},
		{"no destinations", func(c *Config) { c.To = nil }, true},
		{"no dispatcher", func(c *Config) { c.Dispatcher = nil }, true},
		{"no pusher", func(c *Config) { c.Pusher = nil }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			_, err := New(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStartStop(t *testing.T) {
	s, _ := newTestScheduler(t, &fakePusher{}, "U1")

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}
