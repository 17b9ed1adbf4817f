package temporal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swiftcab/internal/channel"
	"swiftcab/internal/channel/channeltest"
)

var ist = time.FixedZone("IST", 5*3600+1800)

// refNow is Saturday 2026-10-17 10:00 IST.
var refNow = time.Date(2026, 10, 17, 10, 0, 0, 0, ist)

type fakeParser struct {
	dates map[string]time.Time
	clock map[string]time.Time
}

func (f fakeParser) Parse(text string, _ time.Time, preferFuture bool) (time.Time, bool) {
	if preferFuture {
		t, ok := f.dates[text]
		return t, ok
	}
	t, ok := f.clock[text]
	return t, ok
}

func newTestResolver(p Parser, maxAttempts int) *Resolver {
	return NewResolver(p, Options{
		Now:         func() time.Time { return refNow },
		Location:    ist,
		MaxAttempts: maxAttempts,
	})
}

func TestHasExplicitTime(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"tomorrow at 6pm", true},
		{"friday 6 PM", true},
		{"27th at 7:30", true},
		{"tonight", true},
		{"sunday morning", true},
		{"next friday", false},
		{"I am going tomorrow", false},
		{"to amsterdam on monday", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HasExplicitTime(tt.text), tt.text)
	}
}

func TestNormalizeTimeOfDay(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"6 30", "6:30"},
		{"6::30  PM", "6:30 pm"},
		{"  7   pm ", "7 pm"},
		{"18:00", "18:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeTimeOfDay(tt.raw), tt.raw)
	}
	assert.True(t, HasMeridiem("6:30pm"))
	assert.True(t, HasMeridiem("7 am"))
	assert.False(t, HasMeridiem("6:30"))
}

func TestResolveExplicitTimeNeedsNoFollowUp(t *testing.T) {
	want := time.Date(2026, 10, 18, 18, 0, 0, 0, ist)
	p := fakeParser{dates: map[string]time.Time{"tomorrow at 6pm": want.Add(30 * time.Second)}}
	s := channeltest.New("tomorrow at 6pm")

	got, err := newTestResolver(p, 0).Resolve(context.Background(), s, "when?", "again")
	require.NoError(t, err)
	assert.True(t, want.Equal(got), "got %v", got)
	assert.Equal(t, []string{"when?"}, s.Prompts)
}

func TestResolveDateOnlyAsksTimeAndMeridiem(t *testing.T) {
	friday := time.Date(2026, 10, 23, 10, 0, 0, 0, ist)
	p := fakeParser{
		dates: map[string]time.Time{"next friday": friday},
		clock: map[string]time.Time{"6:30 pm": time.Date(2026, 10, 17, 18, 30, 0, 0, ist)},
	}
	s := channeltest.New("next friday", "6 30", "PM")

	got, err := newTestResolver(p, 0).Resolve(context.Background(), s, "when?", "again")
	require.NoError(t, err)
	assert.True(t, time.Date(2026, 10, 23, 18, 30, 0, 0, ist).Equal(got), "got %v", got)
	assert.Equal(t, []string{"when?", PromptTimeOfDay, PromptMeridiem}, s.Prompts)
}

func TestResolveDateOnlyWithMeridiemSkipsSecondPrompt(t *testing.T) {
	p := fakeParser{
		dates: map[string]time.Time{"next friday": time.Date(2026, 10, 23, 10, 0, 0, 0, ist)},
		clock: map[string]time.Time{"7 am": time.Date(2026, 10, 17, 7, 0, 0, 0, ist)},
	}
	s := channeltest.New("next friday", "7 AM")

	got, err := newTestResolver(p, 0).Resolve(context.Background(), s, "when?", "again")
	require.NoError(t, err)
	assert.Equal(t, 7, got.Hour())
	assert.Len(t, s.PromptsContaining(PromptMeridiem), 0)
}

func TestResolveRepromptsUntilValid(t *testing.T) {
	want := time.Date(2026, 10, 20, 9, 0, 0, 0, ist)
	p := fakeParser{
		dates: map[string]time.Time{"next friday": time.Date(2026, 10, 23, 0, 0, 0, 0, ist), "tuesday 9am": want},
		clock: map[string]time.Time{"6:30 pm": time.Date(2026, 10, 17, 18, 30, 0, 0, ist)},
	}
	s := channeltest.New("whenever", "soonish", "tuesday 9am")

	got, err := newTestResolver(p, 0).Resolve(context.Background(), s, "when?", "again")
	require.NoError(t, err)
	assert.True(t, want.Equal(got), "got %v", got)
	assert.Equal(t, []string{"when?", "again", "again"}, s.Prompts)
}

func TestResolveMeridiemLoopsUntilExact(t *testing.T) {
	p := fakeParser{
		dates: map[string]time.Time{"next friday": time.Date(2026, 10, 23, 0, 0, 0, 0, ist)},
		clock: map[string]time.Time{"8 am": time.Date(2026, 10, 17, 8, 0, 0, 0, ist)},
	}
	s := channeltest.New("next friday", "8", "morning", "a", "AM")

	got, err := newTestResolver(p, 0).Resolve(context.Background(), s, "when?", "again")
	require.NoError(t, err)
	assert.Equal(t, 8, got.Hour())
	assert.Len(t, s.PromptsContaining(RetryMeridiem), 2)
}

func TestResolveUnparseableTimeOfDayRepeats(t *testing.T) {
	p := fakeParser{
		dates: map[string]time.Time{"next friday": time.Date(2026, 10, 23, 0, 0, 0, 0, ist)},
		clock: map[string]time.Time{"7 pm": time.Date(2026, 10, 17, 19, 0, 0, 0, ist)},
	}
	s := channeltest.New("next friday", "half past pm", "7 pm")

	got, err := newTestResolver(p, 0).Resolve(context.Background(), s, "when?", "again")
	require.NoError(t, err)
	assert.Equal(t, 19, got.Hour())
	assert.Equal(t, []string{"when?", PromptTimeOfDay, RetryTimeOfDay}, s.Prompts)
}

func TestResolveMaxAttempts(t *testing.T) {
	s := channeltest.New("nope", "still nope", "never")
	_, err := newTestResolver(fakeParser{}, 2).Resolve(context.Background(), s, "when?", "again")
	assert.True(t, errors.Is(err, channel.ErrTooManyAttempts))
}

func TestResolvePropagatesClosedChannel(t *testing.T) {
	s := channeltest.New("nope")
	_, err := newTestResolver(fakeParser{}, 0).Resolve(context.Background(), s, "when?", "again")
	assert.ErrorIs(t, err, channel.ErrClosed)
}

func TestCompleteWithoutDate(t *testing.T) {
	s := channeltest.New()
	_, ok, err := newTestResolver(fakeParser{}, 0).Complete(context.Background(), s, "from A to B")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, s.Prompts)
}

func TestRollForward(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"future untouched", refNow.Add(time.Hour), refNow.Add(time.Hour)},
		{"earlier today", time.Date(2026, 10, 17, 9, 0, 0, 0, ist), time.Date(2026, 10, 18, 9, 0, 0, 0, ist)},
		{"earlier this week", time.Date(2026, 10, 14, 10, 0, 0, 0, ist), time.Date(2026, 10, 21, 10, 0, 0, 0, ist)},
		{"earlier this year", time.Date(2026, 3, 5, 12, 0, 0, 0, ist), time.Date(2027, 3, 5, 12, 0, 0, 0, ist)},
	}
	for _, tt := range tests {
		got := rollForward(tt.in, refNow)
		assert.True(t, tt.want.Equal(got), "%s: got %v", tt.name, got)
	}
}

func TestWhenParser(t *testing.T) {
	p := NewWhenParser()

	got, ok := p.Parse("tomorrow at 6pm", refNow, true)
	require.True(t, ok)
	assert.True(t, time.Date(2026, 10, 18, 18, 0, 0, 0, ist).Equal(got), "got %v", got)

	_, ok = p.Parse("qwerty zxcv", refNow, true)
	assert.False(t, ok)

	got, ok = p.Parse("9am", refNow, true)
	require.True(t, ok)
	assert.True(t, got.After(refNow))
	assert.Equal(t, 9, got.Hour())
}

func TestWhenParserDayOfMonth(t *testing.T) {
	p := NewWhenParser()

	tests := []struct {
		text string
		want time.Time
	}{
		{"27th at 7:30am", time.Date(2026, 10, 27, 7, 30, 0, 0, ist)},
		{"on the 27th at 7:30am", time.Date(2026, 10, 27, 7, 30, 0, 0, ist)},
		{"on 27 at 9am", time.Date(2026, 10, 27, 9, 0, 0, 0, ist)},
		{"the twenty-seventh at 6pm", time.Date(2026, 10, 27, 18, 0, 0, 0, ist)},
		// Earlier today has passed, so the next 17th is in November.
		{"17th at 9am", time.Date(2026, 11, 17, 9, 0, 0, 0, ist)},
		{"5th at 9am", time.Date(2026, 11, 5, 9, 0, 0, 0, ist)},
		{"31st at 8pm", time.Date(2026, 10, 31, 20, 0, 0, 0, ist)},
		{"July 10th at 9am", time.Date(2027, 7, 10, 9, 0, 0, 0, ist)},
	}
	for _, tt := range tests {
		got, ok := p.Parse(tt.text, refNow, true)
		require.True(t, ok, tt.text)
		assert.True(t, tt.want.Equal(got), "%s: got %v", tt.text, got)
	}

	got, ok := p.Parse("the 27th", refNow, true)
	require.True(t, ok)
	assert.Equal(t, 27, got.Day())
	assert.Equal(t, time.October, got.Month())

	for _, text := range []string{"from 5th avenue to the airport", "the 2 of us"} {
		_, ok := p.Parse(text, refNow, true)
		assert.False(t, ok, text)
	}

	// "on 5 pm" is a time of day, not the 5th.
	got, ok = p.Parse("on 5 pm", refNow, true)
	require.True(t, ok)
	assert.True(t, time.Date(2026, 10, 17, 17, 0, 0, 0, ist).Equal(got), "got %v", got)
}

func TestWhenParserExplicitYear(t *testing.T) {
	p := NewWhenParser()

	_, ok := p.Parse("10/07/2026 at 9am", refNow, true)
	assert.False(t, ok, "a past date with its year must not move to next year")

	got, ok := p.Parse("10/07/2027 at 9am", refNow, true)
	require.True(t, ok)
	assert.True(t, time.Date(2027, 7, 10, 9, 0, 0, 0, ist).Equal(got), "got %v", got)
}

func TestIs24HourClock(t *testing.T) {
	tests := []struct {
		norm string
		want bool
	}{
		{"18:00", true},
		{"00:15", true},
		{"23:59", true},
		{"12:30", false},
		{"6:30", false},
		{"6:30 pm", false},
		{"7", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Is24HourClock(tt.norm), tt.norm)
	}
}

func TestResolveWithWhenParser(t *testing.T) {
	tests := []struct {
		name    string
		replies []string
		want    time.Time
		prompts []string
	}{
		{
			name:    "weekday then spaced clock and marker",
			replies: []string{"next Friday", "6 30", "pm"},
			want:    time.Date(2026, 10, 23, 18, 30, 0, 0, ist),
			prompts: []string{"when?", PromptTimeOfDay, PromptMeridiem},
		},
		{
			name:    "24-hour time of day keeps its hour",
			replies: []string{"next friday", "18:00", "pm"},
			want:    time.Date(2026, 10, 23, 18, 0, 0, 0, ist),
			prompts: []string{"when?", PromptTimeOfDay, PromptMeridiem},
		},
		{
			name:    "24-hour time ignores a contradicting marker",
			replies: []string{"next friday", "18:00", "am"},
			want:    time.Date(2026, 10, 23, 18, 0, 0, 0, ist),
			prompts: []string{"when?", PromptTimeOfDay, PromptMeridiem},
		},
		{
			name:    "bare day of month with time",
			replies: []string{"27th at 7:30am"},
			want:    time.Date(2026, 10, 27, 7, 30, 0, 0, ist),
			prompts: []string{"when?"},
		},
		{
			name:    "bare day of month asks for the time",
			replies: []string{"the 27th", "7 pm"},
			want:    time.Date(2026, 10, 27, 19, 0, 0, 0, ist),
			prompts: []string{"when?", PromptTimeOfDay},
		},
		{
			name:    "casual date with time",
			replies: []string{"tomorrow 6pm"},
			want:    time.Date(2026, 10, 18, 18, 0, 0, 0, ist),
			prompts: []string{"when?"},
		},
		{
			name:    "month and day already past this year",
			replies: []string{"July 10th at 9am"},
			want:    time.Date(2027, 7, 10, 9, 0, 0, 0, ist),
			prompts: []string{"when?"},
		},
		{
			name:    "past date with explicit year is asked again",
			replies: []string{"10/07/2026 at 9am", "tomorrow 6pm"},
			want:    time.Date(2026, 10, 18, 18, 0, 0, 0, ist),
			prompts: []string{"when?", "again"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := channeltest.New(tt.replies...)
			got, err := newTestResolver(NewWhenParser(), 0).Resolve(context.Background(), s, "when?", "again")
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v", got)
			assert.Equal(t, tt.prompts, s.Prompts)
		})
	}
}
