// README: Temporal resolver; asks until a travel time carries both a date and a time of day.
package temporal

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"swiftcab/internal/channel"
)

const (
	PromptTimeOfDay = "🕒 Got the date, but what time exactly? (e.g. '6:30 PM')"
	RetryTimeOfDay  = "⚠️ Still not clear. Try something like '7 PM' or '18:00'"
	PromptMeridiem  = "🌅 Is that AM or PM?"
	RetryMeridiem   = "⚠️ Please enter either 'AM' or 'PM'"
)

var (
	explicitTimeRe = regexp.MustCompile(`(?i)\d\s*[ap]\.?m\b|\d{1,2}:\d{2}|morning|evening|noon|night`)
	meridiemRe     = regexp.MustCompile(`(?i)(^|\d|\s)[ap]\.?m\.?($|\W)`)
	spacedClockRe  = regexp.MustCompile(`^(\d{1,2}) (\d{2})\b`)
	clockRe        = regexp.MustCompile(`^(\d{1,2}):\d{2}$`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
)

// HasExplicitTime reports whether text already names a time of day.
func HasExplicitTime(text string) bool {
	return explicitTimeRe.MatchString(text)
}

// HasMeridiem reports whether a time-of-day string carries AM or PM.
func HasMeridiem(text string) bool {
	return meridiemRe.MatchString(text)
}

// Is24HourClock reports whether a normalized "hh:mm" can only be read on a
// 24-hour clock (hour 0 or 13-23), where an AM/PM marker would contradict it.
func Is24HourClock(norm string) bool {
	m := clockRe.FindStringSubmatch(norm)
	if m == nil {
		return false
	}
	h, _ := strconv.Atoi(m[1])
	return h == 0 || (h > 12 && h < 24)
}

// NormalizeTimeOfDay lower-cases raw, collapses doubled colons and runs of
// whitespace, and rewrites "6 30" as "6:30".
func NormalizeTimeOfDay(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	for strings.Contains(s, "::") {
		s = strings.ReplaceAll(s, "::", ":")
	}
	s = whitespaceRe.ReplaceAllString(s, " ")
	return spacedClockRe.ReplaceAllString(s, "$1:$2")
}

type Options struct {
	// Now is the reference clock. Defaults to time.Now.
	Now func() time.Time
	// Location interprets relative expressions. Defaults to time.Local.
	Location *time.Location
	// MaxAttempts bounds each ask-until-valid loop; zero means unbounded.
	MaxAttempts int
	Logger      *zap.Logger
}

type Resolver struct {
	parser      Parser
	now         func() time.Time
	loc         *time.Location
	maxAttempts int
	logger      *zap.Logger
}

func NewResolver(parser Parser, opts Options) *Resolver {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Resolver{
		parser:      parser,
		now:         opts.Now,
		loc:         opts.Location,
		maxAttempts: opts.MaxAttempts,
		logger:      opts.Logger,
	}
}

// Resolve asks prompt and keeps asking retry until the reply resolves to a
// complete timestamp.
func (r *Resolver) Resolve(ctx context.Context, ch channel.Channel, prompt, retry string) (time.Time, error) {
	next := prompt
	for attempt := 1; ; attempt++ {
		text, err := ch.Ask(ctx, next)
		if err != nil {
			return time.Time{}, err
		}
		t, ok, err := r.Complete(ctx, ch, text)
		if err != nil {
			return time.Time{}, err
		}
		if ok {
			return t, nil
		}
		r.logger.Debug("travel time unresolved", zap.String("text", text), zap.Int("attempt", attempt))
		if r.maxAttempts > 0 && attempt >= r.maxAttempts {
			return time.Time{}, channel.ErrTooManyAttempts
		}
		next = retry
	}
}

// Complete resolves text that has already been read. ok is false when text
// holds no date at all. A date without a time of day triggers the
// time-of-day follow-up on ch.
func (r *Resolver) Complete(ctx context.Context, ch channel.Channel, text string) (time.Time, bool, error) {
	t, ok := r.parser.Parse(text, r.now().In(r.loc), true)
	if !ok {
		return time.Time{}, false, nil
	}
	if HasExplicitTime(text) {
		return t.Truncate(time.Minute), true, nil
	}

	hour, minute, err := r.askTimeOfDay(ctx, ch)
	if err != nil {
		return time.Time{}, false, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), hour, minute, 0, 0, t.Location()), true, nil
}

func (r *Resolver) askTimeOfDay(ctx context.Context, ch channel.Channel) (int, int, error) {
	next := PromptTimeOfDay
	for attempt := 1; ; attempt++ {
		raw, err := ch.Ask(ctx, next)
		if err != nil {
			return 0, 0, err
		}
		norm := NormalizeTimeOfDay(raw)
		if !HasMeridiem(norm) {
			ampm, err := channel.AskUntil(ctx, ch, PromptMeridiem, RetryMeridiem, isMeridiem, r.maxAttempts)
			if err != nil {
				return 0, 0, err
			}
			// The marker is still asked for, but a 24-hour reading keeps its hour.
			if !Is24HourClock(norm) {
				norm += " " + strings.ToLower(ampm)
			}
		}
		if t, ok := r.parser.Parse(norm, r.now().In(r.loc), false); ok {
			return t.Hour(), t.Minute(), nil
		}
		r.logger.Debug("time of day unresolved", zap.String("text", norm), zap.Int("attempt", attempt))
		if r.maxAttempts > 0 && attempt >= r.maxAttempts {
			return 0, 0, channel.ErrTooManyAttempts
		}
		next = RetryTimeOfDay
	}
}

func isMeridiem(reply string) bool {
	v := strings.ToLower(reply)
	return v == "am" || v == "pm"
}
