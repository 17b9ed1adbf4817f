package temporal

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when/rules"
	"github.com/olebedev/when/rules/en"
)

// Words allowed right after a bare day of the month. Anything else ("5th
// avenue", "the 2 of us") means the number is not a date.
var dayFollowers = map[string]bool{
	"at": true, "by": true, "around": true, "about": true,
	"morning": true, "afternoon": true, "evening": true, "night": true, "noon": true,
}

// DayOfMonth resolves "27th", "the 27th", "on the twenty-seventh" and "on 27"
// to the next occurrence of that day: this month, or the first later month
// that has it. It yields to rules that already fixed a calendar date, so it
// must be added after them.
func DayOfMonth() rules.Rule {
	return &rules.F{
		RegExp: regexp.MustCompile(`(?i)(?:\W|^)` +
			`(?:(\d{1,2}(?:st|nd|rd|th))|(?:on\s+the|on|the)\s+((?:` + en.ORDINAL_WORDS_PATTERN[3:] + `|\d{1,2}))` +
			`(\s*(?:[ap]\.?m\b|:\d)|\s+[a-z]+)?` +
			`(?:\W|$)`),
		Applier: func(m *rules.Match, c *rules.Context, o *rules.Options, ref time.Time) (bool, error) {
			if c.Day != nil || c.Month != nil || c.Year != nil || c.Weekday != nil || c.Duration != 0 {
				return false, nil
			}
			if follower := strings.ToLower(strings.TrimSpace(m.Captures[2])); follower != "" && !dayFollowers[follower] {
				return false, nil
			}

			raw := m.Captures[0]
			if raw == "" {
				raw = m.Captures[1]
			}
			day, ok := parseDay(raw)
			if !ok {
				return false, nil
			}

			// Without a time of day the whole of today still counts.
			hour, minute := 23, 59
			if c.Hour != nil {
				hour, minute = *c.Hour, 0
				if c.Minute != nil {
					minute = *c.Minute
				}
			}

			year, month := ref.Year(), ref.Month()
			for i := 0; i < 12; i++ {
				cand := time.Date(year, month, day, hour, minute, 0, 0, ref.Location())
				if cand.Day() == day && !cand.Before(ref) {
					// An offset keeps the library from normalizing month and
					// day separately (Oct 31 + "Nov" would land in December).
					target := time.Date(year, month, day, ref.Hour(), ref.Minute(), ref.Second(), ref.Nanosecond(), ref.Location())
					c.Duration = target.Sub(ref)
					return true, nil
				}
				month++
				if month > time.December {
					month, year = time.January, year+1
				}
			}
			return false, nil
		},
	}
}

func parseDay(raw string) (int, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if d, ok := en.ORDINAL_WORDS[s]; ok {
		return d, true
	}
	s = strings.TrimRight(s, "stndrh")
	d, err := strconv.Atoi(s)
	if err != nil || d < 1 || d > 31 {
		return 0, false
	}
	return d, true
}
