// README: Temporal parsing collaborator backed by olebedev/when.
package temporal

import (
	"regexp"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// Parser turns free text into a timestamp relative to ref. ok is false when
// nothing in text looks like a date or time.
type Parser interface {
	Parse(text string, ref time.Time, preferFuture bool) (t time.Time, ok bool)
}

var explicitYearRe = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)

type WhenParser struct {
	w *when.Parser
}

func NewWhenParser() *WhenParser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	w.Add(DayOfMonth())
	return &WhenParser{w: w}
}

func (p *WhenParser) Parse(text string, ref time.Time, preferFuture bool) (time.Time, bool) {
	res, err := p.w.Parse(text, ref)
	if err != nil || res == nil {
		return time.Time{}, false
	}
	t := res.Time
	if !preferFuture {
		return t, true
	}
	// A date that names its year is taken literally; a past one is rejected
	// rather than moved.
	if explicitYearRe.MatchString(text) {
		if t.Before(ref) {
			return time.Time{}, false
		}
		return t, true
	}
	return rollForward(t, ref), true
}

// rollForward moves a past result to its next occurrence: a time earlier
// today becomes tomorrow, a weekday earlier this week becomes next week, and
// anything older moves by whole years.
func rollForward(t, ref time.Time) time.Time {
	if !t.Before(ref) {
		return t
	}
	behind := ref.Sub(t)
	switch {
	case behind <= 24*time.Hour:
		return t.AddDate(0, 0, 1)
	case behind <= 7*24*time.Hour:
		return t.AddDate(0, 0, 7)
	}
	for t.Before(ref) {
		t = t.AddDate(1, 0, 0)
	}
	return t
}

var _ Parser = (*WhenParser)(nil)
