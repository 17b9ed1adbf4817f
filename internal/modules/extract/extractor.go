// README: Best-effort pickup/destination extraction from one utterance, optionally assisted by an AI collaborator.
package extract

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"swiftcab/internal/ai"
	"swiftcab/internal/modules/booking"
)

// DefaultMinConfidence is the collaborator confidence needed to override the patterns.
const DefaultMinConfidence = 0.6

var (
	fromToRe = regexp.MustCompile(`from\s+(\w[\w\s:]*?)\s+to\s+(\w[\w\s:]*)`)
	travelRe = regexp.MustCompile(`(?:ride|cab|taxi|travel)\s+(?:to|towards)\s+(\w[\w\s:]*)`)
	clockRe  = regexp.MustCompile(`^\d{1,2}(?::\d{2})?(?:am|pm)$|^\d{1,2}:\d{2}$`)
	hourRe   = regexp.MustCompile(`^\d{1,2}$`)
)

// meridiemWords mark a bare hour as a clock reading ("7 pm", "7 a.m", "7 o'clock").
var meridiemWords = map[string]bool{"am": true, "pm": true, "a": true, "p": true, "o": true}

// clauseWords end a captured place name; they introduce the time or other trip details.
var clauseWords = map[string]bool{
	"at": true, "on": true, "by": true, "around": true, "for": true, "in": true,
	"before": true, "after": true, "tomorrow": true, "today": true, "tonight": true,
	"next": true, "this": true, "coming": true, "with": true, "via": true,
}

// MatchPatterns applies the built-in patterns only. Either value may be empty.
func MatchPatterns(utterance string) (source, destination string) {
	msg := strings.ToLower(utterance)
	if m := fromToRe.FindStringSubmatch(msg); m != nil {
		return placeName(m[1]), placeName(m[2])
	}
	if m := travelRe.FindStringSubmatch(msg); m != nil {
		return "", placeName(m[1])
	}
	return "", ""
}

// placeName keeps the leading words of a capture up to the first clause word
// or clock reading. Other numbers belong to the place ("terminal 2", "5th avenue").
func placeName(capture string) string {
	words := strings.Fields(capture)
	var kept []string
	for i, word := range words {
		if clauseWords[word] || isClockToken(words, i) {
			break
		}
		kept = append(kept, word)
	}
	return booking.TitleCase(strings.Join(kept, " "))
}

func isClockToken(words []string, i int) bool {
	if clockRe.MatchString(words[i]) {
		return true
	}
	return hourRe.MatchString(words[i]) && i+1 < len(words) && meridiemWords[words[i+1]]
}

type Options struct {
	// Assist is the optional AI collaborator.
	Assist        ai.LocationExtractor
	MinConfidence float64
	Now           func() time.Time
	Logger        *zap.Logger
}

type Extractor struct {
	assist        ai.LocationExtractor
	minConfidence float64
	now           func() time.Time
	logger        *zap.Logger
}

func New(opts Options) *Extractor {
	if opts.MinConfidence <= 0 {
		opts.MinConfidence = DefaultMinConfidence
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Extractor{
		assist:        opts.Assist,
		minConfidence: opts.MinConfidence,
		now:           opts.Now,
		logger:        opts.Logger,
	}
}

// Extract returns the pickup and destination named in utterance. A confident
// collaborator answer wins per field; the patterns fill whatever it leaves empty.
func (e *Extractor) Extract(ctx context.Context, utterance string) (source, destination string) {
	source, destination = MatchPatterns(utterance)
	if e.assist == nil {
		return source, destination
	}

	res, err := e.assist.ExtractLocations(ctx, utterance, map[string]string{
		"current_time": e.now().Format(time.RFC3339),
	})
	if err != nil {
		e.logger.Warn("location collaborator failed, using patterns", zap.Error(err))
		return source, destination
	}
	if res == nil || res.Confidence < e.minConfidence {
		e.logger.Debug("location collaborator not confident", zap.Float64("confidence", confidenceOf(res)))
		return source, destination
	}

	aiSource, aiDestination := res.Values()
	if aiSource != "" {
		source = booking.TitleCase(aiSource)
	}
	if aiDestination != "" {
		destination = booking.TitleCase(aiDestination)
	}
	return source, destination
}

func confidenceOf(res *ai.LocationResult) float64 {
	if res == nil {
		return 0
	}
	return res.Confidence
}
