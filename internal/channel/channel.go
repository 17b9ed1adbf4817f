// README: Text channel abstraction; every solicitation is one prompt followed by one trimmed reply.
package channel

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrClosed is returned when the counterpart side of the channel has gone away.
	ErrClosed = errors.New("channel closed")

	// ErrTooManyAttempts is returned when an optional attempt guard is exhausted.
	ErrTooManyAttempts = errors.New("too many invalid replies")
)

// Channel is a synchronous line-based prompt/response conversation.
type Channel interface {
	// Say emits a message that expects no reply.
	Say(text string)

	// Ask emits prompt and blocks until a reply arrives. The reply is trimmed.
	Ask(ctx context.Context, prompt string) (string, error)
}

// Validator reports whether a reply is acceptable.
type Validator func(reply string) bool

// AskUntil asks prompt, then keeps asking retry until valid accepts the reply.
// maxAttempts <= 0 means no limit.
func AskUntil(ctx context.Context, ch Channel, prompt, retry string, valid Validator, maxAttempts int) (string, error) {
	next := prompt
	for attempt := 1; ; attempt++ {
		reply, err := ch.Ask(ctx, next)
		if err != nil {
			return "", err
		}
		if valid(reply) {
			return reply, nil
		}
		if maxAttempts > 0 && attempt >= maxAttempts {
			return "", ErrTooManyAttempts
		}
		next = retry
	}
}

// NotEmpty accepts any non-blank reply.
func NotEmpty(reply string) bool {
	return strings.TrimSpace(reply) != ""
}

// IsAffirmative treats any reply starting with "y" as a yes.
func IsAffirmative(reply string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(reply)), "y")
}

// Confirm asks a yes/no question. Anything that is not affirmative counts as no.
func Confirm(ctx context.Context, ch Channel, prompt string) (bool, error) {
	reply, err := ch.Ask(ctx, prompt)
	if err != nil {
		return false, err
	}
	return IsAffirmative(reply), nil
}
