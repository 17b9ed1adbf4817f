package channel

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

// ErrNotAwaitingReply is returned by Reply when the conversation has not asked anything.
var ErrNotAwaitingReply = errors.New("conversation is not awaiting a reply")

const (
	KindSay    = "say"
	KindPrompt = "prompt"
)

// Message is one line emitted by the conversation.
type Message struct {
	Kind string    `json:"kind"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Bridge connects a conversation running in its own goroutine to a
// request/response transport. The conversation side sees a Channel; the
// transport side polls Drain and pushes replies with Reply.
type Bridge struct {
	mu        sync.Mutex
	outbox    []Message
	waiting   bool
	replies   chan string
	done      chan struct{}
	closeOnce sync.Once
	now       func() time.Time
}

func NewBridge() *Bridge {
	return &Bridge{
		replies: make(chan string, 1),
		done:    make(chan struct{}),
		now:     time.Now,
	}
}

func (b *Bridge) Say(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.outbox = append(b.outbox, Message{Kind: KindSay, Text: text, At: b.now()})
}

func (b *Bridge) Ask(ctx context.Context, prompt string) (string, error) {
	b.mu.Lock()
	select {
	case <-b.done:
		b.mu.Unlock()
		return "", ErrClosed
	default:
	}
	b.outbox = append(b.outbox, Message{Kind: KindPrompt, Text: prompt, At: b.now()})
	b.waiting = true
	b.mu.Unlock()

	select {
	case reply := <-b.replies:
		return strings.TrimSpace(reply), nil
	case <-ctx.Done():
		b.stopWaiting()
		return "", ctx.Err()
	case <-b.done:
		b.stopWaiting()
		return "", ErrClosed
	}
}

func (b *Bridge) stopWaiting() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.waiting = false
	select {
	case <-b.replies:
	default:
	}
}

// Reply hands text to the pending Ask.
func (b *Bridge) Reply(text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	select {
	case <-b.done:
		return ErrClosed
	default:
	}
	if !b.waiting {
		return ErrNotAwaitingReply
	}
	b.waiting = false
	b.replies <- text
	return nil
}

// Drain returns and clears every message emitted since the last call.
func (b *Bridge) Drain() []Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.outbox
	b.outbox = nil
	return out
}

// Awaiting reports whether the conversation is blocked on a reply.
func (b *Bridge) Awaiting() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.waiting
}

// Close unblocks any pending Ask with ErrClosed. Safe to call more than once.
func (b *Bridge) Close() {
	b.closeOnce.Do(func() { close(b.done) })
}

// Done is closed once Close has been called.
func (b *Bridge) Done() <-chan struct{} {
	return b.done
}

var _ Channel = (*Bridge)(nil)
