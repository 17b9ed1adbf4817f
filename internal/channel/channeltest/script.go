// README: Scripted channel double for conversation tests.
package channeltest

import (
	"context"
	"strings"

	"swiftcab/internal/channel"
)

// Script replays canned replies in order and records everything the
// conversation emitted. Once the replies run out Ask returns channel.ErrClosed.
type Script struct {
	Replies []string
	Prompts []string
	Said    []string

	next int
}

func New(replies ...string) *Script {
	return &Script{Replies: replies}
}

func (s *Script) Say(text string) {
	s.Said = append(s.Said, text)
}

func (s *Script) Ask(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.Prompts = append(s.Prompts, prompt)
	if s.next >= len(s.Replies) {
		return "", channel.ErrClosed
	}
	reply := s.Replies[s.next]
	s.next++
	return strings.TrimSpace(reply), nil
}

// Remaining is the number of replies not yet consumed.
func (s *Script) Remaining() int {
	return len(s.Replies) - s.next
}

// SaidContaining returns the emitted messages that contain substr.
func (s *Script) SaidContaining(substr string) []string {
	var out []string
	for _, line := range s.Said {
		if strings.Contains(line, substr) {
			out = append(out, line)
		}
	}
	return out
}

// PromptsContaining returns the prompts that contain substr.
func (s *Script) PromptsContaining(substr string) []string {
	var out []string
	for _, p := range s.Prompts {
		if strings.Contains(p, substr) {
			out = append(out, p)
		}
	}
	return out
}

var _ channel.Channel = (*Script)(nil)
