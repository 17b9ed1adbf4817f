package channel

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Console talks to a terminal: prompts go to out, replies are read line by line from in.
type Console struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsole creates a Console over the given reader and writer.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out}
}

func (c *Console) Say(text string) {
	fmt.Fprintln(c.out, text)
}

func (c *Console) Ask(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if prompt != "" {
		fmt.Fprintln(c.out, prompt)
	}
	fmt.Fprint(c.out, "> ")

	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			if line != "" {
				return strings.TrimSpace(line), nil
			}
			return "", ErrClosed
		}
		return "", fmt.Errorf("read reply: %w", err)
	}
	return strings.TrimSpace(line), nil
}

var _ Channel = (*Console)(nil)
