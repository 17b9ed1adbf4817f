// README: Negotiation engine runs the bargaining protocol over a text channel.
package negotiation

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"swiftcab/internal/channel"
	"swiftcab/internal/types"
)

const (
	PromptBargain  = "💬 Do you want to bargain? (yes/no)"
	PromptOffer    = "💬 What's your offer? (e.g. 3500)"
	PromptDeal     = "💬 Deal? (yes/no)"
	MsgNotANumber  = "❌ Please enter a number like 3500."
	MsgCanceled    = "❌ Booking canceled due to failed negotiation."
	promptFloorFmt = "💬 Want to accept %s? (yes/no)"
)

type Options struct {
	// MaxAttempts bounds consecutive non-numeric offers; zero means unbounded.
	MaxAttempts int
	Logger      *zap.Logger
}

type Engine struct {
	maxAttempts int
	logger      *zap.Logger
}

func NewEngine(opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Engine{maxAttempts: opts.MaxAttempts, logger: opts.Logger}
}

// Negotiate presents base and bargains until the rider accepts a price or
// rejects the floor. A canceled outcome is returned with a nil error.
func (e *Engine) Negotiate(ctx context.Context, ch channel.Channel, base types.Money) (Outcome, error) {
	s := NewSession(base)

	ch.Say(fmt.Sprintf("\n💸 The estimated fare is %s", base))
	wants, err := channel.Confirm(ctx, ch, PromptBargain)
	if err != nil {
		return Outcome{}, err
	}
	if !wants {
		ch.Say(fmt.Sprintf("✅ Proceeding with %s", base))
		return s.finish(StateAccepted, base.Amount)
	}

	floor := s.Floor()
	for {
		offer, err := e.askOffer(ctx, ch)
		if err != nil {
			return Outcome{}, err
		}
		s.Rounds++
		e.logger.Debug("offer received",
			zap.Int64("offer", offer),
			zap.Int64("asking", s.CurrentOffer.Amount),
			zap.Int("round", s.Rounds),
		)

		switch {
		case offer >= s.CurrentOffer.Amount:
			ch.Say(fmt.Sprintf("🤝 Deal! We'll go with %s", base.WithAmount(offer)))
			return s.finish(StateAccepted, offer)

		case s.MeetsFloor(offer):
			counter := s.Counter(offer)
			ch.Say(fmt.Sprintf("🤖 Hmm... how about %s?", base.WithAmount(counter)))
			ok, err := channel.Confirm(ctx, ch, PromptDeal)
			if err != nil {
				return Outcome{}, err
			}
			if ok {
				ch.Say(fmt.Sprintf("✅ Bargain successful! Final fare: %s", base.WithAmount(counter)))
				return s.finish(StateAccepted, counter)
			}
			if err := s.Lower(counter); err != nil {
				return Outcome{}, err
			}

		default:
			ch.Say(fmt.Sprintf("🛑 Sorry, %s is too low. Lowest I can go is %s.", base.WithAmount(offer), floor))
			ok, err := channel.Confirm(ctx, ch, fmt.Sprintf(promptFloorFmt, floor))
			if err != nil {
				return Outcome{}, err
			}
			if ok {
				ch.Say(fmt.Sprintf("✅ Deal at %s", floor))
				return s.finish(StateFloorAccepted, floor.Amount)
			}
			ch.Say(MsgCanceled)
			return s.finish(StateCanceled, 0)
		}
	}
}

func (e *Engine) askOffer(ctx context.Context, ch channel.Channel) (int64, error) {
	for attempt := 1; ; attempt++ {
		reply, err := ch.Ask(ctx, PromptOffer)
		if err != nil {
			return 0, err
		}
		if offer, ok := parseOffer(reply); ok {
			return offer, nil
		}
		ch.Say(MsgNotANumber)
		if e.maxAttempts > 0 && attempt >= e.maxAttempts {
			return 0, channel.ErrTooManyAttempts
		}
	}
}

// parseOffer accepts plain digit strings only: no sign, separators or decimals.
func parseOffer(reply string) (int64, bool) {
	if reply == "" {
		return 0, false
	}
	for _, r := range reply {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(reply, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
