// README: Negotiation session and state definitions.
package negotiation

import (
	"errors"

	"swiftcab/internal/types"
)

type State string

const (
	StateOffered       State = "offered"
	StateCountered     State = "countered"
	StateAccepted      State = "accepted"
	StateFloorAccepted State = "floor_accepted"
	StateCanceled      State = "canceled"
)

var ErrInvalidState = errors.New("invalid negotiation state transition")

// AllowedTransitions represents the bargaining flow (diagram) as code.
var AllowedTransitions = map[State][]State{
	StateOffered:   {StateAccepted, StateCountered, StateFloorAccepted, StateCanceled},
	StateCountered: {StateAccepted, StateCountered, StateFloorAccepted, StateCanceled},
}

func CanTransition(from, to State) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is possible from s.
func (s State) Terminal() bool {
	_, ok := AllowedTransitions[s]
	return !ok
}

// Session is one bargaining round-trip over a single base fare.
type Session struct {
	BaseFare     types.Money
	CurrentOffer types.Money
	State        State
	Rounds       int
	// Offers is the history of asking prices, starting with the base fare.
	Offers []int64
}

func NewSession(base types.Money) *Session {
	return &Session{
		BaseFare:     base,
		CurrentOffer: base,
		State:        StateOffered,
		Offers:       []int64{base.Amount},
	}
}

// Floor is 80% of the base fare truncated to whole units, as shown to the rider.
func (s *Session) Floor() types.Money {
	return s.BaseFare.WithAmount(4 * s.BaseFare.Amount / 5)
}

// MeetsFloor compares offer against the exact 80% floor without rounding.
func (s *Session) MeetsFloor(offer int64) bool {
	return 5*offer >= 4*s.BaseFare.Amount
}

// Counter is the midpoint between offer and the current asking price, rounded down.
func (s *Session) Counter(offer int64) int64 {
	return (offer + s.CurrentOffer.Amount) / 2
}

// Lower moves the asking price down to amount after a rejected counter.
func (s *Session) Lower(amount int64) error {
	if err := s.transition(StateCountered); err != nil {
		return err
	}
	s.CurrentOffer = s.CurrentOffer.WithAmount(amount)
	s.Offers = append(s.Offers, amount)
	return nil
}

func (s *Session) transition(to State) error {
	if !CanTransition(s.State, to) {
		return ErrInvalidState
	}
	s.State = to
	return nil
}

// finish moves the session to a terminal state and reports the outcome.
func (s *Session) finish(to State, amount int64) (Outcome, error) {
	if !to.Terminal() {
		return Outcome{}, ErrInvalidState
	}
	if err := s.transition(to); err != nil {
		return Outcome{}, err
	}
	out := Outcome{State: to, Rounds: s.Rounds, Offers: s.Offers}
	if to != StateCanceled {
		out.Fare = s.BaseFare.WithAmount(amount)
	}
	return out, nil
}

// Outcome is the terminal result of a negotiation.
type Outcome struct {
	State  State
	Fare   types.Money
	Rounds int
	Offers []int64
}

func (o Outcome) Canceled() bool {
	return o.State == StateCanceled
}
