// README: Booking assistant; fills the booking slots, prices and bargains the fare, then runs the summary/edit loop.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"swiftcab/internal/channel"
	"swiftcab/internal/maps"
	"swiftcab/internal/modules/booking"
	"swiftcab/internal/modules/extract"
	"swiftcab/internal/modules/negotiation"
	"swiftcab/internal/session"
	"swiftcab/internal/types"
)

// ErrBookingCanceled is returned when the rider rejects the floor fare.
var ErrBookingCanceled = errors.New("booking canceled due to failed negotiation")

const (
	MsgWelcome       = "🚕 Welcome to **SwiftCab Booking Assistant**!"
	PromptOpening    = "💬 How may I help you today?"
	PromptSource     = "📍 What's your **pickup location**?"
	PromptDest       = "📍 Where do you want to go?"
	PromptTravelTime = "🕒 When do you want to travel? (e.g. 'tomorrow 6pm', '27th at 7:30am')"
	RetryTravelTime  = "⚠️ Couldn't understand. Try again with format like 'July 10th at 9am'"
	PromptVehicle    = "🚗 What car type do you prefer? (sedan / suv / hatchback)"
	RetryVehicle     = "❌ Invalid. Choose sedan / suv / hatchback."
	PromptTrip       = "🔁 Is this a one way or round trip?"
	RetryTrip        = "❌ Invalid. Say 'one way' or 'round trip'."
	PromptEdit       = "\n✏️ Do you want to **edit** any field? (yes/no)"
	PromptEditField  = "🛠 Which one? (source, destination, travel_time, vehicle_class, trip_type)"
	RetryEditTime    = "⚠️ Still not valid. Try like 'July 10th 6:30pm'"
	MsgInvalidField  = "❌ Invalid field."
	MsgBooked        = "\n✅ Your cab is being booked. Thank you for choosing SwiftCab!"
)

type Extractor interface {
	Extract(ctx context.Context, utterance string) (source, destination string)
}

type TimeResolver interface {
	Resolve(ctx context.Context, ch channel.Channel, prompt, retry string) (time.Time, error)
	Complete(ctx context.Context, ch channel.Channel, text string) (time.Time, bool, error)
}

type FareEstimator interface {
	Estimate(ctx context.Context, class booking.VehicleClass) (types.Money, error)
}

type Negotiator interface {
	Negotiate(ctx context.Context, ch channel.Channel, base types.Money) (negotiation.Outcome, error)
}

type RouteEstimator interface {
	GetTravelEstimate(ctx context.Context, origin, destination string) (maps.RouteEstimate, error)
}

type AssistantDeps struct {
	Extractor  Extractor
	Resolver   TimeResolver
	Pricing    FareEstimator
	Negotiator Negotiator

	// Routes adds a drive estimate to the summary when set.
	Routes RouteEstimator
	// Sessions receives a checkpoint after every confirmed slot when set.
	Sessions session.Store

	// MaxAttempts bounds each re-prompt loop; zero means unbounded.
	MaxAttempts int
	Logger      *zap.Logger
}

// Assistant drives one booking conversation per Run.
type Assistant struct {
	extractor   Extractor
	resolver    TimeResolver
	pricing     FareEstimator
	negotiator  Negotiator
	routes      RouteEstimator
	sessions    session.Store
	maxAttempts int
	logger      *zap.Logger
}

func NewAssistant(deps AssistantDeps) *Assistant {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Assistant{
		extractor:   deps.Extractor,
		resolver:    deps.Resolver,
		pricing:     deps.Pricing,
		negotiator:  deps.Negotiator,
		routes:      deps.Routes,
		sessions:    deps.Sessions,
		maxAttempts: deps.MaxAttempts,
		logger:      deps.Logger,
	}
}

// conversation is the state of one Run: the channel, the booking it owns and
// the checkpoint key.
type conversation struct {
	id  string
	ch  channel.Channel
	req *booking.Request
}

// Run greets the rider, fills every slot, then prices, bargains, summarizes
// and offers edits until the rider is done. It returns the finalized booking,
// or the partial booking with ErrBookingCanceled when negotiation fails.
func (a *Assistant) Run(ctx context.Context, ch channel.Channel) (*booking.Request, error) {
	return a.RunSession(ctx, session.NewID(), ch)
}

// RunSession is Run with the checkpoint key chosen by the caller, so the
// partial booking can be read back under id while the conversation runs.
func (a *Assistant) RunSession(ctx context.Context, id string, ch channel.Channel) (*booking.Request, error) {
	c := &conversation{id: id, ch: ch, req: &booking.Request{}}
	log := a.logger.With(zap.String("session_id", c.id))
	defer a.dropCheckpoint(c)

	ch.Say(MsgWelcome)
	utterance, err := channel.AskUntil(ctx, ch, PromptOpening, PromptOpening, channel.NotEmpty, a.maxAttempts)
	if err != nil {
		return nil, err
	}

	if err := a.fillSlots(ctx, c, utterance); err != nil {
		return c.req, err
	}
	log.Info("slots filled",
		zap.String("source", c.req.Source),
		zap.String("destination", c.req.Destination),
		zap.Time("travel_time", c.req.TravelTime),
		zap.String("vehicle_class", string(c.req.VehicleClass)),
		zap.String("trip_type", string(c.req.TripType)),
	)

	for round := 1; ; round++ {
		outcome, err := a.priceAndNegotiate(ctx, c)
		if err != nil {
			return c.req, err
		}
		if outcome.Canceled() {
			log.Info("negotiation canceled", zap.Int("rounds", outcome.Rounds))
			return c.req, ErrBookingCanceled
		}
		c.req.SetFare(outcome.Fare)
		log.Info("fare agreed",
			zap.Int64("fare", outcome.Fare.Amount),
			zap.String("state", string(outcome.State)),
			zap.Int("pricing_round", round),
		)

		a.summarize(ctx, c)

		edited, err := a.offerEdit(ctx, c)
		if err != nil {
			return c.req, err
		}
		if !edited {
			ch.Say(MsgBooked)
			return c.req, nil
		}
	}
}

// FillSlots resolves every pre-fare slot of req that is still unset, trying
// utterance first and prompting for the rest.
func (a *Assistant) FillSlots(ctx context.Context, ch channel.Channel, req *booking.Request, utterance string) error {
	return a.fillSlots(ctx, &conversation{ch: ch, req: req}, utterance)
}

func (a *Assistant) fillSlots(ctx context.Context, c *conversation, utterance string) error {
	req := c.req

	if req.Source == "" && req.Destination == "" {
		src, dst := a.extractor.Extract(ctx, utterance)
		if src != "" {
			req.Source = src
			a.confirm(ctx, c, booking.FieldSource)
		}
		if dst != "" {
			req.Destination = dst
			a.confirm(ctx, c, booking.FieldDestination)
		}
	}
	a.applyOpeningHints(ctx, c, utterance)

	for _, f := range req.Missing() {
		if err := a.fillSlot(ctx, c, f, utterance); err != nil {
			return err
		}
		a.confirm(ctx, c, f)
	}
	return nil
}

func (a *Assistant) fillSlot(ctx context.Context, c *conversation, f booking.Field, utterance string) error {
	req := c.req
	switch f {
	case booking.FieldSource:
		v, err := channel.AskUntil(ctx, c.ch, PromptSource, PromptSource, channel.NotEmpty, a.maxAttempts)
		if err != nil {
			return err
		}
		req.Source = booking.TitleCase(v)

	case booking.FieldDestination:
		v, err := channel.AskUntil(ctx, c.ch, PromptDest, PromptDest, channel.NotEmpty, a.maxAttempts)
		if err != nil {
			return err
		}
		req.Destination = booking.TitleCase(v)

	case booking.FieldTravelTime:
		// A date in the opening message is only followed up once the places
		// are known.
		if utterance != "" {
			t, ok, err := a.resolver.Complete(ctx, c.ch, utterance)
			if err != nil {
				return err
			}
			if ok {
				req.SetTravelTime(t)
				return nil
			}
		}
		t, err := a.resolver.Resolve(ctx, c.ch, PromptTravelTime, RetryTravelTime)
		if err != nil {
			return err
		}
		req.SetTravelTime(t)

	case booking.FieldVehicleClass:
		v, err := channel.AskUntil(ctx, c.ch, PromptVehicle, RetryVehicle, isVehicleClass, a.maxAttempts)
		if err != nil {
			return err
		}
		req.VehicleClass, _ = booking.ParseVehicleClass(v)

	case booking.FieldTripType:
		v, err := channel.AskUntil(ctx, c.ch, PromptTrip, RetryTrip, booking.IsTripReply, a.maxAttempts)
		if err != nil {
			return err
		}
		req.TripType = booking.NormalizeTripType(v)
	}
	return nil
}

// applyOpeningHints fills vehicle class and trip type from the opening
// utterance when it states them outright.
func (a *Assistant) applyOpeningHints(ctx context.Context, c *conversation, utterance string) {
	req := c.req
	hints := extract.ScanHints(utterance)
	if req.VehicleClass == "" && hints.VehicleClass != "" {
		req.VehicleClass = hints.VehicleClass
		a.confirm(ctx, c, booking.FieldVehicleClass)
	}
	if req.TripType == "" && hints.TripType != "" {
		req.TripType = hints.TripType
		a.confirm(ctx, c, booking.FieldTripType)
	}
}

func isVehicleClass(reply string) bool {
	_, ok := booking.ParseVehicleClass(reply)
	return ok
}

func (a *Assistant) confirm(ctx context.Context, c *conversation, f booking.Field) {
	c.ch.Say(fmt.Sprintf("✅ Confirmed: %s is **%s**", f.Label(), c.req.Value(f)))
	a.checkpoint(ctx, c, f)
}

func (a *Assistant) priceAndNegotiate(ctx context.Context, c *conversation) (negotiation.Outcome, error) {
	base, err := a.pricing.Estimate(ctx, c.req.VehicleClass)
	if err != nil {
		return negotiation.Outcome{}, fmt.Errorf("estimate fare: %w", err)
	}
	return a.negotiator.Negotiate(ctx, c.ch, base)
}

func (a *Assistant) summarize(ctx context.Context, c *conversation) {
	req := c.req
	c.ch.Say("\n📝 Here's your Booking Summary:")
	for _, f := range booking.Fields {
		c.ch.Say(fmt.Sprintf("➡️ %s: %s", f.Label(), req.Value(f)))
	}
	if req.Fare != nil {
		c.ch.Say(fmt.Sprintf("➡️ Fare: %s", req.Fare))
	}

	if a.routes == nil {
		return
	}
	est, err := a.routes.GetTravelEstimate(ctx, req.Source, req.Destination)
	if err != nil {
		a.logger.Warn("route estimate unavailable", zap.Error(err))
		return
	}
	c.ch.Say(fmt.Sprintf("🗺️ Route: %s", est))
}

// offerEdit asks whether the rider wants to change a slot. It reports true
// once a slot has been changed, which sends the caller back to pricing.
func (a *Assistant) offerEdit(ctx context.Context, c *conversation) (bool, error) {
	for {
		wants, err := channel.Confirm(ctx, c.ch, PromptEdit)
		if err != nil || !wants {
			return false, err
		}

		reply, err := c.ch.Ask(ctx, PromptEditField)
		if err != nil {
			return false, err
		}
		f, err := booking.ParseField(reply)
		if err != nil {
			c.ch.Say(MsgInvalidField)
			continue
		}

		if err := a.applyEdit(ctx, c, f); err != nil {
			return false, err
		}
		c.req.ClearFare()
		c.ch.Say(fmt.Sprintf("✅ Updated: %s is now **%s**", f.Label(), c.req.Value(f)))
		a.checkpoint(ctx, c, f)
		return true, nil
	}
}

func (a *Assistant) applyEdit(ctx context.Context, c *conversation, f booking.Field) error {
	prompt := fmt.Sprintf("✏️ Enter new value for %s:", f)

	if f == booking.FieldTravelTime {
		t, err := a.resolver.Resolve(ctx, c.ch, prompt, RetryEditTime)
		if err != nil {
			return err
		}
		c.req.SetTravelTime(t)
		return nil
	}

	v, err := channel.AskUntil(ctx, c.ch, prompt, prompt, channel.NotEmpty, a.maxAttempts)
	if err != nil {
		return err
	}
	switch f {
	case booking.FieldSource:
		c.req.Source = booking.TitleCase(v)
	case booking.FieldDestination:
		c.req.Destination = booking.TitleCase(v)
	case booking.FieldVehicleClass:
		if class, ok := booking.ParseVehicleClass(v); ok {
			c.req.VehicleClass = class
		} else {
			c.req.VehicleClass = booking.VehicleClass(booking.TitleCase(v))
		}
	case booking.FieldTripType:
		c.req.TripType = booking.NormalizeTripType(v)
	}
	return nil
}

func (a *Assistant) checkpoint(ctx context.Context, c *conversation, step booking.Field) {
	if a.sessions == nil || c.id == "" {
		return
	}
	snap := session.Snapshot{ID: c.id, Step: step, Request: *c.req, UpdatedAt: time.Now()}
	if err := a.sessions.Save(ctx, snap); err != nil {
		a.logger.Warn("checkpoint failed", zap.String("session_id", c.id), zap.Error(err))
	}
}

func (a *Assistant) dropCheckpoint(c *conversation) {
	if a.sessions == nil {
		return
	}
	// The conversation context may already be canceled; the delete still has to run.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := a.sessions.Delete(ctx, c.id); err != nil {
		a.logger.Warn("checkpoint cleanup failed", zap.String("session_id", c.id), zap.Error(err))
	}
}
