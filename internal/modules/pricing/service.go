// README: Pricing service computes jittered base-fare estimates.
package pricing

import (
	"context"
	"math/rand/v2"

	"swiftcab/internal/modules/booking"
	"swiftcab/internal/types"
)

type Service struct {
	store *Store
	intN  func(n int) int
}

type Option func(*Service)

// WithRand draws jitter from r instead of the global source.
func WithRand(r *rand.Rand) Option {
	return func(s *Service) { s.intN = r.IntN }
}

func NewService(store *Store, opts ...Option) *Service {
	s := &Service{store: store, intN: rand.IntN}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Estimate returns the base fare for class plus a fresh uniform draw in
// [JitterMin, JitterMax]. Estimates are never memoized.
func (s *Service) Estimate(ctx context.Context, class booking.VehicleClass) (types.Money, error) {
	if err := ctx.Err(); err != nil {
		return types.Money{}, err
	}
	rate, err := s.store.GetRate(ctx, class)
	if err != nil {
		return types.Money{}, err
	}
	jitter := int64(s.intN(JitterMax-JitterMin+1) + JitterMin)
	return types.Money{Amount: rate.BaseFare + jitter, Currency: rate.Currency}, nil
}
