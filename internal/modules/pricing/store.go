// README: Pricing store holding the static per-class rate table.
package pricing

import (
	"context"

	"swiftcab/internal/modules/booking"
)

type Store struct {
	rates    map[booking.VehicleClass]Rate
	fallback Rate
}

// NewStore loads the standard rate table priced in currency.
func NewStore(currency string) *Store {
	s := &Store{
		rates:    make(map[booking.VehicleClass]Rate, len(defaultRates)),
		fallback: Rate{BaseFare: DefaultBaseFare, Currency: currency},
	}
	for _, r := range defaultRates {
		r.Currency = currency
		s.rates[r.VehicleClass] = r
	}
	return s
}

// GetRate returns the rate for class, or the default rate for classes outside the table.
func (s *Store) GetRate(ctx context.Context, class booking.VehicleClass) (Rate, error) {
	if r, ok := s.rates[class]; ok {
		return r, nil
	}
	r := s.fallback
	r.VehicleClass = class
	return r, nil
}
