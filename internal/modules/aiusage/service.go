package aiusage

import (
	"context"
	"errors"
	"time"
)

type quotaStore interface {
	Spend(ctx context.Context, uid, month string) error
	EnsureUser(ctx context.Context, uid, month string) error
	Remaining(ctx context.Context, uid, month string) (int, error)
}

// Service orchestrates the monthly extraction quota.
type Service struct {
	store quotaStore
	now   func() time.Time
}

// NewService creates a Service backed by the given Store.
func NewService(store *Store) *Service {
	return newService(store, time.Now)
}

func newService(store quotaStore, now func() time.Time) *Service {
	return &Service{store: store, now: now}
}

// Spend deducts one extraction call from the user's monthly allowance.
// If the user row does not exist yet it is initialised and the call is immediately charged.
// Returns ErrQuotaExhausted when the quota for the current month is used up.
func (s *Service) Spend(ctx context.Context, uid string) error {
	month := s.now().Format(monthLayout)
	err := s.store.Spend(ctx, uid, month)
	if !errors.Is(err, ErrQuotaExhausted) {
		return err
	}

	// Row may be missing: try to create it, then retry the deduction once.
	if initErr := s.store.EnsureUser(ctx, uid, month); initErr != nil {
		return initErr
	}
	return s.store.Spend(ctx, uid, month)
}

// Remaining reports how many extraction calls uid has left this month.
func (s *Service) Remaining(ctx context.Context, uid string) (int, error) {
	return s.store.Remaining(ctx, uid, s.now().Format(monthLayout))
}
