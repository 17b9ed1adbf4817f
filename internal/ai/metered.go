package ai

import (
	"context"
	"fmt"
)

// Spender charges one unit of quota for uid.
type Spender interface {
	Spend(ctx context.Context, uid string) error
}

// Metered charges the quota before every call to the wrapped extractor.
type Metered struct {
	next  LocationExtractor
	quota Spender
	uid   string
}

func NewMetered(next LocationExtractor, quota Spender, uid string) *Metered {
	return &Metered{next: next, quota: quota, uid: uid}
}

func (m *Metered) ExtractLocations(ctx context.Context, utterance string, currentContext map[string]string) (*LocationResult, error) {
	if err := m.quota.Spend(ctx, m.uid); err != nil {
		return nil, fmt.Errorf("extraction quota: %w", err)
	}
	return m.next.ExtractLocations(ctx, utterance, currentContext)
}

var _ LocationExtractor = (*Metered)(nil)
