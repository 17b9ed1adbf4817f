// README: Session-scoped checkpoints of the booking under construction.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"swiftcab/internal/modules/booking"
)

var ErrNotFound = errors.New("session checkpoint not found")

// DefaultTTL bounds how long an abandoned checkpoint survives.
const DefaultTTL = 30 * time.Minute

// Snapshot is the booking as of the last confirmed slot.
type Snapshot struct {
	ID        string          `json:"id"`
	Step      booking.Field   `json:"step,omitempty"`
	Request   booking.Request `json:"request"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Store keeps at most one snapshot per session ID.
type Store interface {
	Save(ctx context.Context, snap Snapshot) error
	Load(ctx context.Context, id string) (Snapshot, error)
	Delete(ctx context.Context, id string) error
}

// NewID returns a fresh session identifier.
func NewID() string {
	return uuid.NewString()
}

// MemoryStore is the in-process Store used when no Redis address is configured.
type MemoryStore struct {
	mu    sync.Mutex
	snaps map[string]Snapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snaps: make(map[string]Snapshot)}
}

func (m *MemoryStore) Save(_ context.Context, snap Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snaps[snap.ID] = snap
	return nil
}

func (m *MemoryStore) Load(_ context.Context, id string) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, ok := m.snaps[id]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	return snap, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snaps, id)
	return nil
}

// Len reports how many snapshots are held.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.snaps)
}

var _ Store = (*MemoryStore)(nil)
