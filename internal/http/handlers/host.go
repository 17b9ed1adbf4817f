// README: Hosts the single active booking conversation behind the HTTP API.
package handlers

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"swiftcab/internal/channel"
	"swiftcab/internal/modules/booking"
	"swiftcab/internal/service"
	"swiftcab/internal/session"
)

// Runner runs one booking conversation to completion over ch, checkpointing
// the partial booking under id.
type Runner interface {
	RunSession(ctx context.Context, id string, ch channel.Channel) (*booking.Request, error)
}

const loadTimeout = 2 * time.Second

type Status string

const (
	StatusRunning   Status = "running"
	StatusFinalized Status = "finalized"
	StatusCanceled  Status = "canceled"
	StatusAborted   Status = "aborted"
	StatusFailed    Status = "failed"
)

var (
	ErrSessionActive = errors.New("a booking conversation is already in progress")
	ErrNoSession     = errors.New("no booking conversation")
	ErrSessionEnded  = errors.New("booking conversation has ended")
)

// Snapshot is the externally visible state of the hosted conversation.
type Snapshot struct {
	ID       string            `json:"id"`
	Status   Status            `json:"status"`
	Awaiting bool              `json:"awaiting_reply"`
	Messages []channel.Message `json:"messages"`
	Booking  *booking.Request  `json:"booking,omitempty"`
	// Step is the slot most recently confirmed while the conversation runs.
	Step  booking.Field `json:"step,omitempty"`
	Error string        `json:"error,omitempty"`
}

type hosted struct {
	id     string
	bridge *channel.Bridge
	cancel context.CancelFunc
	done   chan struct{}

	mu      sync.Mutex
	status  Status
	booking *booking.Request
	err     error
}

// Host allows at most one running conversation at a time.
type Host struct {
	runner   Runner
	sessions session.Store
	logger   *zap.Logger

	mu      sync.Mutex
	current *hosted
}

// NewHost hosts conversations run by runner. sessions, when set, is where
// the runner checkpoints; Poll reads the partial booking back from it.
func NewHost(runner Runner, sessions session.Store, logger *zap.Logger) *Host {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Host{runner: runner, sessions: sessions, logger: logger}
}

// Start launches a new conversation unless one is still running.
func (h *Host) Start() (Snapshot, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.current != nil && h.current.running() {
		return Snapshot{}, ErrSessionActive
	}

	// The conversation outlives the request that starts it.
	ctx, cancel := context.WithCancel(context.Background())
	hs := &hosted{
		id:     session.NewID(),
		bridge: channel.NewBridge(),
		cancel: cancel,
		done:   make(chan struct{}),
		status: StatusRunning,
	}
	h.current = hs

	go func() {
		defer close(hs.done)
		defer cancel()
		req, err := h.runner.RunSession(ctx, hs.id, hs.bridge)
		hs.finish(req, err)
		h.logger.Info("conversation ended",
			zap.String("conversation_id", hs.id),
			zap.String("status", string(hs.snapshotStatus())),
			zap.Error(err),
		)
	}()

	h.logger.Info("conversation started", zap.String("conversation_id", hs.id))
	return Snapshot{ID: hs.id, Status: StatusRunning}, nil
}

// Poll drains pending messages and reports the conversation state.
func (h *Host) Poll() (Snapshot, error) {
	hs := h.get()
	if hs == nil {
		return Snapshot{}, ErrNoSession
	}
	msgs := hs.bridge.Drain()
	if msgs == nil {
		msgs = []channel.Message{}
	}

	hs.mu.Lock()
	snap := Snapshot{
		ID:       hs.id,
		Status:   hs.status,
		Awaiting: hs.status == StatusRunning && hs.bridge.Awaiting(),
		Messages: msgs,
		Booking:  hs.booking,
	}
	if hs.err != nil {
		snap.Error = hs.err.Error()
	}
	hs.mu.Unlock()

	if snap.Status == StatusRunning {
		h.loadCheckpoint(&snap)
	}
	return snap, nil
}

// loadCheckpoint fills in the booking as of the last confirmed slot.
func (h *Host) loadCheckpoint(snap *Snapshot) {
	if h.sessions == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()
	cp, err := h.sessions.Load(ctx, snap.ID)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			h.logger.Warn("checkpoint load failed", zap.String("conversation_id", snap.ID), zap.Error(err))
		}
		return
	}
	req := cp.Request
	snap.Booking = &req
	snap.Step = cp.Step
}

// Reply forwards text to the conversation's pending question.
func (h *Host) Reply(text string) error {
	hs := h.get()
	if hs == nil {
		return ErrNoSession
	}
	if !hs.running() {
		return ErrSessionEnded
	}
	return hs.bridge.Reply(text)
}

// Abort stops the running conversation and waits for it to unwind.
func (h *Host) Abort() (Snapshot, error) {
	hs := h.get()
	if hs == nil {
		return Snapshot{}, ErrNoSession
	}
	hs.mu.Lock()
	if hs.status == StatusRunning {
		hs.status = StatusAborted
	}
	hs.mu.Unlock()

	hs.cancel()
	hs.bridge.Close()
	<-hs.done
	return h.Poll()
}

// Shutdown aborts whatever is running. Used on server stop.
func (h *Host) Shutdown() {
	if hs := h.get(); hs != nil {
		hs.cancel()
		hs.bridge.Close()
		<-hs.done
	}
}

// Wait blocks until the current conversation ends or timeout passes.
func (h *Host) Wait(timeout time.Duration) bool {
	hs := h.get()
	if hs == nil {
		return true
	}
	select {
	case <-hs.done:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (h *Host) get() *hosted {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

func (hs *hosted) running() bool {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	return hs.status == StatusRunning
}

func (hs *hosted) snapshotStatus() Status {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	return hs.status
}

func (hs *hosted) finish(req *booking.Request, err error) {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	hs.booking = req

	if hs.status == StatusAborted {
		return
	}
	switch {
	case err == nil:
		hs.status = StatusFinalized
	case errors.Is(err, service.ErrBookingCanceled):
		hs.status = StatusCanceled
	default:
		hs.status = StatusFailed
		hs.err = err
	}
}
